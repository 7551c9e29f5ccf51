package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/jt828/api-relay/pkg/apperror"
	"github.com/jt828/api-relay/pkg/model"
)

// table is one record kind of the in-memory store. Ids start at 1 and are
// never reused, even after a delete.
type table[T any] struct {
	mu   sync.RWMutex
	rows map[int64]T
	seq  int64
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[int64]T)}
}

func (t *table[T]) insert(build func(id int64) T) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seq++
	row := build(t.seq)
	t.rows[t.seq] = row
	return row
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) find(match func(T) bool) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, row := range t.rows {
		if match(row) {
			return row, true
		}
	}
	var zero T
	return zero, false
}

func (t *table[T]) all() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rows := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		rows = append(rows, row)
	}
	return rows
}

func (t *table[T]) update(id int64, mutate func(*T)) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		return row, false
	}
	mutate(&row)
	t.rows[id] = row
	return row, true
}

func (t *table[T]) delete(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	return true
}

// MemoryStore keeps every record kind in process memory. Nothing survives a
// restart. Values are copied on the way in and out so callers can never
// mutate stored records.
type MemoryStore struct {
	requests       *table[model.HistoryRecord]
	configurations *table[model.Configuration]
	users          *table[model.User]
	usersMu        sync.Mutex
	clock          Clock
}

func NewMemoryStore(clock Clock) *MemoryStore {
	if clock == nil {
		clock = SystemClock
	}
	return &MemoryStore{
		requests:       newTable[model.HistoryRecord](),
		configurations: newTable[model.Configuration](),
		users:          newTable[model.User](),
		clock:          clock,
	}
}

func cloneHistoryRecord(r model.HistoryRecord) *model.HistoryRecord {
	r.Headers = headersOrEmpty(r.Headers)
	r.Body = clonePtr(r.Body)
	r.Response = rawOrNil(r.Response)
	r.Status = clonePtr(r.Status)
	r.Duration = clonePtr(r.Duration)
	return &r
}

func cloneConfiguration(c model.Configuration) *model.Configuration {
	c.Description = clonePtr(c.Description)
	c.Endpoints = cloneRawList(c.Endpoints)
	if c.Endpoints == nil {
		c.Endpoints = []json.RawMessage{}
	}
	return &c
}

type memoryRequestRepository struct {
	store *MemoryStore
}

func (r memoryRequestRepository) Get(_ context.Context, id int64) (*model.HistoryRecord, error) {
	record, ok := r.store.requests.get(id)
	if !ok {
		return nil, nil
	}
	return cloneHistoryRecord(record), nil
}

func (r memoryRequestRepository) List(_ context.Context) ([]*model.HistoryRecord, error) {
	rows := r.store.requests.all()
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Timestamp.Equal(rows[j].Timestamp) {
			return rows[i].Timestamp.After(rows[j].Timestamp)
		}
		return rows[i].Id > rows[j].Id
	})
	records := make([]*model.HistoryRecord, len(rows))
	for i := range rows {
		records[i] = cloneHistoryRecord(rows[i])
	}
	return records, nil
}

func (r memoryRequestRepository) Insert(_ context.Context, draft *model.HistoryRecordDraft) (*model.HistoryRecord, error) {
	record := r.store.requests.insert(func(id int64) model.HistoryRecord {
		return *cloneHistoryRecord(model.HistoryRecord{
			Id:        id,
			Method:    draft.Method,
			Url:       draft.Url,
			Headers:   draft.Headers,
			Body:      draft.Body,
			Response:  draft.Response,
			Status:    draft.Status,
			Duration:  draft.Duration,
			Timestamp: r.store.clock(),
		})
	})
	return cloneHistoryRecord(record), nil
}

type memoryConfigurationRepository struct {
	store *MemoryStore
}

func (r memoryConfigurationRepository) Get(_ context.Context, id int64) (*model.Configuration, error) {
	c, ok := r.store.configurations.get(id)
	if !ok {
		return nil, nil
	}
	return cloneConfiguration(c), nil
}

func (r memoryConfigurationRepository) List(_ context.Context) ([]*model.Configuration, error) {
	rows := r.store.configurations.all()
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].Id > rows[j].Id
	})
	configurations := make([]*model.Configuration, len(rows))
	for i := range rows {
		configurations[i] = cloneConfiguration(rows[i])
	}
	return configurations, nil
}

func (r memoryConfigurationRepository) Insert(_ context.Context, draft *model.ConfigurationDraft) (*model.Configuration, error) {
	c := r.store.configurations.insert(func(id int64) model.Configuration {
		return *cloneConfiguration(model.Configuration{
			Id:          id,
			Name:        draft.Name,
			Description: draft.Description,
			Endpoints:   draft.Endpoints,
			CreatedAt:   r.store.clock(),
		})
	})
	return cloneConfiguration(c), nil
}

func (r memoryConfigurationRepository) Update(_ context.Context, id int64, patch *model.ConfigurationPatch) (*model.Configuration, error) {
	c, ok := r.store.configurations.update(id, func(c *model.Configuration) {
		patch.Apply(c)
		*c = *cloneConfiguration(*c)
	})
	if !ok {
		return nil, nil
	}
	return cloneConfiguration(c), nil
}

func (r memoryConfigurationRepository) Delete(_ context.Context, id int64) (bool, error) {
	return r.store.configurations.delete(id), nil
}

type memoryUserRepository struct {
	store *MemoryStore
}

func (r memoryUserRepository) Get(_ context.Context, id int64) (*model.User, error) {
	u, ok := r.store.users.get(id)
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r memoryUserRepository) GetByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := r.store.users.find(func(u model.User) bool { return u.Username == username })
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// Insert rejects a taken username the way the users_username_key constraint
// does on postgres.
func (r memoryUserRepository) Insert(_ context.Context, user *model.User) error {
	r.store.usersMu.Lock()
	defer r.store.usersMu.Unlock()
	if _, taken := r.store.users.find(func(u model.User) bool { return u.Username == user.Username }); taken {
		return apperror.New(apperror.ErrInvalidArgument, "Username already exists", fmt.Errorf("username %q", user.Username))
	}
	created := r.store.users.insert(func(id int64) model.User {
		return model.User{Id: id, Username: user.Username, Password: user.Password}
	})
	user.Id = created.Id
	return nil
}

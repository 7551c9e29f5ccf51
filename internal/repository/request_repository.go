package repository

import (
	"context"
	"errors"

	"github.com/jt828/api-relay/pkg/circuitbreaker"
	"github.com/jt828/api-relay/pkg/model"
	"gorm.io/gorm"
)

type RequestRepository interface {
	Get(ctx context.Context, id int64) (*model.HistoryRecord, error)
	List(ctx context.Context) ([]*model.HistoryRecord, error)
	Insert(ctx context.Context, draft *model.HistoryRecordDraft) (*model.HistoryRecord, error)
}

type RequestRepositoryImpl struct {
	db              *gorm.DB
	cb              circuitbreaker.CircuitBreaker
	clock           Clock
	notFoundAsError bool
}

func NewRequestRepository(db *gorm.DB, cb circuitbreaker.CircuitBreaker, clock Clock, notFoundAsError bool) RequestRepository {
	return &RequestRepositoryImpl{db: db, cb: cb, clock: clock, notFoundAsError: notFoundAsError}
}

func (r *RequestRepositoryImpl) Get(ctx context.Context, id int64) (*model.HistoryRecord, error) {
	result, err := r.cb.Execute(func() (any, error) {
		var entity model.HistoryRecordDataEntity
		if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
			if !r.notFoundAsError && errors.Is(err, gorm.ErrRecordNotFound) {
				return (*model.HistoryRecord)(nil), nil
			}
			return nil, err
		}
		record := entity.ToDomain()
		return &record, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.HistoryRecord), nil
}

func (r *RequestRepositoryImpl) List(ctx context.Context) ([]*model.HistoryRecord, error) {
	result, err := r.cb.Execute(func() (any, error) {
		var entities []model.HistoryRecordDataEntity
		err := r.db.WithContext(ctx).
			Order("timestamp DESC").
			Order("id DESC").
			Find(&entities).Error
		if err != nil {
			return nil, err
		}
		records := make([]*model.HistoryRecord, len(entities))
		for i := range entities {
			record := entities[i].ToDomain()
			records[i] = &record
		}
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.HistoryRecord), nil
}

func (r *RequestRepositoryImpl) Insert(ctx context.Context, draft *model.HistoryRecordDraft) (*model.HistoryRecord, error) {
	result, err := r.cb.Execute(func() (any, error) {
		entity := model.HistoryRecordDataEntity{
			Method:    draft.Method,
			Url:       draft.Url,
			Headers:   headersOrEmpty(draft.Headers),
			Body:      draft.Body,
			Response:  rawOrNil(draft.Response),
			Status:    draft.Status,
			Duration:  draft.Duration,
			Timestamp: r.clock(),
		}
		if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
			return nil, err
		}
		record := entity.ToDomain()
		return &record, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.HistoryRecord), nil
}

package repository

import (
	"context"
	"sync"

	"github.com/jt828/api-relay/pkg/circuitbreaker"
	"gorm.io/gorm"
)

type UnitOfWork interface {
	Commit(ctx context.Context) error
	Abort(ctx context.Context) error
	RequestRepository() RequestRepository
	ConfigurationRepository() ConfigurationRepository
	UserRepository() UserRepository
}

type transactionDbUnitOfWork struct {
	tx                          *gorm.DB
	cb                          circuitbreaker.CircuitBreaker
	clock                       Clock
	requestRepository           RequestRepository
	requestRepositoryOnce       sync.Once
	configurationRepository     ConfigurationRepository
	configurationRepositoryOnce sync.Once
	userRepository              UserRepository
	userRepositoryOnce          sync.Once
}

func (u *transactionDbUnitOfWork) RequestRepository() RequestRepository {
	u.requestRepositoryOnce.Do(func() {
		u.requestRepository = NewRequestRepository(u.tx, u.cb, u.clock, false)
	})
	return u.requestRepository
}

func (u *transactionDbUnitOfWork) ConfigurationRepository() ConfigurationRepository {
	u.configurationRepositoryOnce.Do(func() {
		u.configurationRepository = NewConfigurationRepository(u.tx, u.cb, u.clock, false)
	})
	return u.configurationRepository
}

func (u *transactionDbUnitOfWork) UserRepository() UserRepository {
	u.userRepositoryOnce.Do(func() {
		u.userRepository = NewUserRepository(u.tx, u.cb, false)
	})
	return u.userRepository
}

func (u *transactionDbUnitOfWork) Commit(ctx context.Context) error {
	return u.tx.WithContext(ctx).Commit().Error
}

func (u *transactionDbUnitOfWork) Abort(ctx context.Context) error {
	return u.tx.WithContext(ctx).Rollback().Error
}

// memoryUnitOfWork has nothing to commit: each memory repository call is
// already atomic against its table.
type memoryUnitOfWork struct {
	store *MemoryStore
}

func (u memoryUnitOfWork) RequestRepository() RequestRepository {
	return memoryRequestRepository{store: u.store}
}

func (u memoryUnitOfWork) ConfigurationRepository() ConfigurationRepository {
	return memoryConfigurationRepository{store: u.store}
}

func (u memoryUnitOfWork) UserRepository() UserRepository {
	return memoryUserRepository{store: u.store}
}

func (memoryUnitOfWork) Commit(context.Context) error { return nil }
func (memoryUnitOfWork) Abort(context.Context) error  { return nil }

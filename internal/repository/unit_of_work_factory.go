package repository

import (
	"github.com/jt828/api-relay/pkg/circuitbreaker"
	"gorm.io/gorm"
)

type UnitOfWorkFactory interface {
	New() (UnitOfWork, error)
}

type transactionDbUnitOfWorkFactory struct {
	db    *gorm.DB
	cb    circuitbreaker.CircuitBreaker
	clock Clock
}

func NewTransactionDbUnitOfWorkFactory(db *gorm.DB, cb circuitbreaker.CircuitBreaker, clock Clock) UnitOfWorkFactory {
	if clock == nil {
		clock = SystemClock
	}
	return &transactionDbUnitOfWorkFactory{db: db, cb: cb, clock: clock}
}

func (f *transactionDbUnitOfWorkFactory) New() (UnitOfWork, error) {
	tx := f.db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &transactionDbUnitOfWork{tx: tx, cb: f.cb, clock: f.clock}, nil
}

type memoryUnitOfWorkFactory struct {
	store *MemoryStore
}

func NewMemoryUnitOfWorkFactory(store *MemoryStore) UnitOfWorkFactory {
	return memoryUnitOfWorkFactory{store: store}
}

func (f memoryUnitOfWorkFactory) New() (UnitOfWork, error) {
	return memoryUnitOfWork{store: f.store}, nil
}

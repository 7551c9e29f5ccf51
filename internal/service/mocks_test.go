package service_test

import (
	"context"

	"github.com/jt828/api-relay/internal/repository"
	"github.com/jt828/api-relay/pkg/model"
)

type mockRequestRepository struct {
	getFunc    func(ctx context.Context, id int64) (*model.HistoryRecord, error)
	listFunc   func(ctx context.Context) ([]*model.HistoryRecord, error)
	insertFunc func(ctx context.Context, draft *model.HistoryRecordDraft) (*model.HistoryRecord, error)
}

func (m *mockRequestRepository) Get(ctx context.Context, id int64) (*model.HistoryRecord, error) {
	return m.getFunc(ctx, id)
}

func (m *mockRequestRepository) List(ctx context.Context) ([]*model.HistoryRecord, error) {
	return m.listFunc(ctx)
}

func (m *mockRequestRepository) Insert(ctx context.Context, draft *model.HistoryRecordDraft) (*model.HistoryRecord, error) {
	return m.insertFunc(ctx, draft)
}

type mockUserRepository struct {
	getFunc           func(ctx context.Context, id int64) (*model.User, error)
	getByUsernameFunc func(ctx context.Context, username string) (*model.User, error)
	insertFunc        func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	return m.getFunc(ctx, id)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.getByUsernameFunc(ctx, username)
}

func (m *mockUserRepository) Insert(ctx context.Context, user *model.User) error {
	return m.insertFunc(ctx, user)
}

type mockConfigurationRepository struct {
	repository.ConfigurationRepository
	updateFunc func(ctx context.Context, id int64, patch *model.ConfigurationPatch) (*model.Configuration, error)
}

func (m *mockConfigurationRepository) Update(ctx context.Context, id int64, patch *model.ConfigurationPatch) (*model.Configuration, error) {
	return m.updateFunc(ctx, id, patch)
}

type mockUnitOfWork struct {
	requestRepo       repository.RequestRepository
	configurationRepo repository.ConfigurationRepository
	userRepo          repository.UserRepository
	commitFunc        func(ctx context.Context) error
	abortFunc         func(ctx context.Context) error
}

func (m *mockUnitOfWork) RequestRepository() repository.RequestRepository { return m.requestRepo }
func (m *mockUnitOfWork) ConfigurationRepository() repository.ConfigurationRepository {
	return m.configurationRepo
}
func (m *mockUnitOfWork) UserRepository() repository.UserRepository { return m.userRepo }
func (m *mockUnitOfWork) Commit(ctx context.Context) error          { return m.commitFunc(ctx) }
func (m *mockUnitOfWork) Abort(ctx context.Context) error           { return m.abortFunc(ctx) }

type mockUnitOfWorkFactory struct {
	newFunc func() (repository.UnitOfWork, error)
}

func (m *mockUnitOfWorkFactory) New() (repository.UnitOfWork, error) { return m.newFunc() }

func factoryOf(uow repository.UnitOfWork) *mockUnitOfWorkFactory {
	return &mockUnitOfWorkFactory{newFunc: func() (repository.UnitOfWork, error) { return uow, nil }}
}

package service

import (
	"context"

	"github.com/jt828/api-relay/internal/repository"
	"github.com/jt828/api-relay/pkg/model"
)

// ConfigurationService manages saved request bundles. Get, Update and
// Delete report a missing id as a nil result (or false), not an error.
type ConfigurationService interface {
	ListConfigurations(ctx context.Context) ([]*model.Configuration, error)
	GetConfiguration(ctx context.Context, id int64) (*model.Configuration, error)
	CreateConfiguration(ctx context.Context, draft *model.ConfigurationDraft) (*model.Configuration, error)
	UpdateConfiguration(ctx context.Context, id int64, patch *model.ConfigurationPatch) (*model.Configuration, error)
	DeleteConfiguration(ctx context.Context, id int64) (bool, error)
}

type configurationService struct {
	uowFactory repository.UnitOfWorkFactory
}

func NewConfigurationService(uowFactory repository.UnitOfWorkFactory) ConfigurationService {
	return &configurationService{uowFactory: uowFactory}
}

func (s *configurationService) ListConfigurations(ctx context.Context) ([]*model.Configuration, error) {
	uow, err := s.uowFactory.New()
	if err != nil {
		return nil, err
	}

	configurations, err := uow.ConfigurationRepository().List(ctx)
	if err != nil {
		_ = uow.Abort(ctx)
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return configurations, nil
}

func (s *configurationService) GetConfiguration(ctx context.Context, id int64) (*model.Configuration, error) {
	uow, err := s.uowFactory.New()
	if err != nil {
		return nil, err
	}

	configuration, err := uow.ConfigurationRepository().Get(ctx, id)
	if err != nil {
		_ = uow.Abort(ctx)
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return configuration, nil
}

func (s *configurationService) CreateConfiguration(ctx context.Context, draft *model.ConfigurationDraft) (*model.Configuration, error) {
	uow, err := s.uowFactory.New()
	if err != nil {
		return nil, err
	}

	configuration, err := uow.ConfigurationRepository().Insert(ctx, draft)
	if err != nil {
		_ = uow.Abort(ctx)
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return configuration, nil
}

func (s *configurationService) UpdateConfiguration(ctx context.Context, id int64, patch *model.ConfigurationPatch) (*model.Configuration, error) {
	uow, err := s.uowFactory.New()
	if err != nil {
		return nil, err
	}

	configuration, err := uow.ConfigurationRepository().Update(ctx, id, patch)
	if err != nil {
		_ = uow.Abort(ctx)
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return configuration, nil
}

func (s *configurationService) DeleteConfiguration(ctx context.Context, id int64) (bool, error) {
	uow, err := s.uowFactory.New()
	if err != nil {
		return false, err
	}

	deleted, err := uow.ConfigurationRepository().Delete(ctx, id)
	if err != nil {
		_ = uow.Abort(ctx)
		return false, err
	}

	if err := uow.Commit(ctx); err != nil {
		return false, err
	}

	return deleted, nil
}

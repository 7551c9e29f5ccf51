package service

import (
	"context"

	"github.com/jt828/api-relay/internal/repository"
	"github.com/jt828/api-relay/pkg/model"
)

type RequestService interface {
	ListRequests(ctx context.Context) ([]*model.HistoryRecord, error)
	GetRequest(ctx context.Context, id int64) (*model.HistoryRecord, error)
	CreateRequest(ctx context.Context, draft *model.HistoryRecordDraft) (*model.HistoryRecord, error)
}

type requestService struct {
	uowFactory repository.UnitOfWorkFactory
}

func NewRequestService(uowFactory repository.UnitOfWorkFactory) RequestService {
	return &requestService{uowFactory: uowFactory}
}

func (s *requestService) ListRequests(ctx context.Context) ([]*model.HistoryRecord, error) {
	uow, err := s.uowFactory.New()
	if err != nil {
		return nil, err
	}

	records, err := uow.RequestRepository().List(ctx)
	if err != nil {
		_ = uow.Abort(ctx)
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return records, nil
}

func (s *requestService) GetRequest(ctx context.Context, id int64) (*model.HistoryRecord, error) {
	uow, err := s.uowFactory.New()
	if err != nil {
		return nil, err
	}

	record, err := uow.RequestRepository().Get(ctx, id)
	if err != nil {
		_ = uow.Abort(ctx)
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *requestService) CreateRequest(ctx context.Context, draft *model.HistoryRecordDraft) (*model.HistoryRecord, error) {
	uow, err := s.uowFactory.New()
	if err != nil {
		return nil, err
	}

	record, err := uow.RequestRepository().Insert(ctx, draft)
	if err != nil {
		_ = uow.Abort(ctx)
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return record, nil
}

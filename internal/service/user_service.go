package service

import (
	"context"
	"fmt"

	"github.com/jt828/api-relay/internal/repository"
	"github.com/jt828/api-relay/pkg/apperror"
	"github.com/jt828/api-relay/pkg/model"
)

// UserService is the account store. No HTTP route exposes it and cmd/server
// does not build one; it is used by code that embeds this package directly.
type UserService interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
}

type userService struct {
	uowFactory repository.UnitOfWorkFactory
}

func NewUserService(uowFactory repository.UnitOfWorkFactory) UserService {
	return &userService{uowFactory: uowFactory}
}

func (s *userService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	uow, err := s.uowFactory.New()
	if err != nil {
		return nil, err
	}

	user, err := uow.UserRepository().Get(ctx, id)
	if err != nil {
		_ = uow.Abort(ctx)
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	uow, err := s.uowFactory.New()
	if err != nil {
		return nil, err
	}

	user, err := uow.UserRepository().GetByUsername(ctx, username)
	if err != nil {
		_ = uow.Abort(ctx)
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if user.Username == "" || user.Password == "" {
		return nil, apperror.New(apperror.ErrInvalidArgument, "Invalid user data", fmt.Errorf("username and password are required"))
	}

	uow, err := s.uowFactory.New()
	if err != nil {
		return nil, err
	}

	existing, err := uow.UserRepository().GetByUsername(ctx, user.Username)
	if err != nil {
		_ = uow.Abort(ctx)
		return nil, err
	}
	if existing != nil {
		_ = uow.Abort(ctx)
		return nil, apperror.New(apperror.ErrInvalidArgument, "Username already exists", fmt.Errorf("username %q", user.Username))
	}

	created := &model.User{Username: user.Username, Password: user.Password}
	if err := uow.UserRepository().Insert(ctx, created); err != nil {
		_ = uow.Abort(ctx)
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

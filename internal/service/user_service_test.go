package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jt828/api-relay/internal/service"
	"github.com/jt828/api-relay/pkg/apperror"
	"github.com/jt828/api-relay/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("returns user successfully", func(t *testing.T) {
		expected := &model.User{Id: 1, Username: "alice", Password: "secret"}
		committed := false

		uow := &mockUnitOfWork{
			userRepo: &mockUserRepository{
				getFunc: func(ctx context.Context, id int64) (*model.User, error) {
					assert.Equal(t, int64(1), id)
					return expected, nil
				},
			},
			commitFunc: func(ctx context.Context) error { committed = true; return nil },
			abortFunc:  func(ctx context.Context) error { return nil },
		}

		user, err := service.NewUserService(factoryOf(uow)).GetUser(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, expected, user)
		assert.True(t, committed)
	})

	t.Run("repository error aborts", func(t *testing.T) {
		repoErr := errors.New("db error")
		aborted := false

		uow := &mockUnitOfWork{
			userRepo: &mockUserRepository{
				getByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) { return nil, repoErr },
			},
			commitFunc: func(ctx context.Context) error { t.Fatal("commit should not be called"); return nil },
			abortFunc:  func(ctx context.Context) error { aborted = true; return nil },
		}

		user, err := service.NewUserService(factoryOf(uow)).GetUserByUsername(ctx, "alice")
		assert.Nil(t, user)
		assert.ErrorIs(t, err, repoErr)
		assert.True(t, aborted)
	})
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts a new user", func(t *testing.T) {
		committed := false
		uow := &mockUnitOfWork{
			userRepo: &mockUserRepository{
				getByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) { return nil, nil },
				insertFunc: func(ctx context.Context, user *model.User) error {
					user.Id = 5
					return nil
				},
			},
			commitFunc: func(ctx context.Context) error { committed = true; return nil },
			abortFunc:  func(ctx context.Context) error { return nil },
		}

		user, err := service.NewUserService(factoryOf(uow)).CreateUser(ctx, &model.User{Username: "alice", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, &model.User{Id: 5, Username: "alice", Password: "secret"}, user)
		assert.True(t, committed)
	})

	t.Run("taken username is rejected", func(t *testing.T) {
		aborted := false
		uow := &mockUnitOfWork{
			userRepo: &mockUserRepository{
				getByUsernameFunc: func(ctx context.Context, username string) (*model.User, error) {
					return &model.User{Id: 1, Username: username}, nil
				},
				insertFunc: func(ctx context.Context, user *model.User) error {
					t.Fatal("insert should not be called")
					return nil
				},
			},
			commitFunc: func(ctx context.Context) error { t.Fatal("commit should not be called"); return nil },
			abortFunc:  func(ctx context.Context) error { aborted = true; return nil },
		}

		user, err := service.NewUserService(factoryOf(uow)).CreateUser(ctx, &model.User{Username: "alice", Password: "secret"})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
		assert.True(t, aborted)
	})

	t.Run("blank fields are rejected before opening a unit of work", func(t *testing.T) {
		svc := service.NewUserService(&mockUnitOfWorkFactory{newFunc: nil})

		user, err := svc.CreateUser(ctx, &model.User{Username: "alice"})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
	})
}

package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jt828/api-relay/pkg/apperror"
	"github.com/jt828/api-relay/pkg/circuitbreaker"
	"github.com/jt828/api-relay/pkg/model"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

type UserRepository interface {
	Get(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Insert(ctx context.Context, user *model.User) error
}

type UserRepositoryImpl struct {
	db              *gorm.DB
	cb              circuitbreaker.CircuitBreaker
	notFoundAsError bool
}

func NewUserRepository(db *gorm.DB, cb circuitbreaker.CircuitBreaker, notFoundAsError bool) UserRepository {
	return &UserRepositoryImpl{db: db, cb: cb, notFoundAsError: notFoundAsError}
}

func (r *UserRepositoryImpl) Get(ctx context.Context, id int64) (*model.User, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *UserRepositoryImpl) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.first(ctx, r.db.WithContext(ctx).Where("username = ?", username))
}

func (r *UserRepositoryImpl) first(_ context.Context, query *gorm.DB) (*model.User, error) {
	result, err := r.cb.Execute(func() (any, error) {
		var entity model.UserDataEntity
		if err := query.First(&entity).Error; err != nil {
			if !r.notFoundAsError && errors.Is(err, gorm.ErrRecordNotFound) {
				return (*model.User)(nil), nil
			}
			return nil, err
		}
		u := entity.ToDomain()
		return &u, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.User), nil
}

// Insert assigns user.Id from the table sequence.
func (r *UserRepositoryImpl) Insert(ctx context.Context, user *model.User) error {
	_, err := r.cb.Execute(func() (any, error) {
		entity := model.UserDataEntity{
			Username: user.Username,
			Password: user.Password,
		}
		if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return nil, apperror.New(apperror.ErrInvalidArgument, "Username already exists", err)
			}
			return nil, err
		}
		user.Id = entity.Id
		return nil, nil
	})
	return err
}

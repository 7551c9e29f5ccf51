package repository

import (
	"context"
	"errors"

	"github.com/jt828/api-relay/pkg/circuitbreaker"
	"github.com/jt828/api-relay/pkg/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConfigurationRepository interface {
	Get(ctx context.Context, id int64) (*model.Configuration, error)
	List(ctx context.Context) ([]*model.Configuration, error)
	Insert(ctx context.Context, draft *model.ConfigurationDraft) (*model.Configuration, error)
	// Update returns nil when no configuration has the id.
	Update(ctx context.Context, id int64, patch *model.ConfigurationPatch) (*model.Configuration, error)
	// Delete reports whether a configuration was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}

type ConfigurationRepositoryImpl struct {
	db              *gorm.DB
	cb              circuitbreaker.CircuitBreaker
	clock           Clock
	notFoundAsError bool
}

func NewConfigurationRepository(db *gorm.DB, cb circuitbreaker.CircuitBreaker, clock Clock, notFoundAsError bool) ConfigurationRepository {
	return &ConfigurationRepositoryImpl{db: db, cb: cb, clock: clock, notFoundAsError: notFoundAsError}
}

func (r *ConfigurationRepositoryImpl) Get(ctx context.Context, id int64) (*model.Configuration, error) {
	result, err := r.cb.Execute(func() (any, error) {
		var entity model.ConfigurationDataEntity
		if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
			if !r.notFoundAsError && errors.Is(err, gorm.ErrRecordNotFound) {
				return (*model.Configuration)(nil), nil
			}
			return nil, err
		}
		c := entity.ToDomain()
		return &c, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Configuration), nil
}

func (r *ConfigurationRepositoryImpl) List(ctx context.Context) ([]*model.Configuration, error) {
	result, err := r.cb.Execute(func() (any, error) {
		var entities []model.ConfigurationDataEntity
		err := r.db.WithContext(ctx).
			Order("created_at DESC").
			Order("id DESC").
			Find(&entities).Error
		if err != nil {
			return nil, err
		}
		configurations := make([]*model.Configuration, len(entities))
		for i := range entities {
			c := entities[i].ToDomain()
			configurations[i] = &c
		}
		return configurations, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]*model.Configuration), nil
}

func (r *ConfigurationRepositoryImpl) Insert(ctx context.Context, draft *model.ConfigurationDraft) (*model.Configuration, error) {
	result, err := r.cb.Execute(func() (any, error) {
		entity := model.ConfigurationDataEntity{
			Name:        draft.Name,
			Description: draft.Description,
			Endpoints:   cloneRawList(draft.Endpoints),
			CreatedAt:   r.clock(),
		}
		if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
			return nil, err
		}
		c := entity.ToDomain()
		return &c, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Configuration), nil
}

// Update locks the row for the rest of the surrounding transaction so
// concurrent partial updates cannot drop each other's fields.
func (r *ConfigurationRepositoryImpl) Update(ctx context.Context, id int64, patch *model.ConfigurationPatch) (*model.Configuration, error) {
	result, err := r.cb.Execute(func() (any, error) {
		var entity model.ConfigurationDataEntity
		err := r.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&entity, id).Error
		if err != nil {
			if !r.notFoundAsError && errors.Is(err, gorm.ErrRecordNotFound) {
				return (*model.Configuration)(nil), nil
			}
			return nil, err
		}

		var columns []string
		if patch.Name != nil {
			entity.Name = *patch.Name
			columns = append(columns, "name")
		}
		if patch.Description.Set {
			entity.Description = patch.Description.Value
			columns = append(columns, "description")
		}
		if patch.Endpoints != nil {
			entity.Endpoints = cloneRawList(patch.Endpoints)
			columns = append(columns, "endpoints")
		}

		if len(columns) > 0 {
			err = r.db.WithContext(ctx).
				Model(&entity).
				Select(columns).
				Updates(&entity).Error
			if err != nil {
				return nil, err
			}
		}

		c := entity.ToDomain()
		return &c, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Configuration), nil
}

func (r *ConfigurationRepositoryImpl) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.cb.Execute(func() (any, error) {
		res := r.db.WithContext(ctx).Delete(&model.ConfigurationDataEntity{}, id)
		if res.Error != nil {
			return nil, res.Error
		}
		return res.RowsAffected > 0, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

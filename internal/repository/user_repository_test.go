package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jt828/api-relay/internal/repository"
	"github.com/jt828/api-relay/pkg/apperror"
	"github.com/jt828/api-relay/pkg/circuitbreaker"
	"github.com/jt828/api-relay/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByUsername(t *testing.T) {
	ctx := context.Background()
	cb := circuitbreaker.Passthrough{}

	t.Run("found", func(t *testing.T) {
		gormDB, mock := setupMockDB(t)
		repo := repository.NewUserRepository(gormDB, cb, false)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "main"."users" WHERE username = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password"}).AddRow(4, "alice", "secret"))

		user, err := repo.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, &model.User{Id: 4, Username: "alice", Password: "secret"}, user)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		gormDB, mock := setupMockDB(t)
		repo := repository.NewUserRepository(gormDB, cb, false)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "main"."users" WHERE username = $1`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password"}))

		user, err := repo.GetByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestUserRepository_Insert(t *testing.T) {
	ctx := context.Background()
	cb := circuitbreaker.Passthrough{}

	t.Run("assigns id", func(t *testing.T) {
		gormDB, mock := setupMockDB(t)
		repo := repository.NewUserRepository(gormDB, cb, false)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(
			`INSERT INTO "main"."users" ("username","password") VALUES ($1,$2) RETURNING "id"`,
		)).
			WithArgs("alice", "secret").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
		mock.ExpectCommit()

		user := &model.User{Username: "alice", Password: "secret"}
		require.NoError(t, repo.Insert(ctx, user))
		assert.Equal(t, int64(11), user.Id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate username is an invalid argument", func(t *testing.T) {
		gormDB, mock := setupMockDB(t)
		repo := repository.NewUserRepository(gormDB, cb, false)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "main"."users"`)).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})
		mock.ExpectRollback()

		err := repo.Insert(ctx, &model.User{Username: "alice", Password: "secret"})
		assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
		assert.Equal(t, "Username already exists", apperror.PublicMessage(err, ""))
	})
}

package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jt828/api-relay/internal/repository"
	"github.com/jt828/api-relay/pkg/circuitbreaker"
	"github.com/jt828/api-relay/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(pgdriver.New(pgdriver.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func requestColumns() []string {
	return []string{"id", "method", "url", "headers", "body", "response", "status", "duration", "timestamp"}
}

func TestRequestRepository_Insert(t *testing.T) {
	ctx := context.Background()
	cb := circuitbreaker.Passthrough{}

	t.Run("assigns id and timestamp", func(t *testing.T) {
		gormDB, mock := setupMockDB(t)
		repo := repository.NewRequestRepository(gormDB, cb, fixedClock, false)

		status := 200
		duration := int64(42)
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(
			`INSERT INTO "main"."api_requests" ("method","url","headers","body","response","status","duration","timestamp") VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING "id"`,
		)).
			WithArgs("GET", "https://example.com/a", `{"accept":"*/*"}`, nil, `{"ok":true}`, 200, int64(42), fixedNow).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
		mock.ExpectCommit()

		record, err := repo.Insert(ctx, &model.HistoryRecordDraft{
			Method:   "GET",
			Url:      "https://example.com/a",
			Headers:  map[string]string{"accept": "*/*"},
			Response: []byte(`{"ok":true}`),
			Status:   &status,
			Duration: &duration,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), record.Id)
		assert.Equal(t, fixedNow, record.Timestamp)
		assert.Nil(t, record.Body)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing headers are stored as an empty object", func(t *testing.T) {
		gormDB, mock := setupMockDB(t)
		repo := repository.NewRequestRepository(gormDB, cb, fixedClock, false)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "main"."api_requests"`)).
			WithArgs("POST", "https://example.com", `{}`, nil, sqlmock.AnyArg(), nil, nil, fixedNow).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		record, err := repo.Insert(ctx, &model.HistoryRecordDraft{Method: "POST", Url: "https://example.com"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{}, record.Headers)
		assert.Nil(t, record.Status)
		assert.Nil(t, record.Duration)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert error is propagated", func(t *testing.T) {
		gormDB, mock := setupMockDB(t)
		repo := repository.NewRequestRepository(gormDB, cb, fixedClock, false)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "main"."api_requests"`)).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		record, err := repo.Insert(ctx, &model.HistoryRecordDraft{Method: "GET", Url: "https://example.com"})
		assert.Nil(t, record)
		assert.ErrorContains(t, err, "connection reset")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRequestRepository_List(t *testing.T) {
	ctx := context.Background()
	cb := circuitbreaker.Passthrough{}

	t.Run("orders newest first", func(t *testing.T) {
		gormDB, mock := setupMockDB(t)
		repo := repository.NewRequestRepository(gormDB, cb, fixedClock, false)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "main"."api_requests" ORDER BY timestamp DESC,id DESC`)).
			WillReturnRows(
				sqlmock.NewRows(requestColumns()).
					AddRow(2, "GET", "https://b", []byte(`{}`), nil, []byte(`"text"`), 404, 5, fixedNow).
					AddRow(1, "GET", "https://a", nil, "x", nil, nil, nil, fixedNow.Add(-time.Minute)),
			)

		records, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, int64(2), records[0].Id)
		assert.Equal(t, 404, *records[0].Status)
		assert.JSONEq(t, `"text"`, string(records[0].Response))
		assert.Equal(t, int64(1), records[1].Id)
		assert.Equal(t, map[string]string{}, records[1].Headers)
		assert.Equal(t, "x", *records[1].Body)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table yields empty list", func(t *testing.T) {
		gormDB, mock := setupMockDB(t)
		repo := repository.NewRequestRepository(gormDB, cb, fixedClock, false)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "main"."api_requests"`)).
			WillReturnRows(sqlmock.NewRows(requestColumns()))

		records, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})
}

func TestRequestRepository_Get(t *testing.T) {
	ctx := context.Background()
	cb := circuitbreaker.Passthrough{}

	t.Run("missing record is nil", func(t *testing.T) {
		gormDB, mock := setupMockDB(t)
		repo := repository.NewRequestRepository(gormDB, cb, fixedClock, false)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "main"."api_requests" WHERE`)).
			WillReturnRows(sqlmock.NewRows(requestColumns()))

		record, err := repo.Get(ctx, 9)
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("missing record is an error with notFoundAsError", func(t *testing.T) {
		gormDB, mock := setupMockDB(t)
		repo := repository.NewRequestRepository(gormDB, cb, fixedClock, true)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "main"."api_requests"`)).
			WillReturnRows(sqlmock.NewRows(requestColumns()))

		record, err := repo.Get(ctx, 9)
		assert.Nil(t, record)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

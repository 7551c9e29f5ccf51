package interceptor_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jt828/api-relay/internal/interceptor"
	"github.com/jt828/api-relay/pkg/apperror"
	"github.com/jt828/api-relay/pkg/observability"
	obsImpl "github.com/jt828/api-relay/pkg/observability/implementation"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLogger struct {
	errorCalls []struct {
		msg    string
		fields []observability.Field
	}
}

func (m *mockLogger) Debug(msg string, fields ...observability.Field) {}
func (m *mockLogger) Error(msg string, fields ...observability.Field) {
	m.errorCalls = append(m.errorCalls, struct {
		msg    string
		fields []observability.Field
	}{msg, fields})
}
func (m *mockLogger) Fatal(msg string, fields ...observability.Field)         {}
func (m *mockLogger) Info(msg string, fields ...observability.Field)          {}
func (m *mockLogger) Warn(msg string, fields ...observability.Field)          {}
func (m *mockLogger) With(fields ...observability.Field) observability.Logger { return m }

type fixedSnowflake struct{ id int64 }

func (f fixedSnowflake) Generate() int64 { return f.id }

func serve(h http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]string) {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	body := map[string]string{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestErrorHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/things", nil)

	t.Run("no error passes through unchanged", func(t *testing.T) {
		log := &mockLogger{}
		h := interceptor.ErrorHandler(log)(func(w http.ResponseWriter, r *http.Request) error {
			interceptor.WriteJSON(w, http.StatusOK, map[string]string{"ok": "yes"})
			return nil
		})

		rec, body := serve(h, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "yes", body["ok"])
		assert.Len(t, log.errorCalls, 0)
	})

	t.Run("ErrNotFound maps to 404 with its public message", func(t *testing.T) {
		log := &mockLogger{}
		h := interceptor.ErrorHandler(log)(func(w http.ResponseWriter, r *http.Request) error {
			return apperror.New(apperror.ErrNotFound, "Configuration not found", nil)
		})

		rec, body := serve(h, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Configuration not found", body["error"])
		assert.Len(t, log.errorCalls, 0)
	})

	t.Run("wrapped ErrInvalidArgument maps to 400", func(t *testing.T) {
		log := &mockLogger{}
		h := interceptor.ErrorHandler(log)(func(w http.ResponseWriter, r *http.Request) error {
			return fmt.Errorf("decode: %w", apperror.ErrInvalidArgument)
		})

		rec, body := serve(h, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid request", body["error"])
	})

	t.Run("unknown errors map to 500 and are logged", func(t *testing.T) {
		log := &mockLogger{}
		h := interceptor.ErrorHandler(log)(func(w http.ResponseWriter, r *http.Request) error {
			return apperror.New(apperror.ErrInternal, "Failed to fetch requests", errors.New("connection refused"))
		})

		rec, body := serve(h, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to fetch requests", body["error"])
		require.Len(t, log.errorCalls, 1)
		assert.Equal(t, "unhandled error", log.errorCalls[0].msg)
	})

	t.Run("cause never leaks into the response", func(t *testing.T) {
		h := interceptor.ErrorHandler(&mockLogger{})(func(w http.ResponseWriter, r *http.Request) error {
			return errors.New("pq: password authentication failed")
		})

		rec, body := serve(h, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", body["error"])
	})

	t.Run("panic is recovered as 500", func(t *testing.T) {
		log := &mockLogger{}
		h := interceptor.ErrorHandler(log)(func(w http.ResponseWriter, r *http.Request) error {
			panic("boom")
		})

		rec, body := serve(h, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", body["error"])
		require.Len(t, log.errorCalls, 1)
		assert.Equal(t, "panic recovered", log.errorCalls[0].msg)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := interceptor.RequestID(fixedSnowflake{id: 42})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetReqID(r.Context())
	}))

	t.Run("generates an id", func(t *testing.T) {
		rec, _ := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, "42", seen)
		assert.Equal(t, "42", rec.Header().Get(interceptor.RequestIDHeader))
	})

	t.Run("keeps the caller's id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(interceptor.RequestIDHeader, "abc")
		rec, _ := serve(h, req)
		assert.Equal(t, "abc", seen)
		assert.Equal(t, "abc", rec.Header().Get(interceptor.RequestIDHeader))
	})
}

func TestMetrics(t *testing.T) {
	meter := obsImpl.NewPrometheusMeter()
	r := chi.NewRouter()
	r.Use(interceptor.Metrics(meter))
	r.Get("/api/configurations/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"1", "2"} {
		serve(r, httptest.NewRequest(http.MethodGet, "/api/configurations/"+id, nil))
	}

	reg := obsImpl.PromRegistry(meter)
	require.NotNil(t, reg)
	count, err := testutil.GatherAndCount(reg, "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

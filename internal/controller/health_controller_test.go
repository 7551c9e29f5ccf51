package controller_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jt828/api-relay/internal/controller"
	"github.com/jt828/api-relay/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthController(t *testing.T) {
	ctx := context.Background()
	probe := func(h *controller.HealthController) int {
		rec := httptest.NewRecorder()
		require.NoError(t, h.Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil)))
		return rec.Code
	}

	t.Run("not serving until the first check", func(t *testing.T) {
		h := controller.NewHealthController(stubPinger{}, observability.NopLogger{})
		assert.Equal(t, http.StatusServiceUnavailable, probe(h))

		assert.True(t, h.Check(ctx))
		assert.Equal(t, http.StatusOK, probe(h))
	})

	t.Run("failed ping marks not serving", func(t *testing.T) {
		h := controller.NewHealthController(stubPinger{err: errors.New("down")}, observability.NopLogger{})
		assert.False(t, h.Check(ctx))
		assert.Equal(t, http.StatusServiceUnavailable, probe(h))
	})

	t.Run("shutdown flips the probe", func(t *testing.T) {
		h := controller.NewHealthController(stubPinger{}, observability.NopLogger{})
		h.Check(ctx)
		h.SetNotServing()
		assert.Equal(t, http.StatusServiceUnavailable, probe(h))
	})
}

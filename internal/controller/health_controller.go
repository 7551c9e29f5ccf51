package controller

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/jt828/api-relay/internal/interceptor"
	"github.com/jt828/api-relay/pkg/observability"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status string `json:"status"`
}

// HealthController serves the last known store status. Watch refreshes it
// in the background so probes never wait on the database.
type HealthController struct {
	pinger  Pinger
	log     observability.Logger
	serving atomic.Bool
}

func NewHealthController(pinger Pinger, log observability.Logger) *HealthController {
	return &HealthController{pinger: pinger, log: log}
}

func (ctrl *HealthController) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	err := ctrl.pinger.Ping(ctx)
	serving := err == nil
	if ctrl.serving.Swap(serving) != serving {
		if serving {
			ctrl.log.Info("store reachable, serving")
		} else {
			ctrl.log.Error("store ping failed, marked as not serving", observability.Err(err))
		}
	}
	return serving
}

// Watch re-checks the store every interval until ctx is done.
func (ctrl *HealthController) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ctrl.Check(ctx)
		}
	}
}

// SetNotServing flips the probe before shutdown.
func (ctrl *HealthController) SetNotServing() {
	ctrl.serving.Store(false)
}

func (ctrl *HealthController) Health(w http.ResponseWriter, r *http.Request) error {
	if !ctrl.serving.Load() {
		interceptor.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "NOT_SERVING"})
		return nil
	}
	interceptor.WriteJSON(w, http.StatusOK, healthResponse{Status: "SERVING"})
	return nil
}

package interceptor

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jt828/api-relay/pkg/observability"
)

// Metrics records request count and latency per route pattern, so
// /api/configurations/1 and /api/configurations/2 share one series.
func Metrics(meter observability.Meter) func(http.Handler) http.Handler {
	requests := meter.Counter("http_requests_total", observability.MetricOpt{
		Help:      "HTTP requests by route and status code.",
		LabelKeys: []string{"method", "route", "code"},
	})
	latency := meter.Histogram("http_request_duration_seconds", observability.MetricOpt{
		Help:      "HTTP request latency by route.",
		LabelKeys: []string{"method", "route"},
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			requests.Inc(1,
				observability.Label{Key: "method", Value: r.Method},
				observability.Label{Key: "route", Value: route},
				observability.Label{Key: "code", Value: strconv.Itoa(status)},
			)
			latency.Observe(time.Since(start).Seconds(),
				observability.Label{Key: "method", Value: r.Method},
				observability.Label{Key: "route", Value: route},
			)
		})
	}
}

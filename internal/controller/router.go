package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jt828/api-relay/internal/interceptor"
	"github.com/jt828/api-relay/pkg/observability"
	"github.com/jt828/api-relay/pkg/snowflake"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Controllers struct {
	Requests       *RequestController
	Configurations *ConfigurationController
	Proxy          *ProxyController
	Health         *HealthController
}

func NewRouter(obs observability.Observability, node snowflake.Snowflake, c Controllers) http.Handler {
	handle := interceptor.ErrorHandler(obs.Logger())

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(interceptor.RequestID(node))
	r.Use(interceptor.Metrics(obs.Meter()))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", interceptor.RequestIDHeader},
		ExposedHeaders: []string{interceptor.RequestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		interceptor.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		interceptor.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/healthz", handle(c.Health.Health))

	r.Route("/api", func(r chi.Router) {
		r.Get("/requests", handle(c.Requests.ListRequests))
		r.Post("/requests", handle(c.Requests.CreateRequest))
		r.Get("/requests/{id}", handle(c.Requests.GetRequest))

		r.Get("/configurations", handle(c.Configurations.ListConfigurations))
		r.Post("/configurations", handle(c.Configurations.CreateConfiguration))
		r.Get("/configurations/{id}", handle(c.Configurations.GetConfiguration))
		r.Put("/configurations/{id}", handle(c.Configurations.UpdateConfiguration))
		r.Delete("/configurations/{id}", handle(c.Configurations.DeleteConfiguration))

		r.Post("/proxy", handle(c.Proxy.Proxy))
	})

	return otelhttp.NewHandler(r, "api-relay",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return operation + " " + r.Method
		}),
	)
}

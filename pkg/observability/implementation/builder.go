package implementation

import (
	"context"

	"github.com/jt828/api-relay/pkg/observability"
)

type Config struct {
	ServiceName    string
	ServiceVersion string
	LogLevel       string
	// MetricsAddr is where /metrics is served; empty disables the listener.
	MetricsAddr string
	// OTLPEndpoint is the collector address; empty installs a noop tracer.
	OTLPEndpoint string
}

func NewObservability(cfg Config) (observability.Observability, error) {
	log, err := NewZapLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	meter := NewPrometheusMeter()

	tracer, shutdown, err := NewOtelTracer(context.Background(), cfg.ServiceName, cfg.ServiceVersion, cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}

	return &observabilityImplementation{
		log:         log,
		meter:       meter,
		tracer:      tracer,
		traceClose:  shutdown,
		metricsAddr: cfg.MetricsAddr,
	}, nil
}

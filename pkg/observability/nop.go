package observability

import "context"

// Nop returns an Observability that discards everything. Tests and tools that
// do not care about telemetry use it.
func Nop() Observability { return nopObservability{} }

type nopObservability struct{}

func (nopObservability) Close(context.Context) error { return nil }
func (nopObservability) Logger() Logger              { return NopLogger{} }
func (nopObservability) Meter() Meter                { return NopMeter{} }
func (nopObservability) Start(context.Context) error { return nil }
func (nopObservability) Tracer() Tracer              { return NopTracer{} }

type NopLogger struct{}

func (NopLogger) Debug(string, ...Field)  {}
func (NopLogger) Info(string, ...Field)   {}
func (NopLogger) Warn(string, ...Field)   {}
func (NopLogger) Error(string, ...Field)  {}
func (NopLogger) Fatal(string, ...Field)  {}
func (l NopLogger) With(...Field) Logger  { return l }

type NopMeter struct{}

func (NopMeter) Counter(string, ...MetricOpt) Counter     { return nopInstrument{} }
func (NopMeter) Histogram(string, ...MetricOpt) Histogram { return nopInstrument{} }
func (NopMeter) Gauge(string, ...MetricOpt) Gauge         { return nopInstrument{} }
func (NopMeter) Timer(string, ...MetricOpt) Timer         { return nopInstrument{} }

type nopInstrument struct{}

func (nopInstrument) Inc(float64, ...Label)     {}
func (nopInstrument) Observe(float64, ...Label) {}
func (nopInstrument) Set(float64, ...Label)     {}
func (nopInstrument) Add(float64, ...Label)     {}
func (nopInstrument) Start(...Label) func()     { return func() {} }

type NopTracer struct{}

func (NopTracer) Start(ctx context.Context, _ string, _ ...Label) (context.Context, Span) {
	return ctx, nopSpan{}
}

type nopSpan struct{}

func (nopSpan) End()                  {}
func (nopSpan) RecordError(error)     {}
func (nopSpan) SetAttributes(...Label) {}

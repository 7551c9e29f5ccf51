package observability

import "context"

type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Label) (context.Context, Span)
}

type Span interface {
	End()
	RecordError(err error)
	SetAttributes(attrs ...Label)
}

package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/AnatoleLucet/reactive"

// SpanFlush is the name of the span wrapping one job queue flush.
const SpanFlush = "reactive.flush"

// Tracer emits the runtime's spans.
type Tracer struct {
	tracer trace.Tracer
}

// New returns a Tracer backed by tp, or by the global provider when tp is nil.
// A disabled Tracer uses the no-op provider.
func New(tp trace.TracerProvider, enabled bool) *Tracer {
	switch {
	case !enabled:
		tp = noop.NewTracerProvider()
	case tp == nil:
		tp = otel.GetTracerProvider()
	}

	return &Tracer{tracer: tp.Tracer(instrumentationName)}
}

// StartFlush opens the span for a flush of queued jobs.
func (t *Tracer) StartFlush(ctx context.Context, pending int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanFlush, trace.WithAttributes(
		attribute.Int("reactive.jobs.pending", pending),
	))
}

// EndFlush records the flush outcome and ends the span.
func EndFlush(span trace.Span, ran int, err error) {
	span.SetAttributes(attribute.Int("reactive.jobs.ran", ran))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

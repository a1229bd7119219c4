package telemetry

import (
	"context"

	"go.trai.ch/chtl/internal/core/ports"
)

var (
	_ ports.Tracer = (*NoOpTracer)(nil)
	_ ports.Span   = noopSpan{}
)

// NoOpTracer discards every span. Sessions use it when tracing is not wired,
// for example in tests of the app layer.
type NoOpTracer struct{}

// NewNoOpTracer creates a new NoOpTracer.
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

// Start returns ctx unchanged with a span that records nothing.
func (t *NoOpTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, noopSpan{}
}

// EmitPlan ignores the resolution plan.
func (t *NoOpTracer) EmitPlan(context.Context, []string) {}

type noopSpan struct{}

func (noopSpan) End()                     {}
func (noopSpan) RecordError(error)        {}
func (noopSpan) SetAttribute(string, any) {}

// Write swallows span output.
func (noopSpan) Write(p []byte) (int, error) {
	return len(p), nil
}

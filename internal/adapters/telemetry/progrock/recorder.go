// Package progrock provides a ports.Tracer that records spans as Progrock vertices.
package progrock

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/chtl/internal/core/ports"
)

var _ ports.Tracer = (*Recorder)(nil)

// Recorder implements ports.Tracer using the progrock library.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder
	seq atomic.Uint64
}

// New creates a new Recorder with a default tape.
func New() *Recorder {
	return NewRecorder(progrock.NewTape())
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Start records a new vertex. Every call gets its own digest, so repeated span
// names never collapse into one vertex.
func (r *Recorder) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	d := digest.FromString(fmt.Sprintf("%s#%d", name, r.seq.Add(1)))
	v := &Vertex{vertex: r.rec.Vertex(d, name)}
	for k, val := range cfg.Attributes {
		v.SetAttribute(k, val)
	}
	return ctx, v
}

// EmitPlan records the processing order of a batch as a completed vertex.
func (r *Recorder) EmitPlan(_ context.Context, targets []string) {
	d := digest.FromString(fmt.Sprintf("plan#%d", r.seq.Add(1)))
	v := r.rec.Vertex(d, fmt.Sprintf("plan: %d imports", len(targets)))
	if len(targets) > 0 {
		_, _ = fmt.Fprintln(v.Stdout(), strings.Join(targets, "\n"))
	}
	v.Done(nil)
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

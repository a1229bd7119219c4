package progrock

import (
	"fmt"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/chtl/internal/core/ports"
)

var _ ports.Span = (*Vertex)(nil)

// Vertex implements ports.Span wrapping *progrock.VertexRecorder.
// An import.cached attribute set to true marks the vertex as a cache hit.
type Vertex struct {
	vertex *progrock.VertexRecorder

	mu  sync.Mutex
	err error
}

// Write sends p to the vertex's standard output stream.
func (v *Vertex) Write(p []byte) (int, error) {
	return v.vertex.Stdout().Write(p)
}

// SetAttribute records the attribute on the vertex output.
func (v *Vertex) SetAttribute(key string, value any) {
	if key == ports.AttrImportCached {
		if cached, ok := value.(bool); ok && cached {
			v.vertex.Cached()
		}
		return
	}
	_, _ = fmt.Fprintf(v.vertex.Stdout(), "%s=%v\n", key, value)
}

// RecordError remembers err; the vertex completes with it on End.
func (v *Vertex) RecordError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err == nil {
		v.err = err
	}
}

// End marks the vertex as finished.
func (v *Vertex) End() {
	v.mu.Lock()
	err := v.err
	v.mu.Unlock()
	v.vertex.Done(err)
}

package graphviz

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the DOT renderer Graft node.
const NodeID graft.ID = "adapter.graphviz"

func init() {
	graft.Register(graft.Node[*Renderer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Renderer, error) {
			return NewRenderer("chtl imports"), nil
		},
	})
}

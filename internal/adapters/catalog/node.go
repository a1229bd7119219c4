package catalog

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/chtl/internal/adapters/fs"
	"go.trai.ch/chtl/internal/core/ports"
)

// NodeID is the unique identifier for the module catalog factory Graft node.
const NodeID graft.ID = "adapter.catalog"

func init() {
	graft.Register(graft.Node[ports.ModuleCatalogFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WalkerNodeID},
		Run: func(ctx context.Context) (ports.ModuleCatalogFactory, error) {
			walker, err := graft.Dep[*fs.Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(walker), nil
		},
	})
}

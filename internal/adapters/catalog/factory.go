package catalog

import (
	"go.trai.ch/chtl/internal/adapters/fs"
	"go.trai.ch/chtl/internal/core/ports"
)

var _ ports.ModuleCatalogFactory = (*Factory)(nil)

// Factory builds a Catalog per compilation run, since the module root comes from
// the run's configuration.
type Factory struct {
	walker *fs.Walker
}

// NewFactory creates a new Factory.
func NewFactory(walker *fs.Walker) *Factory {
	return &Factory{walker: walker}
}

// New scans root and returns its catalog.
func (f *Factory) New(root string, exts []string) *Catalog {
	return New(f.walker, root, exts)
}

// ForRoot implements ports.ModuleCatalogFactory.
func (f *Factory) ForRoot(root string, exts []string) ports.ModuleCatalog {
	return f.New(root, exts)
}

// Package catalog indexes the modules available under a module root directory.
package catalog

import (
	"path"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/chtl/internal/adapters/fs"
	"go.trai.ch/chtl/internal/core/ports"
)

var _ ports.ModuleCatalog = (*Catalog)(nil)

// Catalog maps module names, written relative to the module root, to their paths.
// Directories are modules too so that wildcard imports can address them.
type Catalog struct {
	walker *fs.Walker
	root   string
	exts   []string

	mu      sync.RWMutex
	modules map[string]string
}

// New scans root and returns the catalog of every file with one of exts and every directory.
// A missing root yields an empty catalog.
func New(walker *fs.Walker, root string, exts []string) *Catalog {
	c := &Catalog{
		walker: walker,
		root:   filepath.Clean(root),
		exts:   exts,
	}
	c.Refresh()
	return c
}

// Refresh rescans the module root.
func (c *Catalog) Refresh() {
	modules := make(map[string]string)
	for file := range c.walker.WalkFiles(c.root, c.exts, nil) {
		c.add(modules, file)
	}
	for dir := range c.walker.WalkDirs(c.root, nil) {
		if dir != c.root {
			c.add(modules, dir)
		}
	}

	c.mu.Lock()
	c.modules = modules
	c.mu.Unlock()
}

func (c *Catalog) add(modules map[string]string, p string) {
	rel, err := filepath.Rel(c.root, p)
	if err != nil {
		return
	}
	modules[filepath.ToSlash(rel)] = filepath.ToSlash(p)
}

// Root returns the scanned module root.
func (c *Catalog) Root() string {
	return c.root
}

// IsKnownModule reports whether name exists below the module root.
func (c *Catalog) IsKnownModule(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.modules[path.Clean(name)]
	return ok
}

// ModulePathFor returns the path of the named module, or the name joined to the
// module root when the module is unknown.
func (c *Catalog) ModulePathFor(name string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	name = path.Clean(name)
	if p, ok := c.modules[name]; ok {
		return p
	}
	return path.Join(filepath.ToSlash(c.root), name)
}

// Modules returns every known module name in sorted order.
func (c *Catalog) Modules() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.modules))
	for name := range c.modules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

package ports

// ModuleCatalog knows which module names exist under the configured module root.
//
//go:generate mockgen -source=catalog.go -destination=mocks/mock_catalog.go -package=mocks
type ModuleCatalog interface {
	// IsKnownModule reports whether name resolves to a module under the module root.
	IsKnownModule(name string) bool
	// ModulePathFor returns the module-root-relative path for name.
	ModulePathFor(name string) string
}

// ModuleCatalogFactory builds the module catalog of one compilation run.
type ModuleCatalogFactory interface {
	// ForRoot scans root for modules with one of exts.
	ForRoot(root string, exts []string) ModuleCatalog
}

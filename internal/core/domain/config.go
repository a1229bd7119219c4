package domain

// DefaultExtensions are probed, in order, for import spellings without an extension.
var DefaultExtensions = []string{".chtl", ".html", ".css", ".js"}

// DefaultCacheCapacity bounds the resolver content cache when none is configured.
const DefaultCacheCapacity = 512

// Config is the per-run context handed to the canonicalizer and resolver.
type Config struct {
	ModuleRoot    string
	WorkingDir    string
	Policy        ResolutionPolicy
	CacheEnabled  bool
	CacheCapacity int
	Extensions    []string
}

// DefaultConfig returns the configuration used when no chtl.yaml exists.
func DefaultConfig(workingDir string) Config {
	return Config{
		ModuleRoot:    "module",
		WorkingDir:    workingDir,
		Policy:        PolicyModuleFirst,
		CacheEnabled:  true,
		CacheCapacity: DefaultCacheCapacity,
		Extensions:    append([]string(nil), DefaultExtensions...),
	}
}

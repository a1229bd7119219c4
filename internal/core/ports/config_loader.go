package ports

import "go.trai.ch/chtl/internal/core/domain"

// ConfigLoader defines the interface for loading the per-run configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration for the given working directory.
	// An empty file means the default chtl.yaml in cwd.
	Load(cwd, file string) (domain.Config, error)
}

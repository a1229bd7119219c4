// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/chtl/internal/adapters/catalog"
	_ "go.trai.ch/chtl/internal/adapters/config"
	_ "go.trai.ch/chtl/internal/adapters/extractor"
	_ "go.trai.ch/chtl/internal/adapters/fs"
	_ "go.trai.ch/chtl/internal/adapters/graphviz"
	_ "go.trai.ch/chtl/internal/adapters/logger"
	_ "go.trai.ch/chtl/internal/adapters/metrics"
	_ "go.trai.ch/chtl/internal/adapters/telemetry"
	_ "go.trai.ch/chtl/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/chtl/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/chtl/internal/app"
)

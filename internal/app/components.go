package app

import (
	"go.trai.ch/chtl/internal/adapters/logger"            //nolint:depguard // Wired in app layer
	"go.trai.ch/chtl/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/chtl/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App          *App
	Logger       *logger.Logger
	ConfigLoader ports.ConfigLoader
	Progress     *progrock.Recorder
}

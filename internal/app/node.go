package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/chtl/internal/adapters/catalog"            //nolint:depguard // Wired in app layer
	"go.trai.ch/chtl/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/chtl/internal/adapters/extractor"          //nolint:depguard // Wired in app layer
	"go.trai.ch/chtl/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/chtl/internal/adapters/graphviz"           //nolint:depguard // Wired in app layer
	"go.trai.ch/chtl/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/chtl/internal/adapters/metrics"            //nolint:depguard // Wired in app layer
	"go.trai.ch/chtl/internal/adapters/telemetry"          //nolint:depguard // Wired in app layer
	"go.trai.ch/chtl/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/chtl/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/chtl/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			fs.FileSystemNodeID,
			catalog.NodeID,
			extractor.NodeID,
			telemetry.TracerNodeID,
			watcher.NodeID,
			metrics.NodeID,
			graphviz.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	log, err := graft.Dep[*logger.Logger](ctx)
	if err != nil {
		return nil, err
	}

	fsys, err := graft.Dep[ports.FileSystem](ctx)
	if err != nil {
		return nil, err
	}

	catalogs, err := graft.Dep[ports.ModuleCatalogFactory](ctx)
	if err != nil {
		return nil, err
	}

	ext, err := graft.Dep[ports.ImportExtractor](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	collector, err := graft.Dep[*metrics.Collector](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[*graphviz.Renderer](ctx)
	if err != nil {
		return nil, err
	}

	return New(log, fsys, catalogs, ext, tracer, w, collector, renderer), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[*logger.Logger](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	progress, err := graft.Dep[*progrock.Recorder](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:          app,
		Logger:       log,
		ConfigLoader: loader,
		Progress:     progress,
	}, nil
}

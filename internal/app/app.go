// Package app implements the application layer for chtl.
package app

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/google/uuid"
	"go.trai.ch/chtl/internal/adapters/graphviz" //nolint:depguard // Wired in app layer
	"go.trai.ch/chtl/internal/adapters/metrics"  //nolint:depguard // Wired in app layer
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/chtl/internal/core/ports"
	"go.trai.ch/chtl/internal/engine/canonical"
	"go.trai.ch/chtl/internal/engine/filestore"
	"go.trai.ch/chtl/internal/engine/resolver"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	logger    ports.Logger
	fs        ports.FileSystem
	catalogs  ports.ModuleCatalogFactory
	extractor ports.ImportExtractor
	tracer    ports.Tracer
	watcher   ports.Watcher
	metrics   *metrics.Collector
	renderer  *graphviz.Renderer
}

// New creates a new App instance.
func New(
	logger ports.Logger,
	fs ports.FileSystem,
	catalogs ports.ModuleCatalogFactory,
	extractor ports.ImportExtractor,
	tracer ports.Tracer,
	watcher ports.Watcher,
	collector *metrics.Collector,
	renderer *graphviz.Renderer,
) *App {
	return &App{
		logger:    logger,
		fs:        fs,
		catalogs:  catalogs,
		extractor: extractor,
		tracer:    tracer,
		watcher:   watcher,
		metrics:   collector,
		renderer:  renderer,
	}
}

// WithTracer returns a copy of the App whose sessions report spans to tracer.
func (a *App) WithTracer(tracer ports.Tracer) *App {
	c := *a
	c.tracer = tracer
	return &c
}

// Metrics returns the collector every session reports to.
func (a *App) Metrics() *metrics.Collector {
	return a.metrics
}

// Session is one compilation run: its own canonicalizer, file store and resolver.
type Session struct {
	ID       string
	Config   domain.Config
	Canon    *canonical.Canonicalizer
	Store    *filestore.Store
	Resolver *resolver.Resolver

	app *App
}

// NewSession builds a fresh compilation run for cfg.
func (a *App) NewSession(cfg domain.Config) (*Session, error) {
	return a.newSession(cfg, filestore.New(a.fs))
}

// newSession builds a run over an existing store, so unchanged files stay cached
// between watch iterations.
func (a *App) newSession(cfg domain.Config, store *filestore.Store) (*Session, error) {
	root := filepath.FromSlash(cfg.ModuleRoot)
	if !filepath.IsAbs(root) {
		root = filepath.Join(filepath.FromSlash(cfg.WorkingDir), root)
	}
	catalog := a.catalogs.ForRoot(root, cfg.Extensions)
	canon := canonical.New(a.fs, catalog, cfg)

	res, err := resolver.New(canon, store, a.extractor, a.logger, a.tracer, resolver.Options{
		CacheEnabled:  cfg.CacheEnabled,
		CacheCapacity: cfg.CacheCapacity,
	})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create resolver")
	}

	return &Session{
		ID:       uuid.NewString(),
		Config:   cfg,
		Canon:    canon,
		Store:    store,
		Resolver: res,
		app:      a,
	}, nil
}

// EntryReport is the result of resolving the imports of one entry file.
type EntryReport struct {
	RunID      string
	Entry      domain.CanonicalPath
	Outcomes   []domain.ImportOutcome
	Statistics domain.Statistics
	Errors     []string
	Warnings   []string
	Graph      *domain.DependencyGraph
	DOT        string
}

// Failed reports whether any import of the entry failed.
func (r EntryReport) Failed() bool {
	for _, o := range r.Outcomes {
		if !o.Success {
			return true
		}
	}
	return false
}

// Run resolves every import statement of the entry file.
// A missing or unreadable entry is an error; failed imports are reported in the outcomes.
func (s *Session) Run(ctx context.Context, entry string) (EntryReport, error) {
	if abs, err := filepath.Abs(filepath.FromSlash(entry)); err == nil {
		entry = abs
	}
	target := s.Canon.Normalize(entry)

	data, err := s.Store.Load(target)
	if err != nil {
		return EntryReport{}, zerr.With(zerr.Wrap(err, "failed to read entry"), "run", s.ID)
	}

	reqs := s.app.extractor.Requests(string(data))
	s.app.logger.Debug("resolving " + target.String())
	outcomes := s.Resolver.ResolveAll(ctx, reqs, target.String())

	for _, o := range outcomes {
		s.app.metrics.ObserveOutcome(o)
	}
	s.app.metrics.Track(target.String(), s.Resolver)

	graph := s.Resolver.Graph()
	var dot bytes.Buffer
	if err := s.app.renderer.Render(&dot, graph, target); err != nil {
		return EntryReport{}, err
	}

	return EntryReport{
		RunID:      s.ID,
		Entry:      target,
		Outcomes:   outcomes,
		Statistics: s.Resolver.Statistics(),
		Errors:     s.Resolver.Errors(),
		Warnings:   s.Resolver.Warnings(),
		Graph:      graph,
		DOT:        dot.String(),
	}, nil
}

// Validate reports whether resolving the entry's imports would stay acyclic,
// without changing any state.
func (s *Session) Validate(ctx context.Context, entry string) (bool, error) {
	if abs, err := filepath.Abs(filepath.FromSlash(entry)); err == nil {
		entry = abs
	}
	target := s.Canon.Normalize(entry)

	data, err := s.Store.Load(target)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to read entry"), "run", s.ID)
	}
	return s.Resolver.ValidateChain(ctx, s.app.extractor.Requests(string(data)), target.String()), nil
}

// ResolveEntries resolves each entry as an independent compilation run.
// Runs execute in parallel, one session each; reports keep the order of entries.
func (a *App) ResolveEntries(ctx context.Context, cfg domain.Config, entries []string) ([]EntryReport, error) {
	if len(entries) == 0 {
		return nil, domain.ErrNoEntries
	}

	reports := make([]EntryReport, len(entries))
	g, groupCtx := errgroup.WithContext(ctx)

	for i, entry := range entries {
		g.Go(func() error {
			session, err := a.NewSession(cfg)
			if err != nil {
				return err
			}
			report, err := session.Run(groupCtx, entry)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// ValidateEntry reports whether the imports of entry form an acyclic chain.
func (a *App) ValidateEntry(ctx context.Context, cfg domain.Config, entry string) (bool, error) {
	session, err := a.NewSession(cfg)
	if err != nil {
		return false, err
	}
	return session.Validate(ctx, entry)
}

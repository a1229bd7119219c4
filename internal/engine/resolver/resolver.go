// Package resolver implements the import resolution state machine.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/chtl/internal/core/ports"
	"go.trai.ch/chtl/internal/engine/canonical"
	"go.trai.ch/chtl/internal/engine/filestore"
	"go.trai.ch/zerr"
)

// Options configures the content cache of a Resolver.
type Options struct {
	CacheEnabled  bool
	CacheCapacity int
}

// Resolver owns the dependency graph, import ledger and content cache of one compilation run.
// All public methods are serialized by a single mutex: the cycle probe adds and may
// remove an edge, and no other mutation may interleave with it.
type Resolver struct {
	canon     *canonical.Canonicalizer
	store     *filestore.Store
	extractor ports.ImportExtractor
	logger    ports.Logger
	tracer    ports.Tracer

	mu           sync.Mutex
	graph        *domain.DependencyGraph
	ledger       *domain.ImportLedger
	cache        *lru.Cache[domain.CanonicalPath, string]
	cacheEnabled bool
	errors       []string
	warnings     []string
}

// New creates a Resolver.
func New(
	canon *canonical.Canonicalizer,
	store *filestore.Store,
	extractor ports.ImportExtractor,
	logger ports.Logger,
	tracer ports.Tracer,
	opts Options,
) (*Resolver, error) {
	capacity := opts.CacheCapacity
	if capacity <= 0 {
		capacity = domain.DefaultCacheCapacity
	}
	cache, err := lru.New[domain.CanonicalPath, string](capacity)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create content cache")
	}

	return &Resolver{
		canon:        canon,
		store:        store,
		extractor:    extractor,
		logger:       logger,
		tracer:       tracer,
		graph:        domain.NewDependencyGraph(),
		ledger:       domain.NewImportLedger(),
		cache:        cache,
		cacheEnabled: opts.CacheEnabled,
	}, nil
}

// Resolve runs one import request issued by the file at source.
// A wildcard request resolves every matching file and returns the aggregate.
func (r *Resolver) Resolve(ctx context.Context, req domain.ImportRequest, source string) domain.ImportOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	src := r.canon.Normalize(source)
	if req.Wildcard || domain.IsWildcard(req.Path) {
		return aggregate(r.canon, r.resolveWildcard(ctx, req, src))
	}
	return r.resolveSpelling(ctx, req.Path, src)
}

// ResolveWildcard resolves every file matched by a wildcard request, one outcome per file.
func (r *Resolver) ResolveWildcard(ctx context.Context, req domain.ImportRequest, source string) []domain.ImportOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.resolveWildcard(ctx, req, r.canon.Normalize(source))
}

// ResolveAll resolves a batch of requests issued by source in dependency order.
// It returns one outcome per request. Requests whose target cannot be derived are
// reported last, in request order.
func (r *Resolver) ResolveAll(ctx context.Context, reqs []domain.ImportRequest, source string) []domain.ImportOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, span := r.tracer.Start(ctx, "resolve_all")
	defer span.End()

	src := r.canon.Normalize(source)
	span.SetAttribute(ports.AttrImportSource, src.String())
	span.SetAttribute("import.count", len(reqs))

	plan := r.plan(reqs, src)
	r.tracer.EmitPlan(ctx, pathStrings(plan.order))

	outcomes := make([]domain.ImportOutcome, 0, len(reqs))
	for _, target := range plan.order {
		for _, i := range plan.byTarget[target] {
			outcomes = append(outcomes, r.resolveSpelling(ctx, reqs[i].Path, src))
		}
	}
	for _, i := range plan.wildcards {
		outcomes = append(outcomes, aggregate(r.canon, r.resolveWildcard(ctx, reqs[i], src)))
	}
	for _, i := range plan.invalid {
		outcomes = append(outcomes, r.resolveSpelling(ctx, reqs[i].Path, src))
	}

	return outcomes
}

// ImportOrder returns the sequence in which ResolveAll would process the requests.
func (r *Resolver) ImportOrder(reqs []domain.ImportRequest, source string) []domain.CanonicalPath {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.plan(reqs, r.canon.Normalize(source)).order
}

type batchPlan struct {
	order     []domain.CanonicalPath
	byTarget  map[domain.CanonicalPath][]int
	wildcards []int
	invalid   []int
}

func (r *Resolver) plan(reqs []domain.ImportRequest, src domain.CanonicalPath) batchPlan {
	p := batchPlan{byTarget: make(map[domain.CanonicalPath][]int)}

	var targets []domain.CanonicalPath
	for i, req := range reqs {
		if req.Wildcard || domain.IsWildcard(req.Path) {
			p.wildcards = append(p.wildcards, i)
			continue
		}
		target := r.canon.ResolveFrom(req.Path, src)
		if target.IsZero() {
			p.invalid = append(p.invalid, i)
			continue
		}
		if _, seen := p.byTarget[target]; !seen {
			targets = append(targets, target)
		}
		p.byTarget[target] = append(p.byTarget[target], i)
	}

	p.order = r.graph.Order(targets)
	return p
}

// ValidateChain reports whether adding every request of the batch would keep the
// graph acyclic. It works on a copy and never mutates the live graph.
func (r *Resolver) ValidateChain(ctx context.Context, reqs []domain.ImportRequest, source string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, span := r.tracer.Start(ctx, "validate_chain")
	defer span.End()

	src := r.canon.Normalize(source)
	span.SetAttribute(ports.AttrImportSource, src.String())

	g := r.graph.Clone()
	for _, req := range reqs {
		var targets []domain.CanonicalPath
		if req.Wildcard || domain.IsWildcard(req.Path) {
			targets, _ = r.canon.ExpandWildcard(req.Path, src)
		} else if t := r.canon.ResolveFrom(req.Path, src); !t.IsZero() {
			targets = append(targets, t)
		}

		for _, target := range targets {
			g.AddEdge(src, target)
			if g.HasCycleFrom(src) {
				span.SetAttribute("import.valid", false)
				return false
			}
		}
	}

	span.SetAttribute("import.valid", true)
	return true
}

func (r *Resolver) resolveWildcard(ctx context.Context, req domain.ImportRequest, src domain.CanonicalPath) []domain.ImportOutcome {
	matches, err := r.canon.ExpandWildcard(req.Path, src)
	if err != nil {
		r.recordError(err.Error())
		return []domain.ImportOutcome{domain.Failed(domain.CanonicalPath{}, err)}
	}
	if len(matches) == 0 {
		msg := fmt.Sprintf("wildcard import %s matched no files", req.Path)
		r.recordWarning(msg)
		return []domain.ImportOutcome{{Success: true, Warnings: []string{msg}}}
	}

	outcomes := make([]domain.ImportOutcome, 0, len(matches))
	for _, target := range matches {
		outcomes = append(outcomes, r.resolveTarget(ctx, target, target.String(), src))
	}
	return outcomes
}

func aggregate(canon *canonical.Canonicalizer, outcomes []domain.ImportOutcome) domain.ImportOutcome {
	if len(outcomes) == 1 {
		return outcomes[0]
	}

	agg := domain.ImportOutcome{Success: true, WasCached: true}
	var contents []string
	for _, o := range outcomes {
		if agg.Target.IsZero() && !o.Target.IsZero() {
			agg.Target = canon.Normalize(o.Target.Dir())
		}
		agg.Errors = append(agg.Errors, o.Errors...)
		agg.Warnings = append(agg.Warnings, o.Warnings...)
		agg.WasCached = agg.WasCached && o.WasCached
		agg.WasDuplicate = agg.WasDuplicate || o.WasDuplicate
		if !o.Success && agg.Success {
			agg.Success = false
			agg.Kind = o.Kind
			agg.Err = o.Err
			agg.CycleChain = o.CycleChain
		}
		if o.Content != "" {
			contents = append(contents, o.Content)
		}
	}
	agg.Content = strings.Join(contents, "\n")
	return agg
}

func (r *Resolver) resolveSpelling(ctx context.Context, spelling string, src domain.CanonicalPath) domain.ImportOutcome {
	if src.IsZero() {
		err := zerr.Wrap(domain.ErrInvalidRequest, "missing source file")
		r.recordError(err.Error())
		return domain.Failed(domain.CanonicalPath{}, err)
	}

	target := r.canon.ResolveFrom(spelling, src)
	if target.IsZero() {
		err := zerr.With(zerr.Wrap(domain.ErrInvalidRequest, "no path in import"), "source", src.String())
		r.recordError(err.Error())
		return domain.Failed(domain.CanonicalPath{}, err)
	}

	return r.resolveTarget(ctx, target, spelling, src)
}

func (r *Resolver) resolveTarget(
	ctx context.Context,
	target domain.CanonicalPath,
	spelling string,
	src domain.CanonicalPath,
) domain.ImportOutcome {
	_, span := r.tracer.Start(ctx, "resolve")
	defer span.End()
	span.SetAttribute(ports.AttrImportSource, src.String())
	span.SetAttribute(ports.AttrImportTarget, target.String())

	r.logger.Debug(fmt.Sprintf("resolving %s from %s", target, src))

	fail := func(out domain.ImportOutcome) domain.ImportOutcome {
		span.RecordError(out.Err)
		r.errors = append(r.errors, out.Errors...)
		r.warnings = append(r.warnings, out.Warnings...)
		return out
	}

	if !r.canon.Exists(target) {
		return fail(domain.Failed(target, domain.PathError(domain.ErrNotFound, target.String())))
	}

	if chain := r.probe(src, target); chain != nil {
		err := domain.CycleError(chain)
		r.logger.Warn(fmt.Sprintf("rejected import of %s from %s: cycle %s", target, src, domain.JoinPaths(chain)))
		return fail(domain.ImportOutcome{
			Target:     target,
			Errors:     []string{fmt.Sprintf("%s: %s", err.Error(), domain.JoinPaths(chain))},
			CycleChain: chain,
			Kind:       domain.KindCircularDependency,
			Err:        err,
		})
	}

	var warnings []string
	duplicate := r.ledger.IsImported(target, src)
	span.SetAttribute(ports.AttrImportDuplicate, duplicate)
	if duplicate {
		msg := fmt.Sprintf("duplicate import of %s from %s", target, src)
		r.logger.Warn(msg)
		warnings = append(warnings, msg)

		if r.cacheEnabled {
			if content, ok := r.cache.Get(target); ok {
				r.ledger.Record(target, src, spelling)
				r.ledger.MarkCacheHit(target, src)
				r.warnings = append(r.warnings, warnings...)
				span.SetAttribute(ports.AttrImportCached, true)
				return domain.ImportOutcome{
					Success:      true,
					Target:       target,
					Content:      content,
					Warnings:     warnings,
					WasCached:    true,
					WasDuplicate: true,
				}
			}
		}
	}

	r.ledger.Record(target, src, spelling)

	data, err := r.store.Load(target)
	if err != nil {
		r.logger.Error(err)
		out := domain.Failed(target, err)
		out.Warnings = warnings
		out.WasDuplicate = duplicate
		return fail(out)
	}
	content := string(data)

	warnings = append(warnings, r.extend(target, content)...)

	r.ledger.MarkResolved(target, src)
	if r.cacheEnabled {
		r.cache.Add(target, content)
	}
	r.warnings = append(r.warnings, warnings...)
	span.SetAttribute(ports.AttrImportCached, false)

	return domain.ImportOutcome{
		Success:      true,
		Target:       target,
		Content:      content,
		Warnings:     warnings,
		WasDuplicate: duplicate,
	}
}

// probe tentatively adds src -> target and returns the cycle chain when the edge
// closes a cycle. A rejected edge is removed again; an edge that existed before is kept.
// The graph is acyclic before the probe, so any cycle passes through the new edge and
// a search from target finds it.
func (r *Resolver) probe(src, target domain.CanonicalPath) []domain.CanonicalPath {
	existed := r.graph.HasEdge(src, target)
	r.graph.AddEdge(src, target)

	chain := r.graph.FindCycleChain(target)
	if chain == nil {
		return nil
	}
	if !existed {
		r.graph.RemoveEdge(src, target)
	}
	return chain
}

// extend records the dependencies referenced by content as edges from target.
// References that do not exist or that would close a cycle are reported as warnings.
func (r *Resolver) extend(target domain.CanonicalPath, content string) []string {
	var warnings []string
	for _, spelling := range r.extractor.Extract(content) {
		dep := r.canon.ResolveFrom(spelling, target)
		if dep.IsZero() {
			continue
		}
		if !r.canon.Exists(dep) {
			warnings = append(warnings, fmt.Sprintf("%s references missing file %s", target, spelling))
			continue
		}
		if chain := r.probe(target, dep); chain != nil {
			msg := fmt.Sprintf("%s references %s which closes cycle %s", target, dep, domain.JoinPaths(chain))
			r.logger.Warn(msg)
			warnings = append(warnings, msg)
		}
	}
	return warnings
}

// Statistics derives the run summary from the ledger and graph.
func (r *Resolver) Statistics() domain.Statistics {
	r.mu.Lock()
	defer r.mu.Unlock()

	var avg float64
	if nodes := r.graph.Nodes(); len(nodes) > 0 {
		total := 0
		for _, n := range nodes {
			total += r.graph.Depth(n)
		}
		avg = float64(total) / float64(len(nodes))
	}

	return domain.Statistics{
		TotalImports:           r.ledger.TotalHits(),
		UniqueTargets:          r.ledger.UniqueTargets(),
		DuplicateImports:       r.ledger.DuplicateCount(),
		CircularDependencies:   len(r.graph.FindAllCycles()),
		CachedLoads:            r.ledger.CacheHits(),
		AverageDependencyDepth: avg,
	}
}

// ExportGraph renders the dependency graph in DOT form.
func (r *Resolver) ExportGraph() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.graph.DOT()
}

// Graph returns a copy of the dependency graph.
func (r *Resolver) Graph() *domain.DependencyGraph {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.graph.Clone()
}

// Ledger returns a copy of the import ledger.
func (r *Resolver) Ledger() *domain.ImportLedger {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.Clone()
}

// HasCycles reports whether the graph contains a cycle.
func (r *Resolver) HasCycles() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.graph.HasCycle()
}

// AllCycles returns one chain per cyclic component.
func (r *Resolver) AllCycles() [][]domain.CanonicalPath {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.graph.FindAllCycles()
}

// DuplicateRecords returns the ledger records requested more than once.
func (r *Resolver) DuplicateRecords() []domain.ImportRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledger.DuplicateRecords()
}

// EnableCache switches the content cache. Disabling it purges every entry.
func (r *Resolver) EnableCache(enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cacheEnabled = enabled
	if !enabled {
		r.cache.Purge()
	}
}

// CacheEnabled reports whether the content cache is on.
func (r *Resolver) CacheEnabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cacheEnabled
}

// ClearCache drops every cached content and FileStore entry.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Purge()
	r.store.Clear()
}

// InvalidateCache drops the cached content of path.
func (r *Resolver) InvalidateCache(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.canon.Normalize(path)
	r.cache.Remove(p)
	r.store.Invalidate(p)
}

// CacheSize returns the number of entries in the content cache.
func (r *Resolver) CacheSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache.Len()
}

// Errors returns every error message collected since the last ClearErrors.
func (r *Resolver) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

// Warnings returns every warning collected since the last ClearWarnings.
func (r *Resolver) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.warnings...)
}

// ClearErrors drops the collected errors.
func (r *Resolver) ClearErrors() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = nil
}

// ClearWarnings drops the collected warnings.
func (r *Resolver) ClearWarnings() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = nil
}

func (r *Resolver) recordError(msg string) {
	r.logger.Error(zerr.New(msg))
	r.errors = append(r.errors, msg)
}

func (r *Resolver) recordWarning(msg string) {
	r.logger.Warn(msg)
	r.warnings = append(r.warnings, msg)
}

func pathStrings(paths []domain.CanonicalPath) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}
	return out
}

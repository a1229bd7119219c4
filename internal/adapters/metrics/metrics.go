// Package metrics exposes import resolution statistics as Prometheus metrics.
package metrics

import (
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/zerr"
)

// StatisticsSource reports the statistics of one compilation run.
type StatisticsSource interface {
	Statistics() domain.Statistics
}

var (
	importsDesc = prometheus.NewDesc(
		"chtl_imports_total", "Import requests recorded, duplicates included.", []string{"entry"}, nil)
	uniqueDesc = prometheus.NewDesc(
		"chtl_import_targets", "Distinct import targets.", []string{"entry"}, nil)
	duplicatesDesc = prometheus.NewDesc(
		"chtl_duplicate_imports_total", "Repeated requests of the same target from the same file.", []string{"entry"}, nil)
	cyclesDesc = prometheus.NewDesc(
		"chtl_circular_dependencies", "Cyclic components in the dependency graph.", []string{"entry"}, nil)
	cachedDesc = prometheus.NewDesc(
		"chtl_cached_loads_total", "Imports served from the content cache.", []string{"entry"}, nil)
	depthDesc = prometheus.NewDesc(
		"chtl_dependency_depth_average", "Mean dependency depth over all graph nodes.", []string{"entry"}, nil)
)

// Collector implements prometheus.Collector over the statistics of registered runs.
// Values are read on every scrape, never cached.
type Collector struct {
	mu      sync.RWMutex
	sources map[string]StatisticsSource

	outcomes *prometheus.CounterVec
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		sources: make(map[string]StatisticsSource),
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chtl_import_outcomes_total",
				Help: "Import outcomes by error kind.",
			},
			[]string{"kind"},
		),
	}
}

// Track registers src under the entry label, replacing any earlier source.
func (c *Collector) Track(entry string, src StatisticsSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[entry] = src
}

// Forget drops the source registered under entry.
func (c *Collector) Forget(entry string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sources, entry)
}

// ObserveOutcome counts one import outcome.
func (c *Collector) ObserveOutcome(out domain.ImportOutcome) {
	c.outcomes.WithLabelValues(out.Kind.String()).Inc()
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- importsDesc
	ch <- uniqueDesc
	ch <- duplicatesDesc
	ch <- cyclesDesc
	ch <- cachedDesc
	ch <- depthDesc
	c.outcomes.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for entry, src := range c.sources {
		s := src.Statistics()
		ch <- prometheus.MustNewConstMetric(importsDesc, prometheus.CounterValue, float64(s.TotalImports), entry)
		ch <- prometheus.MustNewConstMetric(uniqueDesc, prometheus.GaugeValue, float64(s.UniqueTargets), entry)
		ch <- prometheus.MustNewConstMetric(duplicatesDesc, prometheus.CounterValue, float64(s.DuplicateImports), entry)
		ch <- prometheus.MustNewConstMetric(cyclesDesc, prometheus.GaugeValue, float64(s.CircularDependencies), entry)
		ch <- prometheus.MustNewConstMetric(cachedDesc, prometheus.CounterValue, float64(s.CachedLoads), entry)
		ch <- prometheus.MustNewConstMetric(depthDesc, prometheus.GaugeValue, s.AverageDependencyDepth, entry)
	}
	c.outcomes.Collect(ch)
}

// Registry returns a fresh registry holding only c.
func (c *Collector) Registry() (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		return nil, zerr.Wrap(err, "failed to register collector")
	}
	return reg, nil
}

// WriteText writes every metric gathered from g in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return zerr.Wrap(err, "failed to gather metrics")
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to encode metric family"), "family", mf.GetName())
		}
	}
	return nil
}

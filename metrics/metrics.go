// Package metrics exposes Prometheus collectors for planner activity.
//
// All methods are safe to call on a nil *Metrics, so instrumented code does
// not need to check whether metrics were configured.
package metrics

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Search outcomes.
const (
	OutcomeFound       = "found"
	OutcomeUnreachable = "unreachable"
	OutcomeError       = "error"
)

// Cache lookup results.
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupStale = "stale"
)

// Metrics groups the planner collectors.
type Metrics struct {
	searchTotal        *prometheus.CounterVec
	searchDuration     prometheus.Histogram
	expandedNodes      prometheus.Histogram
	cacheLookups       *prometheus.CounterVec
	cacheInvalidations *prometheus.CounterVec
	obstacleUpdates    prometheus.Counter
}

// New registers the collectors with reg. Pass prometheus.NewRegistry() in
// tests to keep them isolated from the default registry.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		searchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gridpath_searches_total",
			Help: "A* searches run, by outcome",
		}, []string{"outcome"}),
		searchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gridpath_search_duration_seconds",
			Help:    "Wall time of a single A* search",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}),
		expandedNodes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gridpath_search_expanded_cells",
			Help:    "Cells expanded per search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gridpath_cache_lookups_total",
			Help: "Replanning cache lookups by result",
		}, []string{"result"}),
		cacheInvalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gridpath_cache_invalidations_total",
			Help: "Replanning cache invalidations by reason",
		}, []string{"reason"}),
		obstacleUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "gridpath_obstacle_updates_total",
			Help: "Obstacle mutations that changed the grid",
		}),
	}
}

// ObserveSearch records one search.
func (m *Metrics) ObserveSearch(outcome string, expanded int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.searchTotal.WithLabelValues(outcome).Inc()
	m.searchDuration.Observe(elapsed.Seconds())
	m.expandedNodes.Observe(float64(expanded))
}

// CacheLookup records a cache lookup result.
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// CacheInvalidated records why the cached entry was dropped.
func (m *Metrics) CacheInvalidated(reason string) {
	if m == nil {
		return
	}
	m.cacheInvalidations.WithLabelValues(reason).Inc()
}

// ObstacleUpdated records a grid mutation.
func (m *Metrics) ObstacleUpdated() {
	if m == nil {
		return
	}
	m.obstacleUpdates.Inc()
}

// WriteText gathers g and writes it in the Prometheus text exposition
// format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

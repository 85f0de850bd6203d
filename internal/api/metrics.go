package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lunehart/pixelgrid/pkg/observability"
)

// Metrics exports engine and cache activity as Prometheus collectors. It
// implements the observability hook interfaces, so installing it makes every
// graph run feed the /metrics endpoint:
//
//	m := api.NewMetrics(prometheus.DefaultRegisterer)
//	observability.SetEngineHooks(m)
//	observability.SetCacheHooks(m)
type Metrics struct {
	runsTotal      prometheus.Counter
	runDuration    prometheus.Histogram
	nodesProcessed *prometheus.CounterVec
	nodesSkipped   *prometheus.CounterVec
	nodesFailed    *prometheus.CounterVec
	nodeDuration   *prometheus.HistogramVec
	cacheOps       *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors. A nil registerer uses the
// default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pixelgrid_runs_total",
			Help: "Completed graph runs.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pixelgrid_run_duration_seconds",
			Help:    "Wall time of graph runs.",
			Buckets: prometheus.DefBuckets,
		}),
		nodesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pixelgrid_nodes_processed_total",
			Help: "Nodes processed, by kind.",
		}, []string{"kind"}),
		nodesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pixelgrid_nodes_skipped_total",
			Help: "Nodes skipped as not ready, by kind.",
		}, []string{"kind"}),
		nodesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pixelgrid_nodes_failed_total",
			Help: "Nodes whose Process returned an error, by kind.",
		}, []string{"kind"}),
		nodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pixelgrid_node_duration_seconds",
			Help:    "Per-node Process wall time, by kind.",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pixelgrid_cache_operations_total",
			Help: "Cache operations by outcome (hit, miss, set).",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.runsTotal,
		m.runDuration,
		m.nodesProcessed,
		m.nodesSkipped,
		m.nodesFailed,
		m.nodeDuration,
		m.cacheOps,
	)
	return m
}

// OnRunStart implements observability.EngineHooks.
func (m *Metrics) OnRunStart(scheduled int) {}

// OnNodeSkipped implements observability.EngineHooks.
func (m *Metrics) OnNodeSkipped(kind, name string) {
	m.nodesSkipped.WithLabelValues(kind).Inc()
}

// OnNodeProcessed implements observability.EngineHooks.
func (m *Metrics) OnNodeProcessed(kind, name string, duration time.Duration, err error) {
	m.nodeDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if err != nil {
		m.nodesFailed.WithLabelValues(kind).Inc()
		return
	}
	m.nodesProcessed.WithLabelValues(kind).Inc()
}

// OnRunComplete implements observability.EngineHooks.
func (m *Metrics) OnRunComplete(duration time.Duration, processed, skipped int) {
	m.runsTotal.Inc()
	m.runDuration.Observe(duration.Seconds())
}

// OnCacheHit implements observability.CacheHooks.
func (m *Metrics) OnCacheHit(keyType string) {
	m.cacheOps.WithLabelValues("hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (m *Metrics) OnCacheMiss(keyType string) {
	m.cacheOps.WithLabelValues("miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (m *Metrics) OnCacheSet(keyType string, size int) {
	m.cacheOps.WithLabelValues("set").Inc()
}

// Ensure Metrics satisfies both hook interfaces.
var (
	_ observability.EngineHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
)

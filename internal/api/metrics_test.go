package api

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.OnRunStart(3)
	m.OnNodeProcessed("blur", "soften", 5*time.Millisecond, nil)
	m.OnNodeProcessed("sink", "out", time.Millisecond, errors.New("boom"))
	m.OnNodeSkipped("source", "in")
	m.OnRunComplete(10*time.Millisecond, 1, 1)

	if v := testutil.ToFloat64(m.runsTotal); v != 1 {
		t.Errorf("runs_total = %v, want 1", v)
	}
	if v := testutil.ToFloat64(m.nodesProcessed.WithLabelValues("blur")); v != 1 {
		t.Errorf("nodes_processed{blur} = %v, want 1", v)
	}
	if v := testutil.ToFloat64(m.nodesFailed.WithLabelValues("sink")); v != 1 {
		t.Errorf("nodes_failed{sink} = %v, want 1", v)
	}
	if v := testutil.ToFloat64(m.nodesProcessed.WithLabelValues("sink")); v != 0 {
		t.Errorf("failed node should not count as processed: %v", v)
	}
	if v := testutil.ToFloat64(m.nodesSkipped.WithLabelValues("source")); v != 1 {
		t.Errorf("nodes_skipped{source} = %v, want 1", v)
	}

	m.OnCacheHit("run")
	m.OnCacheMiss("run")
	m.OnCacheMiss("run")
	m.OnCacheSet("run", 256)

	if v := testutil.ToFloat64(m.cacheOps.WithLabelValues("hit")); v != 1 {
		t.Errorf("cache hit count = %v, want 1", v)
	}
	if v := testutil.ToFloat64(m.cacheOps.WithLabelValues("miss")); v != 2 {
		t.Errorf("cache miss count = %v, want 2", v)
	}
	if v := testutil.ToFloat64(m.cacheOps.WithLabelValues("set")); v != 1 {
		t.Errorf("cache set count = %v, want 1", v)
	}
}

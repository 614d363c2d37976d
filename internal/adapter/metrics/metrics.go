package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// EngineMetrics holds all Prometheus metrics for the evaluation engine.
type EngineMetrics struct {
	EvaluationsTotal   *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	ResetsTotal        *prometheus.CounterVec
	TenantCacheHits    prometheus.Counter
	TenantCacheMisses  prometheus.Counter
	ConnectionsLeased  prometheus.Gauge
}

// NewEngineMetrics initializes and registers the Prometheus metrics.
func NewEngineMetrics() *EngineMetrics {
	return &EngineMetrics{
		EvaluationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workspace_engine",
			Subsystem: "reward",
			Name:      "evaluations_total",
			Help:      "Total number of rule evaluations by rule and outcome.",
		}, []string{"rule", "status"}), // status: ok, unknown_rule, tenant_unresolved, error
		EvaluationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "workspace_engine",
			Subsystem: "reward",
			Name:      "evaluation_duration_seconds",
			Help:      "Wall time of rule evaluations, including connection acquisition.",
			Buckets:   prometheus.DefBuckets,
		}),
		ResetsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "workspace_engine",
			Subsystem: "lifecycle",
			Name:      "resets_total",
			Help:      "Total number of tenant resets by outcome.",
		}, []string{"status"}), // status: ok, tenant_unresolved, delete_failed, init_failed, error
		TenantCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "workspace_engine",
			Subsystem: "directory",
			Name:      "tenant_cache_hits_total",
			Help:      "Total number of tenant directory cache hits.",
		}),
		TenantCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "workspace_engine",
			Subsystem: "directory",
			Name:      "tenant_cache_misses_total",
			Help:      "Total number of tenant directory cache misses.",
		}),
		ConnectionsLeased: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "workspace_engine",
			Subsystem: "pool",
			Name:      "connections_leased_gauge",
			Help:      "Number of tenant-scoped connections currently leased.",
		}),
	}
}

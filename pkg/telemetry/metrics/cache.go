package metrics

import (
	"mercator-hq/strictvalue/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// matcherCache is the cache label for compiled keyword/value matchers.
const matcherCache = "matcher"

// CacheMetrics tracks cache performance.
//
// Metrics:
//   - strictvalue_cache_hits_total: hits by cache name
//   - strictvalue_cache_misses_total: misses by cache name
type CacheMetrics struct {
	hitsTotal   *prometheus.CounterVec
	missesTotal *prometheus.CounterVec
}

// NewCacheMetrics creates and registers cache metrics.
func NewCacheMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CacheMetrics {
	cm := &CacheMetrics{
		hitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),

		missesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),
	}

	registry.MustRegister(cm.hitsTotal, cm.missesTotal)

	return cm
}

// RecordHit records a cache hit.
func (cm *CacheMetrics) RecordHit(cache string) {
	cm.hitsTotal.WithLabelValues(cache).Inc()
}

// RecordMiss records a cache miss.
func (cm *CacheMetrics) RecordMiss(cache string) {
	cm.missesTotal.WithLabelValues(cache).Inc()
}

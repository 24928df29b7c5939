package metrics

import (
	"time"

	"mercator-hq/strictvalue/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RunMetrics tracks whole lint runs.
//
// Metrics:
//   - strictvalue_runs_total: runs by status
//   - strictvalue_run_duration_seconds: run wall time
//   - strictvalue_run_declarations: declarations read per run
type RunMetrics struct {
	runsTotal    *prometheus.CounterVec
	runDuration  prometheus.Histogram
	declarations prometheus.Histogram
}

// NewRunMetrics creates and registers run metrics.
func NewRunMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RunMetrics {
	rm := &RunMetrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "runs_total",
				Help:      "Total number of lint runs",
			},
			[]string{"status"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of lint runs in seconds",
				Buckets:   cfg.DurationBuckets,
			},
		),

		declarations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "run_declarations",
				Help:      "Number of declarations checked per lint run",
				Buckets:   prometheus.ExponentialBuckets(10, 4, 8), // 10 to ~160K
			},
		),
	}

	registry.MustRegister(rm.runsTotal, rm.runDuration, rm.declarations)

	return rm
}

// RecordRun records a completed run.
func (rm *RunMetrics) RecordRun(status string, duration time.Duration, declarations int) {
	rm.runsTotal.WithLabelValues(status).Inc()
	rm.runDuration.Observe(duration.Seconds())
	rm.declarations.Observe(float64(declarations))
}

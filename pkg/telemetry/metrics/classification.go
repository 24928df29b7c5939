package metrics

import (
	"mercator-hq/strictvalue/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ClassificationMetrics tracks value classification outcomes.
//
// Metrics:
//   - strictvalue_classifications_total: classifications by property and result
//   - strictvalue_eligible_types: number of eligible value types per classification
type ClassificationMetrics struct {
	total         *prometheus.CounterVec
	eligibleTypes prometheus.Histogram
}

// NewClassificationMetrics creates and registers classification metrics.
func NewClassificationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ClassificationMetrics {
	cm := &ClassificationMetrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "classifications_total",
				Help:      "Total number of classified values",
			},
			[]string{"property", "result"},
		),

		eligibleTypes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "eligible_types",
				Help:      "Number of value types eligible per classification",
				Buckets:   []float64{0, 1, 2, 3},
			},
		),
	}

	registry.MustRegister(cm.total, cm.eligibleTypes)

	return cm
}

// Record records one classification.
func (cm *ClassificationMetrics) Record(property string, accepted bool, eligible int) {
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	cm.total.WithLabelValues(property, result).Inc()
	cm.eligibleTypes.Observe(float64(eligible))
}

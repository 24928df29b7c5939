package metrics

import (
	"time"

	"mercator-hq/strictvalue/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RuleMetrics tracks per-rule evaluation.
//
// Metrics:
//   - strictvalue_rule_evaluations_total: rule passes by rule
//   - strictvalue_rule_duration_seconds: duration of a rule pass
//   - strictvalue_declarations_checked_total: declarations matched by a rule's selectors
//   - strictvalue_findings_total: findings by rule and severity
//   - strictvalue_fixes_total: autofix attempts by rule and result
type RuleMetrics struct {
	evaluationsTotal *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	checkedTotal     *prometheus.CounterVec
	findingsTotal    *prometheus.CounterVec
	fixesTotal       *prometheus.CounterVec
}

// NewRuleMetrics creates and registers rule metrics.
func NewRuleMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RuleMetrics {
	rm := &RuleMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "rule_evaluations_total",
				Help:      "Total number of rule passes",
			},
			[]string{"rule"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "rule_duration_seconds",
				Help:      "Duration of a rule pass in seconds",
				Buckets:   cfg.DurationBuckets,
			},
			[]string{"rule"},
		),

		checkedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "declarations_checked_total",
				Help:      "Total number of declarations matched by a rule",
			},
			[]string{"rule"},
		),

		findingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "findings_total",
				Help:      "Total number of reported findings",
			},
			[]string{"rule", "severity"},
		),

		fixesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "fixes_total",
				Help:      "Total number of autofix attempts",
			},
			[]string{"rule", "result"},
		),
	}

	registry.MustRegister(
		rm.evaluationsTotal,
		rm.duration,
		rm.checkedTotal,
		rm.findingsTotal,
		rm.fixesTotal,
	)

	return rm
}

// RecordEvaluation records one rule pass.
func (rm *RuleMetrics) RecordEvaluation(rule string, duration time.Duration, checked int) {
	rm.evaluationsTotal.WithLabelValues(rule).Inc()
	rm.duration.WithLabelValues(rule).Observe(duration.Seconds())
	rm.checkedTotal.WithLabelValues(rule).Add(float64(checked))
}

// RecordFinding records a finding.
func (rm *RuleMetrics) RecordFinding(rule, severity string) {
	rm.findingsTotal.WithLabelValues(rule, severity).Inc()
}

// RecordFix records an autofix attempt.
func (rm *RuleMetrics) RecordFix(rule string, ok bool) {
	result := "applied"
	if !ok {
		result = "failed"
	}
	rm.fixesTotal.WithLabelValues(rule, result).Inc()
}

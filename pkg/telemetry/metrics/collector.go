package metrics

import (
	"fmt"
	"sync"
	"time"

	"mercator-hq/strictvalue/pkg/config"
	"mercator-hq/strictvalue/pkg/strictvalue"

	"github.com/prometheus/client_golang/prometheus"
)

// otherProperty replaces property labels once the cardinality limit is hit.
const otherProperty = "other"

// Collector is the entry point for all strictvalue Prometheus metrics.
// It owns the registry and fans recordings out to the run, rule,
// classification and cache metric groups.
//
// Collector implements strictvalue.Observer so it can be handed directly to
// strictvalue.WithObserver.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	runMetrics            *RunMetrics
	ruleMetrics           *RuleMetrics
	classificationMetrics *ClassificationMetrics
	cacheMetrics          *CacheMetrics

	// Property names come from user stylesheets; keep their label space bounded.
	cardinalityLimiter *CardinalityLimiter
}

var _ strictvalue.Observer = (*Collector)(nil)

// NewCollector creates a collector registered with registry. A nil registry
// gets a fresh one.
//
// Example:
//
//	cfg := &config.MetricsConfig{Enabled: true, Namespace: "strictvalue"}
//	collector := metrics.NewCollector(cfg, nil)
//	rule, err := strictvalue.NewRule("color", opts, strictvalue.WithObserver(collector))
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultTelemetryMetricsNamespace
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = append([]float64(nil), config.DefaultDurationBuckets...)
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(1000),
	}

	c.runMetrics = NewRunMetrics(cfg, registry)
	c.ruleMetrics = NewRuleMetrics(cfg, registry)
	c.classificationMetrics = NewClassificationMetrics(cfg, registry)
	c.cacheMetrics = NewCacheMetrics(cfg, registry)

	return c
}

// RecordRun records a completed lint run.
//
// Parameters:
//   - status: "clean", "findings" or "error"
//   - duration: wall time of the whole run
//   - declarations: number of declarations read from the inputs
func (c *Collector) RecordRun(status string, duration time.Duration, declarations int) {
	if !c.config.Enabled {
		return
	}

	c.runMetrics.RecordRun(status, duration, declarations)
}

// RecordRule records one rule's pass over the declarations.
func (c *Collector) RecordRule(rule string, duration time.Duration, checked int) {
	if !c.config.Enabled {
		return
	}

	c.ruleMetrics.RecordEvaluation(rule, duration, checked)
}

// RecordFinding records a reported finding.
func (c *Collector) RecordFinding(rule, severity string) {
	if !c.config.Enabled {
		return
	}

	c.ruleMetrics.RecordFinding(rule, severity)
}

// RecordFix records an autofix attempt; ok is false when the fix failed.
func (c *Collector) RecordFix(rule string, ok bool) {
	if !c.config.Enabled {
		return
	}

	c.ruleMetrics.RecordFix(rule, ok)
}

// ObserveClassification implements strictvalue.Observer.
func (c *Collector) ObserveClassification(property string, accepted bool, types []strictvalue.ValueType) {
	if !c.config.Enabled {
		return
	}

	if !c.cardinalityLimiter.Allow(fmt.Sprintf("classification:%s", property)) {
		property = otherProperty
	}

	c.classificationMetrics.Record(property, accepted, len(types))
}

// ObserveMatcherCache implements strictvalue.Observer.
func (c *Collector) ObserveMatcherCache(hit bool) {
	if !c.config.Enabled {
		return
	}

	if hit {
		c.cacheMetrics.RecordHit(matcherCache)
	} else {
		c.cacheMetrics.RecordMiss(matcherCache)
	}
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter bounds the number of unique label sets a metric may
// produce.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter admitting up to maxCardinality
// distinct label sets.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether labelSet is already known or still fits under the
// limit. Admitted label sets are remembered.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, exists := cl.current[labelSet]; exists {
		return true
	}
	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the number of admitted label sets.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}

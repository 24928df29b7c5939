// Package metrics provides Prometheus metrics for strictvalue lint runs.
//
// # Metrics Categories
//
//   - Run metrics: run count by status, run duration, declarations per run
//   - Rule metrics: rule passes, duration, findings by severity, autofix results
//   - Classification metrics: accepted and rejected values per property
//   - Cache metrics: matcher cache hits and misses
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	rule, err := strictvalue.NewRule(sel, opts, strictvalue.WithObserver(collector))
//	...
//	collector.RecordRule(rule.Name(), elapsed, report.Checked)
//
//	http.Handle("/metrics", collector.Handler())
//
// Property labels are capped by a CardinalityLimiter; properties seen after
// the cap are aggregated under "other".
package metrics

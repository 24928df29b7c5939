// Package telemetry groups the observability packages used by strictvalue.
//
// # Components
//
//   - logging: slog-based structured logging with run, rule and source fields
//   - metrics: Prometheus counters and histograms for runs, rules and findings
//   - tracing: OpenTelemetry spans around lint runs, file reads and fix writes
//   - health: liveness and readiness endpoints for the watch-mode admin server
//
// # Usage
//
//	logger, _ := logging.New(logging.FromConfig(cfg.Telemetry.Logging))
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
//	tracer, _ := tracing.New(&cfg.Telemetry.Tracing)
//	defer tracer.Shutdown(ctx)
//
// Metrics and tracing are optional. A disabled tracer hands out no-op spans
// and a nil collector is never consulted by the lint runner.
package telemetry

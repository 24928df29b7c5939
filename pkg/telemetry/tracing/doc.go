// Package tracing provides OpenTelemetry tracing for strictvalue lint runs.
//
// A lint run produces one SpanLintRun span with a child SpanRule span per
// configured rule. Findings are attached to the rule span as events. Watch
// mode wraps its HTTP endpoints with Tracer.HTTPMiddleware.
//
// # Sampling Strategies
//
//   - always: sample all traces
//   - never: sample no traces
//   - ratio: sample a fraction of traces by trace ID
//
// # Usage
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, tracing.SpanLintRun)
//	defer span.End()
//
// Spans are exported over OTLP gRPC when an endpoint is configured.
package tracing

package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RunIDKey is the context key for lint run IDs.
	RunIDKey contextKey = "run_id"

	// RuleKey is the context key for rule names.
	RuleKey contextKey = "rule"

	// SourceKey is the context key for the declaration source file.
	SourceKey contextKey = "source"

	// TraceIDKey is the context key for trace IDs.
	TraceIDKey contextKey = "trace_id"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		return runID
	}
	return ""
}

// WithRule adds a rule name to the context.
func WithRule(ctx context.Context, rule string) context.Context {
	return context.WithValue(ctx, RuleKey, rule)
}

// GetRule retrieves the rule name from the context.
func GetRule(ctx context.Context) string {
	if rule, ok := ctx.Value(RuleKey).(string); ok {
		return rule
	}
	return ""
}

// WithSource adds a source file to the context.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, SourceKey, source)
}

// GetSource retrieves the source file from the context.
func GetSource(ctx context.Context) string {
	if source, ok := ctx.Value(SourceKey).(string); ok {
		return source
	}
	return ""
}

// WithTraceID adds a trace ID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(TraceIDKey).(string); ok {
		return traceID
	}
	return ""
}

// extractContextFields returns the context's log fields as key-value pairs
// suitable for slog.
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if runID := GetRunID(ctx); runID != "" {
		fields = append(fields, "run_id", runID)
	}
	if rule := GetRule(ctx); rule != "" {
		fields = append(fields, "rule", rule)
	}
	if source := GetSource(ctx); source != "" {
		fields = append(fields, "source", source)
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		fields = append(fields, "trace_id", traceID)
	}

	return fields
}

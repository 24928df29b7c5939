package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanLintRun  = "strictvalue.lint"
	SpanRule     = "strictvalue.rule"
	SpanReadFile = "strictvalue.read"
	SpanWriteFix = "strictvalue.fix"
	SpanPersist  = "strictvalue.persist"
)

// Attribute keys use the "strictvalue.*" namespace.
const (
	AttrRunID        = "strictvalue.run_id"
	AttrRule         = "strictvalue.rule"
	AttrSelectors    = "strictvalue.rule.selectors"
	AttrSource       = "strictvalue.source"
	AttrDeclarations = "strictvalue.declarations"
	AttrChecked      = "strictvalue.checked"
	AttrFindings     = "strictvalue.findings"
	AttrFixes        = "strictvalue.fixes"
	AttrFixMode      = "strictvalue.fix_mode"
	AttrProperty     = "strictvalue.property"
	AttrValue        = "strictvalue.value"
	AttrSeverity     = "strictvalue.severity"
)

// EventFinding is the span event added for each reported finding.
const EventFinding = "finding"

// SetRunAttributes annotates a lint run span.
func SetRunAttributes(span trace.Span, runID string, declarations int, fix bool) {
	span.SetAttributes(
		attribute.String(AttrRunID, runID),
		attribute.Int(AttrDeclarations, declarations),
		attribute.Bool(AttrFixMode, fix),
	)
}

// SetRuleAttributes annotates a rule span with its outcome.
func SetRuleAttributes(span trace.Span, rule string, selectors []string, checked, findings, fixes int) {
	span.SetAttributes(
		attribute.String(AttrRule, rule),
		attribute.StringSlice(AttrSelectors, selectors),
		attribute.Int(AttrChecked, checked),
		attribute.Int(AttrFindings, findings),
		attribute.Int(AttrFixes, fixes),
	)
}

// AddFindingEvent records a finding as a span event.
func AddFindingEvent(span trace.Span, source, property, value, severity string) {
	if !span.IsRecording() {
		return
	}
	span.AddEvent(EventFinding, trace.WithAttributes(
		attribute.String(AttrSource, source),
		attribute.String(AttrProperty, property),
		attribute.String(AttrValue, value),
		attribute.String(AttrSeverity, severity),
	))
}

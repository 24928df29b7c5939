package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercator-hq/strictvalue/pkg/config"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestTracer(t *testing.T) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tracer, err := New(&config.TracingConfig{
		Enabled:     true,
		Sampler:     SamplerAlways,
		ServiceName: "strictvalue-test",
	}, WithExporter(exporter))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	return tracer, exporter
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *config.TracingConfig
		wantErr bool
	}{
		{name: "nil config", config: nil, wantErr: true},
		{name: "disabled", config: &config.TracingConfig{Enabled: false}},
		{name: "enabled without exporter", config: &config.TracingConfig{Enabled: true, Sampler: SamplerNever}},
		{name: "ratio", config: &config.TracingConfig{Enabled: true, Sampler: SamplerRatio, SampleRatio: 0.5}},
		{name: "bad ratio", config: &config.TracingConfig{Enabled: true, Sampler: SamplerRatio, SampleRatio: 1.5}, wantErr: true},
		{name: "unknown sampler", config: &config.TracingConfig{Enabled: true, Sampler: "sometimes"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracer, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer tracer.Shutdown(context.Background())

			if tracer.Enabled() != tt.config.Enabled {
				t.Errorf("Enabled() = %v", tracer.Enabled())
			}
		})
	}
}

func TestTracer_DisabledIsNoop(t *testing.T) {
	tracer, err := New(&config.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatal(err)
	}

	ctx, span := tracer.Start(context.Background(), SpanLintRun)
	defer span.End()

	if span.IsRecording() {
		t.Error("noop span should not record")
	}
	if TraceID(ctx) != "" {
		t.Errorf("TraceID() = %q, want empty", TraceID(ctx))
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestTracer_RuleSpans(t *testing.T) {
	tracer, exporter := newTestTracer(t)

	ctx, run := tracer.Start(context.Background(), SpanLintRun)
	SetRunAttributes(run, "run-1", 3, false)

	_, rule := tracer.Start(ctx, SpanRule)
	SetRuleAttributes(rule, "colors", []string{"color", "/^fill$/"}, 3, 1, 0)
	AddFindingEvent(rule, "app.css", "color", "#fff", "error")
	rule.End()
	run.End()

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("exported %d spans, want 2", len(spans))
	}

	ruleSpan := spans[0]
	if ruleSpan.Name != SpanRule {
		t.Errorf("first span = %q, want %q", ruleSpan.Name, SpanRule)
	}
	if ruleSpan.Parent.SpanID() != spans[1].SpanContext.SpanID() {
		t.Error("rule span is not a child of the run span")
	}
	if len(ruleSpan.Events) != 1 || ruleSpan.Events[0].Name != EventFinding {
		t.Errorf("events = %+v", ruleSpan.Events)
	}

	attrs := map[string]any{}
	for _, kv := range ruleSpan.Attributes {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	if attrs[AttrRule] != "colors" {
		t.Errorf("%s = %v", AttrRule, attrs[AttrRule])
	}
	if attrs[AttrFindings] != int64(1) {
		t.Errorf("%s = %v", AttrFindings, attrs[AttrFindings])
	}
}

func TestSetError(t *testing.T) {
	tracer, exporter := newTestTracer(t)

	_, span := tracer.Start(context.Background(), SpanPersist)
	SetError(span, nil)
	SetError(span, errors.New("disk full"))
	span.End()

	got := exporter.GetSpans()[0]
	if got.Status.Code != codes.Error || got.Status.Description != "disk full" {
		t.Errorf("status = %+v", got.Status)
	}
	if len(got.Events) != 1 {
		t.Errorf("expected one exception event, got %d", len(got.Events))
	}
}

func TestSetStatus(t *testing.T) {
	tracer, exporter := newTestTracer(t)

	_, span := tracer.Start(context.Background(), SpanRule)
	SetStatus(span, nil)
	span.End()

	if got := exporter.GetSpans()[0].Status.Code; got != codes.Ok {
		t.Errorf("status = %v, want Ok", got)
	}
}

func TestHTTPMiddleware(t *testing.T) {
	tracer, exporter := newTestTracer(t)

	var sawTrace string
	handler := tracer.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawTrace = TraceID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if sawTrace != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("handler trace ID = %q", sawTrace)
	}
	if rec.Header().Get("X-Trace-ID") != sawTrace {
		t.Errorf("X-Trace-ID = %q", rec.Header().Get("X-Trace-ID"))
	}
	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != "GET /health" {
		t.Errorf("spans = %+v", spans)
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{strategy: SamplerAlways},
		{strategy: ""},
		{strategy: SamplerNever},
		{strategy: SamplerRatio, ratio: 0},
		{strategy: SamplerRatio, ratio: 1},
		{strategy: SamplerRatio, ratio: -0.1, wantErr: true},
		{strategy: "bogus", wantErr: true},
	}

	for _, tt := range tests {
		_, err := createSampler(tt.strategy, tt.ratio)
		if (err != nil) != tt.wantErr {
			t.Errorf("createSampler(%q, %v) error = %v, wantErr %v", tt.strategy, tt.ratio, err, tt.wantErr)
		}
	}
}

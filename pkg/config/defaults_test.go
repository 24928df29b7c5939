package config

import (
	"reflect"
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"lint.format", cfg.Lint.Format, DefaultLintFormat},
		{"lint.fail_on", cfg.Lint.FailOn, DefaultLintFailOn},
		{"lint.plugin_symbol", cfg.Lint.PluginSymbol, DefaultLintPluginSymbol},
		{"findings.enabled", cfg.Findings.Enabled, false},
		{"findings.backend", cfg.Findings.Backend, DefaultFindingsBackend},
		{"findings.sqlite.path", cfg.Findings.SQLite.Path, DefaultFindingsSQLitePath},
		{"findings.sqlite.driver", cfg.Findings.SQLite.Driver, DefaultFindingsSQLiteDriver},
		{"findings.sqlite.journal_mode", cfg.Findings.SQLite.JournalMode, DefaultFindingsSQLiteJournalMode},
		{"findings.sqlite.busy_timeout", cfg.Findings.SQLite.BusyTimeout, DefaultFindingsSQLiteBusyTimeout},
		{"findings.retention.days", cfg.Findings.Retention.Days, DefaultFindingsRetentionDays},
		{"findings.retention.prune_schedule", cfg.Findings.Retention.PruneSchedule, DefaultFindingsRetentionSchedule},
		{"findings.query.default_limit", cfg.Findings.Query.DefaultLimit, DefaultFindingsQueryDefaultLimit},
		{"watch.debounce", cfg.Watch.Debounce, DefaultWatchDebounce},
		{"watch.health_path", cfg.Watch.HealthPath, DefaultWatchHealthPath},
		{"telemetry.logging.level", cfg.Telemetry.Logging.Level, DefaultTelemetryLoggingLevel},
		{"telemetry.metrics.namespace", cfg.Telemetry.Metrics.Namespace, DefaultTelemetryMetricsNamespace},
		{"telemetry.metrics.duration_buckets", cfg.Telemetry.Metrics.DurationBuckets, DefaultDurationBuckets},
		{"telemetry.tracing.sampler", cfg.Telemetry.Tracing.Sampler, DefaultTelemetryTracingSampler},
		{"telemetry.tracing.service_name", cfg.Telemetry.Tracing.ServiceName, DefaultTelemetryTracingServiceName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, tt.got)
			}
		})
	}
}

func TestApplyDefaults_PreservesValues(t *testing.T) {
	cfg := &Config{
		Lint:  LintConfig{Format: "json"},
		Watch: WatchConfig{Debounce: time.Second},
		Findings: FindingsConfig{
			SQLite: SQLiteConfig{Driver: "sqlite3", JournalMode: "DELETE"},
		},
	}
	ApplyDefaults(cfg)

	if cfg.Lint.Format != "json" {
		t.Errorf("format overwritten: %q", cfg.Lint.Format)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("debounce overwritten: %v", cfg.Watch.Debounce)
	}
	if cfg.Findings.SQLite.Driver != "sqlite3" || cfg.Findings.SQLite.JournalMode != "DELETE" {
		t.Errorf("sqlite settings overwritten: %+v", cfg.Findings.SQLite)
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	first := *cfg
	ApplyDefaults(cfg)

	if !reflect.DeepEqual(first, *cfg) {
		t.Error("ApplyDefaults is not idempotent")
	}
}

func TestApplyDefaults_BucketsNotShared(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Telemetry.Metrics.DurationBuckets[0] = 42

	if DefaultDurationBuckets[0] == 42 {
		t.Error("default buckets were modified through a config")
	}
}

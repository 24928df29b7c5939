package config

import "time"

// Default values for configuration fields.
const (
	// Lint defaults
	DefaultLintFormat       = "text"
	DefaultLintFailOn       = "error"
	DefaultLintPluginSymbol = "AutoFix"

	// Findings defaults
	DefaultFindingsBackend             = "sqlite"
	DefaultFindingsSQLitePath          = "data/findings.db"
	DefaultFindingsSQLiteDriver        = "sqlite"
	DefaultFindingsSQLiteMaxOpenConns  = 10
	DefaultFindingsSQLiteMaxIdleConns  = 5
	DefaultFindingsSQLiteJournalMode   = "WAL"
	DefaultFindingsSQLiteBusyTimeout   = 5 * time.Second
	DefaultFindingsRetentionDays       = 30
	DefaultFindingsRetentionSchedule   = "0 3 * * *"
	DefaultFindingsQueryDefaultLimit   = 100
	DefaultFindingsQueryMaxLimit       = 10000
	DefaultFindingsRetentionMaxRuns    = int64(0)
	DefaultFindingsRetentionArchive    = "data/archives"
	DefaultWatchDebounce               = 200 * time.Millisecond
	DefaultWatchHealthPath             = "/health"
	DefaultWatchShutdownTimeout        = 5 * time.Second
	DefaultTelemetryLoggingLevel       = "info"
	DefaultTelemetryLoggingFormat      = "text"
	DefaultTelemetryMetricsPath        = "/metrics"
	DefaultTelemetryMetricsNamespace   = "strictvalue"
	DefaultTelemetryTracingSampler     = "always"
	DefaultTelemetryTracingSampleRatio = 1.0
	DefaultTelemetryTracingServiceName = "strictvalue"
)

// DefaultDurationBuckets are the histogram buckets for rule run durations.
var DefaultDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Lint defaults
	if cfg.Lint.Format == "" {
		cfg.Lint.Format = DefaultLintFormat
	}
	if cfg.Lint.FailOn == "" {
		cfg.Lint.FailOn = DefaultLintFailOn
	}
	if cfg.Lint.PluginSymbol == "" {
		cfg.Lint.PluginSymbol = DefaultLintPluginSymbol
	}

	// Findings defaults
	if cfg.Findings.Backend == "" {
		cfg.Findings.Backend = DefaultFindingsBackend
	}
	applySQLiteDefaults(&cfg.Findings.SQLite)
	if cfg.Findings.Retention.Days == 0 {
		cfg.Findings.Retention.Days = DefaultFindingsRetentionDays
	}
	if cfg.Findings.Retention.PruneSchedule == "" {
		cfg.Findings.Retention.PruneSchedule = DefaultFindingsRetentionSchedule
	}
	if cfg.Findings.Retention.ArchivePath == "" {
		cfg.Findings.Retention.ArchivePath = DefaultFindingsRetentionArchive
	}
	if cfg.Findings.Query.DefaultLimit == 0 {
		cfg.Findings.Query.DefaultLimit = DefaultFindingsQueryDefaultLimit
	}
	if cfg.Findings.Query.MaxLimit == 0 {
		cfg.Findings.Query.MaxLimit = DefaultFindingsQueryMaxLimit
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	if cfg.Watch.HealthPath == "" {
		cfg.Watch.HealthPath = DefaultWatchHealthPath
	}
	if cfg.Watch.ShutdownTimeout == 0 {
		cfg.Watch.ShutdownTimeout = DefaultWatchShutdownTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultTelemetryLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultTelemetryLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultTelemetryMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultTelemetryMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTelemetryTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTelemetryTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTelemetryTracingServiceName
	}
}

func applySQLiteDefaults(cfg *SQLiteConfig) {
	if cfg.Path == "" {
		cfg.Path = DefaultFindingsSQLitePath
	}
	if cfg.Driver == "" {
		cfg.Driver = DefaultFindingsSQLiteDriver
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = DefaultFindingsSQLiteMaxOpenConns
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = DefaultFindingsSQLiteMaxIdleConns
	}
	if cfg.JournalMode == "" {
		cfg.JournalMode = DefaultFindingsSQLiteJournalMode
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = DefaultFindingsSQLiteBusyTimeout
	}
}

// NewDefaultConfig returns a Config with every default applied and no rules.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

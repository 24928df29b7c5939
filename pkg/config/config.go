package config

import "time"

// Config is the root configuration structure for strictvalue.
// It contains the lint rules plus the settings for linting, findings storage,
// watch mode, and telemetry.
type Config struct {
	// Rules lists the strict-value rules to apply. Each rule pairs a property
	// selector with a secondary options object.
	Rules []RuleConfig `yaml:"rules"`

	// Fixes defines named replacement fixes, each mapping a literal value to
	// its replacement. Rules reference them by name in autoFixFunc.
	Fixes map[string]map[string]string `yaml:"fixes"`

	// Lint contains settings for a single lint run: inputs, output format,
	// failure threshold, and auto-fix.
	Lint LintConfig `yaml:"lint"`

	// Findings contains configuration for persisting lint runs and their
	// findings, including backend selection and retention.
	Findings FindingsConfig `yaml:"findings"`

	// Watch contains configuration for watch mode.
	Watch WatchConfig `yaml:"watch"`

	// Telemetry contains configuration for logging, metrics, and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RuleConfig configures one strict-value rule.
type RuleConfig struct {
	// Name identifies the rule in output and storage.
	// Default: the first selector.
	Name string `yaml:"name"`

	// Properties is the primary option: a property name, a /regex/, or a list
	// of them.
	Properties any `yaml:"properties"`

	// Options is the secondary options object (ignoreVariables,
	// ignoreFunctions, ignoreKeywords, ignoreValues, severity, message,
	// expandShorthand, recurseLonghand, disableFix, autoFixFunc).
	Options map[string]any `yaml:"options"`
}

// RawOptions returns Options as an untyped value, with an absent options
// object reported as nil.
func (r RuleConfig) RawOptions() any {
	if r.Options == nil {
		return nil
	}
	return r.Options
}

// LintConfig contains configuration for lint runs.
type LintConfig struct {
	// Inputs are glob patterns of declaration files (YAML or JSON).
	Inputs []string `yaml:"inputs"`

	// Format is the report format.
	// Options: "text", "json"
	// Default: "text"
	Format string `yaml:"format"`

	// FailOn is the lowest finding severity that makes a run fail.
	// Options: "error", "warning", "never"
	// Default: "error"
	FailOn string `yaml:"fail_on"`

	// Fix applies configured auto-fixes and rewrites the input files.
	// Default: false
	Fix bool `yaml:"fix"`

	// PluginSymbol is the exported symbol looked up in auto-fix plugins.
	// Default: "AutoFix"
	PluginSymbol string `yaml:"plugin_symbol"`

	// Timeout bounds a whole lint run. Zero means no timeout.
	// Default: 0
	Timeout time.Duration `yaml:"timeout"`
}

// FindingsConfig contains configuration for findings storage.
type FindingsConfig struct {
	// Enabled controls whether lint runs are persisted.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend.
	// Options: "memory", "sqlite"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention contains retention policy configuration.
	Retention RetentionConfig `yaml:"retention"`

	// Query contains defaults for findings queries.
	Query QueryConfig `yaml:"query"`
}

// SQLiteConfig contains SQLite-specific configuration.
type SQLiteConfig struct {
	// Path is the file path for the SQLite database.
	// Default: "data/findings.db"
	Path string `yaml:"path"`

	// Driver selects the database/sql driver.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// JournalMode is the SQLite journal mode.
	// Options: "WAL", "DELETE", "TRUNCATE", "MEMORY"
	// Default: "WAL"
	JournalMode string `yaml:"journal_mode"`

	// BusyTimeout is how long to wait for a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// RetentionConfig contains retention policy configuration.
type RetentionConfig struct {
	// Days is the number of days to keep lint runs.
	// Default: 30
	Days int `yaml:"days"`

	// PruneSchedule is the cron expression for automatic pruning in watch mode.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`

	// MaxRuns caps the number of stored runs. Zero means unlimited.
	// Default: 0
	MaxRuns int64 `yaml:"max_runs"`

	// ArchiveBeforeDelete exports pruned findings to ArchivePath as JSON.
	// Default: false
	ArchiveBeforeDelete bool `yaml:"archive_before_delete"`

	// ArchivePath is the directory for archived findings.
	// Default: "data/archives"
	ArchivePath string `yaml:"archive_path"`
}

// QueryConfig contains defaults for findings queries.
type QueryConfig struct {
	// DefaultLimit is used when a query does not set a limit.
	// Default: 100
	DefaultLimit int `yaml:"default_limit"`

	// MaxLimit caps query limits.
	// Default: 10000
	MaxLimit int `yaml:"max_limit"`
}

// WatchConfig contains configuration for watch mode.
type WatchConfig struct {
	// Debounce delays a re-run until changes settle.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`

	// ListenAddress serves metrics and health endpoints while watching.
	// Empty disables the HTTP server.
	// Default: ""
	ListenAddress string `yaml:"listen_address"`

	// HealthPath is the HTTP path for the health endpoint.
	// Default: "/health"
	HealthPath string `yaml:"health_path"`

	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	// Default: 5s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether lint metrics are collected.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus endpoint in watch mode.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "strictvalue"
	Namespace string `yaml:"namespace"`

	// DurationBuckets defines histogram buckets for rule run duration (seconds).
	// Default: [0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1]
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains tracing configuration.
type TracingConfig struct {
	// Enabled controls whether tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample (0.0 to 1.0).
	// Only used when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// ServiceName is the service name in traces.
	// Default: "strictvalue"
	ServiceName string `yaml:"service_name"`
}

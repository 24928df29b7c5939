package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "STRICTVALUE_"

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any errors.
// The configuration is not modified by environment variables; use LoadConfigWithEnvOverrides
// for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration and applies defaults. It does not
// validate.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention STRICTVALUE_SECTION_FIELD (e.g., STRICTVALUE_LINT_FORMAT).
// Environment variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Malformed numeric, boolean, and duration values are ignored.
func applyEnvOverrides(cfg *Config) {
	// Lint overrides
	if val := getenv("LINT_INPUTS"); val != "" {
		cfg.Lint.Inputs = splitList(val)
	}
	if val := getenv("LINT_FORMAT"); val != "" {
		cfg.Lint.Format = val
	}
	if val := getenv("LINT_FAIL_ON"); val != "" {
		cfg.Lint.FailOn = val
	}
	envBool("LINT_FIX", &cfg.Lint.Fix)
	if val := getenv("LINT_PLUGIN_SYMBOL"); val != "" {
		cfg.Lint.PluginSymbol = val
	}
	envDuration("LINT_TIMEOUT", &cfg.Lint.Timeout)

	// Findings overrides
	envBool("FINDINGS_ENABLED", &cfg.Findings.Enabled)
	if val := getenv("FINDINGS_BACKEND"); val != "" {
		cfg.Findings.Backend = val
	}
	if val := getenv("FINDINGS_SQLITE_PATH"); val != "" {
		cfg.Findings.SQLite.Path = val
	}
	if val := getenv("FINDINGS_SQLITE_DRIVER"); val != "" {
		cfg.Findings.SQLite.Driver = val
	}
	if val := getenv("FINDINGS_SQLITE_JOURNAL_MODE"); val != "" {
		cfg.Findings.SQLite.JournalMode = val
	}
	envInt("FINDINGS_RETENTION_DAYS", &cfg.Findings.Retention.Days)
	if val := getenv("FINDINGS_RETENTION_PRUNE_SCHEDULE"); val != "" {
		cfg.Findings.Retention.PruneSchedule = val
	}

	// Watch overrides
	envDuration("WATCH_DEBOUNCE", &cfg.Watch.Debounce)
	if val := getenv("WATCH_LISTEN_ADDRESS"); val != "" {
		cfg.Watch.ListenAddress = val
	}

	// Telemetry overrides
	if val := getenv("TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := getenv("TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	envBool("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envBool("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	if val := getenv("TELEMETRY_TRACING_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
	}
	if val := getenv("TELEMETRY_TRACING_SAMPLE_RATIO"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Telemetry.Tracing.SampleRatio = f
		}
	}
}

func getenv(name string) string {
	return os.Getenv(EnvPrefix + name)
}

func envBool(name string, dst *bool) {
	if val := getenv(name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envInt(name string, dst *int) {
	if val := getenv(name); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envDuration(name string, dst *time.Duration) {
	if val := getenv(name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

// splitList splits a comma-separated list, dropping empty entries.
func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

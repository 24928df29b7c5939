package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/robfig/cron/v3"

	"mercator-hq/strictvalue/pkg/strictvalue"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "rules[0].options").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateRules(cfg.Rules)...)
	errs = append(errs, validateFixes(cfg.Fixes)...)
	errs = append(errs, validateLint(&cfg.Lint)...)
	errs = append(errs, validateFindings(&cfg.Findings)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateRules checks every rule's selector and options. Option objects are
// checked with the same gate a rule applies before linting, so a config that
// validates here always builds.
func validateRules(rules []RuleConfig) []FieldError {
	var errs []FieldError
	names := make(map[string]int, len(rules))

	for i, rule := range rules {
		prefix := fmt.Sprintf("rules[%d]", i)

		if rule.Properties == nil {
			errs = append(errs, FieldError{
				Field:   prefix + ".properties",
				Message: "properties are required",
			})
		} else if !strictvalue.ValidateSelector(rule.Properties) {
			errs = append(errs, FieldError{
				Field:   prefix + ".properties",
				Message: "must be a property name, a /pattern/, or a list of them",
			})
		}

		if opts := rule.RawOptions(); opts != nil {
			if !strictvalue.ValidateOptions(opts) {
				errs = append(errs, FieldError{
					Field:   prefix + ".options",
					Message: "invalid options object",
				})
			} else if _, err := strictvalue.ParsePolicy(opts); err != nil {
				errs = append(errs, FieldError{
					Field:   prefix + ".options",
					Message: err.Error(),
				})
			}
		}

		if rule.Properties != nil && strictvalue.ValidateSelector(rule.Properties) {
			if _, err := strictvalue.NewRuleFromPolicy(rule.Properties, strictvalue.DefaultPolicy()); err != nil {
				var pe *strictvalue.PatternError
				msg := err.Error()
				if errors.As(err, &pe) {
					msg = fmt.Sprintf("invalid pattern %q", pe.Pattern)
				}
				errs = append(errs, FieldError{
					Field:   prefix + ".properties",
					Message: msg,
				})
			}
		}

		if rule.Name != "" {
			if first, dup := names[rule.Name]; dup {
				errs = append(errs, FieldError{
					Field:   prefix + ".name",
					Message: fmt.Sprintf("duplicate rule name %q (also rules[%d])", rule.Name, first),
				})
			} else {
				names[rule.Name] = i
			}
		}
	}

	return errs
}

// validateFixes checks that every replacement fix has a name and that no
// value is replaced with an empty string.
func validateFixes(fixes map[string]map[string]string) []FieldError {
	var errs []FieldError

	names := make([]string, 0, len(fixes))
	for name := range fixes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			errs = append(errs, FieldError{
				Field:   "fixes",
				Message: "fix name cannot be empty",
			})
			continue
		}
		if len(fixes[name]) == 0 {
			errs = append(errs, FieldError{
				Field:   "fixes." + name,
				Message: "fix must map at least one value",
			})
		}
		for from, to := range fixes[name] {
			if strings.TrimSpace(to) == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("fixes.%s[%q]", name, from),
					Message: "replacement cannot be empty",
				})
			}
		}
	}

	return errs
}

// validateLint validates lint configuration.
func validateLint(cfg *LintConfig) []FieldError {
	var errs []FieldError

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[cfg.Format] {
		errs = append(errs, FieldError{
			Field:   "lint.format",
			Message: fmt.Sprintf("invalid format %q: must be 'text' or 'json'", cfg.Format),
		})
	}

	validFailOn := map[string]bool{"error": true, "warning": true, "never": true}
	if !validFailOn[cfg.FailOn] {
		errs = append(errs, FieldError{
			Field:   "lint.fail_on",
			Message: fmt.Sprintf("invalid fail_on %q: must be 'error', 'warning', or 'never'", cfg.FailOn),
		})
	}

	for i, pattern := range cfg.Inputs {
		if strings.TrimSpace(pattern) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("lint.inputs[%d]", i),
				Message: "input pattern cannot be empty",
			})
		}
	}

	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "lint.timeout",
			Message: "timeout must be non-negative",
		})
	}

	return errs
}

// validateFindings validates findings storage configuration.
func validateFindings(cfg *FindingsConfig) []FieldError {
	var errs []FieldError

	// If findings storage is disabled, skip validation
	if !cfg.Enabled {
		return errs
	}

	validBackends := map[string]bool{"memory": true, "sqlite": true}
	if !validBackends[cfg.Backend] {
		errs = append(errs, FieldError{
			Field:   "findings.backend",
			Message: fmt.Sprintf("invalid backend %q: must be 'memory' or 'sqlite'", cfg.Backend),
		})
	}

	if cfg.Backend == "sqlite" {
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "findings.sqlite.path",
				Message: "SQLite path is required when backend is 'sqlite'",
			})
		}
		validDrivers := map[string]bool{"sqlite": true, "sqlite3": true}
		if !validDrivers[cfg.SQLite.Driver] {
			errs = append(errs, FieldError{
				Field:   "findings.sqlite.driver",
				Message: fmt.Sprintf("invalid driver %q: must be 'sqlite' or 'sqlite3'", cfg.SQLite.Driver),
			})
		}
		validModes := map[string]bool{"WAL": true, "DELETE": true, "TRUNCATE": true, "MEMORY": true}
		if !validModes[strings.ToUpper(cfg.SQLite.JournalMode)] {
			errs = append(errs, FieldError{
				Field:   "findings.sqlite.journal_mode",
				Message: fmt.Sprintf("invalid journal mode %q", cfg.SQLite.JournalMode),
			})
		}
		if cfg.SQLite.MaxOpenConns < 0 || cfg.SQLite.MaxIdleConns < 0 {
			errs = append(errs, FieldError{
				Field:   "findings.sqlite",
				Message: "connection limits must be non-negative",
			})
		}
	}

	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "findings.retention.days",
			Message: "retention days must be non-negative",
		})
	}
	if cfg.Retention.Days > 3650 {
		errs = append(errs, FieldError{
			Field:   "findings.retention.days",
			Message: "retention days exceeds reasonable limit (3650 days / 10 years)",
		})
	}
	if cfg.Retention.MaxRuns < 0 {
		errs = append(errs, FieldError{
			Field:   "findings.retention.max_runs",
			Message: "max runs must be non-negative",
		})
	}
	if _, err := cron.ParseStandard(cfg.Retention.PruneSchedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "findings.retention.prune_schedule",
			Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Retention.PruneSchedule, err),
		})
	}

	if cfg.Query.DefaultLimit < 1 {
		errs = append(errs, FieldError{
			Field:   "findings.query.default_limit",
			Message: "default limit must be positive",
		})
	}
	if cfg.Query.MaxLimit < cfg.Query.DefaultLimit {
		errs = append(errs, FieldError{
			Field:   "findings.query.max_limit",
			Message: "max limit must be at least the default limit",
		})
	}

	return errs
}

// validateWatch validates watch mode configuration.
func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce",
			Message: "debounce must be non-negative",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.shutdown_timeout",
			Message: "shutdown timeout must be non-negative",
		})
	}
	if cfg.HealthPath != "" && cfg.HealthPath[0] != '/' {
		errs = append(errs, FieldError{
			Field:   "watch.health_path",
			Message: "health path must start with /",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json', 'text', or 'console'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Path == "" || cfg.Metrics.Path[0] != '/' {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}
	for i := 1; i < len(cfg.Metrics.DurationBuckets); i++ {
		if cfg.Metrics.DurationBuckets[i] <= cfg.Metrics.DurationBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.duration_buckets",
				Message: "buckets must be strictly increasing",
			})
			break
		}
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.endpoint",
			Message: "tracing endpoint is required when tracing is enabled",
		})
	}
	validSamplers := map[string]bool{"always": true, "never": true, "ratio": true}
	if !validSamplers[cfg.Tracing.Sampler] {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q: must be 'always', 'never', or 'ratio'", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1.0 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0.0 and 1.0",
		})
	}

	return errs
}

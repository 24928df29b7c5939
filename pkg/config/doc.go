// Package config provides configuration management for strictvalue.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("strictvalue.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("strictvalue.yaml")
//
// # Rules
//
// Each entry under rules pairs a property selector with a secondary options
// object:
//
//	rules:
//	  - name: colors
//	    properties: ["/color$/", "fill"]
//	    options:
//	      ignoreKeywords:
//	        "": [transparent, currentColor, inherit]
//	      severity: warning
//	      autoFixFunc: white
//
//	fixes:
//	  white:
//	    "#fff": var(--white)
//
// Validate runs every rule through the same checks a rule applies before
// linting, and reports all configuration problems at once.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention STRICTVALUE_SECTION_FIELD.
// For example:
//
//   - STRICTVALUE_LINT_FORMAT overrides lint.format
//   - STRICTVALUE_LINT_INPUTS overrides lint.inputs (comma separated)
//   - STRICTVALUE_FINDINGS_SQLITE_PATH overrides findings.sqlite.path
//   - STRICTVALUE_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Rules cannot be overridden from the environment.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation
//
// # Singleton Pattern
//
// Commands call Initialize once and read the configuration with GetConfig.
// Library code should take a *Config explicitly instead.
package config

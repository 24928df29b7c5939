package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mercator-hq/strictvalue/pkg/cli"
	"mercator-hq/strictvalue/pkg/config"
	"mercator-hq/strictvalue/pkg/findings"
	"mercator-hq/strictvalue/pkg/findings/storage"
	"mercator-hq/strictvalue/pkg/telemetry/logging"
	"mercator-hq/strictvalue/pkg/telemetry/metrics"
	"mercator-hq/strictvalue/pkg/telemetry/tracing"
)

// commandContext returns the command's context, which is nil when a RunE
// function is called directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig loads the config file with environment overrides and installs
// it as the process configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}
	config.SetConfig(cfg)
	return cfg, nil
}

// setupLogging installs the configured logger as the slog default.
func setupLogging(cfg *config.Config) (*logging.Logger, error) {
	logCfg := logging.FromConfig(cfg.Telemetry.Logging)
	if verbose {
		logCfg.Level = "debug"
	}

	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger.SetDefault()
	return logger, nil
}

// openStorage opens the findings store, or returns nil when persistence is
// disabled.
func openStorage(cfg *config.Config) (findings.Storage, error) {
	if !cfg.Findings.Enabled {
		return nil, nil
	}
	store, err := storage.New(cfg.Findings)
	if err != nil {
		return nil, fmt.Errorf("failed to open findings storage: %w", err)
	}
	return store, nil
}

// telemetry bundles the metrics collector and tracer for a command.
type telemetry struct {
	collector *metrics.Collector
	tracer    *tracing.Tracer
}

func setupTelemetry(cfg *config.Config, logger *slog.Logger) (*telemetry, error) {
	tracer, err := tracing.New(&cfg.Telemetry.Tracing, tracing.WithServiceVersion(Version))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if tracer.Enabled() {
		logger.Info("tracing enabled",
			"sampler", cfg.Telemetry.Tracing.Sampler,
			"endpoint", cfg.Telemetry.Tracing.Endpoint,
		)
	}

	return &telemetry{
		collector: metrics.NewCollector(&cfg.Telemetry.Metrics, nil),
		tracer:    tracer,
	}, nil
}

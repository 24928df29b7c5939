package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/strictvalue/pkg/cli"
	"mercator-hq/strictvalue/pkg/lint"
)

var lintFlags struct {
	fix    bool
	format string
	failOn string
}

var lintCmd = &cobra.Command{
	Use:   "lint [inputs...]",
	Short: "Check declarations against the configured rules",
	Long: `Check declaration files against the configured strict-value rules.

Inputs are YAML or JSON lists of declarations. Arguments may be files,
directories, or globs; without arguments the lint.inputs from the config are
used.

Exit status is 0 when the run is clean, 2 when findings reach the --fail-on
severity, and 1 on any other error.

Examples:
  # Lint the configured inputs
  strictvalue lint

  # Lint a directory with JSON output for CI
  strictvalue lint decls/ --format json

  # Apply configured auto-fixes and rewrite the inputs
  strictvalue lint --fix

  # Report warnings but never fail
  strictvalue lint --fail-on never`,
	RunE: lintDeclarations,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&lintFlags.fix, "fix", false, "apply configured auto-fixes and rewrite inputs")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "", "output format: text, json (uses config if not specified)")
	lintCmd.Flags().StringVar(&lintFlags.failOn, "fail-on", "", "lowest failing severity: error, warning, never (uses config if not specified)")
}

func lintDeclarations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if lintFlags.format != "" {
		cfg.Lint.Format = lintFlags.format
	}
	if lintFlags.failOn != "" {
		switch lintFlags.failOn {
		case "error", "warning", "never":
			cfg.Lint.FailOn = lintFlags.failOn
		default:
			return cli.NewConfigError("fail-on", fmt.Sprintf("unsupported value %q (want error, warning or never)", lintFlags.failOn))
		}
	}
	format, err := cli.ParseFormat(cfg.Lint.Format)
	if err != nil {
		return err
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}

	tel, err := setupTelemetry(cfg, logger.Slog())
	if err != nil {
		return cli.NewCommandError("lint", err)
	}
	defer tel.tracer.Shutdown(context.Background())

	store, err := openStorage(cfg)
	if err != nil {
		return cli.NewCommandError("lint", err)
	}
	if store != nil {
		defer store.Close()
	}

	opts := []lint.Option{
		lint.WithConfigPath(cfgFile),
		lint.WithLogger(logger.Slog()),
		lint.WithCollector(tel.collector),
		lint.WithTracer(tel.tracer),
	}
	if store != nil {
		opts = append(opts, lint.WithStorage(store))
	}

	runner, err := lint.New(cfg, opts...)
	if err != nil {
		return cli.NewConfigError("rules", err.Error())
	}

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	summary, runErr := runner.Run(ctx, lint.RunOptions{Inputs: args, Fix: lintFlags.fix})
	if summary != nil {
		if err := cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), summary); err != nil {
			return cli.NewCommandError("lint", err)
		}
	}
	if runErr != nil {
		return cli.NewCommandError("lint", runErr)
	}

	if summary.Failed(cfg.Lint.FailOn) {
		return &cli.ExitError{Code: cli.ExitFindings}
	}
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/strictvalue/pkg/cli"
	"mercator-hq/strictvalue/pkg/lint"
	"mercator-hq/strictvalue/pkg/strictvalue"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and rules",
	Long: `Validate the configuration file and every rule's selector and options.

Named auto-fix functions are resolved as well, first against the fixes
section and then as Go plugins. An unresolvable fix is reported as a warning
because linting still works without it.

Examples:
  strictvalue validate
  strictvalue validate --config ci/strictvalue.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fixes, err := lint.NewFixRegistry(cfg.Fixes)
	if err != nil {
		return cli.NewConfigError("fixes", err.Error())
	}
	loader := strictvalue.Loaders{fixes, strictvalue.PluginLoader{Symbol: cfg.Lint.PluginSymbol}}
	rules, err := lint.BuildRules(cfg.Rules, strictvalue.WithLoader(loader))
	if err != nil {
		return cli.NewConfigError("rules", err.Error())
	}

	out := cmd.OutOrStdout()
	for _, rule := range rules {
		fmt.Fprintf(out, "✓ %s %v\n", rule.Name(), rule.Selectors())
		if err := rule.FixErr(); err != nil {
			fmt.Fprintf(out, "  ⚠ auto-fix unavailable: %v\n", err)
		}
	}
	fmt.Fprintf(out, "Configuration valid: %d rules\n", len(rules))
	return nil
}

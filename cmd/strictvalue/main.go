// Strictvalue enforces that stylesheet declaration values are design tokens:
// variables, functions, or explicitly allowed keywords, instead of
// hard-coded literals.
//
// It reads declarations produced by a stylesheet parser as YAML or JSON,
// checks them against the configured rules, and reports findings:
//
//	# Lint the inputs listed in the config
//	strictvalue lint
//
//	# Lint specific files and apply configured auto-fixes
//	strictvalue lint --fix decls/*.yaml
//
//	# Validate the configuration and rule options
//	strictvalue validate
//
//	# Query persisted findings
//	strictvalue findings list --rule colors --format csv
//
//	# Re-lint on every change, serving /metrics and /health
//	strictvalue watch
package main

func main() {
	Execute()
}

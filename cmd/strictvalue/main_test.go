package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mercator-hq/strictvalue/pkg/cli"
	"mercator-hq/strictvalue/pkg/telemetry/health"
)

const declarations = `- source: app.css
  property: color
  value: "#fff"
  line: 3
  column: 5
  between: ": "
- source: app.css
  property: color
  value: "$primary"
  line: 4
  column: 5
  between: ": "
`

// execute runs the root command with args after resetting flag state left by
// earlier runs.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile = "strictvalue.yaml"
	verbose = false
	lintFlags.fix, lintFlags.format, lintFlags.failOn = false, "", ""
	watchFlags.listen, watchFlags.fix, watchFlags.format = "", false, ""
	findingsFlags.runID, findingsFlags.rule, findingsFlags.source = "", "", ""
	findingsFlags.property, findingsFlags.severity, findingsFlags.fingerprint = "", "", ""
	findingsFlags.status, findingsFlags.since = "", 0
	findingsFlags.limit, findingsFlags.offset = 0, 0
	findingsFlags.sortBy, findingsFlags.sortOrder = "", ""
	findingsFlags.format, findingsFlags.output = "text", ""
	findingsFlags.days, findingsFlags.maxRuns = 0, 0

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

// setup writes a config and a declarations directory and returns the config
// path and the directory.
func setup(t *testing.T, extra string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	decls := filepath.Join(dir, "decls")
	if err := os.MkdirAll(decls, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(decls, "app.yaml"), []byte(declarations), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := fmt.Sprintf(`rules:
  - name: colors
    properties: color
lint:
  inputs:
    - %s
telemetry:
  logging:
    level: error
%s`, decls, extra)

	path := filepath.Join(dir, "strictvalue.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return path, dir
}

func TestLintCommand(t *testing.T) {
	cfgPath, _ := setup(t, "")

	out, err := execute(t, "lint", "--config", cfgPath, "--format", "json")
	if cli.ExitCode(err) != cli.ExitFindings {
		t.Fatalf("exit code = %d (%v), want %d", cli.ExitCode(err), err, cli.ExitFindings)
	}

	var summary struct {
		Status   string `json:"status"`
		Findings []struct {
			Rule  string `json:"rule"`
			Value string `json:"value"`
		} `json:"findings"`
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if summary.Status != "findings" || len(summary.Findings) != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.Findings[0].Rule != "colors" || summary.Findings[0].Value != "#fff" {
		t.Errorf("finding = %+v", summary.Findings[0])
	}
}

func TestLintCommand_Text(t *testing.T) {
	cfgPath, _ := setup(t, "")

	out, err := execute(t, "lint", "--config", cfgPath, "--fail-on", "never")
	if err != nil {
		t.Fatalf("lint error = %v", err)
	}
	if !strings.Contains(out, `Expected variable or function for "#fff" of "color"`) {
		t.Errorf("text output missing message:\n%s", out)
	}
	if !strings.Contains(out, "1 problem (1 errors, 0 warnings)") {
		t.Errorf("text output missing totals:\n%s", out)
	}
}

func TestLintCommand_Errors(t *testing.T) {
	cfgPath, dir := setup(t, "")

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing config", args: []string{"lint", "--config", filepath.Join(dir, "missing.yaml")}},
		{name: "bad format", args: []string{"lint", "--config", cfgPath, "--format", "xml"}},
		{name: "bad fail-on", args: []string{"lint", "--config", cfgPath, "--fail-on", "info"}},
		{name: "missing input", args: []string{"lint", "--config", cfgPath, filepath.Join(dir, "nope.yaml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if cli.ExitCode(err) != cli.ExitFailure {
				t.Errorf("exit code = %d (%v), want %d", cli.ExitCode(err), err, cli.ExitFailure)
			}
		})
	}
}

func TestValidateCommand(t *testing.T) {
	cfgPath, _ := setup(t, "")

	out, err := execute(t, "validate", "--config", cfgPath)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if !strings.Contains(out, "Configuration valid: 1 rules") {
		t.Errorf("output = %q", out)
	}

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("rules:\n  - properties: color\n    options:\n      ignoreKeywords: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = execute(t, "validate", "--config", bad)
	var cfgErr *cli.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("validate error = %v, want *cli.ConfigError", err)
	}
}

func TestLintCommand_ConfigFixes(t *testing.T) {
	dir := t.TempDir()
	declPath := filepath.Join(dir, "app.yaml")
	if err := os.WriteFile(declPath, []byte(declarations), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "strictvalue.yaml")
	cfg := fmt.Sprintf(`rules:
  - name: colors
    properties: color
    options:
      autoFixFunc: white
fixes:
  white:
    "#fff": var(--white)
lint:
  inputs:
    - %s
telemetry:
  logging:
    level: error
`, declPath)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "validate", "--config", cfgPath)
	if err != nil {
		t.Fatalf("validate error = %v", err)
	}
	if strings.Contains(out, "auto-fix unavailable") {
		t.Errorf("configured fix not resolved: %q", out)
	}

	if _, err := execute(t, "lint", "--config", cfgPath, "--fix", "--fail-on", "never"); err != nil {
		t.Fatalf("lint --fix error = %v", err)
	}
	data, err := os.ReadFile(declPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "var(--white)") || strings.Contains(string(data), "#fff") {
		t.Errorf("declarations not rewritten:\n%s", data)
	}

	if _, err := execute(t, "lint", "--config", cfgPath); err != nil {
		t.Errorf("lint after fix error = %v, want clean run", err)
	}
}

func TestFindingsCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "findings.db")
	cfgPath, _ := setup(t, fmt.Sprintf(`findings:
  enabled: true
  backend: sqlite
  sqlite:
    path: %s
`, dbPath))

	if _, err := execute(t, "lint", "--config", cfgPath); cli.ExitCode(err) != cli.ExitFindings {
		t.Fatalf("lint exit code = %d (%v)", cli.ExitCode(err), err)
	}

	out, err := execute(t, "findings", "list", "--config", cfgPath, "--format", "csv", "--rule", "colors")
	if err != nil {
		t.Fatalf("findings list error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], "#fff") {
		t.Errorf("csv output = %q", out)
	}

	out, err = execute(t, "findings", "list", "--config", cfgPath, "--rule", "other")
	if err != nil {
		t.Fatalf("findings list error = %v", err)
	}
	if !strings.Contains(out, "0 findings") {
		t.Errorf("text output = %q", out)
	}

	out, err = execute(t, "findings", "runs", "--config", cfgPath)
	if err != nil {
		t.Fatalf("findings runs error = %v", err)
	}
	if !strings.Contains(out, "showing 1 of 1 runs") {
		t.Errorf("runs output = %q", out)
	}

	if _, err := execute(t, "findings", "list", "--config", cfgPath, "--sort-by", "bogus"); err == nil {
		t.Error("expected error for invalid sort field")
	}

	out, err = execute(t, "findings", "prune", "--config", cfgPath, "--max-runs", "5")
	if err != nil {
		t.Fatalf("findings prune error = %v", err)
	}
	if !strings.Contains(out, "Pruned 0 runs") {
		t.Errorf("prune output = %q", out)
	}
}

func TestWatchPaths(t *testing.T) {
	base := t.TempDir()
	cfgPath := filepath.Join(base, "strictvalue.yaml")
	if err := os.WriteFile(cfgPath, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	decls := filepath.Join(base, "decls")
	if err := os.MkdirAll(decls, 0o755); err != nil {
		t.Fatal(err)
	}

	got := watchPaths(cfgPath, []string{
		decls,
		filepath.Join(decls, "*.yaml"),
		filepath.Join(base, "missing", "*.json"),
	})
	want := []string{cfgPath, decls}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("watchPaths() = %v, want %v", got, want)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "strictvalue "+Version) {
		t.Errorf("version output = %q", out)
	}
}

func TestWatchSession(t *testing.T) {
	cfgPath, _ := setup(t, "")
	cfgFile = cfgPath

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	checker := health.New(time.Second)
	session := &watchSession{
		format:  cli.FormatText,
		out:     &out,
		checker: checker,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := session.rebuild(cfg); err != nil {
		t.Fatalf("rebuild() error = %v", err)
	}

	if err := session.lint(context.Background()); err != nil {
		t.Fatalf("lint() error = %v", err)
	}

	last := checker.LastRun()
	if last == nil || last.Findings != 1 || last.RunID == "" || last.Error != "" {
		t.Errorf("last run = %+v", last)
	}
	if !strings.Contains(out.String(), "1 problem") {
		t.Errorf("report = %q", out.String())
	}

	status := checker.CheckReadiness(context.Background())
	if status.Status != health.StatusReady {
		t.Errorf("readiness = %s, want %s", status.Status, health.StatusReady)
	}
}

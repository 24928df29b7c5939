package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/strictvalue/pkg/cli"
	"mercator-hq/strictvalue/pkg/config"
	"mercator-hq/strictvalue/pkg/findings"
	"mercator-hq/strictvalue/pkg/findings/export"
	"mercator-hq/strictvalue/pkg/findings/query"
	"mercator-hq/strictvalue/pkg/findings/retention"
	"mercator-hq/strictvalue/pkg/findings/storage"
)

var findingsFlags struct {
	runID       string
	rule        string
	source      string
	property    string
	severity    string
	fingerprint string
	status      string
	since       time.Duration
	limit       int
	offset      int
	sortBy      string
	sortOrder   string
	format      string
	output      string

	days    int
	maxRuns int64
}

var findingsCmd = &cobra.Command{
	Use:   "findings",
	Short: "Query and prune persisted findings",
	Long: `Query, export, and prune lint runs persisted in the findings store.

Subcommands:
  list   - List findings with filters (text, json, csv)
  runs   - List lint runs
  prune  - Apply the retention policy now

Examples:
  # Findings of the last day for one rule
  strictvalue findings list --rule colors --since 24h

  # Export everything for a run as CSV
  strictvalue findings list --run 3f1c... --format csv --output findings.csv

  # Delete runs older than 7 days
  strictvalue findings prune --days 7`,
}

var findingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List findings",
	RunE:  listFindings,
}

var findingsRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List lint runs",
	RunE:  listRuns,
}

var findingsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Prune runs by the retention policy",
	Long: `Delete runs older than the retention period and the oldest runs beyond
the maximum run count. Flags override the findings.retention config.`,
	RunE: pruneFindings,
}

func init() {
	rootCmd.AddCommand(findingsCmd)
	findingsCmd.AddCommand(findingsListCmd, findingsRunsCmd, findingsPruneCmd)

	f := findingsListCmd.Flags()
	f.StringVar(&findingsFlags.runID, "run", "", "filter by run ID")
	f.StringVar(&findingsFlags.rule, "rule", "", "filter by rule name")
	f.StringVar(&findingsFlags.source, "source", "", "filter by source file")
	f.StringVar(&findingsFlags.property, "property", "", "filter by property")
	f.StringVar(&findingsFlags.severity, "severity", "", "filter by severity")
	f.StringVar(&findingsFlags.fingerprint, "fingerprint", "", "filter by fingerprint")
	f.DurationVar(&findingsFlags.since, "since", 0, "only findings recorded within this duration (e.g. 24h)")
	f.IntVar(&findingsFlags.limit, "limit", 0, "max results (uses config default if 0)")
	f.IntVar(&findingsFlags.offset, "offset", 0, "pagination offset")
	f.StringVar(&findingsFlags.sortBy, "sort-by", "", "sort field: recorded_at, source, property, severity, rule, line")
	f.StringVar(&findingsFlags.sortOrder, "sort-order", "", "sort order: asc, desc")
	f.StringVar(&findingsFlags.format, "format", "text", "output format: text, json, csv")
	f.StringVarP(&findingsFlags.output, "output", "o", "", "output file (default: stdout)")

	r := findingsRunsCmd.Flags()
	r.StringVar(&findingsFlags.status, "status", "", "filter by status: clean, findings, error")
	r.DurationVar(&findingsFlags.since, "since", 0, "only runs started within this duration")
	r.IntVar(&findingsFlags.limit, "limit", 0, "max results (uses config default if 0)")
	r.IntVar(&findingsFlags.offset, "offset", 0, "pagination offset")
	r.StringVar(&findingsFlags.sortOrder, "sort-order", "", "sort order: asc, desc")

	p := findingsPruneCmd.Flags()
	p.IntVar(&findingsFlags.days, "days", 0, "retention period in days (uses config if 0)")
	p.Int64Var(&findingsFlags.maxRuns, "max-runs", 0, "maximum runs to keep (uses config if 0)")
}

func openFindingsStore() (*config.Config, findings.Storage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if _, err := setupLogging(cfg); err != nil {
		return nil, nil, err
	}

	store, err := storage.New(cfg.Findings)
	if err != nil {
		return nil, nil, cli.NewCommandError("findings", err)
	}
	return cfg, store, nil
}

func listFindings(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(findingsFlags.format)
	if format != "text" && format != "json" && format != "csv" {
		return cli.NewConfigError("format", fmt.Sprintf("unsupported output format %q (want text, json or csv)", format))
	}

	cfg, store, err := openFindingsStore()
	if err != nil {
		return err
	}
	defer store.Close()

	q := &findings.Query{
		RunID:       findingsFlags.runID,
		Rule:        findingsFlags.rule,
		Source:      findingsFlags.source,
		Property:    findingsFlags.property,
		Severity:    findingsFlags.severity,
		Fingerprint: findingsFlags.fingerprint,
		Limit:       findingsFlags.limit,
		Offset:      findingsFlags.offset,
		SortBy:      findingsFlags.sortBy,
		SortOrder:   findingsFlags.sortOrder,
	}
	if findingsFlags.since > 0 {
		start := time.Now().Add(-findingsFlags.since)
		q.StartTime = &start
	}

	validator := query.New(cfg.Findings.Query)
	validator.ApplyDefaults(q)
	if err := validator.Validate(q); err != nil {
		return cli.NewCommandError("findings list", err)
	}

	out, closeOut, err := openOutput(cmd, findingsFlags.output)
	if err != nil {
		return err
	}
	defer closeOut()

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	if format == "text" {
		fs, err := store.QueryFindings(ctx, q)
		if err != nil {
			return cli.NewCommandError("findings list", err)
		}
		return writeFindingsTable(out, fs)
	}

	exporter, err := export.New(format, true)
	if err != nil {
		return cli.NewCommandError("findings list", err)
	}
	findingsCh, errCh, err := store.QueryFindingsStream(ctx, q)
	if err != nil {
		return cli.NewCommandError("findings list", err)
	}
	if err := exporter.ExportStream(ctx, findingsCh, out); err != nil {
		return cli.NewCommandError("findings list", err)
	}
	if err := <-errCh; err != nil {
		return cli.NewCommandError("findings list", err)
	}
	return nil
}

func writeFindingsTable(w io.Writer, fs []*findings.Finding) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "RECORDED\tRULE\tSOURCE\tPOSITION\tPROPERTY\tVALUE\tSEVERITY")
	for _, f := range fs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d:%d\t%s\t%s\t%s\n",
			f.RecordedAt.Format(time.RFC3339), f.Rule, f.Source, f.Line, f.Column, f.Property, f.Value, f.Severity)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d findings\n", len(fs))
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, store, err := openFindingsStore()
	if err != nil {
		return err
	}
	defer store.Close()

	q := &findings.RunQuery{
		Status:    findingsFlags.status,
		Limit:     findingsFlags.limit,
		Offset:    findingsFlags.offset,
		SortOrder: findingsFlags.sortOrder,
	}
	if findingsFlags.since > 0 {
		start := time.Now().Add(-findingsFlags.since)
		q.StartTime = &start
	}

	validator := query.New(cfg.Findings.Query)
	validator.ApplyRunDefaults(q)
	if err := validator.ValidateRuns(q); err != nil {
		return cli.NewCommandError("findings runs", err)
	}

	ctx := commandContext(cmd)
	runs, err := store.ListRuns(ctx, q)
	if err != nil {
		return cli.NewCommandError("findings runs", err)
	}
	total, err := store.CountRuns(ctx, &findings.RunQuery{Status: q.Status, StartTime: q.StartTime})
	if err != nil {
		return cli.NewCommandError("findings runs", err)
	}

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tSTATUS\tDECLARATIONS\tFINDINGS\tDURATION")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID, run.StartedAt.Format(time.RFC3339), run.Status, run.Declarations, run.FindingCount, run.Duration().Round(time.Millisecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "\nshowing %d of %d runs\n", len(runs), total)
	return err
}

func pruneFindings(cmd *cobra.Command, args []string) error {
	cfg, store, err := openFindingsStore()
	if err != nil {
		return err
	}
	defer store.Close()

	retentionCfg := cfg.Findings.Retention
	if findingsFlags.days > 0 {
		retentionCfg.Days = findingsFlags.days
	}
	if findingsFlags.maxRuns > 0 {
		retentionCfg.MaxRuns = findingsFlags.maxRuns
	}

	deleted, err := retention.NewPruner(store, retentionCfg).Prune(commandContext(cmd))
	if err != nil {
		return cli.NewCommandError("findings prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d runs\n", deleted)
	return nil
}

// openOutput returns the command's stdout or the named file.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, cli.NewCommandError("findings", fmt.Errorf("failed to create output file: %w", err))
	}
	return f, func() { f.Close() }, nil
}

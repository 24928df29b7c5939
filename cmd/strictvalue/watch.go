package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/strictvalue/pkg/cli"
	"mercator-hq/strictvalue/pkg/config"
	"mercator-hq/strictvalue/pkg/findings/retention"
	"mercator-hq/strictvalue/pkg/lint"
	"mercator-hq/strictvalue/pkg/server"
	"mercator-hq/strictvalue/pkg/telemetry/health"
	"mercator-hq/strictvalue/pkg/watch"
)

var watchFlags struct {
	listen string
	fix    bool
	format string
}

var watchCmd = &cobra.Command{
	Use:   "watch [inputs...]",
	Short: "Re-lint whenever the config or declarations change",
	Long: `Watch the config file and declaration inputs and re-run lint after
every change.

When watch.listen_address is set, an HTTP server exposes Prometheus metrics
at telemetry.metrics.path and health endpoints at watch.health_path. With a
findings store configured, retention pruning runs on
findings.retention.prune_schedule.

Examples:
  strictvalue watch
  strictvalue watch decls/ --listen :9090`,
	RunE: watchDeclarations,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchFlags.listen, "listen", "l", "", "override listen address for metrics and health")
	watchCmd.Flags().BoolVar(&watchFlags.fix, "fix", false, "apply configured auto-fixes on every run")
	watchCmd.Flags().StringVar(&watchFlags.format, "format", "", "output format: text, json (uses config if not specified)")
}

func watchDeclarations(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchFlags.listen != "" {
		cfg.Watch.ListenAddress = watchFlags.listen
	}
	if watchFlags.format != "" {
		cfg.Lint.Format = watchFlags.format
	}
	format, err := cli.ParseFormat(cfg.Lint.Format)
	if err != nil {
		return err
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	slogger := logger.Slog().With("component", "watch")

	tel, err := setupTelemetry(cfg, slogger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer tel.tracer.Shutdown(context.Background())

	store, err := openStorage(cfg)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	if store != nil {
		defer store.Close()
	}

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd))
	defer stop()

	checker := health.New(5 * time.Second)

	opts := []lint.Option{
		lint.WithConfigPath(cfgFile),
		lint.WithLogger(logger.Slog()),
		lint.WithCollector(tel.collector),
		lint.WithTracer(tel.tracer),
	}
	if store != nil {
		opts = append(opts, lint.WithStorage(store))
		checker.RegisterCheck("findings_storage", store.Ping)

		pruner := retention.NewPruner(store, cfg.Findings.Retention)
		if err := pruner.Start(ctx); err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer pruner.Stop()
	}

	session := &watchSession{
		opts:    opts,
		inputs:  args,
		fix:     watchFlags.fix,
		format:  format,
		out:     cmd.OutOrStdout(),
		checker: checker,
		logger:  slogger,
	}
	if err := session.rebuild(cfg); err != nil {
		return cli.NewConfigError("rules", err.Error())
	}

	if cfg.Watch.ListenAddress != "" {
		mux := http.NewServeMux()
		if cfg.Telemetry.Metrics.Enabled {
			mux.Handle(cfg.Telemetry.Metrics.Path, tel.collector.Handler())
		}
		health.Mount(mux, checker, cfg.Watch.HealthPath, health.VersionInfo{
			Version:   Version,
			Commit:    GitCommit,
			BuildTime: BuildDate,
			GoVersion: runtime.Version(),
		})

		srv := server.New(cfg.Watch, tel.tracer.HTTPMiddleware(mux), logger.Slog())
		serverDone := make(chan struct{})
		go func() {
			defer close(serverDone)
			if err := srv.Start(ctx); err != nil {
				slogger.Error("http server failed", "error", err)
				stop()
			}
		}()
		defer func() {
			stop()
			<-serverDone
		}()
	}

	// Report problems from the first run but keep watching.
	_ = session.lint(ctx)

	inputs := args
	if len(inputs) == 0 {
		inputs = cfg.Lint.Inputs
	}
	watchCfg := watch.DefaultConfig(watchPaths(cfgFile, inputs)...)
	watchCfg.Debounce = cfg.Watch.Debounce

	watcher, err := watch.New(watchCfg, slogger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer watcher.Stop()

	return watcher.Watch(ctx, func(path string) error {
		if sameFile(path, cfgFile) {
			reloaded, err := config.ReloadConfig(cfgFile)
			if err != nil {
				return err
			}
			if err := session.rebuild(reloaded); err != nil {
				return err
			}
			slogger.Info("configuration reloaded", "rules", len(reloaded.Rules))
		}
		return session.lint(ctx)
	})
}

// watchSession holds the current runner; it is swapped when the config
// file changes.
type watchSession struct {
	mu     sync.Mutex
	runner *lint.Runner

	opts    []lint.Option
	inputs  []string
	fix     bool
	format  cli.OutputFormat
	out     io.Writer
	checker *health.Checker
	logger  *slog.Logger
}

func (s *watchSession) rebuild(cfg *config.Config) error {
	runner, err := lint.New(cfg, s.opts...)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.runner = runner
	s.mu.Unlock()
	return nil
}

func (s *watchSession) lint(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary, err := s.runner.Run(ctx, lint.RunOptions{Inputs: s.inputs, Fix: s.fix})

	status := health.RunStatus{CompletedAt: time.Now().UTC()}
	if summary != nil {
		status.RunID = summary.RunID
		status.Findings = len(summary.Findings)
		if ferr := cli.NewFormatter(s.format).FormatTo(s.out, summary); ferr != nil {
			s.logger.Warn("failed to write report", "error", ferr)
		}
	}
	if err != nil {
		status.Error = err.Error()
		s.logger.Error("lint run failed", "error", err)
	}
	s.checker.SetLastRun(status)

	return err
}

// watchPaths returns the config file plus, for each input, the path itself
// when it exists or the static directory prefix of a glob.
func watchPaths(configPath string, inputs []string) []string {
	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	if _, err := os.Stat(configPath); err == nil {
		add(configPath)
	}
	for _, in := range inputs {
		if _, err := os.Stat(in); err == nil {
			add(in)
			continue
		}
		dir := in
		for strings.ContainsAny(dir, `*?[\`) {
			dir = filepath.Dir(dir)
		}
		if _, err := os.Stat(dir); err == nil {
			add(dir)
		}
	}
	return paths
}

func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}


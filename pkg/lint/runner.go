package lint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/strictvalue/pkg/config"
	"mercator-hq/strictvalue/pkg/findings"
	"mercator-hq/strictvalue/pkg/strictvalue"
	"mercator-hq/strictvalue/pkg/telemetry/metrics"
	"mercator-hq/strictvalue/pkg/telemetry/tracing"
)

// Runner reads declaration inputs and checks them against the configured
// rules.
type Runner struct {
	config     *config.Config
	configPath string
	rules      []*strictvalue.Rule

	registry  *strictvalue.Registry
	fixes     *strictvalue.Registry
	storage   findings.Storage
	collector *metrics.Collector
	tracer    *tracing.Tracer
	logger    *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithConfigPath records the config file path on persisted runs.
func WithConfigPath(path string) Option {
	return func(r *Runner) { r.configPath = path }
}

// WithFixRegistry sets a registry consulted first when resolving named
// auto-fixes, ahead of the config's replacement fixes and plugins.
func WithFixRegistry(reg *strictvalue.Registry) Option {
	return func(r *Runner) { r.registry = reg }
}

// WithStorage persists every run to s.
func WithStorage(s findings.Storage) Option {
	return func(r *Runner) { r.storage = s }
}

// WithCollector records metrics for every run.
func WithCollector(c *metrics.Collector) Option {
	return func(r *Runner) { r.collector = c }
}

// WithTracer wraps runs and rules in spans.
func WithTracer(t *tracing.Tracer) Option {
	return func(r *Runner) { r.tracer = t }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// RunOptions overrides the lint config for one run.
type RunOptions struct {
	// Inputs replaces Lint.Inputs when non-empty.
	Inputs []string

	// Fix enables fix mode in addition to Lint.Fix.
	Fix bool
}

// New builds a Runner and its rules from cfg.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("lint config is nil")
	}

	r := &Runner{config: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.logger = r.logger.With("component", "lint")
	if r.tracer == nil {
		// A disabled config always yields a noop tracer.
		r.tracer, _ = tracing.New(&config.TracingConfig{})
	}

	fixes, err := NewFixRegistry(cfg.Fixes)
	if err != nil {
		return nil, err
	}
	r.fixes = fixes

	rules, err := BuildRules(cfg.Rules, r.ruleOptions()...)
	if err != nil {
		return nil, err
	}
	r.rules = rules

	return r, nil
}

func (r *Runner) ruleOptions() []strictvalue.RuleOption {
	loaders := strictvalue.Loaders{}
	if r.registry != nil {
		loaders = append(loaders, r.registry)
	}
	loaders = append(loaders, r.fixes, strictvalue.PluginLoader{Symbol: r.config.Lint.PluginSymbol})

	opts := []strictvalue.RuleOption{
		strictvalue.WithLogger(r.logger),
		strictvalue.WithLoader(loaders),
	}
	if r.collector != nil {
		opts = append(opts, strictvalue.WithObserver(r.collector))
	}
	return opts
}

// BuildRules constructs one rule per config entry. All invalid entries are
// reported together.
func BuildRules(cfgs []config.RuleConfig, opts ...strictvalue.RuleOption) ([]*strictvalue.Rule, error) {
	rules := make([]*strictvalue.Rule, 0, len(cfgs))
	var errs []error

	for i, rc := range cfgs {
		ruleOpts := opts
		if rc.Name != "" {
			ruleOpts = append(append([]strictvalue.RuleOption(nil), opts...), strictvalue.WithName(rc.Name))
		}
		rule, err := strictvalue.NewRule(rc.Properties, rc.RawOptions(), ruleOpts...)
		if err != nil {
			errs = append(errs, fmt.Errorf("rules[%d]: %w", i, err))
			continue
		}
		rules = append(rules, rule)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return rules, nil
}

// Rules returns the configured rules.
func (r *Runner) Rules() []*strictvalue.Rule {
	return r.rules
}

// location maps a flattened declaration back to its file entry.
type location struct {
	file  int
	entry int
}

// Run lints the inputs once. The returned summary is non-nil whenever the
// inputs could be read, even if persisting the run or resolving an auto-fix
// failed.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*Summary, error) {
	if r.config.Lint.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Lint.Timeout)
		defer cancel()
	}

	inputs := opts.Inputs
	if len(inputs) == 0 {
		inputs = r.config.Lint.Inputs
	}
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	fix := opts.Fix || r.config.Lint.Fix

	start := time.Now()
	run := findings.NewRun(r.configPath, inputs, fix)
	logger := r.logger.With("run_id", run.ID)

	ctx, span := r.tracer.Start(ctx, tracing.SpanLintRun)
	defer span.End()

	files, err := r.readInputs(ctx, inputs)
	if err != nil {
		tracing.SetError(span, err)
		r.recordRun(findings.RunStatusError, time.Since(start), 0)
		return nil, err
	}

	var (
		decls []strictvalue.Declaration
		locs  []location
	)
	for fi, f := range files {
		for ei, d := range f.Declarations() {
			decls = append(decls, d)
			locs = append(locs, location{file: fi, entry: ei})
		}
	}
	tracing.SetRunAttributes(span, run.ID, len(decls), fix)

	summary := &Summary{
		RunID:        run.ID,
		Files:        len(files),
		Declarations: len(decls),
		Findings:     []Finding{},
	}

	var runErrs []error
	for _, rule := range r.rules {
		report, err := r.runRule(ctx, rule, decls, fix)
		if report != nil {
			summary.Checked += report.Checked
			for _, f := range report.Findings {
				summary.Findings = append(summary.Findings, Finding{Rule: rule.Name(), Finding: f})
				run.Add(rule.Name(), f)
				if f.FixApplied {
					summary.Fixed++
				}
			}
			for _, fe := range report.FixErrors {
				summary.FixErrors = append(summary.FixErrors, fe.Error())
			}
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				tracing.SetError(span, ctxErr)
				r.recordRun(findings.RunStatusError, time.Since(start), len(decls))
				return nil, fmt.Errorf("lint run cancelled: %w", ctxErr)
			}
			runErrs = append(runErrs, fmt.Errorf("rule %s: %w", rule.Name(), err))
		}
	}

	if fix && summary.Fixed > 0 {
		rewritten, err := r.writeFixes(ctx, files, decls, locs)
		summary.Rewritten = rewritten
		if err != nil {
			runErrs = append(runErrs, err)
		}
	}

	runErr := errors.Join(runErrs...)
	run.Complete(len(decls), runErr)
	summary.Status = run.Status
	summary.Duration = time.Since(start)

	if err := r.persist(ctx, run); err != nil {
		runErr = errors.Join(runErr, err)
	}

	r.recordRun(run.Status, summary.Duration, len(decls))
	tracing.SetStatus(span, runErr)
	span.SetAttributes(
		attribute.Int(tracing.AttrFindings, len(summary.Findings)),
		attribute.Int(tracing.AttrFixes, summary.Fixed),
	)

	logger.Info("lint run complete",
		"status", summary.Status,
		"files", summary.Files,
		"declarations", summary.Declarations,
		"findings", len(summary.Findings),
		"fixed", summary.Fixed,
		"duration_ms", summary.Duration.Milliseconds(),
	)

	return summary, runErr
}

func (r *Runner) readInputs(ctx context.Context, inputs []string) ([]*File, error) {
	paths, err := Expand(inputs)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, ErrNoInputs
	}

	files := make([]*File, 0, len(paths))
	for _, path := range paths {
		_, span := r.tracer.Start(ctx, tracing.SpanReadFile, trace.WithAttributes(attribute.String(tracing.AttrSource, path)))
		f, err := ReadFile(path)
		tracing.SetStatus(span, err)
		span.End()
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func (r *Runner) runRule(ctx context.Context, rule *strictvalue.Rule, decls []strictvalue.Declaration, fix bool) (*strictvalue.Report, error) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanRule)
	defer span.End()

	start := time.Now()
	report, err := rule.Run(ctx, decls, strictvalue.RunOptions{Fix: fix})
	duration := time.Since(start)

	fixes := 0
	if report != nil {
		for _, f := range report.Findings {
			tracing.AddFindingEvent(span, f.Source, f.Property, f.Value, f.Severity)
			if f.FixApplied {
				fixes++
			}
		}
		tracing.SetRuleAttributes(span, rule.Name(), rule.Selectors(), report.Checked, len(report.Findings), fixes)
		r.recordRule(rule.Name(), duration, report)
	}
	tracing.SetStatus(span, err)

	return report, err
}

// writeFixes copies fixed values back into their entries and rewrites the
// affected files.
func (r *Runner) writeFixes(ctx context.Context, files []*File, decls []strictvalue.Declaration, locs []location) ([]string, error) {
	_, span := r.tracer.Start(ctx, tracing.SpanWriteFix)
	defer span.End()

	changed := make(map[int]bool)
	for i, d := range decls {
		loc := locs[i]
		entry := &files[loc.file].Entries[loc.entry]
		if entry.Value != d.Value {
			entry.Value = d.Value
			changed[loc.file] = true
		}
	}

	var (
		rewritten []string
		errs      []error
	)
	for fi, f := range files {
		if !changed[fi] {
			continue
		}
		if err := WriteFile(f); err != nil {
			errs = append(errs, err)
			continue
		}
		rewritten = append(rewritten, f.Path)
		r.logger.Info("fixed declarations written", "path", f.Path)
	}

	err := errors.Join(errs...)
	tracing.SetStatus(span, err)
	return rewritten, err
}

func (r *Runner) persist(ctx context.Context, run *findings.Run) error {
	if r.storage == nil {
		return nil
	}

	ctx, span := r.tracer.Start(ctx, tracing.SpanPersist)
	defer span.End()

	if err := r.storage.StoreRun(ctx, run); err != nil {
		tracing.SetError(span, err)
		r.logger.Error("failed to persist lint run", "run_id", run.ID, "error", err)
		return fmt.Errorf("failed to persist run: %w", err)
	}
	return nil
}

func (r *Runner) recordRun(status string, duration time.Duration, declarations int) {
	if r.collector == nil {
		return
	}
	r.collector.RecordRun(status, duration, declarations)
}

func (r *Runner) recordRule(rule string, duration time.Duration, report *strictvalue.Report) {
	if r.collector == nil {
		return
	}
	r.collector.RecordRule(rule, duration, report.Checked)
	for _, f := range report.Findings {
		r.collector.RecordFinding(rule, f.Severity)
		if f.FixApplied {
			r.collector.RecordFix(rule, true)
		}
	}
	for range report.FixErrors {
		r.collector.RecordFix(rule, false)
	}
}

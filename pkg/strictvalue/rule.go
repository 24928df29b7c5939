package strictvalue

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"mercator-hq/strictvalue/pkg/shorthand"
)

// Rule checks declarations whose property matches one of its selectors.
type Rule struct {
	name      string
	selectors []selector
	policy    *Policy

	fix    FixFunc
	fixErr error

	logger   *slog.Logger
	observer Observer
	loader   Loader
}

// RuleOption configures a Rule.
type RuleOption func(*Rule)

// WithName sets the name reported in logs and findings storage.
func WithName(name string) RuleOption {
	return func(r *Rule) { r.name = name }
}

// WithLogger sets the rule's logger.
func WithLogger(logger *slog.Logger) RuleOption {
	return func(r *Rule) { r.logger = logger }
}

// WithObserver sets the observer notified for every classification.
func WithObserver(o Observer) RuleOption {
	return func(r *Rule) { r.observer = o }
}

// WithLoader sets the Loader used to resolve a named autoFixFunc.
func WithLoader(l Loader) RuleOption {
	return func(r *Rule) { r.loader = l }
}

// RunOptions controls a single Run.
type RunOptions struct {
	// Fix applies the configured auto-fix to rejected declarations.
	Fix bool
}

// Report is the outcome of a Run.
type Report struct {
	// Checked counts declarations matched by a selector.
	Checked int

	Findings []Finding

	// FixErrors holds per-declaration auto-fix failures.
	FixErrors []error
}

type selector struct {
	raw string
	re  *regexp.Regexp
}

func (s selector) match(property string) bool {
	if s.re != nil {
		return s.re.MatchString(property)
	}
	return s.raw == property
}

// NewRule validates the primary and secondary options and builds a Rule.
//
// The selector is a property name, a /pattern/, a number, or a list of them.
// Options are the raw secondary options object; nil means defaults. A named
// autoFixFunc is resolved once here. A resolution failure does not fail
// construction: linting proceeds and Run reports the error in fix mode.
func NewRule(sel any, options any, opts ...RuleOption) (*Rule, error) {
	if !ValidateSelector(sel) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSelector, sel)
	}

	policy, err := ParsePolicy(options)
	if err != nil {
		return nil, err
	}

	return NewRuleFromPolicy(sel, policy, opts...)
}

// NewRuleFromPolicy builds a Rule from an already parsed Policy. The Rule
// keeps its own copy of policy.
func NewRuleFromPolicy(sel any, policy *Policy, opts ...RuleOption) (*Rule, error) {
	if !ValidateSelector(sel) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSelector, sel)
	}
	if policy == nil {
		policy = DefaultPolicy()
	} else {
		cp := *policy
		policy = &cp
	}
	if policy.Severity == "" {
		policy.Severity = DefaultSeverity
	}

	selectors, err := compileSelectors(sel)
	if err != nil {
		return nil, err
	}

	r := &Rule{
		selectors: selectors,
		policy:    policy,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.name == "" {
		r.name = selectors[0].raw
	}
	r.logger = r.logger.With("component", "strictvalue.rule", "rule", r.name)

	if policy.AutoFixFunc.IsSet() {
		r.fix, r.fixErr = ResolveFix(policy.AutoFixFunc, r.loader)
		if r.fixErr != nil {
			r.logger.Warn("auto-fix unavailable", "ref", policy.AutoFixFunc.Name(), "error", r.fixErr)
		}
	}

	return r, nil
}

func compileSelectors(sel any) ([]selector, error) {
	var raws []string
	if isScalar(sel) {
		raws = []string{scalarString(sel)}
	} else {
		items, _ := asList(sel)
		for _, item := range items {
			raws = append(raws, scalarString(item))
		}
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("%w: no properties", ErrInvalidSelector)
	}

	out := make([]selector, 0, len(raws))
	for _, raw := range raws {
		s := selector{raw: raw}
		if pattern, ok := delimitedPattern(raw); ok {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, &PatternError{Pattern: raw, Cause: err}
			}
			s.re = re
		}
		out = append(out, s)
	}
	return out, nil
}

// Name returns the rule name.
func (r *Rule) Name() string { return r.name }

// Policy returns the rule's policy. Callers must not modify it.
func (r *Rule) Policy() *Policy { return r.policy }

// Selectors returns the configured selectors as written.
func (r *Rule) Selectors() []string {
	out := make([]string, len(r.selectors))
	for i, s := range r.selectors {
		out[i] = s.raw
	}
	return out
}

// FixErr returns the error from resolving the configured auto-fix, if any.
func (r *Rule) FixErr() error { return r.fixErr }

// Matches reports whether any selector matches property.
func (r *Rule) Matches(property string) bool {
	for _, s := range r.selectors {
		if s.match(property) {
			return true
		}
	}
	return false
}

// Run checks decls and reports rejected values. Each declaration is reported
// at most once. In fix mode the returned error is the auto-fix resolution
// error, if any; findings are still complete.
//
// In fix mode a successful fix also overwrites the Value of the matching
// element of decls, so the caller can write the fixed declarations back.
// Findings keep the original value, with the replacement in Finding.Fixed.
func (r *Rule) Run(ctx context.Context, decls []Declaration, opts RunOptions) (*Report, error) {
	pass := NewPass(r.policy, r.observer)
	report := &Report{}

	for i := range decls {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		decl := &decls[i]
		rej, checked := r.check(pass, *decl)
		if !checked {
			continue
		}
		report.Checked++
		if rej == nil {
			continue
		}

		if opts.Fix && !r.policy.DisableFix && r.fix != nil {
			r.applyFix(decl, rej, report)
		}
		report.Findings = append(report.Findings, rej.finding)
	}

	r.logger.Debug("rule run complete",
		"checked", report.Checked,
		"findings", len(report.Findings),
		"fix", opts.Fix,
	)

	if opts.Fix && !r.policy.DisableFix && r.fixErr != nil {
		return report, r.fixErr
	}
	return report, nil
}

// rejection pairs a finding with the classification that produced it.
type rejection struct {
	finding Finding
	result  Result
}

// check classifies one declaration. It reports false when no selector
// applies.
func (r *Rule) check(pass *Pass, decl Declaration) (*rejection, bool) {
	if r.policy.ExpandShorthand && shorthand.IsShorthand(decl.Property) {
		longhands := shorthand.Expand(decl.Property, decl.Value, r.policy.RecurseLonghand)
		if len(longhands) > 0 {
			return r.checkLonghands(pass, decl, longhands)
		}
	}

	if !r.Matches(decl.Property) {
		return nil, false
	}

	res := pass.Classify(decl.Value, decl.Property)
	if res.Accepted {
		return nil, true
	}
	return &rejection{finding: r.finding(decl, res), result: res}, true
}

// checkLonghands reports the first rejected longhand of an expanded
// shorthand. A longhand is checked when a selector names it or the
// shorthand itself.
func (r *Rule) checkLonghands(pass *Pass, decl Declaration, longhands []shorthand.Longhand) (*rejection, bool) {
	parent := r.Matches(decl.Property)
	checked := false

	for _, lh := range longhands {
		if !parent && !r.Matches(lh.Property) {
			continue
		}
		checked = true

		res := pass.Classify(lh.Value, lh.Property)
		if res.Accepted {
			continue
		}

		f := r.finding(decl, res)
		f.Longhand = lh.Property
		f.LonghandValue = lh.Value
		return &rejection{finding: f, result: res}, true
	}

	return nil, checked
}

func (r *Rule) finding(decl Declaration, res Result) Finding {
	return Finding{
		Source:        decl.Source,
		Property:      decl.Property,
		Value:         decl.Value,
		Position:      decl.ValuePosition(),
		Severity:      r.policy.Severity,
		Message:       res.Message,
		EligibleTypes: res.EligibleTypes,
	}
}

// applyFix runs the auto-fix and writes the replacement value back into decl.
func (r *Rule) applyFix(decl *Declaration, rej *rejection, report *Report) {
	f := &rej.finding
	fc := FixContext{
		Result:        rej.result,
		Longhand:      f.Longhand,
		LonghandValue: f.LonghandValue,
		Policy:        r.policy,
	}

	fixed, err := r.fix(*decl, fc)
	if err != nil {
		report.FixErrors = append(report.FixErrors, &FixError{
			Source:   decl.Source,
			Property: decl.Property,
			Value:    decl.Value,
			Cause:    err,
		})
		r.logger.Warn("auto-fix failed",
			"source", decl.Source,
			"property", decl.Property,
			"error", err,
		)
		return
	}

	decl.Value = fixed
	f.Fixed = fixed
	f.FixApplied = true
}

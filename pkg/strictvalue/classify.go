package strictvalue

import (
	"regexp"
	"strings"
)

var (
	// reVariable matches whole-value token references: $x, @x or var(--x).
	reVariable = regexp.MustCompile(`^(?:@.+|\$.+|var\(--.+\))$`)

	// reFunction matches a whole value shaped like name(arguments).
	reFunction = regexp.MustCompile(`^.+\(.+\)$`)
)

// Pass classifies values for one lint run. It caches compiled keyword and
// value matchers per property, so it must not outlive the policy it was built
// for. A Pass is not safe for concurrent use.
type Pass struct {
	policy   *Policy
	observer Observer
	keywords map[string]*regexp.Regexp
	values   map[string]*regexp.Regexp
}

// NewPass creates a Pass for policy. A nil policy means DefaultPolicy and a
// nil observer disables observation.
func NewPass(policy *Policy, observer Observer) *Pass {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Pass{
		policy:   policy,
		observer: observer,
		keywords: make(map[string]*regexp.Regexp),
		values:   make(map[string]*regexp.Regexp),
	}
}

// Classify is a convenience for a one-off classification with a throwaway
// Pass.
func Classify(value, property string, policy *Policy) Result {
	return NewPass(policy, nil).Classify(value, property)
}

// Classify decides whether value is acceptable for property.
//
// The variable recognizer runs first unless ignoreVariables is false for the
// property. The function recognizer runs when no variable matched and
// ignoreFunctions is enabled for the property. The keyword and value
// recognizers run last, only when allow-lists resolve for the property.
func (p *Pass) Classify(value, property string) Result {
	var res Result

	if IgnoredVariablesOrFunctions(p.policy.IgnoreVariables, property) {
		res.Variable = reVariable.MatchString(value)
	}

	if !res.Variable && functionsEnabled(p.policy.IgnoreFunctions, property) {
		res.Function = reFunction.MatchString(value)
	}

	if !res.Variable && !res.Function {
		if re := p.matcher(p.keywords, p.policy.IgnoreKeywords, property, false); re != nil {
			res.Keyword = re.MatchString(value)
		}
		if !res.Keyword {
			if re := p.matcher(p.values, p.policy.IgnoreValues, property, true); re != nil {
				res.Value = re.MatchString(value)
			}
		}
	}

	res.Accepted = res.Variable || res.Function || res.Keyword || res.Value
	if !res.Accepted {
		res.EligibleTypes = EligibleTypes(p.policy, property)
		res.Message = Expected(res.EligibleTypes, value, property, p.policy.Message)
	}

	if p.observer != nil {
		p.observer.ObserveClassification(property, res.Accepted, res.EligibleTypes)
	}

	return res
}

// matcher returns the cached allow-list matcher for property, compiling it on
// first use. A nil result (no list for the property) is cached too.
func (p *Pass) matcher(cache map[string]*regexp.Regexp, opt ValueOption, property string, patterns bool) *regexp.Regexp {
	if opt.kind == KindUnset {
		return nil
	}

	if re, ok := cache[property]; ok {
		p.observeCache(true)
		return re
	}
	p.observeCache(false)

	re := compileAllowList(resolveValueOption(opt, property), patterns)
	cache[property] = re
	return re
}

func (p *Pass) observeCache(hit bool) {
	if p.observer != nil {
		p.observer.ObserveMatcherCache(hit)
	}
}

// compileAllowList builds an anchored alternation over entries. Entries are
// literal; with patterns set, /…/ entries are used as regular expressions.
func compileAllowList(entries []string, patterns bool) *regexp.Regexp {
	if len(entries) == 0 {
		return nil
	}

	alts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e == hashLeaf {
			continue
		}
		if pattern, ok := delimitedPattern(e); ok && patterns {
			alts = append(alts, "(?:"+pattern+")")
			continue
		}
		alts = append(alts, regexp.QuoteMeta(e))
	}
	if len(alts) == 0 {
		return nil
	}

	re, err := regexp.Compile("^(?:" + strings.Join(alts, "|") + ")$")
	if err != nil {
		// Only reachable for policies built in code with a broken /…/ entry.
		return nil
	}
	return re
}

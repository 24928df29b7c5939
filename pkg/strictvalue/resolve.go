package strictvalue

// hashLeaf stands in for a per-property hash used whole as a leaf value.
// Allow-list matchers skip it.
const hashLeaf = "\x00hash"

// IgnoredKeywords resolves the ignoreKeywords option for one property.
//
// Hash lookup order is the property's own key, then the "" default key. A hash
// with neither resolves as its own leaf: a one-element list holding
// hashLeaf, which marks keyword as eligible but matches no value. The
// returned slice is a fresh copy; callers may modify it.
func IgnoredKeywords(opt ValueOption, property string) []string {
	return resolveValueOption(opt, property)
}

// IgnoredValues resolves the ignoreValues option for one property. It follows
// the same rules as IgnoredKeywords.
func IgnoredValues(opt ValueOption, property string) []string {
	return resolveValueOption(opt, property)
}

func resolveValueOption(opt ValueOption, property string) []string {
	switch opt.kind {
	case KindList:
		return append([]string(nil), opt.list...)
	case KindHash:
		if leaf, ok := opt.hash[property]; ok {
			return append([]string(nil), leaf...)
		}
		if leaf, ok := opt.hash[""]; ok {
			return append([]string(nil), leaf...)
		}
		return []string{hashLeaf}
	}
	return nil
}

// IgnoredVariablesOrFunctions resolves ignoreVariables or ignoreFunctions for
// one property.
//
// A boolean applies to every property. A hash returns the property's entry
// when present and otherwise true, since a configured hash is truthy. That
// fallback only decides which types a diagnostic lists as eligible; whether
// the function recognizer runs is decided by functionsEnabled.
func IgnoredVariablesOrFunctions(opt BoolOption, property string) bool {
	switch opt.kind {
	case KindBool:
		return opt.value
	case KindHash:
		if v, ok := opt.hash[property]; ok {
			return v
		}
		return true
	}
	return false
}

// functionsEnabled reports whether the function recognizer runs for property.
// A hash without an entry for the property does not enable it.
func functionsEnabled(opt BoolOption, property string) bool {
	switch opt.kind {
	case KindBool:
		return opt.value
	case KindHash:
		v, _ := opt.lookup(property)
		return v
	}
	return false
}

// EligibleTypes lists the shapes the policy permits for property, in
// reporting order: variable, function, keyword. Keyword appears once even
// when both ignoreKeywords and ignoreValues resolve.
func EligibleTypes(policy *Policy, property string) []ValueType {
	types := make([]ValueType, 0, 3)

	if IgnoredVariablesOrFunctions(policy.IgnoreVariables, property) {
		types = append(types, TypeVariable)
	}
	if IgnoredVariablesOrFunctions(policy.IgnoreFunctions, property) {
		types = append(types, TypeFunction)
	}
	if len(IgnoredKeywords(policy.IgnoreKeywords, property)) > 0 ||
		len(IgnoredValues(policy.IgnoreValues, property)) > 0 {
		types = append(types, TypeKeyword)
	}

	return types
}

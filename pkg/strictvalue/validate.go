package strictvalue

// allowedKeys is the fixed set of keys a secondary options object may carry.
var allowedKeys = map[string]bool{
	KeyIgnoreVariables: true,
	KeyIgnoreFunctions: true,
	KeyIgnoreKeywords:  true,
	KeyIgnoreValues:    true,
	KeySeverity:        true,
	KeyMessage:         true,
	KeyExpandShorthand: true,
	KeyRecurseLonghand: true,
	KeyDisableFix:      true,
	KeyAutoFixFunc:     true,
}

// optionChecks are evaluated in order; the first failing check rejects the
// whole options object.
var optionChecks = []struct {
	key   string
	valid func(any) bool
}{
	{KeyIgnoreVariables, func(v any) bool { return isBool(v) || validBooleanHash(v) || v == nil }},
	{KeyIgnoreFunctions, func(v any) bool { return isBool(v) || validBooleanHash(v) || v == nil }},
	{KeySeverity, isStringOrNil},
	{KeyIgnoreKeywords, func(v any) bool { return ValidateSelector(v) || validHash(v) || v == nil }},
	{KeyIgnoreValues, func(v any) bool { return ValidateSelector(v) || validHash(v) || v == nil }},
	{KeyExpandShorthand, isBoolOrNil},
	{KeyRecurseLonghand, isBoolOrNil},
	{KeyMessage, isStringOrNil},
	{KeyDisableFix, isBoolOrNil},
	{KeyAutoFixFunc, validFixRef},
}

// Validate is the gate run before any declaration is processed. The options
// object is optional: nil passes.
func Validate(selector, options any) bool {
	if !ValidateSelector(selector) {
		return false
	}
	return options == nil || ValidateOptions(options)
}

// ValidateSelector reports whether actual is a string or number, or a list
// whose every element is a string or number.
func ValidateSelector(actual any) bool {
	if isScalar(actual) {
		return true
	}

	items, ok := asList(actual)
	if !ok {
		return false
	}
	for _, item := range items {
		if !isScalar(item) {
			return false
		}
	}
	return true
}

// ValidateOptions reports whether actual is a well-formed secondary options
// object: a map restricted to the known keys whose values match each key's
// type. It stops at the first violation.
func ValidateOptions(actual any) bool {
	opts, ok := asMap(actual)
	if !ok {
		return false
	}

	for key := range opts {
		if !allowedKeys[key] {
			return false
		}
	}

	for _, check := range optionChecks {
		v, present := opts[check.key]
		if present && !check.valid(v) {
			return false
		}
	}

	return true
}

// validHash reports whether actual is a per-property hash of scalars or lists.
func validHash(actual any) bool {
	m, ok := asMap(actual)
	if !ok {
		return false
	}
	for _, v := range m {
		if !ValidateSelector(v) {
			return false
		}
	}
	return true
}

// validBooleanHash reports whether actual is a per-property hash of booleans.
func validBooleanHash(actual any) bool {
	m, ok := asMap(actual)
	if !ok {
		return false
	}
	for _, v := range m {
		if !isBool(v) {
			return false
		}
	}
	return true
}

func validFixRef(v any) bool {
	switch v.(type) {
	case nil, string, FixFunc, func(Declaration, FixContext) (string, error):
		return true
	}
	return false
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func isBoolOrNil(v any) bool {
	return v == nil || isBool(v)
}

func isStringOrNil(v any) bool {
	if v == nil {
		return true
	}
	_, ok := v.(string)
	return ok
}

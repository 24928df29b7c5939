package strictvalue

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Option keys accepted in the secondary options object.
const (
	KeyIgnoreVariables = "ignoreVariables"
	KeyIgnoreFunctions = "ignoreFunctions"
	KeyIgnoreKeywords  = "ignoreKeywords"
	KeyIgnoreValues    = "ignoreValues"
	KeySeverity        = "severity"
	KeyMessage         = "message"
	KeyExpandShorthand = "expandShorthand"
	KeyRecurseLonghand = "recurseLonghand"
	KeyDisableFix      = "disableFix"
	KeyAutoFixFunc     = "autoFixFunc"
)

// OptionKind tags the shape an option was configured with.
type OptionKind int

const (
	// KindUnset means the option is absent or null.
	KindUnset OptionKind = iota
	// KindBool is a single boolean applying to every property.
	KindBool
	// KindList is a scalar or list applying to every property.
	KindList
	// KindHash is a per-property mapping.
	KindHash
)

// BoolOption is ignoreVariables / ignoreFunctions: a boolean, a per-property
// boolean hash, or unset.
type BoolOption struct {
	kind  OptionKind
	value bool
	hash  map[string]bool
}

// Bool returns a BoolOption applying v to every property.
func Bool(v bool) BoolOption {
	return BoolOption{kind: KindBool, value: v}
}

// BoolHash returns a per-property BoolOption. The map is copied.
func BoolHash(h map[string]bool) BoolOption {
	cp := make(map[string]bool, len(h))
	for k, v := range h {
		cp[k] = v
	}
	return BoolOption{kind: KindHash, hash: cp}
}

// Kind reports the configured shape.
func (o BoolOption) Kind() OptionKind { return o.kind }

// lookup returns the explicit per-property entry of a hash.
func (o BoolOption) lookup(property string) (bool, bool) {
	if o.kind != KindHash {
		return false, false
	}
	v, ok := o.hash[property]
	return v, ok
}

// ValueOption is ignoreKeywords / ignoreValues: a scalar or list, a
// per-property hash of scalars or lists, or unset.
type ValueOption struct {
	kind OptionKind
	list []string
	hash map[string][]string
}

// List returns a ValueOption applying the given literals to every property.
func List(values ...string) ValueOption {
	return ValueOption{kind: KindList, list: append([]string(nil), values...)}
}

// ListHash returns a per-property ValueOption. The empty-string key is the
// default for properties without an entry. The map is copied.
func ListHash(h map[string][]string) ValueOption {
	cp := make(map[string][]string, len(h))
	for k, v := range h {
		cp[k] = append([]string(nil), v...)
	}
	return ValueOption{kind: KindHash, hash: cp}
}

// Kind reports the configured shape.
func (o ValueOption) Kind() OptionKind { return o.kind }

// FixRef references an auto-fix either directly or by name.
type FixRef struct {
	fn   FixFunc
	name string
}

// FixFuncRef references an inline fix.
func FixFuncRef(fn FixFunc) FixRef { return FixRef{fn: fn} }

// FixName references a fix by registry name or plugin path.
func FixName(name string) FixRef { return FixRef{name: name} }

// IsSet reports whether a fix is configured.
func (r FixRef) IsSet() bool { return r.fn != nil || r.name != "" }

// Name returns the referenced name, or "" for inline fixes.
func (r FixRef) Name() string { return r.name }

// Policy is the parsed secondary options object.
type Policy struct {
	IgnoreVariables BoolOption
	IgnoreFunctions BoolOption
	IgnoreKeywords  ValueOption
	IgnoreValues    ValueOption

	// Severity is copied to every finding. Default: "error".
	Severity string

	// Message is a custom template with ${types}, ${value} and ${property}
	// placeholders. Empty means the default message.
	Message string

	ExpandShorthand bool
	RecurseLonghand bool
	DisableFix      bool
	AutoFixFunc     FixRef
}

// DefaultPolicy returns the policy used when no options are configured:
// variables and functions accepted, no keyword allow-lists.
func DefaultPolicy() *Policy {
	return &Policy{
		IgnoreVariables: Bool(true),
		IgnoreFunctions: Bool(true),
		Severity:        DefaultSeverity,
	}
}

// ParsePolicy validates a raw options object (as decoded from YAML or JSON)
// and converts it to a Policy. Absent keys keep their defaults; explicit nulls
// unset the option. A nil options object yields DefaultPolicy.
func ParsePolicy(raw any) (*Policy, error) {
	p := DefaultPolicy()
	if raw == nil {
		return p, nil
	}

	if !ValidateOptions(raw) {
		return nil, ErrInvalidOptions
	}
	opts, _ := asMap(raw)

	if v, ok := opts[KeyIgnoreVariables]; ok {
		p.IgnoreVariables = parseBoolOption(v)
	}
	if v, ok := opts[KeyIgnoreFunctions]; ok {
		p.IgnoreFunctions = parseBoolOption(v)
	}
	if v, ok := opts[KeyIgnoreKeywords]; ok {
		p.IgnoreKeywords = parseValueOption(v)
	}
	if v, ok := opts[KeyIgnoreValues]; ok {
		p.IgnoreValues = parseValueOption(v)
		if err := checkValuePatterns(p.IgnoreValues); err != nil {
			return nil, err
		}
	}
	if v, ok := opts[KeySeverity].(string); ok {
		p.Severity = v
	}
	if v, ok := opts[KeyMessage].(string); ok {
		p.Message = v
	}
	if v, ok := opts[KeyExpandShorthand].(bool); ok {
		p.ExpandShorthand = v
	}
	if v, ok := opts[KeyRecurseLonghand].(bool); ok {
		p.RecurseLonghand = v
	}
	if v, ok := opts[KeyDisableFix].(bool); ok {
		p.DisableFix = v
	}
	if v, ok := opts[KeyAutoFixFunc]; ok {
		p.AutoFixFunc = parseFixRef(v)
	}

	return p, nil
}

func parseBoolOption(v any) BoolOption {
	if b, ok := v.(bool); ok {
		return Bool(b)
	}
	if m, ok := asMap(v); ok {
		h := make(map[string]bool, len(m))
		for k, entry := range m {
			h[k], _ = entry.(bool)
		}
		return BoolOption{kind: KindHash, hash: h}
	}
	return BoolOption{}
}

func parseValueOption(v any) ValueOption {
	if v == nil {
		return ValueOption{}
	}
	if m, ok := asMap(v); ok {
		h := make(map[string][]string, len(m))
		for k, leaf := range m {
			h[k] = normalizeLeaf(leaf)
		}
		return ValueOption{kind: KindHash, hash: h}
	}
	if isScalar(v) && isFalsyScalar(v) {
		return ValueOption{}
	}
	return ValueOption{kind: KindList, list: normalizeLeaf(v)}
}

// normalizeLeaf turns a scalar or list of scalars into a fresh slice.
func normalizeLeaf(v any) []string {
	if isScalar(v) {
		return []string{scalarString(v)}
	}
	items, ok := asList(v)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, scalarString(item))
	}
	return out
}

func parseFixRef(v any) FixRef {
	switch fn := v.(type) {
	case FixFunc:
		return FixFuncRef(fn)
	case func(Declaration, FixContext) (string, error):
		return FixFuncRef(fn)
	case string:
		return FixName(fn)
	}
	return FixRef{}
}

// checkValuePatterns compiles every /…/ entry of an ignoreValues option.
func checkValuePatterns(o ValueOption) error {
	check := func(entries []string) error {
		for _, e := range entries {
			if pattern, ok := delimitedPattern(e); ok {
				if _, err := regexp.Compile(pattern); err != nil {
					return &PatternError{Pattern: e, Cause: err}
				}
			}
		}
		return nil
	}

	if err := check(o.list); err != nil {
		return err
	}
	for _, entries := range o.hash {
		if err := check(entries); err != nil {
			return err
		}
	}
	return nil
}

// delimitedPattern reports whether s is written as /pattern/ and returns the
// pattern body.
func delimitedPattern(s string) (string, bool) {
	if len(s) > 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/") {
		return s[1 : len(s)-1], true
	}
	return "", false
}

// asMap converts any map with string keys to map[string]any.
func asMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil, false
	}

	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		if k.Kind() == reflect.Interface {
			k = k.Elem()
		}
		if !k.IsValid() || k.Kind() != reflect.String {
			return nil, false
		}
		out[k.String()] = iter.Value().Interface()
	}
	return out, true
}

// asList converts any slice or array to []any.
func asList(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}

	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// isScalar reports whether v is a string or a number.
func isScalar(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func isFalsyScalar(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	}
	return false
}

func scalarString(v any) string {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

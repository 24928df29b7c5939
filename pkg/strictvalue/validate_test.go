package strictvalue

import (
	"testing"
)

func TestValidateSelector(t *testing.T) {
	tests := []struct {
		name   string
		actual any
		want   bool
	}{
		{name: "string", actual: "color", want: true},
		{name: "pattern string", actual: "/^margin/", want: true},
		{name: "integer", actual: 42, want: true},
		{name: "float", actual: 1.5, want: true},
		{name: "string list", actual: []string{"color", "fill"}, want: true},
		{name: "mixed scalar list", actual: []any{"color", 1}, want: true},
		{name: "empty list", actual: []any{}, want: true},
		{name: "nil", actual: nil, want: false},
		{name: "bool", actual: true, want: false},
		{name: "map", actual: map[string]any{"color": "red"}, want: false},
		{name: "list with bool", actual: []any{"color", true}, want: false},
		{name: "nested list", actual: []any{[]any{"color"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateSelector(tt.actual); got != tt.want {
				t.Errorf("ValidateSelector(%v) = %v, want %v", tt.actual, got, tt.want)
			}
		})
	}
}

func TestValidateOptions(t *testing.T) {
	fix := func(Declaration, FixContext) (string, error) { return "", nil }

	tests := []struct {
		name   string
		actual any
		want   bool
	}{
		{name: "empty map", actual: map[string]any{}, want: true},
		{name: "not a map", actual: "ignoreFunctions", want: false},
		{name: "list", actual: []any{"ignoreFunctions"}, want: false},
		{name: "unknown key", actual: map[string]any{"ignoreFoo": true}, want: false},
		{
			name:   "unknown key alongside valid keys",
			actual: map[string]any{"ignoreFunctions": true, "extra": 1},
			want:   false,
		},
		{name: "ignoreVariables bool", actual: map[string]any{"ignoreVariables": false}, want: true},
		{name: "ignoreVariables null", actual: map[string]any{"ignoreVariables": nil}, want: true},
		{
			name:   "ignoreVariables bool hash",
			actual: map[string]any{"ignoreVariables": map[string]any{"color": false}},
			want:   true,
		},
		{
			name:   "ignoreFunctions hash with string",
			actual: map[string]any{"ignoreFunctions": map[string]any{"color": "yes"}},
			want:   false,
		},
		{name: "ignoreFunctions string", actual: map[string]any{"ignoreFunctions": "true"}, want: false},
		{name: "ignoreKeywords scalar", actual: map[string]any{"ignoreKeywords": "transparent"}, want: true},
		{
			name:   "ignoreKeywords list",
			actual: map[string]any{"ignoreKeywords": []any{"transparent", "currentColor"}},
			want:   true,
		},
		{
			name: "ignoreKeywords hash",
			actual: map[string]any{"ignoreKeywords": map[string]any{
				"color": []any{"red"},
				"":      "auto",
			}},
			want: true,
		},
		{
			name:   "ignoreKeywords hash with bool leaf",
			actual: map[string]any{"ignoreKeywords": map[string]any{"color": true}},
			want:   false,
		},
		{name: "ignoreKeywords bool", actual: map[string]any{"ignoreKeywords": true}, want: false},
		{name: "ignoreValues list", actual: map[string]any{"ignoreValues": []any{"/^0$/", 0}}, want: true},
		{name: "severity string", actual: map[string]any{"severity": "warning"}, want: true},
		{name: "severity number", actual: map[string]any{"severity": 2}, want: false},
		{name: "message string", actual: map[string]any{"message": "nope"}, want: true},
		{name: "message bool", actual: map[string]any{"message": false}, want: false},
		{name: "expandShorthand bool", actual: map[string]any{"expandShorthand": true}, want: true},
		{name: "recurseLonghand string", actual: map[string]any{"recurseLonghand": "yes"}, want: false},
		{name: "disableFix bool", actual: map[string]any{"disableFix": true}, want: true},
		{name: "autoFixFunc name", actual: map[string]any{"autoFixFunc": "./fixers/my-fix.so"}, want: true},
		{name: "autoFixFunc func", actual: map[string]any{"autoFixFunc": fix}, want: true},
		{name: "autoFixFunc FixFunc", actual: map[string]any{"autoFixFunc": FixFunc(fix)}, want: true},
		{name: "autoFixFunc number", actual: map[string]any{"autoFixFunc": 3}, want: false},
		{
			name:   "yaml style interface keys",
			actual: map[any]any{"ignoreFunctions": false},
			want:   true,
		},
		{
			name:   "non-string key",
			actual: map[any]any{1: false},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateOptions(tt.actual); got != tt.want {
				t.Errorf("ValidateOptions(%v) = %v, want %v", tt.actual, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if !Validate("color", nil) {
		t.Error("Validate with nil options should pass")
	}
	if !Validate([]any{"color", "/^fill/"}, map[string]any{"ignoreKeywords": "none"}) {
		t.Error("Validate with valid selector and options should pass")
	}
	if Validate(true, nil) {
		t.Error("Validate with bool selector should fail")
	}
	if Validate("color", map[string]any{"unknown": true}) {
		t.Error("Validate with unknown option key should fail")
	}
}

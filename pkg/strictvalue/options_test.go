package strictvalue

import (
	"errors"
	"reflect"
	"testing"
)

func TestParsePolicy_Defaults(t *testing.T) {
	for _, raw := range []any{nil, map[string]any{}} {
		p, err := ParsePolicy(raw)
		if err != nil {
			t.Fatalf("ParsePolicy(%v) error = %v", raw, err)
		}
		if p.IgnoreVariables.Kind() != KindBool || !IgnoredVariablesOrFunctions(p.IgnoreVariables, "color") {
			t.Errorf("ignoreVariables default = %+v, want true", p.IgnoreVariables)
		}
		if p.IgnoreFunctions.Kind() != KindBool || !IgnoredVariablesOrFunctions(p.IgnoreFunctions, "color") {
			t.Errorf("ignoreFunctions default = %+v, want true", p.IgnoreFunctions)
		}
		if p.IgnoreKeywords.Kind() != KindUnset || p.IgnoreValues.Kind() != KindUnset {
			t.Error("keyword and value lists should default to unset")
		}
		if p.Severity != DefaultSeverity {
			t.Errorf("Severity = %q, want %q", p.Severity, DefaultSeverity)
		}
		if p.AutoFixFunc.IsSet() || p.DisableFix || p.ExpandShorthand || p.RecurseLonghand {
			t.Errorf("unexpected defaults: %+v", p)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	raw := map[string]any{
		"ignoreVariables": nil,
		"ignoreFunctions": map[string]any{"width": true},
		"ignoreKeywords":  map[string]any{"color": "red", "": []any{"auto", "inherit"}},
		"ignoreValues":    "/^0$/",
		"severity":        "warning",
		"message":         "${value}",
		"expandShorthand": true,
		"recurseLonghand": true,
		"disableFix":      true,
		"autoFixFunc":     "tokens",
	}

	p, err := ParsePolicy(raw)
	if err != nil {
		t.Fatalf("ParsePolicy() error = %v", err)
	}

	if p.IgnoreVariables.Kind() != KindUnset {
		t.Errorf("explicit null should unset ignoreVariables, got kind %v", p.IgnoreVariables.Kind())
	}
	if p.IgnoreFunctions.Kind() != KindHash {
		t.Errorf("ignoreFunctions kind = %v, want hash", p.IgnoreFunctions.Kind())
	}
	if got := IgnoredKeywords(p.IgnoreKeywords, "color"); !reflect.DeepEqual(got, []string{"red"}) {
		t.Errorf("keywords for color = %v", got)
	}
	if got := IgnoredKeywords(p.IgnoreKeywords, "margin"); !reflect.DeepEqual(got, []string{"auto", "inherit"}) {
		t.Errorf("keywords for margin = %v", got)
	}
	if got := IgnoredValues(p.IgnoreValues, "width"); !reflect.DeepEqual(got, []string{"/^0$/"}) {
		t.Errorf("values = %v", got)
	}
	if p.Severity != "warning" || p.Message != "${value}" {
		t.Errorf("severity/message = %q/%q", p.Severity, p.Message)
	}
	if !p.ExpandShorthand || !p.RecurseLonghand || !p.DisableFix {
		t.Errorf("flags not parsed: %+v", p)
	}
	if p.AutoFixFunc.Name() != "tokens" {
		t.Errorf("AutoFixFunc name = %q", p.AutoFixFunc.Name())
	}
}

func TestParsePolicy_FalsyScalarUnsets(t *testing.T) {
	p := mustPolicy(t, map[string]any{"ignoreKeywords": "", "ignoreValues": 0})
	if p.IgnoreKeywords.Kind() != KindUnset {
		t.Errorf("empty string keywords kind = %v, want unset", p.IgnoreKeywords.Kind())
	}
	if p.IgnoreValues.Kind() != KindUnset {
		t.Errorf("zero values kind = %v, want unset", p.IgnoreValues.Kind())
	}
}

func TestParsePolicy_Errors(t *testing.T) {
	if _, err := ParsePolicy(map[string]any{"nope": true}); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("unknown key: err = %v, want ErrInvalidOptions", err)
	}
	if _, err := ParsePolicy("ignoreFunctions"); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("non-map: err = %v, want ErrInvalidOptions", err)
	}

	_, err := ParsePolicy(map[string]any{"ignoreValues": map[string]any{"width": "/[0-9/"}})
	var pe *PatternError
	if !errors.As(err, &pe) {
		t.Fatalf("bad pattern: err = %v, want *PatternError", err)
	}
	if pe.Pattern != "/[0-9/" {
		t.Errorf("Pattern = %q", pe.Pattern)
	}
}

func TestListHash_CopiesInput(t *testing.T) {
	in := map[string][]string{"color": {"red"}}
	opt := ListHash(in)
	in["color"][0] = "blue"
	in["margin"] = []string{"auto"}

	if got := IgnoredKeywords(opt, "color"); !reflect.DeepEqual(got, []string{"red"}) {
		t.Errorf("color = %v, want [red]", got)
	}
	if got := IgnoredKeywords(opt, "margin"); got != nil {
		t.Errorf("margin = %v, want nil", got)
	}
}

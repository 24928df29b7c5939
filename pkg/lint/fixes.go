package lint

import (
	"fmt"
	"sort"
	"strings"

	"mercator-hq/strictvalue/pkg/shorthand"
	"mercator-hq/strictvalue/pkg/strictvalue"
)

// NewFixRegistry registers one replacement fix per entry of fixes. Rules
// name them in autoFixFunc.
//
//	fixes:
//	  colors:
//	    "#fff": "var(--white)"
//	    red: $red
//
// A replacement fix maps a literal value to its replacement and fails for
// any other value. For an expanded shorthand the rejected longhand value is
// replaced inside the shorthand.
func NewFixRegistry(fixes map[string]map[string]string) (*strictvalue.Registry, error) {
	reg := strictvalue.NewRegistry()

	names := make([]string, 0, len(fixes))
	for name := range fixes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := reg.Register(name, replacementFix(name, fixes[name])); err != nil {
			return nil, fmt.Errorf("fixes: %w", err)
		}
	}
	return reg, nil
}

func replacementFix(name string, table map[string]string) strictvalue.FixFunc {
	replacements := make(map[string]string, len(table))
	for from, to := range table {
		replacements[from] = to
	}

	return func(decl strictvalue.Declaration, fc strictvalue.FixContext) (string, error) {
		if fc.Longhand == "" {
			to, ok := replacements[decl.Value]
			if !ok {
				return "", fmt.Errorf("fix %s: no replacement for %q", name, decl.Value)
			}
			return to, nil
		}

		to, ok := replacements[fc.LonghandValue]
		if !ok {
			return "", fmt.Errorf("fix %s: no replacement for %q of %s", name, fc.LonghandValue, fc.Longhand)
		}
		parts := shorthand.Split(decl.Value)
		for i, part := range parts {
			if part == fc.LonghandValue {
				parts[i] = to
			}
		}
		return strings.Join(parts, " "), nil
	}
}

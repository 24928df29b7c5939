// Package shorthand expands CSS shorthand declarations into their longhands.
//
// Only shorthands whose value grammar can be split reliably by token shape are
// supported: the four-sided box properties, two-axis pairs, and the
// width/style/color families (border, border-<side>, outline). Anything the
// expander cannot attribute unambiguously yields no longhands.
package shorthand

import "strings"

// Longhand is one property/value produced by expanding a shorthand.
type Longhand struct {
	Property string
	Value    string
}

type kind int

const (
	kindBox kind = iota
	kindPair
	kindLine
)

type definition struct {
	kind      kind
	longhands []string
}

var definitions = map[string]definition{
	"margin":  {kindBox, sides("margin-", "")},
	"padding": {kindBox, sides("padding-", "")},
	"inset":   {kindBox, []string{"top", "right", "bottom", "left"}},

	"border-width": {kindBox, sides("border-", "-width")},
	"border-style": {kindBox, sides("border-", "-style")},
	"border-color": {kindBox, sides("border-", "-color")},
	"border-radius": {kindBox, []string{
		"border-top-left-radius",
		"border-top-right-radius",
		"border-bottom-right-radius",
		"border-bottom-left-radius",
	}},

	"scroll-margin":  {kindBox, sides("scroll-margin-", "")},
	"scroll-padding": {kindBox, sides("scroll-padding-", "")},

	"gap":      {kindPair, []string{"row-gap", "column-gap"}},
	"overflow": {kindPair, []string{"overflow-x", "overflow-y"}},

	"border":        {kindLine, []string{"border-width", "border-style", "border-color"}},
	"border-top":    {kindLine, []string{"border-top-width", "border-top-style", "border-top-color"}},
	"border-right":  {kindLine, []string{"border-right-width", "border-right-style", "border-right-color"}},
	"border-bottom": {kindLine, []string{"border-bottom-width", "border-bottom-style", "border-bottom-color"}},
	"border-left":   {kindLine, []string{"border-left-width", "border-left-style", "border-left-color"}},
	"outline":       {kindLine, []string{"outline-width", "outline-style", "outline-color"}},
}

func sides(prefix, suffix string) []string {
	return []string{
		prefix + "top" + suffix,
		prefix + "right" + suffix,
		prefix + "bottom" + suffix,
		prefix + "left" + suffix,
	}
}

// IsShorthand reports whether property can be expanded.
func IsShorthand(property string) bool {
	_, ok := definitions[strings.ToLower(property)]
	return ok
}

// Longhands returns the direct longhand property names of a shorthand.
func Longhands(property string) []string {
	def, ok := definitions[strings.ToLower(property)]
	if !ok {
		return nil
	}
	return append([]string(nil), def.longhands...)
}

// Expand splits a shorthand value into longhands. With recurse set, longhands
// that are shorthands themselves are expanded too (border → border-color →
// border-top-color) and only the leaves are returned. Properties that are not
// shorthands, and values that cannot be attributed, return nil.
func Expand(property, value string, recurse bool) []Longhand {
	def, ok := definitions[strings.ToLower(property)]
	if !ok {
		return nil
	}

	tokens := Split(value)
	if len(tokens) == 0 {
		return nil
	}

	var out []Longhand
	switch def.kind {
	case kindBox:
		out = expandBox(def.longhands, tokens)
	case kindPair:
		out = expandPair(def.longhands, tokens)
	case kindLine:
		out = expandLine(def.longhands, tokens)
	}

	if !recurse || out == nil {
		return out
	}

	leaves := make([]Longhand, 0, len(out))
	for _, lh := range out {
		if nested := Expand(lh.Property, lh.Value, true); nested != nil {
			leaves = append(leaves, nested...)
			continue
		}
		leaves = append(leaves, lh)
	}
	return leaves
}

// expandBox applies the 1-4 value top/right/bottom/left rule.
func expandBox(props, tokens []string) []Longhand {
	for _, t := range tokens {
		if strings.Contains(t, "/") {
			// border-radius horizontal/vertical syntax
			return nil
		}
	}

	var v [4]string
	switch len(tokens) {
	case 1:
		v = [4]string{tokens[0], tokens[0], tokens[0], tokens[0]}
	case 2:
		v = [4]string{tokens[0], tokens[1], tokens[0], tokens[1]}
	case 3:
		v = [4]string{tokens[0], tokens[1], tokens[2], tokens[1]}
	case 4:
		v = [4]string{tokens[0], tokens[1], tokens[2], tokens[3]}
	default:
		return nil
	}

	out := make([]Longhand, 4)
	for i := range out {
		out[i] = Longhand{Property: props[i], Value: v[i]}
	}
	return out
}

func expandPair(props, tokens []string) []Longhand {
	switch len(tokens) {
	case 1:
		return []Longhand{{props[0], tokens[0]}, {props[1], tokens[0]}}
	case 2:
		return []Longhand{{props[0], tokens[0]}, {props[1], tokens[1]}}
	}
	return nil
}

// expandLine attributes width, style and color tokens by shape. Missing
// components are omitted rather than reset to initial values.
func expandLine(props, tokens []string) []Longhand {
	if len(tokens) == 1 && isGlobalKeyword(tokens[0]) {
		out := make([]Longhand, len(props))
		for i, p := range props {
			out[i] = Longhand{Property: p, Value: tokens[0]}
		}
		return out
	}
	if len(tokens) > 3 {
		return nil
	}

	var width, style, color string
	var rest []string
	for _, t := range tokens {
		switch {
		case isLineStyle(t):
			if style != "" {
				return nil
			}
			style = t
		case isLineWidth(t):
			if width != "" {
				return nil
			}
			width = t
		default:
			rest = append(rest, t)
		}
	}

	// Unclassified tokens (variables, functions, names) fill width then color.
	if len(rest) > 1 && width == "" {
		width, rest = rest[0], rest[1:]
	}
	switch len(rest) {
	case 0:
	case 1:
		color = rest[0]
	default:
		return nil
	}

	var out []Longhand
	if width != "" {
		out = append(out, Longhand{Property: props[0], Value: width})
	}
	if style != "" {
		out = append(out, Longhand{Property: props[1], Value: style})
	}
	if color != "" {
		out = append(out, Longhand{Property: props[2], Value: color})
	}
	return out
}

var lineStyles = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
	"auto": true,
}

var globalKeywords = map[string]bool{
	"inherit": true, "initial": true, "unset": true, "revert": true, "revert-layer": true,
}

func isLineStyle(t string) bool {
	return lineStyles[strings.ToLower(t)]
}

func isGlobalKeyword(t string) bool {
	return globalKeywords[strings.ToLower(t)]
}

func isLineWidth(t string) bool {
	switch strings.ToLower(t) {
	case "thin", "medium", "thick":
		return true
	}
	if t == "" {
		return false
	}
	c := t[0]
	return (c >= '0' && c <= '9') || c == '.' || c == '+' || (c == '-' && len(t) > 1 && t[1] != '-')
}

// Split breaks a value on whitespace outside parentheses and quotes, so
// "1px solid rgb(0, 0, 0)" yields three tokens.
func Split(value string) []string {
	var (
		tokens []string
		cur    strings.Builder
		depth  int
		quote  rune
	)

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range value {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		case r == '(':
			depth++
			cur.WriteRune(r)
		case r == ')':
			if depth > 0 {
				depth--
			}
			cur.WriteRune(r)
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()

	return tokens
}

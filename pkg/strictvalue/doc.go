// Package strictvalue decides whether the value of a style declaration has an
// acceptable shape under a configurable policy.
//
// A value is accepted when it is a token-variable reference ($token, @token,
// var(--token)), a function call (calc(), rgb(), ...), or a literal listed in
// the policy's keyword/value allow-lists. Anything else is rejected with a
// diagnostic message naming the shapes the policy would have accepted.
//
// # Components
//
//  1. Validation - ValidateSelector and ValidateOptions check raw, user-written
//     configuration before anything else touches it
//  2. Resolution - IgnoredKeywords, IgnoredValues and IgnoredVariablesOrFunctions
//     reduce scalar/list/boolean/per-property-hash options to a concrete answer
//     for one property
//  3. Classification - a Pass applies the recognizers to declaration values and
//     caches per-property keyword matchers for the duration of one lint pass
//  4. Messages - Expected renders the default or a custom diagnostic template
//  5. Auto-fix - ResolveFix locates a fix callable through a Loader
//
// # Basic Usage
//
//	rule, err := strictvalue.NewRule([]any{"/color$/", "z-index"}, map[string]any{
//	    "ignoreKeywords": map[string]any{
//	        "":      []any{"inherit", "currentColor"},
//	        "color": "transparent",
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//
//	report, err := rule.Run(ctx, decls, strictvalue.RunOptions{})
//	for _, f := range report.Findings {
//	    fmt.Printf("%d:%d %s\n", f.Position.Line, f.Position.Column, f.Message)
//	}
//
// # Per-Property Hashes
//
// Options that accept a hash are looked up by the declaration's property, then
// by the empty-string default key:
//
//	ignoreKeywords:
//	  "": [inherit]
//	  color: [transparent, currentColor]
//
// A keyword or value hash with neither key resolves as its own leaf. The
// property then lists keyword as eligible, but no value matches.
//
// Boolean hashes (ignoreVariables, ignoreFunctions) have no default key. A
// property missing from the hash only counts as "eligible" when building the
// diagnostic message; it never enables the function recognizer by itself.
//
// # Caching
//
// Keyword and value matchers are compiled lazily and cached per property on a
// Pass. A Pass belongs to one run over one set of declarations and must not be
// shared across policies. Rule.Run creates a fresh Pass for every call.
package strictvalue

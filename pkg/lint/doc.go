// Package lint runs strict-value rules over declaration files.
//
// Declaration inputs are YAML or JSON lists produced by a stylesheet parser:
//
//	- source: app.css
//	  property: color
//	  value: "#fff"
//	  line: 3
//	  column: 5
//	  between: ": "
//
// A Runner builds one strictvalue.Rule per configured rule, reads every
// input matched by the lint inputs, and runs each rule over all
// declarations. Each run is traced, measured, and, when storage is
// configured, persisted as a findings.Run. In fix mode, fixed values are
// written back to the files they came from.
package lint

package strictvalue

// ValueType is a shape a declaration value can be accepted as.
type ValueType string

const (
	// TypeVariable is a token-variable reference ($x, @x, var(--x)).
	TypeVariable ValueType = "variable"

	// TypeFunction is a function call such as calc(100% - 1px).
	TypeFunction ValueType = "function"

	// TypeKeyword is a literal listed in ignoreKeywords or ignoreValues.
	TypeKeyword ValueType = "keyword"
)

// DefaultSeverity is reported for findings when the policy does not set one.
const DefaultSeverity = "error"

// Position is a 1-indexed location in a stylesheet.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// Declaration is a single property/value pair supplied by the host parser.
type Declaration struct {
	// Source identifies the stylesheet the declaration came from.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Property is the declared property name (e.g. "margin-top").
	Property string `json:"property" yaml:"property"`

	// Value is the raw declared value.
	Value string `json:"value" yaml:"value"`

	// Position is the location of the start of the declaration.
	Position Position `json:"position" yaml:"position"`

	// Between is the raw text between property and value (usually ": ").
	// It is used to point findings at the value rather than the property.
	Between string `json:"between,omitempty" yaml:"between,omitempty"`
}

// ValuePosition returns the location of the declaration's value.
func (d Declaration) ValuePosition() Position {
	if d.Position.Column == 0 {
		return d.Position
	}
	return Position{
		Line:   d.Position.Line,
		Column: d.Position.Column + len(d.Property) + len(d.Between),
	}
}

// Result is the outcome of classifying one value for one property.
type Result struct {
	// Accepted is true when at least one recognizer matched.
	Accepted bool

	// Variable, Function, Keyword and Value report which recognizers matched.
	Variable bool
	Function bool
	Keyword  bool
	Value    bool

	// EligibleTypes lists the shapes the policy permits for the property.
	// Only set on rejection.
	EligibleTypes []ValueType

	// Message is the rendered diagnostic. Only set on rejection.
	Message string
}

// Finding is a rejected declaration reported by a Rule.
type Finding struct {
	Source        string      `json:"source,omitempty"`
	Property      string      `json:"property"`
	Value         string      `json:"value"`
	Position      Position    `json:"position"`
	Severity      string      `json:"severity"`
	Message       string      `json:"message"`
	EligibleTypes []ValueType `json:"eligible_types"`

	// Longhand is set when the finding comes from an expanded shorthand.
	Longhand      string `json:"longhand,omitempty"`
	LonghandValue string `json:"longhand_value,omitempty"`

	// Fixed holds the replacement value when an auto-fix ran.
	Fixed      string `json:"fixed,omitempty"`
	FixApplied bool   `json:"fix_applied,omitempty"`
}

// Observer receives classification events. Implementations must be cheap;
// they are called once per classified value.
type Observer interface {
	// ObserveClassification is called after every classification.
	ObserveClassification(property string, accepted bool, types []ValueType)

	// ObserveMatcherCache is called when a keyword/value matcher is looked up.
	ObserveMatcherCache(hit bool)
}

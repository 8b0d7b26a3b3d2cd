package ast

// Directive keys recognized by the parser. A directive node is a mapping
// whose single key is one of these; mappings with additional keys are
// passed through verbatim.
const (
	KeyInclude = "$include"
	KeyIf      = "$if"
	KeyForEach = "$foreach"
)

// IsDirectiveKey returns true if key names one of the supported directives.
func IsDirectiveKey(key string) bool {
	return key == KeyInclude || key == KeyIf || key == KeyForEach
}

// IncludeDirective references another template file to be expanded in place
// of the directive node.
type IncludeDirective struct {
	// Template is the raw target path. It may contain {{ }} interpolation,
	// which is resolved against the including scope before the path is used.
	Template string

	// TemplateLocation is the location of the template field's value,
	// used for error reporting when resolution fails.
	TemplateLocation Location

	// Params is the optional parameter mapping merged into the scope the
	// included template is expanded with. Nil when absent.
	Params *Mapping

	Location Location
}

// IfDirective conditionally expands its template.
type IfDirective struct {
	// Condition is the raw expression string evaluated for truthiness.
	Condition string

	// Template is the node (or sequence of nodes) expanded when the
	// condition is truthy.
	Template Node

	Location Location
}

// ForEachDirective expands its template once per element of a sequence.
type ForEachDirective struct {
	// Items is either a *Scalar holding an expression string or a literal
	// *Sequence. Non-sequence results coerce to an empty iteration.
	Items Node

	// As is the binding name for the current element.
	As string

	// Template is expanded once per element, in element order.
	Template Node

	Location Location
}

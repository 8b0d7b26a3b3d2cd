package expr

import (
	"regexp"
	"strconv"
	"strings"

	"loom-hq/loom/pkg/document/ast"
	"loom-hq/loom/pkg/template/scope"
)

// Expr is a parsed condition/items expression. The grammar is closed:
// parameter references, literals, literal arrays, and interpolated strings.
type Expr interface {
	expr()
}

// ParamRef references a bound parameter by dotted path.
type ParamRef struct {
	Path string
}

// Literal is a literal boolean, number, or string value.
type Literal struct {
	Value any
}

// ArrayLiteral is a literal sequence written directly in the document,
// converted to plain values.
type ArrayLiteral struct {
	Elems []any
}

// Interpolated is a string containing {{ }} spans, resolved against the
// scope at evaluation time.
type Interpolated struct {
	Raw string
}

func (*ParamRef) expr()     {}
func (*Literal) expr()      {}
func (*ArrayLiteral) expr() {}
func (*Interpolated) expr() {}

// bareRefPattern matches bare dotted identifiers ("item.name") that are
// treated as parameter references without the $params. prefix.
var bareRefPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z0-9_]+)*$`)

// Parse parses an expression string into its typed form. Supported forms:
// "$params.<dotted>" (or a bare dotted identifier), literal true/false,
// integer and float literals, quoted strings, and interpolated strings.
// Parse is total: anything else falls back to a string literal so callers
// can still apply best-effort truthiness.
func Parse(s string) Expr {
	t := strings.TrimSpace(s)

	if strings.Contains(t, "{{") {
		return &Interpolated{Raw: s}
	}

	switch t {
	case "true":
		return &Literal{Value: true}
	case "false":
		return &Literal{Value: false}
	case "null", "":
		return &Literal{Value: nil}
	}

	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return &Literal{Value: i}
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return &Literal{Value: f}
	}

	if len(t) >= 2 {
		if (t[0] == '"' && t[len(t)-1] == '"') || (t[0] == '\'' && t[len(t)-1] == '\'') {
			return &Literal{Value: t[1 : len(t)-1]}
		}
	}

	if strings.HasPrefix(t, "$params.") {
		return &ParamRef{Path: t}
	}
	if bareRefPattern.MatchString(t) {
		return &ParamRef{Path: t}
	}

	return &Literal{Value: t}
}

// ParseItems parses the items field of a $foreach directive: either a
// literal sequence node or a scalar expression string.
func ParseItems(n ast.Node) Expr {
	switch t := n.(type) {
	case *ast.Sequence:
		elems, _ := ast.Plain(t).([]any)
		return &ArrayLiteral{Elems: elems}
	case *ast.Scalar:
		if t.IsString() {
			return Parse(t.StringValue())
		}
		return &Literal{Value: t.Value}
	default:
		// Mappings and directives are not valid item sources; evaluation
		// coerces the non-array result to an empty iteration.
		return &Literal{Value: nil}
	}
}

// Evaluate resolves an expression against the given scope. Unresolvable
// parameter references evaluate to nil. An interpolated string that
// consists of exactly one {{ }} span resolves structurally to the bound
// value (so "{{ $params.list }}" can produce an actual sequence); mixed
// text interpolations produce a string.
func Evaluate(e Expr, sc *scope.Scope) any {
	switch t := e.(type) {
	case *ParamRef:
		v, _ := sc.Lookup(t.Path)
		return v
	case *Literal:
		return t.Value
	case *ArrayLiteral:
		return t.Elems
	case *Interpolated:
		if path, ok := soleInterpolation(t.Raw); ok {
			v, _ := sc.Lookup(path)
			return v
		}
		return Substitute(t.Raw, sc)
	default:
		return nil
	}
}

// Truthy reports the truthiness of an evaluated expression value:
// nil, false, zero numbers, empty strings, and empty containers are falsy;
// everything else is truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int64:
		return t != 0
	case int:
		return t != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// soleInterpolation reports whether s is exactly one {{ }} span and
// returns the inner path if so.
func soleInterpolation(s string) (string, bool) {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "{{") || !strings.HasSuffix(t, "}}") {
		return "", false
	}
	inner := strings.TrimSpace(t[2 : len(t)-2])
	if inner == "" || strings.Contains(inner, "{{") || strings.Contains(inner, "}}") {
		return "", false
	}
	return inner, true
}

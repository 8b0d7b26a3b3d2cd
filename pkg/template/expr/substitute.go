package expr

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"loom-hq/loom/pkg/template/scope"
)

// interpolationPattern matches {{ <dotted.path> }} spans inside a string.
var interpolationPattern = regexp.MustCompile(`\{\{\s*(.+?)\s*\}\}`)

// Substitute replaces every {{ }} span in text with the string form of the
// value resolved from the scope. It is a pure function of (text, scope).
//
// Spans whose path does not resolve are replaced with the empty string;
// whether that constitutes an error is the caller's decision. Non-scalar
// values are JSON-stringified.
func Substitute(text string, sc *scope.Scope) string {
	return interpolationPattern.ReplaceAllStringFunc(text, func(span string) string {
		inner := interpolationPattern.FindStringSubmatch(span)[1]
		v, ok := sc.Lookup(inner)
		if !ok {
			return ""
		}
		return formatValue(v)
	})
}

// formatValue renders a parameter value for interpolation. Scalars use
// their natural string form; sequences and mappings JSON-stringify, which
// is a stable textual form intended for debugging output rather than
// structural substitution.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(data)
	}
}

package ast

// Plain converts a node tree to plain Go values: mappings become
// map[string]any, sequences []any, scalars their underlying value.
// Unexpanded directives are rendered back to their single-key mapping form
// so a plain tree can always be re-encoded as a document.
func Plain(n Node) any {
	switch t := n.(type) {
	case nil:
		return nil
	case *Scalar:
		return t.Value
	case *Sequence:
		items := make([]any, 0, len(t.Items))
		for _, item := range t.Items {
			items = append(items, Plain(item))
		}
		return items
	case *Mapping:
		m := make(map[string]any, len(t.Entries))
		for _, e := range t.Entries {
			m[e.Key] = Plain(e.Value)
		}
		return m
	case *IncludeDirective:
		body := map[string]any{"template": t.Template}
		if t.Params != nil {
			body["params"] = Plain(t.Params)
		}
		return map[string]any{KeyInclude: body}
	case *IfDirective:
		return map[string]any{KeyIf: map[string]any{
			"condition": t.Condition,
			"template":  Plain(t.Template),
		}}
	case *ForEachDirective:
		return map[string]any{KeyForEach: map[string]any{
			"items":    Plain(t.Items),
			"as":       t.As,
			"template": Plain(t.Template),
		}}
	default:
		return nil
	}
}

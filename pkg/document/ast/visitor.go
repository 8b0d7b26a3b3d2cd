package ast

// Visitor provides an interface for traversing the document tree.
// Implement this interface to perform operations on nodes
// (dependency extraction, validation, analysis, etc.).
type Visitor interface {
	Visit(Node) error
}

// Walk traverses the tree starting at n, recursively, depth-first, invoking
// v on each node. Directive payloads (include params, if/foreach templates,
// foreach items) are traversed as children. If v returns a non-nil error,
// the traversal is aborted and that error is returned.
func Walk(n Node, v Visitor) error {
	if n == nil {
		return nil
	}
	if err := v.Visit(n); err != nil {
		return err
	}

	switch t := n.(type) {
	case *Mapping:
		for _, e := range t.Entries {
			if err := Walk(e.Value, v); err != nil {
				return err
			}
		}
	case *Sequence:
		for _, item := range t.Items {
			if err := Walk(item, v); err != nil {
				return err
			}
		}
	case *IncludeDirective:
		if t.Params != nil {
			if err := Walk(t.Params, v); err != nil {
				return err
			}
		}
	case *IfDirective:
		if err := Walk(t.Template, v); err != nil {
			return err
		}
	case *ForEachDirective:
		if err := Walk(t.Items, v); err != nil {
			return err
		}
		if err := Walk(t.Template, v); err != nil {
			return err
		}
	}
	return nil
}

// VisitorFunc adapts a plain function to the Visitor interface.
type VisitorFunc func(Node) error

// Visit implements Visitor.
func (f VisitorFunc) Visit(n Node) error { return f(n) }

package scope

import (
	"strconv"
	"strings"
)

// paramsPrefix is the canonical way to reference a bound parameter inside
// interpolation and expressions; Lookup strips it before resolving.
const paramsPrefix = "$params."

// Scope is a layered name-to-value environment available to interpolation
// and expressions at a given point of the expansion walk.
//
// Scopes are immutable: With and Bind return a child layered over the
// receiver, and parents are never modified. A directive evaluation builds a
// fresh child scope and discards it when done.
type Scope struct {
	parent *Scope
	values map[string]any
}

// New creates a root scope with the given bindings. values may be nil.
func New(values map[string]any) *Scope {
	return &Scope{values: values}
}

// With returns a child scope layered over s with the given bindings.
// Names in values shadow the same names in enclosing scopes.
func (s *Scope) With(values map[string]any) *Scope {
	return &Scope{parent: s, values: values}
}

// Bind returns a child scope layered over s with a single binding.
func (s *Scope) Bind(name string, value any) *Scope {
	return &Scope{parent: s, values: map[string]any{name: value}}
}

// Lookup resolves a dotted parameter path (optionally prefixed with
// "$params.") against the scope chain. The first path segment is resolved
// through the layers innermost-first; the remaining segments descend into
// nested mappings and sequences (numeric segments index sequences).
// It returns false if any step of the path fails to resolve.
func (s *Scope) Lookup(path string) (any, bool) {
	path = strings.TrimPrefix(strings.TrimSpace(path), paramsPrefix)
	if path == "" {
		return nil, false
	}

	segments := strings.Split(path, ".")

	value, ok := s.resolveName(segments[0])
	if !ok {
		return nil, false
	}

	for _, seg := range segments[1:] {
		value, ok = descend(value, seg)
		if !ok {
			return nil, false
		}
	}
	return value, true
}

// Has reports whether the dotted path resolves in this scope.
func (s *Scope) Has(path string) bool {
	_, ok := s.Lookup(path)
	return ok
}

// resolveName finds a top-level binding, innermost layer first.
func (s *Scope) resolveName(name string) (any, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.values == nil {
			continue
		}
		if v, ok := cur.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// descend resolves one path segment inside a container value.
func descend(value any, segment string) (any, bool) {
	switch container := value.(type) {
	case map[string]any:
		v, ok := container[segment]
		return v, ok
	case []any:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= len(container) {
			return nil, false
		}
		return container[idx], true
	default:
		return nil, false
	}
}

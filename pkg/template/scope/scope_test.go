package scope

import (
	"reflect"
	"testing"
)

func TestScope_Lookup(t *testing.T) {
	sc := New(map[string]any{
		"title": "Hello",
		"count": int64(3),
		"item": map[string]any{
			"name": "widget",
			"tags": []any{"a", "b"},
		},
	})

	tests := []struct {
		name  string
		path  string
		want  any
		found bool
	}{
		{"simple name", "title", "Hello", true},
		{"params prefix", "$params.title", "Hello", true},
		{"number value", "count", int64(3), true},
		{"dotted path", "item.name", "widget", true},
		{"prefixed dotted path", "$params.item.name", "widget", true},
		{"sequence index", "item.tags.1", "b", true},
		{"sequence index out of range", "item.tags.5", nil, false},
		{"negative index", "item.tags.-1", nil, false},
		{"missing name", "missing", nil, false},
		{"missing nested", "item.color", nil, false},
		{"descend into scalar", "title.length", nil, false},
		{"empty path", "", nil, false},
		{"whitespace trimmed", "  title  ", "Hello", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sc.Lookup(tt.path)
			if ok != tt.found {
				t.Fatalf("Lookup(%q) found = %v, want %v", tt.path, ok, tt.found)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lookup(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestScope_Layering(t *testing.T) {
	root := New(map[string]any{"a": 1, "b": 2})
	child := root.With(map[string]any{"b": 20, "c": 30})

	if v, _ := child.Lookup("a"); v != 1 {
		t.Errorf("child a = %v, want 1 (inherited)", v)
	}
	if v, _ := child.Lookup("b"); v != 20 {
		t.Errorf("child b = %v, want 20 (shadowed)", v)
	}
	if v, _ := child.Lookup("c"); v != 30 {
		t.Errorf("child c = %v, want 30", v)
	}

	// The parent is never modified by layering.
	if v, _ := root.Lookup("b"); v != 2 {
		t.Errorf("root b = %v, want 2", v)
	}
	if _, ok := root.Lookup("c"); ok {
		t.Error("root resolved c, want not found")
	}
}

func TestScope_Bind(t *testing.T) {
	root := New(map[string]any{"item": "outer"})
	inner := root.Bind("item", map[string]any{"name": "inner"})

	if v, _ := inner.Lookup("item.name"); v != "inner" {
		t.Errorf("item.name = %v, want inner", v)
	}
	if v, _ := root.Lookup("item"); v != "outer" {
		t.Errorf("root item = %v, want outer", v)
	}
}

func TestScope_NilValues(t *testing.T) {
	sc := New(nil)
	if _, ok := sc.Lookup("anything"); ok {
		t.Error("empty scope resolved a name")
	}

	child := sc.Bind("x", "y")
	if v, _ := child.Lookup("x"); v != "y" {
		t.Errorf("x = %v, want y", v)
	}
}

func TestScope_Has(t *testing.T) {
	sc := New(map[string]any{"present": nil})
	if !sc.Has("present") {
		t.Error("Has(present) = false, want true for a nil-valued binding")
	}
	if sc.Has("absent") {
		t.Error("Has(absent) = true, want false")
	}
}

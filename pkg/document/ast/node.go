package ast

// Node is implemented by every node in a document tree. The set of
// implementations is closed: a document is built from mappings, sequences,
// scalars, and the three directive forms ($include, $if, $foreach), so
// consumers can switch over the concrete types exhaustively.
type Node interface {
	Pos() Location

	// node limits the implementations of Node to the types in this package.
	node()
}

var _ = []Node{
	&Mapping{}, &Sequence{}, &Scalar{},
	&IncludeDirective{}, &IfDirective{}, &ForEachDirective{},
}

// Mapping is a mapping node with unique string keys. Entry order is
// preserved so that expanded output round-trips stably.
type Mapping struct {
	Entries  []*MapEntry
	Location Location
}

// MapEntry is a single key/value pair inside a Mapping.
type MapEntry struct {
	Key      string
	Value    Node
	Location Location
}

// Entry returns the entry with the given key, or nil if absent.
func (m *Mapping) Entry(key string) *MapEntry {
	for _, e := range m.Entries {
		if e.Key == key {
			return e
		}
	}
	return nil
}

// Sequence is a sequence node.
type Sequence struct {
	Items    []Node
	Location Location
}

// ScalarType identifies the type of a scalar value.
type ScalarType string

const (
	ScalarString ScalarType = "string"
	ScalarNumber ScalarType = "number"
	ScalarBool   ScalarType = "boolean"
	ScalarNull   ScalarType = "null"
)

// Scalar is a leaf node holding a string, number, boolean, or null value.
type Scalar struct {
	Type     ScalarType
	Value    any // string, int64, float64, bool, or nil
	Location Location
}

// IsString returns true if the scalar holds a string value.
func (s *Scalar) IsString() bool {
	return s.Type == ScalarString
}

// StringValue returns the scalar's string value, or "" for non-strings.
func (s *Scalar) StringValue() string {
	if str, ok := s.Value.(string); ok {
		return str
	}
	return ""
}

func (m *Mapping) Pos() Location          { return m.Location }
func (s *Sequence) Pos() Location         { return s.Location }
func (s *Scalar) Pos() Location           { return s.Location }
func (d *IncludeDirective) Pos() Location { return d.Location }
func (d *IfDirective) Pos() Location      { return d.Location }
func (d *ForEachDirective) Pos() Location { return d.Location }

func (*Mapping) node()          {}
func (*Sequence) node()         {}
func (*Scalar) node()           {}
func (*IncludeDirective) node() {}
func (*IfDirective) node()      {}
func (*ForEachDirective) node() {}

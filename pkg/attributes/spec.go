package attributes

import "github.com/dd0wney/cluso-typegraph/pkg/category"

// Specification is an external description of a node, such as a greezelax or
// a rodeo style, as handed over by whatever ingests it. Style is the
// discriminant selecting a provider; an empty Style means the specification
// predates styles and the default provider applies.
type Specification struct {
	Kind    string         // external object type, informational only
	Style   string         // discriminant; empty when absent
	Intent  *Intent        // optional declared color, role and attributes
	Payload map[string]any // arbitrary structured input for providers
}

// HasStyle reports whether the specification carries a discriminant
func (s Specification) HasStyle() bool {
	return s.Style != ""
}

// Field returns a payload entry
func (s Specification) Field(key string) (any, bool) {
	v, ok := s.Payload[key]
	return v, ok
}

// Intent is what a specification says about itself. Providers decide whether
// to honor it.
type Intent struct {
	Color      category.Color
	Role       category.Role
	Attributes Bundle
}

// Resolution is the output of a provider: the concrete category and the
// derived attributes for one node.
type Resolution struct {
	Color      category.Color
	Role       category.Role
	Attributes Bundle
}

// Equal reports whether two resolutions are identical
func (r Resolution) Equal(other Resolution) bool {
	return r.Color == other.Color && r.Role == other.Role && r.Attributes.Equal(other.Attributes)
}

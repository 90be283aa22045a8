package category

import (
	"fmt"
	"strings"
)

// Role is the structural attribute of a node. It constrains which edges the
// node may take part in. The set is closed.
type Role uint8

const (
	// RoleUnset is the zero value and never valid on a node
	RoleUnset Role = iota
	// Source nodes may only originate edges
	Source
	// Sink nodes may only terminate edges
	Sink
	// Middle nodes may do both
	Middle
)

// Roles lists every valid role in declaration order
var Roles = []Role{Source, Sink, Middle}

// String returns the string representation of a role
func (r Role) String() string {
	switch r {
	case Source:
		return "Source"
	case Sink:
		return "Sink"
	case Middle:
		return "Middle"
	default:
		return "Unset"
	}
}

// Valid reports whether r is one of Source, Sink or Middle
func (r Role) Valid() bool {
	return r == Source || r == Sink || r == Middle
}

// AllowsOutgoing reports whether a node with this role may originate an edge
func (r Role) AllowsOutgoing() bool {
	return r == Source || r == Middle
}

// AllowsIncoming reports whether a node with this role may terminate an edge
func (r Role) AllowsIncoming() bool {
	return r == Sink || r == Middle
}

// ParseRole converts a configuration string to a Role. Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "source":
		return Source, nil
	case "sink":
		return Sink, nil
	case "middle":
		return Middle, nil
	default:
		return RoleUnset, fmt.Errorf("unknown role %q (want source, sink or middle)", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal role %d", r)
	}
	return []byte(strings.ToLower(r.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

package graph

import (
	"github.com/dd0wney/cluso-typegraph/pkg/attributes"
	"github.com/dd0wney/cluso-typegraph/pkg/category"
)

// Node is a typed vertex. Color, Role and Attributes are fixed at
// construction; only the edge sets grow, and only through the store.
type Node struct {
	ID         uint64
	Color      category.Color
	Role       category.Role
	Attributes attributes.Bundle
	Style      string   // discriminant that resolved the node, empty for the default provider
	Outgoing   []uint64 // edge IDs in insertion order
	Incoming   []uint64 // edge IDs in insertion order
	CreatedAt  int64
}

// Edge is an ordered (from, to) pair. Immutable once created.
type Edge struct {
	ID         uint64
	FromNodeID uint64
	ToNodeID   uint64
	CreatedAt  int64
}

// Clone creates a deep copy of a node
func (n *Node) Clone() *Node {
	clone := &Node{
		ID:         n.ID,
		Color:      n.Color,
		Role:       n.Role,
		Attributes: n.Attributes,
		Style:      n.Style,
		Outgoing:   make([]uint64, len(n.Outgoing)),
		Incoming:   make([]uint64, len(n.Incoming)),
		CreatedAt:  n.CreatedAt,
	}
	copy(clone.Outgoing, n.Outgoing)
	copy(clone.Incoming, n.Incoming)
	return clone
}

// SameAttributes reports whether two nodes carry the same color, role and
// attributes, ignoring identity and edges
func (n *Node) SameAttributes(other *Node) bool {
	return n.Color == other.Color &&
		n.Role == other.Role &&
		n.Attributes.Equal(other.Attributes)
}

// Clone creates a copy of an edge
func (e *Edge) Clone() *Edge {
	clone := *e
	return &clone
}

// AdmitEdgeFunc decides whether an edge between two nodes may be created. It
// runs while both endpoints are locked.
type AdmitEdgeFunc func(from, to *Node) error

// AdmitReplacementFunc decides whether replacement may take the place of
// current, which still holds its edges. It runs while current is locked.
type AdmitReplacementFunc func(current, replacement *Node) error

// Statistics tracks store counters
type Statistics struct {
	NodeCount uint64
	EdgeCount uint64
}

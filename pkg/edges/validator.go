// Package edges enforces the structural invariants of edges. A node's role
// decides which edges it may take part in; color and derived attributes play
// no part.
package edges

import (
	"github.com/dd0wney/cluso-typegraph/pkg/category"
	"github.com/dd0wney/cluso-typegraph/pkg/graph"
)

// Validator is the only writer of edges into a store
type Validator struct {
	store *graph.Store
}

// NewValidator creates a validator over store
func NewValidator(store *graph.Store) *Validator {
	return &Validator{store: store}
}

// Check reports whether an edge from -> to respects both roles
func Check(from, to *graph.Node) error {
	switch {
	case !from.Role.Valid() || !to.Role.Valid():
		return illegal(from, to, ReasonUnsetRole)
	case !from.Role.AllowsOutgoing():
		return illegal(from, to, ReasonSinkOrigin)
	case !to.Role.AllowsIncoming():
		return illegal(from, to, ReasonSourceTerminus)
	}
	return nil
}

func illegal(from, to *graph.Node, reason Reason) error {
	return &IllegalEdgeError{
		FromID:   from.ID,
		ToID:     to.ID,
		FromRole: from.Role,
		ToRole:   to.Role,
		Reason:   reason,
	}
}

// AddEdge creates the edge fromID -> toID. The role check runs atomically
// with the append to both edge sets. Adding a pair that already exists
// returns the existing edge with created false and changes nothing.
func (v *Validator) AddEdge(fromID, toID uint64) (edge *graph.Edge, created bool, err error) {
	return v.store.InsertEdge(fromID, toID, Check)
}

// Substitute replaces the node stored under id with replacement, keeping its
// identity and edges. It fails with IllegalEdgeError when the replacement's
// role cannot hold the node's existing edges.
func (v *Validator) Substitute(id uint64, replacement *graph.Node) (*graph.Node, error) {
	return v.store.ReplaceNode(id, replacement, v.checkReplacement)
}

// checkReplacement runs under the shard lock of current; reading edges only
// needs the store's map lock, which keeps the lock order.
func (v *Validator) checkReplacement(current, replacement *graph.Node) error {
	if !replacement.Role.Valid() {
		return &IllegalEdgeError{
			FromID:   current.ID,
			ToID:     current.ID,
			FromRole: replacement.Role,
			ToRole:   replacement.Role,
			Reason:   ReasonUnsetRole,
		}
	}
	if len(current.Outgoing) > 0 && !replacement.Role.AllowsOutgoing() {
		e := &IllegalEdgeError{FromID: current.ID, FromRole: replacement.Role, Reason: ReasonSinkOrigin}
		if edge, err := v.store.GetEdge(current.Outgoing[0]); err == nil {
			e.ToID = edge.ToNodeID
			e.ToRole = v.roleOf(edge.ToNodeID, current, replacement)
		}
		return e
	}
	if len(current.Incoming) > 0 && !replacement.Role.AllowsIncoming() {
		e := &IllegalEdgeError{ToID: current.ID, ToRole: replacement.Role, Reason: ReasonSourceTerminus}
		if edge, err := v.store.GetEdge(current.Incoming[0]); err == nil {
			e.FromID = edge.FromNodeID
			e.FromRole = v.roleOf(edge.FromNodeID, current, replacement)
		}
		return e
	}
	return nil
}

// roleOf resolves the role of an edge's far endpoint for error reporting.
// A self loop points back at the node being replaced.
func (v *Validator) roleOf(id uint64, current, replacement *graph.Node) category.Role {
	if id == current.ID {
		return replacement.Role
	}
	if n, ok := v.store.PeekRole(id); ok {
		return n
	}
	return category.RoleUnset
}

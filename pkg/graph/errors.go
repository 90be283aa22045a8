package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNodeNotFound = errors.New("node not found")
	ErrEdgeNotFound = errors.New("edge not found")
	ErrInvalidNode  = errors.New("invalid node")
)

// StoreError provides structured error information for store operations.
type StoreError struct {
	Op     string // Operation that failed (e.g., "InsertEdge")
	Entity string // "node" or "edge"
	ID     uint64 // Entity ID (if applicable)
	Role   string // endpoint role for edge operations ("source", "target")
	Cause  error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("%s %s %s %d: %v", e.Op, e.Role, e.Entity, e.ID, e.Cause)
	}
	if e.ID != 0 {
		return fmt.Sprintf("%s %s %d: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

func nodeNotFound(op string, id uint64, endpoint string) error {
	return &StoreError{Op: op, Entity: "node", ID: id, Role: endpoint, Cause: ErrNodeNotFound}
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound) || errors.Is(err, ErrEdgeNotFound)
}

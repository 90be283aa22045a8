package edges

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-typegraph/pkg/category"
)

// ErrIllegalEdge is matched by every IllegalEdgeError
var ErrIllegalEdge = errors.New("illegal edge")

// Reason explains which role rule an edge broke
type Reason string

const (
	// ReasonSinkOrigin: a Sink may not originate an edge
	ReasonSinkOrigin Reason = "sink_origin"
	// ReasonSourceTerminus: a Source may not terminate an edge
	ReasonSourceTerminus Reason = "source_terminus"
	// ReasonUnsetRole: an endpoint carries no valid role
	ReasonUnsetRole Reason = "unset_role"
)

// IllegalEdgeError is returned when an edge violates the role of its origin
// or terminus. It signals a logic error at the call site and is never
// retried or coerced.
type IllegalEdgeError struct {
	FromID   uint64
	ToID     uint64
	FromRole category.Role
	ToRole   category.Role
	Reason   Reason
}

func (e *IllegalEdgeError) Error() string {
	switch e.Reason {
	case ReasonSinkOrigin:
		return fmt.Sprintf("%v %d -> %d: node %d is a Sink and cannot originate an edge", ErrIllegalEdge, e.FromID, e.ToID, e.FromID)
	case ReasonSourceTerminus:
		return fmt.Sprintf("%v %d -> %d: node %d is a Source and cannot terminate an edge", ErrIllegalEdge, e.FromID, e.ToID, e.ToID)
	default:
		return fmt.Sprintf("%v %d -> %d: roles (%s, %s)", ErrIllegalEdge, e.FromID, e.ToID, e.FromRole, e.ToRole)
	}
}

func (e *IllegalEdgeError) Is(target error) bool {
	return target == ErrIllegalEdge
}

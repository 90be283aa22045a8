package resolver

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-typegraph/pkg/attributes"
	"github.com/dd0wney/cluso-typegraph/pkg/category"
)

// ErrUnresolvedCategory is matched by every UnresolvedCategoryError
var ErrUnresolvedCategory = errors.New("provider resolved an undeclared category")

// UnresolvedCategoryError means a provider produced a color that was never
// registered, or a role outside the fixed set. This is a configuration bug in
// the provider, not in the specification.
type UnresolvedCategoryError struct {
	Discriminant string
	Color        category.Color
	Role         category.Role
}

func (e *UnresolvedCategoryError) Error() string {
	name := e.Discriminant
	if name == "" {
		name = attributes.DefaultDiscriminant
	}
	if !e.Role.Valid() {
		return fmt.Sprintf("provider %q: %v: role %d", name, ErrUnresolvedCategory, e.Role)
	}
	return fmt.Sprintf("provider %q: %v: color %q", name, ErrUnresolvedCategory, e.Color)
}

func (e *UnresolvedCategoryError) Is(target error) bool {
	return target == ErrUnresolvedCategory
}

// ConstructionError wraps every failure of Construct and Build with the
// specification it concerned. Use errors.As to reach the specific cause.
type ConstructionError struct {
	Kind  string
	Style string
	Cause error
}

func (e *ConstructionError) Error() string {
	subject := e.Kind
	if subject == "" {
		subject = "specification"
	}
	if e.Style != "" {
		return fmt.Sprintf("construct %s (style %q): %v", subject, e.Style, e.Cause)
	}
	return fmt.Sprintf("construct %s: %v", subject, e.Cause)
}

func (e *ConstructionError) Unwrap() error {
	return e.Cause
}

package category

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrDuplicateCategory = errors.New("category already registered")
	ErrInvalidCategory   = errors.New("invalid category name")
)

// DuplicateCategoryError is returned when a color name is registered twice.
// Registration is append-only, so the caller has to fix its configuration.
type DuplicateCategoryError struct {
	Kind string // "color"
	Name string
}

// Error implements the error interface.
func (e *DuplicateCategoryError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, ErrDuplicateCategory)
}

// Is reports whether target is ErrDuplicateCategory.
func (e *DuplicateCategoryError) Is(target error) bool {
	return target == ErrDuplicateCategory
}

package attributes

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrDuplicateProvider = errors.New("provider already registered")
	ErrUnknownProvider   = errors.New("no provider registered for discriminant")
	ErrInvalidProvider   = errors.New("invalid provider registration")
	ErrNoDefaultProvider = errors.New("default provider is required")
	ErrProviderFailed    = errors.New("provider failed")
)

// DuplicateProviderError is returned when a discriminant is registered twice.
// Registration never overrides silently.
type DuplicateProviderError struct {
	Discriminant string
}

func (e *DuplicateProviderError) Error() string {
	return fmt.Sprintf("discriminant %q: %v", e.Discriminant, ErrDuplicateProvider)
}

func (e *DuplicateProviderError) Is(target error) bool {
	return target == ErrDuplicateProvider
}

// UnknownProviderError is returned when a specification names a discriminant
// nobody registered. It is never answered with the default provider.
type UnknownProviderError struct {
	Discriminant string
	Kind         string // specification kind, if known
}

func (e *UnknownProviderError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s with style %q: %v", e.Kind, e.Discriminant, ErrUnknownProvider)
	}
	return fmt.Sprintf("style %q: %v", e.Discriminant, ErrUnknownProvider)
}

func (e *UnknownProviderError) Is(target error) bool {
	return target == ErrUnknownProvider
}

// ProviderError wraps an error returned by a provider itself
type ProviderError struct {
	Discriminant string // empty for the default provider
	Cause        error
}

func (e *ProviderError) Error() string {
	name := e.Discriminant
	if name == "" {
		name = DefaultDiscriminant
	}
	return fmt.Sprintf("provider %q: %v", name, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderFailed
}

// Package attributes maps node specifications to their derived attributes.
//
// Each extension registers one named provider under a discriminant instead of
// adding another branch to conditionals keyed on color or role. Lookup is
// strict: only the absence of a discriminant selects the default provider,
// an unrecognized one is an error.
package attributes

import (
	"sort"
	"sync"
)

// DefaultDiscriminant names the default provider in logs and errors. It is
// not a registered key.
const DefaultDiscriminant = "(default)"

// Registry owns the registered providers
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	fallback  Provider
	onGrow    func(size int)
}

// NewRegistry creates a provider registry. The default provider represents
// behavior from before styles existed and is required.
func NewRegistry(defaultProvider Provider) (*Registry, error) {
	if defaultProvider == nil {
		return nil, ErrNoDefaultProvider
	}
	return &Registry{
		providers: make(map[string]Provider),
		fallback:  defaultProvider,
	}, nil
}

// OnGrow installs a hook called with the provider count after each
// successful registration. The hook runs under the registry lock and must
// not call back into it.
func (r *Registry) OnGrow(fn func(size int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onGrow = fn
}

// RegisterProvider associates a discriminant with a provider
func (r *Registry) RegisterProvider(discriminant string, p Provider) error {
	if discriminant == "" || p == nil {
		return ErrInvalidProvider
	}

	r.mu.Lock()
	if _, exists := r.providers[discriminant]; exists {
		r.mu.Unlock()
		return &DuplicateProviderError{Discriminant: discriminant}
	}
	r.providers[discriminant] = p
	if r.onGrow != nil {
		r.onGrow(len(r.providers))
	}
	r.mu.Unlock()
	return nil
}

// Lookup returns the provider that would resolve spec, without invoking it
func (r *Registry) Lookup(spec Specification) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !spec.HasStyle() {
		return r.fallback, nil
	}
	p, ok := r.providers[spec.Style]
	if !ok {
		return nil, &UnknownProviderError{Discriminant: spec.Style, Kind: spec.Kind}
	}
	return p, nil
}

// Resolve invokes exactly one provider for spec and returns its resolution
func (r *Registry) Resolve(spec Specification) (Resolution, error) {
	p, err := r.Lookup(spec)
	if err != nil {
		return Resolution{}, err
	}

	// invoked outside the lock so providers may consult the registry
	res, err := p.Resolve(spec)
	if err != nil {
		return Resolution{}, &ProviderError{Discriminant: spec.Style, Cause: err}
	}
	return res, nil
}

// Has reports whether a discriminant is registered
func (r *Registry) Has(discriminant string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[discriminant]
	return ok
}

// Discriminants returns the registered discriminants sorted
func (r *Registry) Discriminants() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.providers))
	for d := range r.providers {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered providers, excluding the default
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}

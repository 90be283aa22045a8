// Package category holds the declared colors and the fixed set of structural
// roles. It is the single source of truth the resolver and the edge validator
// consult.
package category

import (
	"strings"
	"sync"
)

// Color is an open categorical node attribute
type Color string

// String returns the color name
func (c Color) String() string {
	return string(c)
}

// Registry holds the known colors. Colors are appended, never removed, so a
// node constructed against an earlier registry state stays valid.
type Registry struct {
	mu     sync.RWMutex
	known  map[Color]struct{}
	order  []Color
	onGrow func(size int)
}

// NewRegistry creates an empty category registry, optionally pre-populated
// with colors. Duplicates in the seed list are rejected.
func NewRegistry(colors ...string) (*Registry, error) {
	r := &Registry{
		known: make(map[Color]struct{}, len(colors)),
		order: make([]Color, 0, len(colors)),
	}
	for _, c := range colors {
		if err := r.RegisterColor(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// OnGrow installs a hook called with the new color count after each
// successful registration. Used for metrics.
// The hook runs under the registry lock and must not call back into it.
func (r *Registry) OnGrow(fn func(size int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onGrow = fn
}

// RegisterColor adds a new legal color
func (r *Registry) RegisterColor(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidCategory
	}
	c := Color(name)

	r.mu.Lock()
	if _, exists := r.known[c]; exists {
		r.mu.Unlock()
		return &DuplicateCategoryError{Kind: "color", Name: name}
	}
	r.known[c] = struct{}{}
	r.order = append(r.order, c)
	if r.onGrow != nil {
		r.onGrow(len(r.order))
	}
	r.mu.Unlock()
	return nil
}

// IsKnownColor reports whether name was registered
func (r *Registry) IsKnownColor(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.known[Color(name)]
	return ok
}

// Colors returns the registered colors in registration order
func (r *Registry) Colors() []Color {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Color, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered colors
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

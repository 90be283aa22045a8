package attributes

import (
	"fmt"
	"sort"
	"strings"
)

// Bundle is the immutable set of derived attributes attached to a node at
// construction. Values are declared by exactly one provider invocation and
// are read, never recomputed, by consumers.
type Bundle struct {
	values map[string]Value
}

// NewBundle copies values into a new bundle
func NewBundle(values map[string]Value) Bundle {
	b := Bundle{values: make(map[string]Value, len(values))}
	for k, v := range values {
		b.values[k] = v
	}
	return b
}

// BundleOf builds a bundle from plain Go values
func BundleOf(values map[string]any) (Bundle, error) {
	b := Bundle{values: make(map[string]Value, len(values))}
	for k, raw := range values {
		v, err := ValueOf(raw)
		if err != nil {
			return Bundle{}, fmt.Errorf("attribute %q: %w", k, err)
		}
		b.values[k] = v
	}
	return b, nil
}

// Get returns the named attribute
func (b Bundle) Get(name string) (Value, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Bool returns a boolean capability. Missing or non-bool attributes read as false.
func (b Bundle) Bool(name string) bool {
	v, ok := b.values[name]
	if !ok {
		return false
	}
	out, _ := v.AsBool()
	return out
}

// Int returns an integer capability and whether it was declared as one
func (b Bundle) Int(name string) (int64, bool) {
	v, ok := b.values[name]
	if !ok {
		return 0, false
	}
	out, err := v.AsInt()
	return out, err == nil
}

// Float returns a float capability and whether it was declared as one
func (b Bundle) Float(name string) (float64, bool) {
	v, ok := b.values[name]
	if !ok {
		return 0, false
	}
	out, err := v.AsFloat()
	return out, err == nil
}

// Text returns a string capability and whether it was declared as one
func (b Bundle) Text(name string) (string, bool) {
	v, ok := b.values[name]
	if !ok {
		return "", false
	}
	out, err := v.AsString()
	return out, err == nil
}

// Len returns the number of attributes
func (b Bundle) Len() int {
	return len(b.values)
}

// Keys returns the attribute names sorted
func (b Bundle) Keys() []string {
	keys := make([]string, 0, len(b.values))
	for k := range b.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the attributes
func (b Bundle) Map() map[string]Value {
	out := make(map[string]Value, len(b.values))
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// With returns a new bundle with overrides applied on top of b
func (b Bundle) With(overrides Bundle) Bundle {
	out := b.Map()
	for k, v := range overrides.values {
		out[k] = v
	}
	return Bundle{values: out}
}

// Equal reports whether both bundles declare the same attributes
func (b Bundle) Equal(other Bundle) bool {
	if len(b.values) != len(other.values) {
		return false
	}
	for k, v := range b.values {
		if ov, ok := other.values[k]; !ok || !ov.Equal(v) {
			return false
		}
	}
	return true
}

// String renders the bundle as {k:v, ...} with sorted keys
func (b Bundle) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range b.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteByte(':')
		sb.WriteString(b.values[k].String())
	}
	sb.WriteByte('}')
	return sb.String()
}

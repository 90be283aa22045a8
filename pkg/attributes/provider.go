package attributes

// Provider maps a specification to a resolution. Implementations must be
// deterministic: the same specification always yields the same resolution.
type Provider interface {
	Resolve(spec Specification) (Resolution, error)
}

// ProviderFunc adapts a function to the Provider interface
type ProviderFunc func(spec Specification) (Resolution, error)

// Resolve calls f(spec)
func (f ProviderFunc) Resolve(spec Specification) (Resolution, error) {
	return f(spec)
}

// Static returns a provider that ignores the specification and always yields res
func Static(res Resolution) Provider {
	return &Declared{Resolution: res}
}

// Declared is a provider described by configuration rather than code. When
// HonorIntent is set, a specification's declared intent overrides the
// configured color and role, and its attributes are layered on top of the
// configured ones.
type Declared struct {
	Resolution  Resolution
	HonorIntent bool
}

// Resolve implements Provider
func (d *Declared) Resolve(spec Specification) (Resolution, error) {
	res := Resolution{
		Color:      d.Resolution.Color,
		Role:       d.Resolution.Role,
		Attributes: d.Resolution.Attributes,
	}
	if !d.HonorIntent || spec.Intent == nil {
		return res, nil
	}

	if spec.Intent.Color != "" {
		res.Color = spec.Intent.Color
	}
	if spec.Intent.Role.Valid() {
		res.Role = spec.Intent.Role
	}
	res.Attributes = res.Attributes.With(spec.Intent.Attributes)
	return res, nil
}

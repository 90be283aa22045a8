// Package resolver turns external specifications into fully attributed nodes.
package resolver

import (
	"github.com/dd0wney/cluso-typegraph/pkg/attributes"
	"github.com/dd0wney/cluso-typegraph/pkg/category"
	"github.com/dd0wney/cluso-typegraph/pkg/graph"
)

// Resolver builds nodes from specifications using an attribute provider
// registry and checks the result against a category registry.
type Resolver struct {
	categories *category.Registry
	providers  *attributes.Registry
	store      *graph.Store
}

// New creates a resolver. store may be nil when only Build is used.
func New(categories *category.Registry, providers *attributes.Registry, store *graph.Store) *Resolver {
	return &Resolver{
		categories: categories,
		providers:  providers,
		store:      store,
	}
}

// Build resolves spec into a node that is not yet stored. The same spec
// against the same registry state always yields the same color, role and
// attributes.
func (r *Resolver) Build(spec attributes.Specification) (*graph.Node, error) {
	res, err := r.providers.Resolve(spec)
	if err != nil {
		return nil, r.fail(spec, err)
	}

	if !res.Role.Valid() || !r.categories.IsKnownColor(string(res.Color)) {
		return nil, r.fail(spec, &UnresolvedCategoryError{
			Discriminant: spec.Style,
			Color:        res.Color,
			Role:         res.Role,
		})
	}

	return &graph.Node{
		Color:      res.Color,
		Role:       res.Role,
		Attributes: res.Attributes,
		Style:      spec.Style,
	}, nil
}

// Construct builds a node from spec and records it in the store. On any
// error the store is left untouched.
func (r *Resolver) Construct(spec attributes.Specification) (*graph.Node, error) {
	node, err := r.Build(spec)
	if err != nil {
		return nil, err
	}
	stored, err := r.store.InsertNode(node)
	if err != nil {
		return nil, r.fail(spec, err)
	}
	return stored, nil
}

func (r *Resolver) fail(spec attributes.Specification, cause error) error {
	return &ConstructionError{Kind: spec.Kind, Style: spec.Style, Cause: cause}
}

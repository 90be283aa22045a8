// Package engine wires the category and provider registries, the resolver,
// the edge validator and the node store behind a single value per graph.
// Independent engines share no state.
package engine

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/dd0wney/cluso-typegraph/pkg/attributes"
	"github.com/dd0wney/cluso-typegraph/pkg/category"
	"github.com/dd0wney/cluso-typegraph/pkg/config"
	"github.com/dd0wney/cluso-typegraph/pkg/edges"
	"github.com/dd0wney/cluso-typegraph/pkg/graph"
	"github.com/dd0wney/cluso-typegraph/pkg/logging"
	"github.com/dd0wney/cluso-typegraph/pkg/metrics"
	"github.com/dd0wney/cluso-typegraph/pkg/resolver"
)

// Engine is one typed graph together with its registrations
type Engine struct {
	id         uuid.UUID
	categories *category.Registry
	providers  *attributes.Registry
	store      *graph.Store
	resolver   *resolver.Resolver
	validator  *edges.Validator
	logger     logging.Logger
	metrics    *metrics.Registry
}

// New creates an engine from opts
func New(opts Options) (*Engine, error) {
	opts.applyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid engine options")
	}

	categories, err := category.NewRegistry(opts.Colors...)
	if err != nil {
		return nil, errors.Wrap(err, "seed colors")
	}
	providers, err := attributes.NewRegistry(opts.DefaultProvider)
	if err != nil {
		return nil, err
	}
	return build(categories, providers, opts)
}

// FromConfig creates an engine holding every registration declared in cfg.
// opts.Colors and opts.DefaultProvider are ignored; a zero opts.ShardCount
// takes the configured shard count, and a nil opts.Logger logs JSON to stderr
// at the configured level when one is set.
func FromConfig(cfg *config.Config, opts Options) (*Engine, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	categories, err := cfg.CategoryRegistry()
	if err != nil {
		return nil, err
	}
	providers, err := cfg.ProviderRegistry()
	if err != nil {
		return nil, err
	}

	if opts.ShardCount == 0 {
		opts.ShardCount = cfg.Engine.ShardCount
	}
	if opts.Logger == nil && cfg.Engine.LogLevel != "" {
		opts.Logger = logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.Engine.LogLevel))
	}
	opts.applyDefaults()
	if err := opts.validate(false); err != nil {
		return nil, errors.Wrap(err, "invalid engine options")
	}
	return build(categories, providers, opts)
}

func build(categories *category.Registry, providers *attributes.Registry, opts Options) (*Engine, error) {
	store, err := graph.NewStoreWithShards(opts.ShardCount)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	e := &Engine{
		id:         id,
		categories: categories,
		providers:  providers,
		store:      store,
		resolver:   resolver.New(categories, providers, store),
		validator:  edges.NewValidator(store),
		logger:     opts.Logger.With(logging.Component("engine"), logging.GraphID(id.String())),
		metrics:    opts.Metrics,
	}

	e.metrics.SetRegistrySizes(categories.Len(), providers.Len())
	categories.OnGrow(e.metrics.SetColorCount)
	providers.OnGrow(e.metrics.SetProviderCount)

	e.logger.Info("engine started",
		logging.Int("colors", categories.Len()),
		logging.Int("providers", providers.Len()),
		logging.Int("shards", opts.ShardCount))
	return e, nil
}

// ID identifies this graph instance
func (e *Engine) ID() string {
	return e.id.String()
}

// Metrics returns the engine's metrics registry
func (e *Engine) Metrics() *metrics.Registry {
	return e.metrics
}

// RegisterColor adds a color to the category registry
func (e *Engine) RegisterColor(name string) error {
	if err := e.categories.RegisterColor(name); err != nil {
		e.logger.Warn("color registration rejected", logging.Color(name), logging.Error(err))
		return err
	}
	e.logger.Debug("color registered", logging.Color(name), logging.Count(e.categories.Len()))
	return nil
}

// RegisterProvider adds a provider selected by discriminant
func (e *Engine) RegisterProvider(discriminant string, p attributes.Provider) error {
	if err := e.providers.RegisterProvider(discriminant, p); err != nil {
		e.logger.Warn("provider registration rejected", logging.Style(discriminant), logging.Error(err))
		return err
	}
	e.logger.Debug("provider registered", logging.Style(discriminant), logging.Count(e.providers.Len()))
	return nil
}

// IsKnownColor reports whether name is a registered color
func (e *Engine) IsKnownColor(name string) bool {
	return e.categories.IsKnownColor(name)
}

// Colors returns the registered colors in registration order
func (e *Engine) Colors() []category.Color {
	return e.categories.Colors()
}

// Discriminants returns the registered styles, sorted
func (e *Engine) Discriminants() []string {
	return e.providers.Discriminants()
}

// Construct resolves spec into a node and stores it
func (e *Engine) Construct(spec attributes.Specification) (*graph.Node, error) {
	timer := logging.StartTimer(e.logger, "construct",
		logging.Style(spec.Style),
		logging.String("kind", spec.Kind))
	node, err := e.resolver.Construct(spec)
	elapsed := timer.Elapsed()

	if err != nil {
		label := spec.Style
		if errors.Is(err, attributes.ErrUnknownProvider) {
			label = metrics.StyleUnregistered
		}
		e.metrics.RecordConstruction(label, metrics.StatusError, elapsed)
		timer.EndError(err)
		return nil, err
	}

	e.metrics.RecordConstruction(spec.Style, metrics.StatusSuccess, elapsed)
	e.syncStoreGauges()
	timer.End(
		logging.NodeID(node.ID),
		logging.Color(string(node.Color)),
		logging.Role(node.Role.String()))
	return node, nil
}

// AddEdge joins two stored nodes. Adding a pair that already exists returns
// the existing edge.
func (e *Engine) AddEdge(fromID, toID uint64) (*graph.Edge, error) {
	edge, created, err := e.validator.AddEdge(fromID, toID)
	if err != nil {
		e.metrics.RecordEdge(metrics.StatusError)
		var illegal *edges.IllegalEdgeError
		if errors.As(err, &illegal) {
			e.metrics.RecordIllegalEdge(string(illegal.Reason))
		}
		e.logger.Warn("edge rejected",
			logging.Uint64("from", fromID),
			logging.Uint64("to", toID),
			logging.Error(err))
		return nil, err
	}

	if !created {
		e.metrics.RecordEdge(metrics.StatusExisting)
		return edge, nil
	}
	e.metrics.RecordEdge(metrics.StatusSuccess)
	e.syncStoreGauges()
	e.logger.Debug("edge added",
		logging.EdgeID(edge.ID),
		logging.Uint64("from", fromID),
		logging.Uint64("to", toID))
	return edge, nil
}

// Replace resolves spec into a replacement for the node stored under id. The
// replacement keeps the node's identity and edges; it is rejected when its
// role cannot hold those edges.
func (e *Engine) Replace(id uint64, spec attributes.Specification) (*graph.Node, error) {
	replacement, err := e.resolver.Build(spec)
	if err != nil {
		e.metrics.RecordReplacement(metrics.StatusError)
		e.logger.Warn("replacement failed", logging.NodeID(id), logging.Style(spec.Style), logging.Error(err))
		return nil, err
	}

	node, err := e.validator.Substitute(id, replacement)
	if err != nil {
		e.metrics.RecordReplacement(metrics.StatusError)
		var illegal *edges.IllegalEdgeError
		if errors.As(err, &illegal) {
			e.metrics.RecordIllegalEdge(string(illegal.Reason))
		}
		e.logger.Warn("replacement rejected", logging.NodeID(id), logging.Style(spec.Style), logging.Error(err))
		return nil, err
	}

	e.metrics.RecordReplacement(metrics.StatusSuccess)
	e.logger.Debug("node replaced",
		logging.NodeID(id),
		logging.Style(spec.Style),
		logging.Color(string(node.Color)),
		logging.Role(node.Role.String()))
	return node, nil
}

// GetNode returns a copy of the node stored under id
func (e *Engine) GetNode(id uint64) (*graph.Node, error) {
	return e.store.GetNode(id)
}

// GetEdge returns a copy of the edge stored under id
func (e *Engine) GetEdge(id uint64) (*graph.Edge, error) {
	return e.store.GetEdge(id)
}

// NodesByColor returns the nodes of one color ordered by id
func (e *Engine) NodesByColor(color category.Color) []*graph.Node {
	return e.store.NodesByColor(color)
}

// NodesByRole returns the nodes of one role ordered by id
func (e *Engine) NodesByRole(role category.Role) []*graph.Node {
	return e.store.NodesByRole(role)
}

// Stats returns the store counters
func (e *Engine) Stats() graph.Statistics {
	return e.store.Stats()
}

func (e *Engine) syncStoreGauges() {
	s := e.store.Stats()
	e.metrics.SetStoreSizes(s.NodeCount, s.EdgeCount)
}

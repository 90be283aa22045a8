package engine

import (
	"github.com/dd0wney/cluso-typegraph/pkg/attributes"
	"github.com/dd0wney/cluso-typegraph/pkg/graph"
	"github.com/dd0wney/cluso-typegraph/pkg/logging"
	"github.com/dd0wney/cluso-typegraph/pkg/metrics"
	"github.com/dd0wney/cluso-typegraph/pkg/validation"
)

// MaxShardCount bounds the number of edge-set shard locks
const MaxShardCount = 65536

// Options configures an Engine
type Options struct {
	// Colors seeds the category registry
	Colors []string

	// DefaultProvider serves specifications without a style. Required by New;
	// FromConfig takes it from the configuration.
	DefaultProvider attributes.Provider

	// ShardCount is the number of shard locks guarding edge sets. Zero means
	// graph.DefaultShardCount.
	ShardCount int

	// Logger defaults to a no-op logger
	Logger logging.Logger

	// Metrics defaults to a fresh registry owned by the engine
	Metrics *metrics.Registry
}

func (o *Options) applyDefaults() {
	o.ShardCount = validation.DefaultOr(o.ShardCount, graph.DefaultShardCount)
	if o.Logger == nil {
		o.Logger = logging.NewNopLogger()
	}
	if o.Metrics == nil {
		o.Metrics = metrics.NewRegistry()
	}
}

// Validate checks the options after defaults are applied
func (o *Options) Validate() error {
	return o.validate(true)
}

func (o *Options) validate(requireDefault bool) error {
	return validation.NewConfigValidator("Options").
		RangeInt("ShardCount", o.ShardCount, 1, MaxShardCount).
		PowerOfTwo("ShardCount", o.ShardCount).
		When(requireDefault, func(cv *validation.ConfigValidator) {
			cv.Custom("DefaultProvider", func() error {
				if o.DefaultProvider == nil {
					return attributes.ErrNoDefaultProvider
				}
				return nil
			})
		}).
		Validate()
}

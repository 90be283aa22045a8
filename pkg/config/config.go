// Package config loads start-up registrations for a typegraph engine.
//
// A configuration file declares the known colors, the default provider and
// any number of styled providers:
//
//	colors: [Blue, Red, Puce]
//	default_provider:
//	  color: Blue
//	  role: source
//	  attributes: {frobulatable: true, resonance: 3}
//	providers:
//	  - style: rodeo
//	    color: Red
//	    role: middle
//
// Providers declared here are attributes.Declared values. Strategies that need
// code are registered on the engine after loading.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-typegraph/pkg/attributes"
	"github.com/dd0wney/cluso-typegraph/pkg/category"
	"github.com/dd0wney/cluso-typegraph/pkg/validation"
)

// CurrentVersion is the configuration schema version written by this module
const CurrentVersion = 1

// Config is the root of a configuration document
type Config struct {
	Version         int              `yaml:"version"`
	Colors          []string         `yaml:"colors" validate:"required,min=1,unique,dive,category"`
	DefaultProvider *ProviderConfig  `yaml:"default_provider" validate:"required"`
	Providers       []ProviderConfig `yaml:"providers" validate:"dive"`
	Engine          EngineConfig     `yaml:"engine"`
}

// ProviderConfig declares one provider
type ProviderConfig struct {
	Style       string         `yaml:"style" validate:"omitempty,discriminant"`
	Color       string         `yaml:"color" validate:"required,category"`
	Role        string         `yaml:"role" validate:"required,role"`
	Attributes  map[string]any `yaml:"attributes" validate:"attrcount,dive,keys,attrkey,endkeys"`
	HonorIntent bool           `yaml:"honor_intent"`
}

// EngineConfig holds tuning settings for the engine built from this file
type EngineConfig struct {
	ShardCount int    `yaml:"shard_count" validate:"omitempty,min=1,max=65536"`
	LogLevel   string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// Load reads and validates the configuration file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load config %s", path)
	}
	return cfg, nil
}

// Parse decodes and validates a configuration document
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "parse config"),
			"the document must be YAML with top-level keys colors, default_provider and providers")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = CurrentVersion
	}
}

// Validate checks the document's shape and its cross-references. A zero
// Version is read as CurrentVersion.
func (c *Config) Validate() error {
	if c.Version != 0 && c.Version != CurrentVersion {
		return errors.WithHintf(errors.Newf("unsupported config version %d", c.Version),
			"this build reads version %d", CurrentVersion)
	}
	if err := validation.ValidateStruct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}

	known := make(map[string]struct{}, len(c.Colors))
	for _, name := range c.Colors {
		known[name] = struct{}{}
	}

	if c.DefaultProvider.Style != "" {
		return errors.WithHint(errors.New("default_provider must not declare a style"),
			"the default provider serves specifications without a style; move it under providers")
	}
	if err := c.DefaultProvider.check(known); err != nil {
		return errors.Wrap(err, "default_provider")
	}

	styles := make(map[string]struct{}, len(c.Providers))
	for i := range c.Providers {
		p := &c.Providers[i]
		if p.Style == "" {
			return errors.WithHint(errors.Newf("providers[%d]: style is required", i),
				"only default_provider may omit the style")
		}
		if _, dup := styles[p.Style]; dup {
			return errors.Newf("providers[%d]: style %q declared twice", i, p.Style)
		}
		styles[p.Style] = struct{}{}
		if err := p.check(known); err != nil {
			return errors.Wrapf(err, "providers[%d] (%s)", i, p.Style)
		}
	}
	return nil
}

func (p *ProviderConfig) check(known map[string]struct{}) error {
	if _, ok := known[p.Color]; !ok {
		return errors.WithHintf(errors.Newf("color %q is not declared", p.Color),
			"add %q to colors", p.Color)
	}
	if _, err := attributes.BundleOf(p.Attributes); err != nil {
		return errors.WithHint(err, "attribute values must be booleans, numbers or strings")
	}
	return nil
}

// CategoryRegistry builds a category registry holding the declared colors
func (c *Config) CategoryRegistry() (*category.Registry, error) {
	reg, err := category.NewRegistry(c.Colors...)
	if err != nil {
		return nil, errors.Wrap(err, "register colors")
	}
	return reg, nil
}

// ProviderRegistry builds a provider registry holding the default and every styled provider
func (c *Config) ProviderRegistry() (*attributes.Registry, error) {
	if c.DefaultProvider == nil {
		return nil, errors.Wrap(attributes.ErrNoDefaultProvider, "default_provider")
	}
	def, err := c.DefaultProvider.Provider()
	if err != nil {
		return nil, errors.Wrap(err, "default_provider")
	}
	reg, err := attributes.NewRegistry(def)
	if err != nil {
		return nil, err
	}
	for i := range c.Providers {
		p := &c.Providers[i]
		provider, err := p.Provider()
		if err != nil {
			return nil, errors.Wrapf(err, "provider %s", p.Style)
		}
		if err := reg.RegisterProvider(p.Style, provider); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Provider converts the declaration to an attributes.Declared provider
func (p *ProviderConfig) Provider() (*attributes.Declared, error) {
	role, err := category.ParseRole(p.Role)
	if err != nil {
		return nil, err
	}
	bundle, err := attributes.BundleOf(p.Attributes)
	if err != nil {
		return nil, err
	}
	return &attributes.Declared{
		Resolution: attributes.Resolution{
			Color:      category.Color(p.Color),
			Role:       role,
			Attributes: bundle,
		},
		HonorIntent: p.HonorIntent,
	}, nil
}

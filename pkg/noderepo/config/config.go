// Package config loads repository configuration from the environment and
// builds an attached repository from it.
package config

import (
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/fernwick/noderepo/pkg/noderepo"
	fsengine "github.com/fernwick/noderepo/pkg/noderepo/engine/fs"
)

// Option applies configuration on top of environment-derived defaults.
type Option func(*Config) error

// Config represents repository configuration.
type Config struct {
	// Engine selects the storage engine, either a built-in name or one
	// registered through noderepo.RegisterEngine.
	Engine string `env:"NODEREPO_ENGINE" env-default:"fs"`

	// Root is the filesystem engine's root directory. Empty means the
	// process working directory.
	Root string `env:"NODEREPO_ROOT"`
}

// Load constructs a Config from environment variables, then applies the
// supplied options on top and validates the result.
func Load(opts ...Option) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// WithEngine overrides the engine name.
func WithEngine(name string) Option {
	return func(c *Config) error {
		c.Engine = name
		return nil
	}
}

// WithRoot overrides the filesystem engine root.
func WithRoot(dir string) Option {
	return func(c *Config) error {
		c.Root = dir
		return nil
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Engine == "" {
		return errors.New("engine is required")
	}
	return nil
}

// BuildRepository attaches a repository per the configuration. Built-in
// engine names are constructed directly; anything else is resolved through
// the engine factory registry, so externally registered engines work too.
func (c *Config) BuildRepository() (*noderepo.Repository, error) {
	switch c.Engine {
	case "fs", "filesystem":
		engine, err := fsengine.New(fsengine.Config{Root: c.Root})
		if err != nil {
			return nil, err
		}
		return noderepo.New(engine)
	default:
		return noderepo.Attach(c.Engine, map[string]any{"root": c.Root})
	}
}

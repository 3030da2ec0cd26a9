// Package appconfig is the rulesengine CLI's on-disk configuration: engine
// defaults plus logging settings, YAML-loaded via a DefaultConfig/Load/
// Save/Validate shape.
package appconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"rulesengine/internal/engine"
)

// EngineConfig mirrors engine.Config for YAML (un)marshaling.
type EngineConfig struct {
	MaxIterations uint32 `yaml:"max_iterations"`
	EnableTracing bool   `yaml:"enable_tracing"`
}

// LoggingConfig configures the CLI's zap logger.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Config holds all rulesengine CLI configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	d := engine.DefaultConfig()
	return &Config{
		Engine: EngineConfig{
			MaxIterations: d.MaxIterations,
			EnableTracing: d.EnableTracing,
		},
		Logging: LoggingConfig{Verbose: false},
	}
}

// ToEngineConfig converts the YAML-facing EngineConfig into engine.Config.
func (c *Config) ToEngineConfig() engine.Config {
	return engine.Config{
		MaxIterations: c.Engine.MaxIterations,
		EnableTracing: c.Engine.EnableTracing,
	}
}

// Load reads configuration from a YAML file, returning defaults if the
// file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("appconfig: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("appconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("appconfig: create dir for %s: %w", path, err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("appconfig: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("appconfig: write %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration, delegating the engine portion to
// engine.Config.Validate.
func (c *Config) Validate() error {
	return c.ToEngineConfig().Validate()
}

package engine

import "rulesengine/internal/engineerr"

// Config configures one Engine's iteration ceiling and tracing.
type Config struct {
	MaxIterations uint32
	EnableTracing bool
}

// DefaultConfig returns production defaults: a one-million-iteration
// ceiling and tracing disabled.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 1_000_000,
		EnableTracing: false,
	}
}

// Validate checks that the configuration is structurally sound.
func (c Config) Validate() error {
	if c.MaxIterations == 0 {
		return &engineerr.ConfigError{Reason: "max_iterations must be > 0"}
	}
	return nil
}

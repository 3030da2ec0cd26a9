// Package obslog builds the engine's structured loggers, one
// category-per-subsystem, expressed as named zap children rather than one
// log file per category since this engine has no per-category
// file-routing requirement.
package obslog

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a logger's subsystem, attached as the logger's name.
type Category string

const (
	CategoryEngine    Category = "engine"
	CategorySession   Category = "session"
	CategoryNetwork   Category = "network"
	CategoryCLI       Category = "cli"
	CategoryValidator Category = "validator"
)

// New builds a production zap.Logger, or a development one with debug
// level when verbose is set.
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("obslog: build logger: %w", err)
	}
	return logger, nil
}

// For returns a child logger tagged with category.
func For(base *zap.Logger, category Category) *zap.Logger {
	return base.Named(string(category))
}

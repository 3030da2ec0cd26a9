package obslog

import (
	"go.uber.org/zap"

	"rulesengine/internal/event"
)

// ZapCollector adapts engine events into structured zap log lines. It is
// ambient logging support, not a feature of the engine: nothing in
// internal/engine depends on it, and the engine works identically with
// event.NopCollector{}.
type ZapCollector struct {
	Logger *zap.Logger
}

// NewZapCollector wraps logger (expected to already be Named for the
// "engine" category) as an event.Collector.
func NewZapCollector(logger *zap.Logger) *ZapCollector {
	return &ZapCollector{Logger: logger}
}

// Emit implements event.Collector.
func (c *ZapCollector) Emit(ev event.Event) {
	switch ev.Kind {
	case event.FactInserted:
		c.Logger.Debug("fact inserted", zap.Any("fact", ev.Fact), zap.Bool("derived", ev.IsDerived))
	case event.RuleFired:
		c.Logger.Info("rule fired",
			zap.String("rule", ev.RuleName),
			zap.Int("priority", ev.Priority),
			zap.Any("input", ev.InputFact),
			zap.Any("outputs", ev.OutputFacts))
	case event.RuleSkipped:
		c.Logger.Warn("rule skipped", zap.String("rule", ev.RuleName), zap.String("guard", ev.GuardDesc))
	case event.ValidationPassed:
		c.Logger.Debug("validation passed", zap.String("rule", ev.RuleName), zap.Any("fact", ev.InputFact))
	case event.ValidationFailed:
		c.Logger.Info("validation failed",
			zap.String("rule", ev.RuleName),
			zap.Any("fact", ev.InputFact),
			zap.Any("reason", ev.FailureReason))
	case event.Completed:
		c.Logger.Info("evaluation completed")
	}
}

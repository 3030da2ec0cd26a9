package obslog

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"rulesengine/internal/event"
)

func newObservedCollector() (*ZapCollector, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewZapCollector(zap.New(core)), logs
}

func TestZapCollector_RuleFiredLogsAtInfo(t *testing.T) {
	collector, logs := newObservedCollector()
	collector.Emit(event.Event{Kind: event.RuleFired, RuleName: "vip-check", Priority: 5})

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Message != "rule fired" {
		t.Errorf("expected message %q, got %q", "rule fired", entries[0].Message)
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("expected Info level, got %v", entries[0].Level)
	}
}

func TestZapCollector_RuleSkippedLogsAtWarn(t *testing.T) {
	collector, logs := newObservedCollector()
	collector.Emit(event.Event{Kind: event.RuleSkipped, RuleName: "vip-only-discount", GuardDesc: "must be VIP"})

	entries := logs.All()
	if len(entries) != 1 || entries[0].Message != "rule skipped" {
		t.Fatalf("expected one 'rule skipped' entry, got %+v", entries)
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Errorf("expected Warn level, got %v", entries[0].Level)
	}
}

func TestZapCollector_CompletedLogsAtInfo(t *testing.T) {
	collector, logs := newObservedCollector()
	collector.Emit(event.Event{Kind: event.Completed})

	entries := logs.All()
	if len(entries) != 1 || entries[0].Message != "evaluation completed" {
		t.Fatalf("expected one 'evaluation completed' entry, got %+v", entries)
	}
}

func TestFor_NamesTheLoggerByCategory(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	logger := For(base, CategoryEngine)
	logger.Info("hello")

	entries := logs.All()
	if len(entries) != 1 || entries[0].LoggerName != "engine" {
		t.Fatalf("expected logger name %q, got %+v", "engine", entries)
	}
}

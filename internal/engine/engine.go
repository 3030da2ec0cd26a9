// Package engine is the public façade over the rules engine: Engine is a
// static, immutable description of rules compiled once at construction;
// each Evaluate/EvaluateAsync call spawns a fresh session (see
// internal/session) that owns its own working memory and reuses the
// engine's pre-compiled per-phase networks under a lock.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"rulesengine/internal/engineerr"
	"rulesengine/internal/engineresult"
	"rulesengine/internal/event"
	"rulesengine/internal/fact"
	"rulesengine/internal/network"
	"rulesengine/internal/rule"
	"rulesengine/internal/session"
)

type compiledPhase struct {
	phase    *rule.Phase
	net      *network.Network
	fallback []*rule.Producer
	mu       sync.Mutex
}

// Engine is a static, immutable description of rules. Its compiled
// networks live for the process; each evaluation locks the phase networks
// it touches, resets them, and releases the lock when the phase's fixpoint
// is reached, so concurrent evaluations of the same Engine are safe as
// long as each creates its own session.
type Engine struct {
	config     Config
	phases     []*rule.Phase
	compiled   []*compiledPhase
	validators []*rule.Validator
}

func newEngine(cfg Config, phases []*rule.Phase) (*Engine, error) {
	e := &Engine{config: cfg, phases: phases}
	for _, phase := range phases {
		net, fallback := network.Compile(phase)
		e.compiled = append(e.compiled, &compiledPhase{phase: phase, net: net, fallback: fallback})
		e.validators = append(e.validators, phase.Validators...)
	}
	return e, nil
}

// Phases returns the engine's ordered phases.
func (e *Engine) Phases() []*rule.Phase { return e.phases }

// FactProducerNames returns every producer's name, flattened across phases
// in declaration order.
func (e *Engine) FactProducerNames() []string {
	var names []string
	for _, phase := range e.phases {
		names = append(names, phase.ProducerNames()...)
	}
	return names
}

// ValidationRuleNames returns every validator's name, in declaration
// order.
func (e *Engine) ValidationRuleNames() []string {
	names := make([]string, len(e.validators))
	for i, v := range e.validators {
		names[i] = v.Name
	}
	return names
}

// Size returns the total number of rules (producers plus validators).
func (e *Engine) Size() int {
	total := len(e.validators)
	for _, phase := range e.phases {
		total += len(phase.Producers)
	}
	return total
}

// HasAsyncRules reports whether any producer or validator requires async
// evaluation.
func (e *Engine) HasAsyncRules() bool {
	for _, phase := range e.phases {
		for _, p := range phase.Producers {
			if p.IsAsync() {
				return true
			}
		}
	}
	for _, v := range e.validators {
		if v.IsAsync() {
			return true
		}
	}
	return false
}

// Evaluate runs a synchronous evaluation. It refuses engines containing any
// async rule.
func (e *Engine) Evaluate(facts []fact.Fact, ruleCtx rule.RuleContext, collector event.Collector) (*engineresult.EngineResult, error) {
	if e.HasAsyncRules() {
		return nil, &engineerr.ModeMismatchError{}
	}
	return e.run(context.Background(), facts, ruleCtx, collector)
}

// EvaluateAsync runs an evaluation in which every condition/output with an
// async variant is awaited. Producers without an async variant behave as
// in synchronous mode. Cancelling ctx stops the evaluation before it
// completes; no Completed event is emitted in that case.
func (e *Engine) EvaluateAsync(ctx context.Context, facts []fact.Fact, ruleCtx rule.RuleContext, collector event.Collector) (*engineresult.EngineResult, error) {
	return e.run(ctx, facts, ruleCtx, collector)
}

func (e *Engine) run(ctx context.Context, facts []fact.Fact, ruleCtx rule.RuleContext, collector event.Collector) (*engineresult.EngineResult, error) {
	if collector == nil {
		collector = event.NopCollector{}
	}

	driver := session.New(ruleCtx, collector, e.config.MaxIterations, e.config.EnableTracing)
	if err := driver.InsertInitialFacts(facts); err != nil {
		return nil, err
	}

	for _, cp := range e.compiled {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cp.mu.Lock()
		err := driver.RunPhase(ctx, cp.phase, cp.net, cp.fallback)
		cp.mu.Unlock()
		if err != nil {
			return nil, fmt.Errorf("engine: phase %q: %w", cp.phase.Name, err)
		}
	}

	verdict, err := driver.RunValidation(ctx, e.validators)
	if err != nil {
		return nil, err
	}

	result := &engineresult.EngineResult{
		SessionID:       uuid.NewString(),
		Facts:           driver.Memory.All(),
		Derived:         driver.Memory.Derived(),
		Verdict:         verdict,
		Skipped:         driver.Skipped(),
		RuleActivations: driver.RuleActivations(),
		Iterations:      driver.Iterations(),
		Trace:           driver.Trace(),
		Warnings:        driver.Warnings(),
	}
	collector.Emit(event.Event{Kind: event.Completed, Result: result})
	return result, nil
}

// Package session implements the phased fixpoint driver: one Driver per
// evaluate call, owning the working memory, counters, and skip/trace/
// warning bookkeeping for that evaluation. A Driver is never shared across
// evaluations.
package session

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"rulesengine/internal/engineerr"
	"rulesengine/internal/engineresult"
	"rulesengine/internal/event"
	"rulesengine/internal/fact"
	"rulesengine/internal/network"
	"rulesengine/internal/rule"
)

// asyncFanout bounds how many of one producer's candidate facts have their
// async condition/output awaited concurrently in the fallback loop. Results
// are still applied, and their events emitted, strictly in candidate order,
// so RuleFired ordering is never raced even though the awaits themselves
// overlap.
const asyncFanout = 4

// Driver owns one evaluation's mutable state.
type Driver struct {
	Memory *fact.Memory

	ruleCtx       rule.RuleContext
	collector     event.Collector
	maxIterations uint32
	enableTracing bool

	iterations      int
	ruleActivations int
	skipped         map[string]string
	trace           []engineresult.RuleActivation
	warnings        []string
	warnedRunaway   bool

	processedPerRule map[string]map[string]struct{}
}

// New creates a fresh driver. collector may be event.NopCollector{}.
func New(ruleCtx rule.RuleContext, collector event.Collector, maxIterations uint32, enableTracing bool) *Driver {
	return &Driver{
		Memory:           fact.NewMemory(),
		ruleCtx:          ruleCtx,
		collector:        collector,
		maxIterations:    maxIterations,
		enableTracing:    enableTracing,
		skipped:          make(map[string]string),
		processedPerRule: make(map[string]map[string]struct{}),
	}
}

func (d *Driver) emit(ev event.Event) {
	d.collector.Emit(ev)
}

// InsertInitialFacts adds the caller-supplied facts to working memory in
// order, emitting FactInserted(_, derived=false) for each one that is new.
func (d *Driver) InsertInitialFacts(facts []fact.Fact) error {
	for _, f := range facts {
		added, err := d.Memory.Add(f)
		if err != nil {
			return fmt.Errorf("session: insert initial fact: %w", err)
		}
		if added {
			d.emit(event.Event{Kind: event.FactInserted, Fact: f, IsDerived: false})
		}
	}
	return nil
}

// RunPhase drives one phase's compiled network to fixpoint: guard-skipped
// rules are recorded up front, every working-memory fact is pushed through
// the network, and the highest-priority eligible output node fires,
// re-propagates its outputs, and repeats until nothing is left pending.
func (d *Driver) RunPhase(ctx context.Context, phase *rule.Phase, net *network.Network, fallback []*rule.Producer) error {
	net.Reset()

	skippedOutputIDs := make(map[string]struct{})
	for _, node := range net.OutputNodes {
		producer := findProducerByName(phase.Producers, node.RuleName)
		if producer == nil || producer.Guard == nil {
			continue
		}
		if !producer.Guard.Allows(d.ruleCtx) {
			d.skipped[node.RuleName] = producer.Guard.Description
			skippedOutputIDs[node.ID] = struct{}{}
			d.emit(event.Event{Kind: event.RuleSkipped, RuleName: node.RuleName, GuardDesc: producer.Guard.Description})
		}
	}

	for _, f := range d.Memory.All() {
		if _, err := net.Activate(f); err != nil {
			return err
		}
	}

	for net.HasPendingActivations() {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.iterations++
		if uint32(d.iterations) > d.maxIterations {
			return &engineerr.MaxIterationsExceededError{Iterations: d.iterations, MaxIterations: d.maxIterations}
		}

		var eligible []*network.OutputNode
		for _, node := range net.OutputNodesByPriority() {
			if _, skipped := skippedOutputIDs[node.ID]; skipped {
				continue
			}
			if node.HasPending() {
				eligible = append(eligible, node)
			}
		}

		if len(eligible) == 0 {
			for _, node := range net.OutputNodes {
				if _, skipped := skippedOutputIDs[node.ID]; skipped {
					node.FirePending()
				}
			}
			break
		}

		target := eligible[0]
		activations, err := target.FirePendingWithInputs()
		if err != nil {
			return err
		}

		for _, activation := range activations {
			var added []fact.Fact
			for _, out := range activation.Outputs {
				wasNew, err := d.Memory.Add(out)
				if err != nil {
					return fmt.Errorf("session: add derived fact: %w", err)
				}
				if !wasNew {
					continue
				}
				if err := d.Memory.MarkDerived(out); err != nil {
					return err
				}
				d.ruleActivations++
				added = append(added, out)
				d.emit(event.Event{Kind: event.FactInserted, Fact: out, IsDerived: true})
				if _, err := net.Activate(out); err != nil {
					return err
				}
			}
			if len(added) > 0 {
				if d.enableTracing {
					d.trace = append(d.trace, engineresult.RuleActivation{
						RuleName:    target.RuleName,
						InputFact:   activation.InputTuple[0],
						OutputFacts: added,
						Priority:    target.Priority,
					})
				}
				d.emit(event.Event{
					Kind:        event.RuleFired,
					RuleName:    target.RuleName,
					InputFact:   activation.InputTuple[0],
					OutputFacts: added,
					Priority:    target.Priority,
				})
			}
		}
	}

	if len(fallback) > 0 {
		if err := d.RunFallback(ctx, fallback); err != nil {
			return err
		}
	}
	return nil
}

// RunFallback runs async-only producers (never compiled into a network) in
// a naive do/while pass, until a whole pass produces no new facts.
func (d *Driver) RunFallback(ctx context.Context, fallback []*rule.Producer) error {
	active := make([]*rule.Producer, 0, len(fallback))
	for _, producer := range fallback {
		if producer.Guard != nil && !producer.Guard.Allows(d.ruleCtx) {
			d.skipped[producer.Name] = producer.Guard.Description
			d.emit(event.Event{Kind: event.RuleSkipped, RuleName: producer.Name, GuardDesc: producer.Guard.Description})
			continue
		}
		active = append(active, producer)
		if d.processedPerRule[producer.Name] == nil {
			d.processedPerRule[producer.Name] = make(map[string]struct{})
		}
	}
	if len(active) == 0 {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		d.iterations++
		if uint32(d.iterations) > d.maxIterations {
			return &engineerr.MaxIterationsExceededError{Iterations: d.iterations, MaxIterations: d.maxIterations}
		}

		progressed := false
		for _, producer := range active {
			candidates := d.Memory.OfReflectType(producer.InputType)
			processed := d.processedPerRule[producer.Name]

			var unprocessed []fact.Fact
			for _, candidate := range candidates {
				digest, err := fact.Digest(candidate)
				if err != nil {
					return fmt.Errorf("session: fallback %s: %w", producer.Name, err)
				}
				if _, seen := processed[digest]; seen {
					continue
				}
				processed[digest] = struct{}{}
				unprocessed = append(unprocessed, candidate)
			}
			if len(unprocessed) == 0 {
				continue
			}

			results, err := evaluateCandidatesAsync(ctx, producer, unprocessed)
			if err != nil {
				return err
			}

			for i, candidate := range unprocessed {
				res := results[i]
				if !res.produced {
					continue
				}

				wasNew, err := d.Memory.Add(res.out)
				if err != nil {
					return fmt.Errorf("session: fallback %s: add output: %w", producer.Name, err)
				}
				if !wasNew {
					continue
				}
				if err := d.Memory.MarkDerived(res.out); err != nil {
					return err
				}
				d.ruleActivations++
				progressed = true
				d.emit(event.Event{Kind: event.FactInserted, Fact: res.out, IsDerived: true})

				added := []fact.Fact{res.out}
				if d.enableTracing {
					d.trace = append(d.trace, engineresult.RuleActivation{
						RuleName:    producer.Name,
						InputFact:   candidate,
						OutputFacts: added,
						Priority:    producer.Priority,
					})
				}
				d.emit(event.Event{
					Kind:        event.RuleFired,
					RuleName:    producer.Name,
					InputFact:   candidate,
					OutputFacts: added,
					Priority:    producer.Priority,
				})
			}
		}

		d.maybeWarnRunaway(len(active))

		if !progressed {
			break
		}
	}
	return nil
}

func (d *Driver) maybeWarnRunaway(producerCount int) {
	if d.warnedRunaway || d.iterations <= 100 || producerCount == 0 {
		return
	}
	if d.ruleActivations > d.iterations*producerCount*2 {
		d.warnings = append(d.warnings, fmt.Sprintf(
			"runaway execution suspected: %d rule activations over %d iterations across %d producers; "+
				"consider stricter guard/condition predicates", d.ruleActivations, d.iterations, producerCount))
		d.warnedRunaway = true
	}
}

// RunValidation runs every validator in declaration order against working
// memory and builds the verdict.
func (d *Driver) RunValidation(ctx context.Context, validators []*rule.Validator) (engineresult.Verdict, error) {
	var failures []engineresult.Failure

	for _, validator := range validators {
		if validator.Guard != nil && !validator.Guard.Allows(d.ruleCtx) {
			d.skipped[validator.Name] = validator.Guard.Description
			d.emit(event.Event{Kind: event.RuleSkipped, RuleName: validator.Name, GuardDesc: validator.Guard.Description})
			continue
		}

		for _, f := range d.Memory.OfReflectType(validator.InputType) {
			ok, err := validator.Condition.Eval(ctx, f)
			if err != nil {
				return engineresult.Verdict{}, fmt.Errorf("session: validator %s: %w", validator.Name, err)
			}
			if ok {
				d.emit(event.Event{Kind: event.ValidationPassed, RuleName: validator.Name, InputFact: f})
				continue
			}

			reason := validator.FailureReason(f)
			failures = append(failures, engineresult.Failure{RuleName: validator.Name, Reason: reason})
			d.emit(event.Event{Kind: event.ValidationFailed, RuleName: validator.Name, InputFact: f, FailureReason: reason})
		}
	}

	return engineresult.Verdict{Failures: failures}, nil
}

// Iterations returns the total iteration count accumulated so far.
func (d *Driver) Iterations() int { return d.iterations }

// RuleActivations returns the total derived-fact count accumulated so far.
func (d *Driver) RuleActivations() int { return d.ruleActivations }

// Skipped returns the rule-name -> guard-description map accumulated so
// far.
func (d *Driver) Skipped() map[string]string { return d.skipped }

// Trace returns the ordered activation trace (empty unless tracing is
// enabled).
func (d *Driver) Trace() []engineresult.RuleActivation { return d.trace }

// Warnings returns the accumulated warning strings.
func (d *Driver) Warnings() []string { return d.warnings }

// candidateResult is one candidate fact's condition/output outcome.
type candidateResult struct {
	out      fact.Fact
	produced bool
}

// evaluateCandidatesAsync awaits producer's condition and output against
// every candidate, up to asyncFanout at a time, and returns one result per
// candidate in the same order they were given. The bounded concurrency lets
// independent async awaits overlap without letting any candidate's result
// apply out of order.
func evaluateCandidatesAsync(ctx context.Context, producer *rule.Producer, candidates []fact.Fact) ([]candidateResult, error) {
	results := make([]candidateResult, len(candidates))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(asyncFanout)

	for i, candidate := range candidates {
		i, candidate := i, candidate
		group.Go(func() error {
			ok, err := producer.Condition.Eval(groupCtx, candidate)
			if err != nil {
				return fmt.Errorf("session: fallback %s condition: %w", producer.Name, err)
			}
			if !ok {
				return nil
			}

			out, produced, err := producer.Output.Eval(groupCtx, candidate)
			if err != nil {
				return fmt.Errorf("session: fallback %s output: %w", producer.Name, err)
			}
			results[i] = candidateResult{out: out, produced: produced}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func findProducerByName(producers []*rule.Producer, name string) *rule.Producer {
	for _, p := range producers {
		if p.Name == name {
			return p
		}
	}
	return nil
}

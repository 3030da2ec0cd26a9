package network

import (
	"fmt"

	"rulesengine/internal/fact"
)

// Activation is a queued (rule, input-tuple) pair awaiting firing. Single-
// fact conditions only: tuples always have length 1, but the shape is kept
// so a future beta-join layer can extend it without a public API change.
type Activation struct {
	InputTuple []fact.Fact
}

// FiredActivation pairs a fired activation's input tuple with whatever
// output it produced (zero or one fact; see Output.Eval's ok flag).
type FiredActivation struct {
	InputTuple []fact.Fact
	Outputs    []fact.Fact
}

// OutputNode is the terminal node for one producer: it holds every input
// tuple that has ever activated it (fired_for, enforcing at-most-once
// firing) and the FIFO queue of tuples not yet fired (pending).
type OutputNode struct {
	ID       string
	RuleName string
	Priority int
	Produce  func(fact.Fact) (fact.Fact, bool, error)

	firedFor map[string]struct{}
	pending  []Activation
}

// NewOutputNode constructs an OutputNode for one compiled producer.
func NewOutputNode(id, ruleName string, priority int, produce func(fact.Fact) (fact.Fact, bool, error)) *OutputNode {
	return &OutputNode{
		ID:       id,
		RuleName: ruleName,
		Priority: priority,
		Produce:  produce,
		firedFor: make(map[string]struct{}),
	}
}

// LeftActivate queues [f] as a pending activation unless this exact input
// tuple has already fired (or is already pending) for this node.
func (o *OutputNode) LeftActivate(f fact.Fact) error {
	tuple := []fact.Fact{f}
	digest, err := fact.TupleDigest(tuple)
	if err != nil {
		return fmt.Errorf("network: output node %s: %w", o.ID, err)
	}
	if _, fired := o.firedFor[digest]; fired {
		return nil
	}
	o.firedFor[digest] = struct{}{}
	o.pending = append(o.pending, Activation{InputTuple: tuple})
	return nil
}

// HasPending reports whether this node has queued, un-fired activations.
func (o *OutputNode) HasPending() bool {
	return len(o.pending) > 0
}

// FirePendingWithInputs drains pending, invoking Produce once per input
// tuple and returning the (input tuple, outputs) pairs. A producer that
// declines to produce for a tuple contributes an entry with zero outputs.
func (o *OutputNode) FirePendingWithInputs() ([]FiredActivation, error) {
	drained := o.pending
	o.pending = nil

	results := make([]FiredActivation, 0, len(drained))
	for _, activation := range drained {
		out, ok, err := o.Produce(activation.InputTuple[0])
		if err != nil {
			return nil, fmt.Errorf("network: output node %s produce: %w", o.ID, err)
		}
		fired := FiredActivation{InputTuple: activation.InputTuple}
		if ok {
			fired.Outputs = []fact.Fact{out}
		}
		results = append(results, fired)
	}
	return results, nil
}

// FirePending drains pending and discards results; used when an output
// node belongs to a skipped rule whose activations must still be consumed
// so the phase can reach fixpoint.
func (o *OutputNode) FirePending() {
	o.pending = nil
}

// Reset clears fired_for and pending. Called before each session reuses
// the network.
func (o *OutputNode) Reset() {
	o.firedFor = make(map[string]struct{})
	o.pending = nil
}

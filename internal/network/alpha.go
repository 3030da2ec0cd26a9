// Package network implements the Rete-style discrimination network that
// the compiler builds from a phase's synchronous producers: one AlphaNode
// per producer (type filter + condition test + per-fact de-dup) feeding one
// OutputNode (priority, at-most-once firing, pending-activation queue).
package network

import (
	"fmt"
	"reflect"

	"rulesengine/internal/fact"
)

// AlphaNode type-filters facts, tests a condition, and memoizes facts that
// have already passed so they are never re-tested.
type AlphaNode struct {
	ID         string
	InputType  reflect.Type
	Condition  func(fact.Fact) (bool, error)
	memory     map[string]struct{}
	Successors []*OutputNode
}

// NewAlphaNode constructs an AlphaNode for the given input type and
// condition.
func NewAlphaNode(id string, inputType reflect.Type, condition func(fact.Fact) (bool, error)) *AlphaNode {
	return &AlphaNode{
		ID:        id,
		InputType: inputType,
		Condition: condition,
		memory:    make(map[string]struct{}),
	}
}

// Activate runs f through the node's type filter, memory, and condition,
// propagating to successors on success. It returns true iff f was newly
// accepted by this node.
func (a *AlphaNode) Activate(f fact.Fact) (bool, error) {
	ft := reflect.TypeOf(f)
	if ft == nil {
		return false, nil
	}
	if a.InputType.Kind() == reflect.Interface {
		if !ft.Implements(a.InputType) {
			return false, nil
		}
	} else if ft != a.InputType {
		return false, nil
	}

	digest, err := fact.Digest(f)
	if err != nil {
		return false, fmt.Errorf("network: alpha node %s: %w", a.ID, err)
	}
	if _, seen := a.memory[digest]; seen {
		return false, nil
	}

	ok, err := a.Condition(f)
	if err != nil {
		return false, fmt.Errorf("network: alpha node %s condition: %w", a.ID, err)
	}
	if !ok {
		// Deliberately not memoized: a fact that fails the condition today
		// may be re-examined later through a different node.
		return false, nil
	}

	a.memory[digest] = struct{}{}
	for _, successor := range a.Successors {
		if err := successor.LeftActivate(f); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Reset clears the node's memory. Called before each session reuses the
// network.
func (a *AlphaNode) Reset() {
	a.memory = make(map[string]struct{})
}

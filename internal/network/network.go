package network

import (
	"reflect"
	"sort"

	"rulesengine/internal/fact"
)

// Network is one phase's compiled discrimination network: alpha nodes keyed
// by declared input type, feeding output nodes.
type Network struct {
	AlphaNodes  map[reflect.Type][]*AlphaNode
	OutputNodes []*OutputNode
}

// NewNetwork returns an empty network.
func NewNetwork() *Network {
	return &Network{AlphaNodes: make(map[reflect.Type][]*AlphaNode)}
}

// Activate dispatches f to every alpha node whose type matches: exact-type
// nodes are tried first via the type index, then nodes keyed by a
// supertype/interface are tried with a runtime instance check. A node keyed
// by a supertype sees facts of every subtype; a node keyed by a subtype
// never sees supertype facts.
func (n *Network) Activate(f fact.Fact) (bool, error) {
	ft := reflect.TypeOf(f)
	if ft == nil {
		return false, nil
	}

	activated := false
	for _, alpha := range n.AlphaNodes[ft] {
		ok, err := alpha.Activate(f)
		if err != nil {
			return false, err
		}
		activated = activated || ok
	}

	for inputType, nodes := range n.AlphaNodes {
		if inputType.Kind() != reflect.Interface {
			continue
		}
		for _, alpha := range nodes {
			ok, err := alpha.Activate(f)
			if err != nil {
				return false, err
			}
			activated = activated || ok
		}
	}
	return activated, nil
}

// HasPendingActivations reports whether any output node still has queued,
// un-fired activations.
func (n *Network) HasPendingActivations() bool {
	for _, node := range n.OutputNodes {
		if node.HasPending() {
			return true
		}
	}
	return false
}

// OutputNodesByPriority returns the network's output nodes ordered by
// descending priority, ties broken by declaration (registration) order.
func (n *Network) OutputNodesByPriority() []*OutputNode {
	ordered := make([]*OutputNode, len(n.OutputNodes))
	copy(ordered, n.OutputNodes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})
	return ordered
}

// Reset clears every alpha and output node's memory, preparing the network
// for a fresh session.
func (n *Network) Reset() {
	for _, nodes := range n.AlphaNodes {
		for _, alpha := range nodes {
			alpha.Reset()
		}
	}
	for _, node := range n.OutputNodes {
		node.Reset()
	}
}

func (n *Network) registerAlpha(a *AlphaNode) {
	n.AlphaNodes[a.InputType] = append(n.AlphaNodes[a.InputType], a)
}

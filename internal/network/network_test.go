package network

import (
	"reflect"
	"testing"

	"rulesengine/internal/fact"
)

func buildProducerNetwork(t *testing.T, id, ruleName string, priority int, inputType reflect.Type) (*Network, *int) {
	t.Helper()
	calls := 0
	output := NewOutputNode(id, ruleName, priority, func(f fact.Fact) (fact.Fact, bool, error) {
		calls++
		return f, true, nil
	})
	alpha := NewAlphaNode(id, inputType, alwaysTrue)
	alpha.Successors = append(alpha.Successors, output)

	net := NewNetwork()
	net.registerAlpha(alpha)
	net.OutputNodes = append(net.OutputNodes, output)
	return net, &calls
}

func TestNetwork_ActivateDispatchesByExactType(t *testing.T) {
	net, _ := buildProducerNetwork(t, "n#0", "r", 0, reflect.TypeOf(order{}))

	ok, err := net.Activate(order{Total: 1})
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !ok {
		t.Errorf("expected an exact-type match to activate")
	}
	if !net.HasPendingActivations() {
		t.Errorf("expected a pending activation after a successful Activate")
	}
}

func TestNetwork_ActivateDispatchesInterfaceKeyedNodesToSubtypes(t *testing.T) {
	var zero premium
	net, _ := buildProducerNetwork(t, "n#0", "r", 0, reflect.TypeOf(&zero).Elem())

	ok, err := net.Activate(vipOrder{Total: 1})
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if !ok {
		t.Errorf("expected a supertype-keyed node to see a subtype fact")
	}
}

func TestNetwork_SubtypeKeyedNodeNeverSeesSupertypeFacts(t *testing.T) {
	net, _ := buildProducerNetwork(t, "n#0", "r", 0, reflect.TypeOf(vipOrder{}))

	// order is unrelated to vipOrder even though both carry a Total field;
	// a node keyed by the concrete type vipOrder must never match it.
	ok, err := net.Activate(order{Total: 1})
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if ok {
		t.Errorf("expected a concrete-type-keyed node to ignore an unrelated type")
	}
}

func TestNetwork_OutputNodesByPriority_HighestFirstTiesByDeclarationOrder(t *testing.T) {
	net := NewNetwork()
	low := NewOutputNode("low", "low", 1, nil)
	high := NewOutputNode("high", "high", 100, nil)
	tieFirst := NewOutputNode("tie1", "tie1", 5, nil)
	tieSecond := NewOutputNode("tie2", "tie2", 5, nil)
	net.OutputNodes = []*OutputNode{low, high, tieFirst, tieSecond}

	ordered := net.OutputNodesByPriority()
	names := make([]string, len(ordered))
	for i, n := range ordered {
		names[i] = n.RuleName
	}

	want := []string{"high", "tie1", "tie2", "low"}
	for i, w := range want {
		if names[i] != w {
			t.Fatalf("expected order %v, got %v", want, names)
		}
	}
}

func TestNetwork_Reset_ClearsAlphaAndOutputState(t *testing.T) {
	net, calls := buildProducerNetwork(t, "n#0", "r", 0, reflect.TypeOf(order{}))

	f := order{Total: 1}
	_, _ = net.Activate(f)
	_, err := net.OutputNodes[0].FirePendingWithInputs()
	if err != nil {
		t.Fatalf("fire: %v", err)
	}

	net.Reset()
	_, _ = net.Activate(f)
	if !net.HasPendingActivations() {
		t.Errorf("expected Reset to let a previously-fired fact re-activate the network")
	}
	if *calls != 1 {
		t.Errorf("calls counter tracks producer invocations, not activations; sanity check got %d", *calls)
	}
}

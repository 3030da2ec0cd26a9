package network

import (
	"fmt"

	"rulesengine/internal/fact"
	"rulesengine/internal/rule"
)

// Compile turns a phase's producers into a discrimination network. Async
// producers are never compiled; they are returned separately for the
// fallback loop, which runs them in a naive do/while pass.
func Compile(phase *rule.Phase) (*Network, []*rule.Producer) {
	net := NewNetwork()
	var fallback []*rule.Producer

	for i, producer := range phase.Producers {
		if producer.IsAsync() {
			fallback = append(fallback, producer)
			continue
		}

		id := fmt.Sprintf("%s#%d", producer.Name, i)
		condition := producer.Condition.Sync
		output := producer.Output.Sync

		outputNode := NewOutputNode(id, producer.Name, producer.Priority,
			func(f fact.Fact) (fact.Fact, bool, error) { return output(f) })
		alphaNode := NewAlphaNode(id, producer.InputType,
			func(f fact.Fact) (bool, error) { return condition(f) })
		alphaNode.Successors = append(alphaNode.Successors, outputNode)

		net.registerAlpha(alphaNode)
		net.OutputNodes = append(net.OutputNodes, outputNode)
	}

	return net, fallback
}

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"rulesengine/internal/demo"
	"rulesengine/internal/fact"
	"rulesengine/internal/rule"
)

// factsInput is the YAML shape rulesctl reads facts from.
type factsInput struct {
	Customers []demo.Customer `yaml:"customers"`
	CartItems []demo.CartItem `yaml:"cart_items"`
	Context   struct {
		VIP bool `yaml:"vip"`
	} `yaml:"context"`
}

func loadFacts(path string) ([]fact.Fact, rule.RuleContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rule.EMPTY, fmt.Errorf("read facts file %s: %w", path, err)
	}

	var input factsInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, rule.EMPTY, fmt.Errorf("parse facts file %s: %w", path, err)
	}

	facts := make([]fact.Fact, 0, len(input.Customers)+len(input.CartItems))
	for _, c := range input.Customers {
		facts = append(facts, c)
	}
	for _, item := range input.CartItems {
		facts = append(facts, item)
	}

	ctx := rule.EMPTY
	if input.Context.VIP {
		ctx = rule.WithValue(ctx, demo.CustomerTierKey, "vip")
	}

	return facts, ctx, nil
}

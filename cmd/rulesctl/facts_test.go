package main

import (
	"os"
	"path/filepath"
	"testing"

	"rulesengine/internal/demo"
	"rulesengine/internal/rule"
)

func TestLoadFacts_ParsesCustomersAndCartItems(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "facts.yaml")
	contents := `
customers:
  - id: "1"
    spend: 15000
cart_items:
  - name: Widget
    quantity: 5
context:
  vip: true
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	facts, ctx, err := loadFacts(path)
	if err != nil {
		t.Fatalf("loadFacts: %v", err)
	}
	if len(facts) != 2 {
		t.Fatalf("expected 2 facts (1 customer + 1 cart item), got %d: %+v", len(facts), facts)
	}

	cust, ok := facts[0].(demo.Customer)
	if !ok || cust.ID != "1" || cust.Spend != 15000 {
		t.Errorf("expected facts[0] to be the parsed Customer, got %+v", facts[0])
	}
	item, ok := facts[1].(demo.CartItem)
	if !ok || item.Name != "Widget" || item.Quantity != 5 {
		t.Errorf("expected facts[1] to be the parsed CartItem, got %+v", facts[1])
	}

	tier, found := rule.Get(ctx, demo.CustomerTierKey)
	if !found || tier != "vip" {
		t.Errorf("expected context.vip=true to set CustomerTierKey=vip, got tier=%q found=%v", tier, found)
	}
}

func TestLoadFacts_VIPDefaultsToUnset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "facts.yaml")
	if err := os.WriteFile(path, []byte("customers:\n  - id: \"1\"\n    spend: 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, ctx, err := loadFacts(path)
	if err != nil {
		t.Fatalf("loadFacts: %v", err)
	}
	if rule.Contains(ctx, demo.CustomerTierKey) {
		t.Errorf("expected CustomerTierKey to be unset when context.vip is absent")
	}
}

func TestLoadFacts_MissingFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := loadFacts(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Errorf("expected a missing facts file to be an error")
	}
}

func TestLoadFacts_MalformedYAMLIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("customers: [this is not a mapping"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, _, err := loadFacts(path); err == nil {
		t.Errorf("expected malformed YAML to produce an error")
	}
}

package demo

import (
	"testing"

	"rulesengine/internal/engineresult"
	"rulesengine/internal/fact"
	"rulesengine/internal/rule"
)

func TestBuildEngine_PromotesBigSpendersAndChainsDiscount(t *testing.T) {
	eng, err := BuildEngine()
	if err != nil {
		t.Fatalf("BuildEngine: %v", err)
	}

	result, err := eng.Evaluate([]fact.Fact{Customer{ID: "1", Spend: 15000}}, rule.EMPTY, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	vips := engineresult.DerivedOfType[VipStatus](result)
	discounts := engineresult.DerivedOfType[Discount](result)
	if len(vips) != 1 || vips[0].Tier != "gold" {
		t.Fatalf("expected one gold VipStatus, got %+v", vips)
	}
	if len(discounts) != 1 || discounts[0].Percent != 20 {
		t.Fatalf("expected one 20%% Discount, got %+v", discounts)
	}
	if !result.Passed() {
		t.Errorf("expected a passing verdict with no cart items")
	}
}

func TestBuildEngine_LowSpenderIsNotPromoted(t *testing.T) {
	eng, err := BuildEngine()
	if err != nil {
		t.Fatalf("BuildEngine: %v", err)
	}

	result, err := eng.Evaluate([]fact.Fact{Customer{ID: "2", Spend: 50}}, rule.EMPTY, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(result.Derived) != 0 {
		t.Errorf("expected no derived facts for a non-VIP customer, got %+v", result.Derived)
	}
}

func TestBuildEngine_VipOnlyDiscountIsGuardedByContext(t *testing.T) {
	eng, err := BuildEngine()
	if err != nil {
		t.Fatalf("BuildEngine: %v", err)
	}
	cust := []fact.Fact{Customer{ID: "3", Spend: 0}}

	result, err := eng.Evaluate(cust, rule.EMPTY, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if _, skipped := result.Skipped["vip-only-discount"]; !skipped {
		t.Fatalf("expected vip-only-discount to be skipped without a VIP context")
	}

	vipCtx := rule.WithValue(rule.EMPTY, CustomerTierKey, "vip")
	result2, err := eng.Evaluate(cust, vipCtx, nil)
	if err != nil {
		t.Fatalf("Evaluate with VIP context: %v", err)
	}
	discounts := engineresult.DerivedOfType[Discount](result2)
	if len(discounts) != 1 || discounts[0].Percent != 10 {
		t.Fatalf("expected a flat 10%% Discount once context marks the customer VIP, got %+v", discounts)
	}
}

func TestBuildEngine_CartOverLimitFailsValidation(t *testing.T) {
	eng, err := BuildEngine()
	if err != nil {
		t.Fatalf("BuildEngine: %v", err)
	}

	result, err := eng.Evaluate([]fact.Fact{CartItem{Name: "Widget", Quantity: 20}}, rule.EMPTY, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Passed() {
		t.Fatalf("expected a $200 cart to fail the $100 cap")
	}
	if len(result.Verdict.Failures) != 1 || result.Verdict.Failures[0].RuleName != "max-order" {
		t.Fatalf("expected exactly one max-order failure, got %+v", result.Verdict.Failures)
	}
}

func TestBuildEngine_CartUnderLimitPasses(t *testing.T) {
	eng, err := BuildEngine()
	if err != nil {
		t.Fatalf("BuildEngine: %v", err)
	}

	result, err := eng.Evaluate([]fact.Fact{CartItem{Name: "Widget", Quantity: 5}}, rule.EMPTY, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !result.Passed() {
		t.Fatalf("expected a $50 cart to pass the $100 cap, got failures %+v", result.Verdict.Failures)
	}
}

package rule

import (
	"context"
	"testing"
)

type order struct{ Total float64 }
type receipt struct{ Amount float64 }

func TestProducer_SyncIsNotAsync(t *testing.T) {
	p := NewProducer[order, receipt](
		"bill", "", 0, nil,
		func(order) (bool, error) { return true, nil },
		func(o order) (receipt, bool, error) { return receipt{Amount: o.Total}, true, nil },
	)
	if p.IsAsync() {
		t.Errorf("expected sync producer to report IsAsync()=false")
	}
}

func TestProducer_AsyncConditionMakesProducerAsync(t *testing.T) {
	p := NewMixedProducer[order, receipt](
		"bill", "", 0, nil,
		Condition{Async: func(context.Context, any) (bool, error) { return true, nil }},
		Output{Sync: func(any) (any, bool, error) { return receipt{}, true, nil }},
		inputTypeOf[order](),
	)
	if !p.IsAsync() {
		t.Errorf("expected async producer to report IsAsync()=true")
	}
}

func TestProducer_MixedSyncConditionAsyncOutputIsAsync(t *testing.T) {
	p := NewMixedProducer[order, receipt](
		"bill", "", 0, nil,
		Condition{Sync: func(any) (bool, error) { return true, nil }},
		Output{Async: func(context.Context, any) (any, bool, error) { return receipt{}, true, nil }},
		inputTypeOf[order](),
	)
	if !p.IsAsync() {
		t.Errorf("expected a producer with an async output to report IsAsync()=true even with a sync condition")
	}
}

func TestValidator_AsyncCondition(t *testing.T) {
	v := NewAsyncValidator[order, string](
		"cap", "", 0, nil,
		func(context.Context, order) (bool, error) { return true, nil },
		func(order) string { return "too big" },
	)
	if !v.IsAsync() {
		t.Errorf("expected validator with async condition to report IsAsync()=true")
	}
}

func TestGuard_NilGuardAlwaysAllows(t *testing.T) {
	var g *Guard
	if !g.Allows(EMPTY) {
		t.Errorf("expected a nil guard to always allow")
	}
}

func TestGuard_PredicateGatesOnContext(t *testing.T) {
	key := NewContextKey[bool]("allowed")
	g := &Guard{
		Description: "must be allowed",
		Predicate: func(c RuleContext) bool {
			return GetOrDefault(c, key, false)
		},
	}
	if g.Allows(EMPTY) {
		t.Errorf("expected guard to block on empty context")
	}
	if !g.Allows(WithValue(EMPTY, key, true)) {
		t.Errorf("expected guard to allow once context carries the key")
	}
}

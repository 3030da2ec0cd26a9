// Package demo builds a small customer-loyalty rule set used by the CLI and
// by this package's tests: VIP tiering, percentage discounts, and a
// cart-total validator. It exists purely as a worked example of the
// logical structure a builder must produce; there is no declarative DSL on
// top of it.
package demo

import (
	"fmt"

	"rulesengine/internal/engine"
	"rulesengine/internal/rule"
)

// Customer is an initial fact describing one shopper.
type Customer struct {
	ID    string
	Spend float64
}

// VipStatus is derived from a Customer whose spend crosses the VIP
// threshold.
type VipStatus struct {
	CustomerID string
	Tier       string
}

// Discount is derived from a VipStatus at "gold" tier, or from a Customer
// when the context marks the customer VIP.
type Discount struct {
	CustomerID string
	Percent    int
}

// CartItem is an initial fact describing one line item.
type CartItem struct {
	Name     string
	Quantity int
}

// CartTotal is derived from a CartItem, at a fixed $10/unit price.
type CartTotal struct {
	Item  string
	Total float64
}

// CustomerTierKey is the context key the "vip-only-discount" guard reads.
var CustomerTierKey = rule.NewContextKey[string]("customer_tier")

const vipSpendThreshold = 10_000

// BuildEngine assembles the loyalty engine: a producer phase deriving
// VipStatus and Discount facts, plus a validator capping cart totals.
func BuildEngine() (*engine.Engine, error) {
	vipCheck := rule.NewProducer[Customer, VipStatus](
		"vip-check", "promote big spenders to gold tier", 0, nil,
		func(c Customer) (bool, error) { return c.Spend > vipSpendThreshold, nil },
		func(c Customer) (VipStatus, bool, error) {
			return VipStatus{CustomerID: c.ID, Tier: "gold"}, true, nil
		},
	)

	vipDiscount := rule.NewProducer[VipStatus, Discount](
		"vip-discount", "grant gold-tier customers a 20% discount", 0, nil,
		func(v VipStatus) (bool, error) { return v.Tier == "gold", nil },
		func(v VipStatus) (Discount, bool, error) {
			return Discount{CustomerID: v.CustomerID, Percent: 20}, true, nil
		},
	)

	vipOnlyDiscountGuard := &rule.Guard{
		Description: "must be VIP",
		Predicate: func(c rule.RuleContext) bool {
			tier, ok := rule.Get(c, CustomerTierKey)
			return ok && tier == "vip"
		},
	}
	vipOnlyDiscount := rule.NewProducer[Customer, Discount](
		"vip-only-discount", "grant a flat discount when the context marks the customer VIP", 0, vipOnlyDiscountGuard,
		func(Customer) (bool, error) { return true, nil },
		func(c Customer) (Discount, bool, error) {
			return Discount{CustomerID: c.ID, Percent: 10}, true, nil
		},
	)

	cartTotal := rule.NewProducer[CartItem, CartTotal](
		"cart-total", "price each line item at $10/unit", 0, nil,
		func(CartItem) (bool, error) { return true, nil },
		func(item CartItem) (CartTotal, bool, error) {
			return CartTotal{Item: item.Name, Total: float64(item.Quantity) * 10}, true, nil
		},
	)

	maxOrder := rule.NewValidator[CartTotal, string](
		"max-order", "cart total must not exceed 100", 0, nil,
		func(t CartTotal) (bool, error) { return t.Total <= 100, nil },
		func(t CartTotal) string {
			return fmt.Sprintf("cart total %.2f exceeds the 100.00 limit", t.Total)
		},
	)

	phase := rule.NewPhase("loyalty",
		[]*rule.Producer{vipCheck, vipDiscount, vipOnlyDiscount, cartTotal},
		[]*rule.Validator{maxOrder},
	)

	return engine.NewBuilder().AddPhase(phase).Build()
}

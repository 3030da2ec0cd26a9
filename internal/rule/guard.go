package rule

// Guard suppresses a rule entirely, before any fact is examined, when its
// Predicate does not hold against the evaluation's RuleContext.
type Guard struct {
	Description string
	Predicate   func(RuleContext) bool
}

// Allows reports whether g permits the rule to run under c. A nil Guard
// always allows.
func (g *Guard) Allows(c RuleContext) bool {
	if g == nil {
		return true
	}
	return g.Predicate(c)
}

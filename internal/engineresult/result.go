// Package engineresult holds the engine's immutable output types: the
// verdict produced by validation, and the full EngineResult returned from
// one evaluation.
package engineresult

import "rulesengine/internal/fact"

// Failure is a validator's rejection of one fact: RuleName identifies the
// validator, Reason is whatever typed value its FailureReason function
// produced.
type Failure struct {
	RuleName string
	Reason   any
}

// Verdict is the aggregate outcome of the validation pass: Pass if no
// validator failed, Fail with the ordered list of failures otherwise.
type Verdict struct {
	Failures []Failure
}

// Pass reports whether the verdict has no failures.
func (v Verdict) Pass() bool { return len(v.Failures) == 0 }

// RuleActivation records one successful firing, populated into the trace
// only when tracing is enabled.
type RuleActivation struct {
	RuleName    string
	InputFact   fact.Fact
	OutputFacts []fact.Fact
	Priority    int
}

// EngineResult is the complete, immutable outcome of one evaluate call.
type EngineResult struct {
	SessionID       string
	Facts           []fact.Fact
	Derived         []fact.Fact
	Verdict         Verdict
	Skipped         map[string]string
	RuleActivations int
	Iterations      int
	Trace           []RuleActivation
	Warnings        []string
}

// Passed reports whether the verdict has no failures.
func (r *EngineResult) Passed() bool { return r.Verdict.Pass() }

// Failed reports whether the verdict has at least one failure.
func (r *EngineResult) Failed() bool { return !r.Verdict.Pass() }

// DerivedOfType filters Derived to facts of exactly (or, for an interface
// T, assignable to) type T.
func DerivedOfType[T any](r *EngineResult) []T {
	return filterByInstance[T](r.Derived)
}

// FactsOfType filters Facts to facts of exactly (or, for an interface T,
// assignable to) type T.
func FactsOfType[T any](r *EngineResult) []T {
	return filterByInstance[T](r.Facts)
}

// FailuresOfType filters the verdict's failures to those whose Reason is of
// type T.
func FailuresOfType[T any](r *EngineResult) []Failure {
	out := make([]Failure, 0)
	for _, f := range r.Verdict.Failures {
		if _, ok := f.Reason.(T); ok {
			out = append(out, f)
		}
	}
	return out
}

func filterByInstance[T any](facts []fact.Fact) []T {
	out := make([]T, 0)
	for _, f := range facts {
		if v, ok := f.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

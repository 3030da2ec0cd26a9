package main

import (
	"encoding/json"

	"go.uber.org/multierr"

	"rulesengine/internal/engineresult"
)

// summary is a JSON-friendly projection of engineresult.EngineResult;
// facts are encoded by encoding/json's default reflection, which is fine
// for the demo's plain structs.
type summary struct {
	SessionID       string   `json:"session_id"`
	FactCount       int      `json:"fact_count"`
	Derived         []any    `json:"derived"`
	Passed          bool     `json:"passed"`
	Failures        []failed `json:"failures,omitempty"`
	Skipped         map[string]string `json:"skipped,omitempty"`
	RuleActivations int      `json:"rule_activations"`
	Iterations      int      `json:"iterations"`
	Warnings        []string `json:"warnings,omitempty"`
}

type failed struct {
	RuleName string `json:"rule_name"`
	Reason   any    `json:"reason"`
}

func summarize(result *engineresult.EngineResult) summary {
	s := summary{
		SessionID:       result.SessionID,
		FactCount:       len(result.Facts),
		Passed:          result.Passed(),
		Skipped:         result.Skipped,
		RuleActivations: result.RuleActivations,
		Iterations:      result.Iterations,
		Warnings:        result.Warnings,
	}
	for _, d := range result.Derived {
		s.Derived = append(s.Derived, d)
	}
	for _, f := range result.Verdict.Failures {
		s.Failures = append(s.Failures, failed{RuleName: f.RuleName, Reason: f.Reason})
	}
	return s
}

// checkJSONSafe probes whether every derived fact and failure reason in
// result will round-trip through encoding/json, the format summarize and
// the JSON-log sink both rely on. It never aborts on a single bad value:
// each one's marshal error is independently collected with multierr so a
// single unprintable fact doesn't hide problems with the rest. This is
// diagnostic-only; the run still proceeds and prints whatever it can.
func checkJSONSafe(result *engineresult.EngineResult) error {
	var combined error
	for _, d := range result.Derived {
		if _, err := json.Marshal(d); err != nil {
			combined = multierr.Append(combined, err)
		}
	}
	for _, f := range result.Verdict.Failures {
		if _, err := json.Marshal(f.Reason); err != nil {
			combined = multierr.Append(combined, err)
		}
	}
	return combined
}

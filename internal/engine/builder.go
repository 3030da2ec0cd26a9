package engine

import (
	"fmt"

	"rulesengine/internal/engineerr"
	"rulesengine/internal/rule"
)

const defaultPhaseName = "default"

// Builder accumulates phases, producers, and validators into an immutable
// Engine. Producers or validators added outside any explicit phase are
// collected into an implicit "default" phase, prepended to the engine's
// phase list iff it was actually used.
type Builder struct {
	config Config

	phases            []*rule.Phase
	defaultProducers  []*rule.Producer
	defaultValidators []*rule.Validator
}

// NewBuilder returns a Builder seeded with DefaultConfig.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig overrides the engine's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// AddPhase appends an explicit phase, preserving declaration order.
func (b *Builder) AddPhase(phase *rule.Phase) *Builder {
	b.phases = append(b.phases, phase)
	return b
}

// AddProducer adds a producer to the implicit default phase.
func (b *Builder) AddProducer(p *rule.Producer) *Builder {
	b.defaultProducers = append(b.defaultProducers, p)
	return b
}

// AddValidator adds a validator to the implicit default phase.
func (b *Builder) AddValidator(v *rule.Validator) *Builder {
	b.defaultValidators = append(b.defaultValidators, v)
	return b
}

// Build validates the configuration and compiles every phase's network,
// returning an immutable Engine.
func (b *Builder) Build() (*Engine, error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	phases := make([]*rule.Phase, 0, len(b.phases)+1)
	if len(b.defaultProducers) > 0 || len(b.defaultValidators) > 0 {
		phases = append(phases, rule.NewPhase(defaultPhaseName, b.defaultProducers, b.defaultValidators))
	}
	phases = append(phases, b.phases...)

	if err := validateRules(phases); err != nil {
		return nil, err
	}

	return newEngine(b.config, phases)
}

// validateRules rejects a producer missing its Condition, its Output, or
// both (possible only via rule.NewMixedProducer's unrestricted surface) and
// a validator declared with no Condition, before any of those rules can
// panic on first evaluation.
func validateRules(phases []*rule.Phase) error {
	for _, phase := range phases {
		for _, p := range phase.Producers {
			if !p.Condition.IsSet() || !p.Output.IsSet() {
				return &engineerr.ConfigError{Reason: fmt.Sprintf(
					"producer %q must have both a condition and an output", p.Name)}
			}
		}
		for _, v := range phase.Validators {
			if !v.Condition.IsSet() {
				return &engineerr.ConfigError{Reason: fmt.Sprintf(
					"validator %q must have a condition", v.Name)}
			}
		}
	}
	return nil
}

package rule

// Phase is an ordered, named bundle of producers that runs to fixpoint
// before the next phase begins. Validators attached to a phase are
// collected globally and run once, after every phase's fixpoint.
type Phase struct {
	Name       string
	Producers  []*Producer
	Validators []*Validator
}

// NewPhase constructs a phase from its producers and validators, preserving
// declaration order.
func NewPhase(name string, producers []*Producer, validators []*Validator) *Phase {
	return &Phase{Name: name, Producers: producers, Validators: validators}
}

// ProducerNames returns this phase's producer names in declaration order.
func (p *Phase) ProducerNames() []string {
	names := make([]string, len(p.Producers))
	for i, producer := range p.Producers {
		names[i] = producer.Name
	}
	return names
}

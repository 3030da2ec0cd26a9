package rule

import (
	"context"
	"reflect"
)

// Producer declares a type-matched derivation rule: In -> Out. It is async
// iff either its Condition or its Output requires suspension.
type Producer struct {
	Name        string
	Description string
	Priority    int
	InputType   reflect.Type
	Guard       *Guard
	Condition   Condition
	Output      Output
}

// IsAsync reports whether this producer cannot run under synchronous
// evaluation.
func (p *Producer) IsAsync() bool {
	return p.Condition.IsAsync() || p.Output.IsAsync()
}

func inputTypeOf[In any]() reflect.Type {
	var zero In
	return reflect.TypeOf(&zero).Elem()
}

// NewProducer builds a synchronous producer for In -> Out.
func NewProducer[In, Out any](name, description string, priority int, guard *Guard,
	condition func(In) (bool, error), output func(In) (Out, bool, error)) *Producer {
	return &Producer{
		Name:        name,
		Description: description,
		Priority:    priority,
		InputType:   inputTypeOf[In](),
		Guard:       guard,
		Condition: Condition{
			Sync: func(f any) (bool, error) { return condition(f.(In)) },
		},
		Output: Output{
			Sync: func(f any) (any, bool, error) {
				out, ok, err := output(f.(In))
				return out, ok, err
			},
		},
	}
}

// NewAsyncProducer builds a producer whose condition and output both
// require an async evaluator.
func NewAsyncProducer[In, Out any](name, description string, priority int, guard *Guard,
	condition func(context.Context, In) (bool, error),
	output func(context.Context, In) (Out, bool, error)) *Producer {
	return &Producer{
		Name:        name,
		Description: description,
		Priority:    priority,
		InputType:   inputTypeOf[In](),
		Guard:       guard,
		Condition: Condition{
			Async: func(ctx context.Context, f any) (bool, error) { return condition(ctx, f.(In)) },
		},
		Output: Output{
			Async: func(ctx context.Context, f any) (any, bool, error) {
				out, ok, err := output(ctx, f.(In))
				return out, ok, err
			},
		},
	}
}

// NewMixedProducer builds a producer with a synchronous condition but an
// asynchronous output (or vice versa, by leaving the unused side nil on the
// Condition/Output values directly). Most callers want NewProducer or
// NewAsyncProducer; this is for the narrow case where only one side of a
// rule genuinely needs to suspend.
func NewMixedProducer[In, Out any](name, description string, priority int, guard *Guard,
	condition Condition, output Output, inputType reflect.Type) *Producer {
	return &Producer{
		Name:        name,
		Description: description,
		Priority:    priority,
		InputType:   inputType,
		Guard:       guard,
		Condition:   condition,
		Output:      output,
	}
}

package rule

import (
	"context"
	"reflect"
)

// Validator inspects facts of a declared input type after producers have
// reached fixpoint, contributing a typed failure reason when its condition
// fails.
type Validator struct {
	Name          string
	Description   string
	Priority      int
	InputType     reflect.Type
	Guard         *Guard
	Condition     Condition
	FailureReason func(fact any) any
}

// IsAsync reports whether this validator's condition cannot run under
// synchronous evaluation.
func (v *Validator) IsAsync() bool {
	return v.Condition.IsAsync()
}

// NewValidator builds a synchronous validator over Fact, with a
// typed failure reason of type Cause.
func NewValidator[Fact, Cause any](name, description string, priority int, guard *Guard,
	condition func(Fact) (bool, error), failureReason func(Fact) Cause) *Validator {
	return &Validator{
		Name:        name,
		Description: description,
		Priority:    priority,
		InputType:   inputTypeOf[Fact](),
		Guard:       guard,
		Condition: Condition{
			Sync: func(f any) (bool, error) { return condition(f.(Fact)) },
		},
		FailureReason: func(f any) any { return failureReason(f.(Fact)) },
	}
}

// NewAsyncValidator builds a validator whose condition requires suspension.
func NewAsyncValidator[Fact, Cause any](name, description string, priority int, guard *Guard,
	condition func(context.Context, Fact) (bool, error), failureReason func(Fact) Cause) *Validator {
	return &Validator{
		Name:        name,
		Description: description,
		Priority:    priority,
		InputType:   inputTypeOf[Fact](),
		Guard:       guard,
		Condition: Condition{
			Async: func(ctx context.Context, f any) (bool, error) { return condition(ctx, f.(Fact)) },
		},
		FailureReason: func(f any) any { return failureReason(f.(Fact)) },
	}
}

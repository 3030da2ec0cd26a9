package rule

import "context"

// Condition is a tagged union over a synchronous or asynchronous predicate.
// Exactly one of Sync or Async is set.
type Condition struct {
	Sync  func(fact any) (bool, error)
	Async func(ctx context.Context, fact any) (bool, error)
}

// IsAsync reports whether evaluating the condition requires suspension.
func (c Condition) IsAsync() bool { return c.Async != nil }

// IsSet reports whether either side of the tagged union is populated.
func (c Condition) IsSet() bool { return c.Sync != nil || c.Async != nil }

// Eval evaluates the condition against fact, dispatching to whichever side
// is set. Sync conditions run inline even when called from async evaluation.
func (c Condition) Eval(ctx context.Context, f any) (bool, error) {
	if c.Async != nil {
		return c.Async(ctx, f)
	}
	return c.Sync(f)
}

// Output is a tagged union over a synchronous or asynchronous producer
// function. The returned bool reports whether the invocation yielded a
// fact at all; a producer may legitimately decline to produce for a given
// input without contributing a trace entry.
type Output struct {
	Sync  func(fact any) (any, bool, error)
	Async func(ctx context.Context, fact any) (any, bool, error)
}

// IsAsync reports whether evaluating the output requires suspension.
func (o Output) IsAsync() bool { return o.Async != nil }

// IsSet reports whether either side of the tagged union is populated.
func (o Output) IsSet() bool { return o.Sync != nil || o.Async != nil }

// Eval evaluates the output function against fact.
func (o Output) Eval(ctx context.Context, f any) (any, bool, error) {
	if o.Async != nil {
		return o.Async(ctx, f)
	}
	return o.Sync(f)
}

package flow

import "context"

// State is the lifecycle of one flow invocation.
type State string

const (
	Pending   State = "pending"
	Succeeded State = "succeeded"
	Failed    State = "failed"
)

// Outcome is the result of a flow as seen by a view. The zero value is Pending.
type Outcome[T any] struct {
	State State
	Value T
	Err   error
}

func (o Outcome[T]) Pending() bool { return o.State == "" || o.State == Pending }

// Reason is the failure message, or "" unless Failed.
func (o Outcome[T]) Reason() string {
	if o.State != Failed || o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Succeed and Fail build settled outcomes.
func Succeed[T any](v T) Outcome[T] { return Outcome[T]{State: Succeeded, Value: v} }

func Fail[T any](err error) Outcome[T] { return Outcome[T]{State: Failed, Err: err} }

// Run invokes fn and settles its result. A failed outcome never carries a
// partial value.
func Run[T any](ctx context.Context, fn func(context.Context) (T, error)) Outcome[T] {
	v, err := fn(ctx)
	if err != nil {
		return Fail[T](err)
	}
	return Succeed(v)
}

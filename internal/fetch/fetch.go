// Package fetch models one asynchronous load as a tagged result fed into a
// single reducer: Pending, then either Succeeded with a payload or Failed with
// a message.
package fetch

import (
	"context"

	"orderbuilder/internal/models"
)

// Phase is the lifecycle phase of a fetch.
type Phase int

const (
	PhasePending Phase = iota
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is one step of a fetch lifecycle.
type Result[T any] struct {
	Phase   Phase
	Payload T
	Err     *models.FetchError
}

// Pending marks the start of a fetch.
func Pending[T any]() Result[T] {
	return Result[T]{Phase: PhasePending}
}

// Succeeded carries the fetched payload.
func Succeeded[T any](payload T) Result[T] {
	return Result[T]{Phase: PhaseSucceeded, Payload: payload}
}

// Failed carries the failure message of err.
func Failed[T any](err error) Result[T] {
	fe := models.NewFetchError(err)
	if fe == nil {
		fe = &models.FetchError{Message: "fetch failed"}
	}
	return Result[T]{Phase: PhaseFailed, Err: fe}
}

// Func performs the fetch itself.
type Func[T any] func(ctx context.Context) (T, error)

// Run drives one fetch through dispatch: Pending first, then Succeeded or
// Failed. The fetch error is returned for the caller's logging only; it has
// already been captured by dispatch.
func Run[T any](ctx context.Context, fn Func[T], dispatch func(Result[T])) error {
	dispatch(Pending[T]())

	payload, err := fn(ctx)
	if err != nil {
		dispatch(Failed[T](err))
		return err
	}

	dispatch(Succeeded(payload))
	return nil
}

package rx

import (
	"errors"
	"fmt"
)

// ErrNoInitialValue is the failure a FilterSignal holds before its
// transformer has accepted any upstream value.
var ErrNoInitialValue = errors.New("rx: no initial value")

// Result is the unit every node stores and propagates: either a computed
// value or the error that computing it raised. Failures flow downstream
// like any other value.
type Result[T comparable] struct {
	value T
	err   error
}

func Success[T comparable](value T) Result[T] {
	return Result[T]{value: value}
}

func Failure[T comparable](err error) Result[T] {
	return Result[T]{err: err}
}

func (r Result[T]) IsSuccess() bool {
	return r.err == nil
}

// Get returns the carried value or the carried error.
func (r Result[T]) Get() (T, error) {
	return r.value, r.err
}

// Value returns the carried value, the zero value on failure.
func (r Result[T]) Value() T {
	return r.value
}

func (r Result[T]) Err() error {
	return r.err
}

// Equal compares structurally: successes by value, failures by their
// carried errors.
func (r Result[T]) Equal(o Result[T]) bool {
	if r.err != nil || o.err != nil {
		if r.err == nil || o.err == nil {
			return false
		}
		return r.err == o.err || errors.Is(r.err, o.err) || errors.Is(o.err, r.err)
	}
	return r.value == o.value
}

func (r Result[T]) String() string {
	if r.err != nil {
		return fmt.Sprintf("Failure(%v)", r.err)
	}
	return fmt.Sprintf("Success(%v)", r.value)
}

// runGuarded executes fn, converting a panic into an error so a failing
// user calculation never escapes the node boundary.
func runGuarded[T any](fn func() (T, error)) (value T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("rx: calculation panicked: %v", rec)
		}
	}()
	return fn()
}

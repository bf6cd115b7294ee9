package rx

import (
	"fmt"
	"sync/atomic"
)

// SourceSignal is a leaf emitter whose value is externally assigned.
// Assignments start pulses; sources sit at level 0 and are never pinged.
type SourceSignal[T comparable] struct {
	emitterNode
	rs    *ReactiveSystem
	state atomic.Pointer[Result[T]]
}

func Source[T comparable](rs *ReactiveSystem, initial T) *SourceSignal[T] {
	s := &SourceSignal[T]{rs: rs}
	s.emitterNode.init(fmt.Sprintf("source-%d", rs.nextID()))
	r := Success(initial)
	s.state.Store(&r)
	return s
}

// Now returns the last committed result without blocking.
func (s *SourceSignal[T]) Now() Result[T] {
	return *s.state.Load()
}

// Get reads the current value and registers this source as a dependency
// of the calculation ctx belongs to. A nil ctx reads untracked.
func (s *SourceSignal[T]) Get(ctx *Ctx) (T, error) {
	if err := ctx.observe(s); err != nil {
		var zero T
		return zero, err
	}
	return s.Now().Get()
}

// Set commits Success(value) and starts a pulse. A value structurally
// equal to the stored one is dropped without notifying anyone.
func (s *SourceSignal[T]) Set(value T) {
	s.commit(Success(value))
}

// SetError commits Failure(err); it flows downstream like any value.
func (s *SourceSignal[T]) SetError(err error) {
	s.commit(Failure[T](err))
}

// Update atomically applies fn to the current value. On conflict the
// whole read-modify-write reruns, so fn must be side-effect-free. When
// the source holds a failure there is no value to transform: fn is not
// called and the failure stays in place.
func (s *SourceSignal[T]) Update(fn func(T) T) {
	for {
		old := s.state.Load()
		if old.err != nil {
			return
		}
		next := Success(fn(old.value))
		if next.Equal(*old) {
			return
		}
		if s.state.CompareAndSwap(old, &next) {
			break
		}
	}
	s.rs.Propagate(s)
}

func (s *SourceSignal[T]) commit(next Result[T]) {
	for {
		old := s.state.Load()
		if next.Equal(*old) {
			return
		}
		if s.state.CompareAndSwap(old, &next) {
			break
		}
	}
	s.rs.Propagate(s)
}

package rx

import (
	"errors"
	"sync/atomic"
)

// ErrDependencyCycle fails a tracked read that would close a dependency
// cycle, when cycle checking is enabled on the system.
var ErrDependencyCycle = errors.New("rx: dependency cycle")

// ReactiveSystem owns the logical clock and drives pulses through the
// dependency graph. Every node belongs to exactly one system.
type ReactiveSystem struct {
	clock       atomic.Uint64
	ids         atomic.Uint64
	checkCycles bool
	parallel    bool
}

type Option func(*ReactiveSystem)

// WithCycleCheck makes tracked reads refuse edges that would close a
// dependency cycle; the read fails with ErrDependencyCycle and the
// calculation surfaces it as an ordinary Failure.
func WithCycleCheck() Option {
	return func(rs *ReactiveSystem) { rs.checkCycles = true }
}

// WithParallelPings pings reactors of equal level concurrently during a
// pulse. Safe for side-effect-free calculations: each node's
// compute-then-commit is atomic.
func WithParallelPings() Option {
	return func(rs *ReactiveSystem) { rs.parallel = true }
}

func NewReactiveSystem(opts ...Option) *ReactiveSystem {
	rs := &ReactiveSystem{}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// now samples the logical clock. Strictly increasing across calls.
func (rs *ReactiveSystem) now() uint64 {
	return rs.clock.Add(1)
}

func (rs *ReactiveSystem) nextID() uint64 {
	return rs.ids.Add(1)
}

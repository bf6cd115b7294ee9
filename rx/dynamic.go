package rx

import (
	"fmt"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
)

// DynamicSignal is a computed node whose dependencies are discovered by
// observing which other signals its calculation reads through the Ctx.
// Parent edges are append-only: a signal read once stays a parent even if
// later runs never read it again.
type DynamicSignal[T comparable] struct {
	emitterNode
	rs      *ReactiveSystem
	calc    func(*Ctx) (T, error)
	parents mapset.Set[Emitter]
	state   atomic.Pointer[Result[T]]
	active  atomic.Bool
}

// Dynamic constructs a DynamicSignal and eagerly runs its calculation
// once, linking every signal the calculation reads as a parent. An error
// or panic from the calculation is captured as a Failure and never
// escapes. Calculations must be side-effect-free: commit conflicts retry
// them silently.
func Dynamic[T comparable](rs *ReactiveSystem, name string, calc func(*Ctx) (T, error)) *DynamicSignal[T] {
	s := &DynamicSignal[T]{
		rs:      rs,
		calc:    calc,
		parents: mapset.NewSet[Emitter](),
	}
	s.emitterNode.init(name)
	// The initial run links parents before the first snapshot exists, so a
	// parent can already pulse into the half-built node. Activation flips
	// on only after the snapshot is stored; until then Ping is a no-op.
	initial := s.fullCalc()
	s.state.Store(&initial)
	s.active.Store(true)
	return s
}

// Now returns the last committed result. Lock-free; never observes a
// half-committed recompute.
func (s *DynamicSignal[T]) Now() Result[T] {
	return *s.state.Load()
}

// Get reads the current value and registers this signal as a dependency
// of the calculation ctx belongs to. A nil ctx reads untracked.
func (s *DynamicSignal[T]) Get(ctx *Ctx) (T, error) {
	if err := ctx.observe(s); err != nil {
		var zero T
		return zero, err
	}
	return s.Now().Get()
}

// Parents snapshots the currently known dependency set.
func (s *DynamicSignal[T]) Parents() []Emitter {
	return s.parents.ToSlice()
}

func (s *DynamicSignal[T]) addParent(p Emitter) error {
	if s.rs.checkCycles && wouldCycle(p, s) {
		return fmt.Errorf("%w: %s -> %s", ErrDependencyCycle, p.Name(), s.name)
	}
	s.parents.Add(p)
	p.LinkChild(s)
	s.raiseLevel(int64(p.Level()) + 1)
	return nil
}

// fullCalc runs the whole calculation once. There is no partial
// re-evaluation: dependencies are only rediscovered by a full run.
func (s *DynamicSignal[T]) fullCalc() Result[T] {
	ctx := &Ctx{rs: s.rs, owner: s}
	value, err := runGuarded(func() (T, error) { return s.calc(ctx) })
	if err != nil {
		return Failure[T](err)
	}
	return Success(value)
}

// Ping recomputes if any changed emitter is a known parent. Recompute and
// the old-vs-new comparison form one atomic unit: the stored snapshot is
// replaced by a single compare-and-swap, and the whole unit reruns on
// conflict. An unchanged result returns no children.
func (s *DynamicSignal[T]) Ping(changed mapset.Set[Emitter]) mapset.Set[Reactor] {
	if !s.active.Load() || s.parents.Intersect(changed).Cardinality() == 0 {
		return noChildren()
	}
	for {
		old := s.state.Load()
		if old == nil {
			return noChildren()
		}
		next := s.fullCalc()
		if next.Equal(*old) {
			if s.state.Load() == old {
				return noChildren()
			}
			continue
		}
		if s.state.CompareAndSwap(old, &next) {
			return s.Children()
		}
	}
}

// Kill deactivates the signal and detaches it from its parents. Later
// pings are no-ops.
func (s *DynamicSignal[T]) Kill() {
	s.active.Store(false)
	for p := range s.parents.Iter() {
		p.unlinkChild(s)
	}
}

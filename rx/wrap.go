package rx

import (
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
)

// wrapNode is the shared shape of the statically linked single-parent
// nodes. The parent edge is made once at construction and never
// rediscovered; the name is a fixed prefix over the parent's name,
// diagnostic only.
type wrapNode struct {
	emitterNode
	rs     *ReactiveSystem
	parent Emitter
	active atomic.Bool
}

func (w *wrapNode) init(rs *ReactiveSystem, prefix string, parent Emitter) {
	w.emitterNode.init(prefix + " " + parent.Name())
	w.rs = rs
	w.parent = parent
	w.active.Store(true)
	w.raiseLevel(int64(parent.Level()) + 1)
}

func (w *wrapNode) Parents() []Emitter {
	return []Emitter{w.parent}
}

func (w *wrapNode) kill(self Reactor) {
	w.active.Store(false)
	w.parent.unlinkChild(self)
}

// FilterSignal derives from one parent through a transformer that sees
// both the previously accepted result and the parent's current one, so it
// can implement acceptance, debouncing or stateful folding. Suppression
// is value-based: a candidate structurally equal to the stored result is
// dropped and no children are returned.
type FilterSignal[T comparable] struct {
	wrapNode
	src       Signal[T]
	transform func(prev, cur Result[T]) Result[T]
	state     atomic.Pointer[Result[T]]
}

// FilterResult constructs a FilterSignal from the raw two-argument
// transformer. The initial value applies the transformer to the
// ErrNoInitialValue sentinel and the parent's current result.
func FilterResult[T comparable](rs *ReactiveSystem, src Signal[T], transform func(prev, cur Result[T]) Result[T]) *FilterSignal[T] {
	s := &FilterSignal[T]{src: src, transform: transform}
	s.wrapNode.init(rs, "filter", src)
	initial := s.applyTransform(Failure[T](ErrNoInitialValue), src.Now())
	s.state.Store(&initial)
	src.LinkChild(s)
	return s
}

func (s *FilterSignal[T]) Now() Result[T] {
	return *s.state.Load()
}

func (s *FilterSignal[T]) Get(ctx *Ctx) (T, error) {
	if err := ctx.observe(s); err != nil {
		var zero T
		return zero, err
	}
	return s.Now().Get()
}

func (s *FilterSignal[T]) applyTransform(prev, cur Result[T]) Result[T] {
	res, err := runGuarded(func() (Result[T], error) { return s.transform(prev, cur), nil })
	if err != nil {
		return Failure[T](err)
	}
	return res
}

func (s *FilterSignal[T]) Ping(changed mapset.Set[Emitter]) mapset.Set[Reactor] {
	if !s.active.Load() || !changed.Contains(s.parent) {
		return noChildren()
	}
	for {
		old := s.state.Load()
		next := s.applyTransform(*old, s.src.Now())
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

func (s *FilterSignal[T]) Kill() {
	s.kill(s)
}

type stamped[T comparable] struct {
	value Result[T]
	stamp uint64
}

// MapSignal derives from one parent through a one-argument transformer
// and keeps the logical stamp of its last commit. Suppression is
// stamp-based, not value-based: a ping commits whenever the freshly
// sampled stamp is strictly newer than the stored one, so a MapSignal
// refires even when its output repeats a prior value.
type MapSignal[A, T comparable] struct {
	wrapNode
	src       Signal[A]
	transform func(cur Result[A]) Result[T]
	state     atomic.Pointer[stamped[T]]
}

// MapResult constructs a MapSignal from the raw Result transformer,
// eagerly applying it to the parent's current result.
func MapResult[A, T comparable](rs *ReactiveSystem, src Signal[A], transform func(Result[A]) Result[T]) *MapSignal[A, T] {
	s := &MapSignal[A, T]{src: src, transform: transform}
	s.wrapNode.init(rs, "map", src)
	s.state.Store(&stamped[T]{
		value: s.applyTransform(src.Now()),
		stamp: rs.now(),
	})
	src.LinkChild(s)
	return s
}

func (s *MapSignal[A, T]) Now() Result[T] {
	return s.state.Load().value
}

func (s *MapSignal[A, T]) Get(ctx *Ctx) (T, error) {
	if err := ctx.observe(s); err != nil {
		var zero T
		return zero, err
	}
	return s.Now().Get()
}

func (s *MapSignal[A, T]) applyTransform(cur Result[A]) Result[T] {
	res, err := runGuarded(func() (Result[T], error) { return s.transform(cur), nil })
	if err != nil {
		return Failure[T](err)
	}
	return res
}

func (s *MapSignal[A, T]) Ping(changed mapset.Set[Emitter]) mapset.Set[Reactor] {
	if !s.active.Load() || !changed.Contains(s.parent) {
		return noChildren()
	}
	for {
		old := s.state.Load()
		next := &stamped[T]{
			value: s.applyTransform(s.src.Now()),
			stamp: s.rs.now(),
		}
		if next.stamp <= old.stamp {
			return noChildren()
		}
		if s.state.CompareAndSwap(old, next) {
			return s.Children()
		}
	}
}

func (s *MapSignal[A, T]) Kill() {
	s.kill(s)
}

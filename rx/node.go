package rx

import (
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
)

// Emitter is the dependency side of a node: an identity other nodes can
// read and register against. Its level is the node's max distance from
// any source and only ever grows.
type Emitter interface {
	Name() string
	Level() int
	// LinkChild registers a dependent so future pings reach it.
	LinkChild(Reactor)
	// Children snapshots the current dependents.
	Children() mapset.Set[Reactor]

	unlinkChild(Reactor)
}

// Reactor is the dependent side of a node: something that recomputes when
// emitters it depends on change.
type Reactor interface {
	Name() string
	Level() int
	// Parents snapshots the emitters this node currently depends on.
	Parents() []Emitter
	// Ping recomputes local state in response to the changed emitters and
	// returns the dependents that must now be notified, if any.
	Ping(changed mapset.Set[Emitter]) mapset.Set[Reactor]
}

// Signal is the typed read surface every value-bearing node exposes.
// Now never blocks and never joins an in-flight recompute; it observes
// only the last committed result.
type Signal[T comparable] interface {
	Emitter
	Now() Result[T]
	Get(ctx *Ctx) (T, error)
}

// emitterNode carries the state shared by everything that can be
// depended on: a diagnostic name, a monotonic level and the child
// registry.
type emitterNode struct {
	name     string
	level    atomic.Int64
	children mapset.Set[Reactor]
}

func (e *emitterNode) init(name string) {
	e.name = name
	e.children = mapset.NewSet[Reactor]()
}

func (e *emitterNode) Name() string {
	return e.name
}

func (e *emitterNode) Level() int {
	return int(e.level.Load())
}

func (e *emitterNode) LinkChild(child Reactor) {
	e.children.Add(child)
}

func (e *emitterNode) unlinkChild(child Reactor) {
	e.children.Remove(child)
}

func (e *emitterNode) Children() mapset.Set[Reactor] {
	return e.children.Clone()
}

// raiseLevel max-merges a candidate level. Levels never decrease, which
// keeps propagation ordering meaningful as the graph grows.
func (e *emitterNode) raiseLevel(min int64) {
	for {
		cur := e.level.Load()
		if min <= cur || e.level.CompareAndSwap(cur, min) {
			return
		}
	}
}

func noChildren() mapset.Set[Reactor] {
	return mapset.NewSet[Reactor]()
}

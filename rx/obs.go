package rx

import (
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
)

// Obs invokes a callback whenever its parent pings it. It sits at the
// edge of the graph: it emits nothing and nothing can depend on it.
type Obs struct {
	name   string
	parent Emitter
	fn     func()
	active atomic.Bool
}

// Observe attaches fn to src. It fires once immediately with the current
// result and then on every ping of src. Callbacks run outside any node's
// commit step.
func Observe[T comparable](src Signal[T], fn func(Result[T])) *Obs {
	o := &Obs{
		name:   "obs " + src.Name(),
		parent: src,
		fn:     func() { fn(src.Now()) },
	}
	o.active.Store(true)
	src.LinkChild(o)
	o.fn()
	return o
}

func (o *Obs) Name() string {
	return o.name
}

func (o *Obs) Level() int {
	return o.parent.Level() + 1
}

func (o *Obs) Parents() []Emitter {
	return []Emitter{o.parent}
}

func (o *Obs) Ping(changed mapset.Set[Emitter]) mapset.Set[Reactor] {
	if o.active.Load() && changed.Contains(o.parent) {
		o.fn()
	}
	return noChildren()
}

// Kill stops the callback from firing again.
func (o *Obs) Kill() {
	o.active.Store(false)
	o.parent.unlinkChild(o)
}

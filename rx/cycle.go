package rx

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// wouldCycle reports whether a new parent->child edge would close a
// dependency cycle, i.e. whether parent is already reachable downstream
// of child. Depth-first over the child registries with a visited set.
func wouldCycle(parent, child Emitter) bool {
	if parent == child {
		return true
	}
	seen := mapset.NewSet[Reactor]()
	var visit func(e Emitter) bool
	visit = func(e Emitter) bool {
		for c := range e.Children().Iter() {
			if !seen.Add(c) {
				continue
			}
			ce, ok := c.(Emitter)
			if !ok {
				continue
			}
			if ce == parent || visit(ce) {
				return true
			}
		}
		return false
	}
	return visit(child)
}

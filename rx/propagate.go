package rx

import (
	"math"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

type pingOutcome struct {
	pinged   Reactor
	children mapset.Set[Reactor]
}

// Propagate runs one pulse: starting from a changed emitter, it pings
// affected reactors in non-decreasing level order and folds the children
// each ping returns into the next frontier, until none remain. Each
// pending reactor accumulates the set of its parents that changed, and is
// pinged exactly once per visit with that whole set.
//
// Level order is an ordering optimization, not a correctness requirement:
// a node whose value did not change returns no children, so redundant
// visits dampen out regardless.
func (rs *ReactiveSystem) Propagate(from Emitter) {
	pending := map[Reactor]mapset.Set[Emitter]{}
	for child := range from.Children().Iter() {
		pending[child] = mapset.NewSet[Emitter](from)
	}

	for len(pending) > 0 {
		// Levels are sampled once per iteration: a concurrent pulse may
		// raise a pending reactor's level between reads, and a second read
		// could then leave the minimum batch empty.
		levels := make(map[Reactor]int, len(pending))
		minLevel := math.MaxInt
		for r := range pending {
			lvl := r.Level()
			levels[r] = lvl
			if lvl < minLevel {
				minLevel = lvl
			}
		}

		batch := make([]Reactor, 0, len(pending))
		for r := range pending {
			if levels[r] == minLevel {
				batch = append(batch, r)
			}
		}

		outcomes := make([]pingOutcome, len(batch))
		if rs.parallel && len(batch) > 1 {
			var wg sync.WaitGroup
			for i, r := range batch {
				wg.Add(1)
				go func(i int, r Reactor, changed mapset.Set[Emitter]) {
					defer wg.Done()
					outcomes[i] = pingOutcome{pinged: r, children: r.Ping(changed)}
				}(i, r, pending[r])
			}
			wg.Wait()
		} else {
			for i, r := range batch {
				outcomes[i] = pingOutcome{pinged: r, children: r.Ping(pending[r])}
			}
		}

		for _, r := range batch {
			delete(pending, r)
		}
		for _, out := range outcomes {
			em, isEmitter := out.pinged.(Emitter)
			if !isEmitter {
				continue
			}
			for child := range out.children.Iter() {
				set, ok := pending[child]
				if !ok {
					set = mapset.NewSet[Emitter]()
					pending[child] = set
				}
				set.Add(em)
			}
		}
	}
}

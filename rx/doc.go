// Package rx is a dependency-tracked reactive computation engine: nodes
// hold a computed Result and recompute when the signals they depend on
// change, without the caller re-wiring propagation.
//
//	rs := rx.NewReactiveSystem()
//	a := rx.Source(rs, 1)
//	b := rx.Source(rs, 2)
//	sum := rx.Dynamic(rs, "sum", func(ctx *rx.Ctx) (int, error) {
//		av, err := a.Get(ctx)
//		if err != nil {
//			return 0, err
//		}
//		bv, err := b.Get(ctx)
//		return av + bv, err
//	})
//	a.Set(10) // sum.Now() is Success(12)
//
// Dynamic signals discover their dependencies by observing which signals
// they read through the Ctx during a full run of their calculation.
// MapSignal and FilterSignal are statically linked to a single parent
// instead. Recomputation is atomic per node (compute, compare, commit by
// compare-and-swap, retry on conflict), so calculations must be
// side-effect-free and safe to rerun silently. The package neither
// detects nor prevents cyclic graphs unless WithCycleCheck is set.
package rx

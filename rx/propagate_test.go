package rx_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jppellet/scala.rx/rx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeepChainRecomputesOncePerPulse(t *testing.T) {
	rs := rx.NewReactiveSystem()
	src := rx.Source(rs, 0)

	const depth = 8
	calls := make([]int, depth)
	var last rx.Signal[int] = src
	for i := 0; i < depth; i++ {
		i := i
		prev := last
		last = rx.Dynamic(rs, fmt.Sprintf("layer-%d", i), func(ctx *rx.Ctx) (int, error) {
			calls[i]++
			v, err := prev.Get(ctx)
			return v + 1, err
		})
	}
	require.Equal(t, rx.Success(depth), last.Now())

	src.Set(10)
	assert.Equal(t, rx.Success(10+depth), last.Now())
	for i, c := range calls {
		assert.Equalf(t, 2, c, "layer %d", i)
	}
}

func TestPulseVisitsLowerLevelsFirst(t *testing.T) {
	rs := rx.NewReactiveSystem()

	//     A
	//   /   \
	//  B     C
	//  |     |
	//  |     D
	//   \   /
	//     E
	a := rx.Source(rs, 1)
	var order []string
	mark := func(name string) { order = append(order, name) }

	b := rx.Dynamic(rs, "b", func(ctx *rx.Ctx) (int, error) {
		mark("b")
		return a.Get(ctx)
	})
	c := rx.Dynamic(rs, "c", func(ctx *rx.Ctx) (int, error) {
		mark("c")
		v, err := a.Get(ctx)
		return v * 2, err
	})
	d := rx.Dynamic(rs, "d", func(ctx *rx.Ctx) (int, error) {
		mark("d")
		return c.Get(ctx)
	})
	e := rx.Dynamic(rs, "e", func(ctx *rx.Ctx) (int, error) {
		mark("e")
		bv, err := b.Get(ctx)
		if err != nil {
			return 0, err
		}
		dv, err := d.Get(ctx)
		return bv + dv, err
	})
	require.Equal(t, rx.Success(3), e.Now())

	order = nil
	a.Set(2)
	assert.Equal(t, rx.Success(6), e.Now())

	pos := map[string]int{}
	for i, name := range order {
		pos[name] = i
	}
	assert.Less(t, pos["b"], pos["e"])
	assert.Less(t, pos["c"], pos["d"])
	assert.Less(t, pos["d"], pos["e"])
	assert.Len(t, order, 4) // each node exactly once
}

func TestParallelPings(t *testing.T) {
	rs := rx.NewReactiveSystem(rx.WithParallelPings())
	src := rx.Source(rs, 1)

	const width = 32
	var recomputes atomic.Int64
	leaves := make([]*rx.DynamicSignal[int], width)
	for i := 0; i < width; i++ {
		i := i
		leaves[i] = rx.Dynamic(rs, fmt.Sprintf("leaf-%d", i), func(ctx *rx.Ctx) (int, error) {
			recomputes.Add(1)
			v, err := src.Get(ctx)
			return v + i, err
		})
	}
	require.Equal(t, int64(width), recomputes.Load())

	src.Set(100)
	assert.Equal(t, int64(2*width), recomputes.Load())
	for i, leaf := range leaves {
		assert.Equal(t, rx.Success(100+i), leaf.Now())
	}
}

func TestCycleCheckFailsSelfRead(t *testing.T) {
	rs := rx.NewReactiveSystem(rx.WithCycleCheck())
	src := rx.Source(rs, 0)

	var self *rx.DynamicSignal[int]
	self = rx.Dynamic(rs, "selfish", func(ctx *rx.Ctx) (int, error) {
		v, err := src.Get(ctx)
		if err != nil || v == 0 {
			return v, err
		}
		return self.Get(ctx)
	})
	require.Equal(t, rx.Success(0), self.Now())

	src.Set(1)
	assert.ErrorIs(t, self.Now().Err(), rx.ErrDependencyCycle)
}

func TestCycleCheckFailsTwoNodeLoop(t *testing.T) {
	rs := rx.NewReactiveSystem(rx.WithCycleCheck())
	src := rx.Source(rs, 0)

	var d1, d2 *rx.DynamicSignal[int]
	d1 = rx.Dynamic(rs, "d1", func(ctx *rx.Ctx) (int, error) {
		v, err := src.Get(ctx)
		if err != nil || v == 0 || d2 == nil {
			return v, err
		}
		return d2.Get(ctx)
	})
	d2 = rx.Dynamic(rs, "d2", func(ctx *rx.Ctx) (int, error) {
		return d1.Get(ctx)
	})
	require.Equal(t, rx.Success(0), d2.Now())

	src.Set(1)
	assert.ErrorIs(t, d1.Now().Err(), rx.ErrDependencyCycle)
}

func TestPropagateWithoutCycleCheckAllowsLinking(t *testing.T) {
	// the core neither guarantees nor checks acyclicity by default:
	// graph introspection keeps working on whatever the user builds
	rs := rx.NewReactiveSystem()
	a := rx.Source(rs, 1)
	d := rx.Dynamic(rs, "d", func(ctx *rx.Ctx) (int, error) { return a.Get(ctx) })

	assert.Equal(t, []rx.Emitter{a}, d.Parents())
	assert.True(t, a.Children().Contains(rx.Reactor(d)))
}

// climbingReactor reports a higher level on every read, the way a
// concurrent pulse can raise a pending node's level mid-pulse.
type climbingReactor struct {
	level atomic.Int64
	pings atomic.Int64
}

func (r *climbingReactor) Name() string          { return "climbing" }
func (r *climbingReactor) Level() int            { return int(r.level.Add(1)) }
func (r *climbingReactor) Parents() []rx.Emitter { return nil }

func (r *climbingReactor) Ping(mapset.Set[rx.Emitter]) mapset.Set[rx.Reactor] {
	r.pings.Add(1)
	return mapset.NewSet[rx.Reactor]()
}

func TestPulseTerminatesWhenLevelsRiseMidPulse(t *testing.T) {
	rs := rx.NewReactiveSystem()
	a := rx.Source(rs, 1)
	r := &climbingReactor{}
	a.LinkChild(r)

	// no two Level reads agree, so the pulse must not rely on re-reading
	// them when it selects the minimum batch
	a.Set(2)
	assert.Equal(t, int64(1), r.pings.Load())
}

func TestObserverKill(t *testing.T) {
	rs := rx.NewReactiveSystem()
	a := rx.Source(rs, 1)

	fires := 0
	obs := rx.Observe[int](a, func(rx.Result[int]) { fires++ })
	require.Equal(t, 1, fires)

	a.Set(2)
	require.Equal(t, 2, fires)

	obs.Kill()
	a.Set(3)
	assert.Equal(t, 2, fires)
	assert.False(t, a.Children().Contains(rx.Reactor(obs)))
}

package rx

// Ctx is the evaluation context threaded through one run of a
// DynamicSignal's calculation. Every tracked read goes through it; that
// is how the signal discovers its dependencies. There is no process-wide
// ambient evaluator.
type Ctx struct {
	rs    *ReactiveSystem
	owner dynamicReactor
}

type dynamicReactor interface {
	Reactor
	addParent(Emitter) error
}

// observe records e as a dependency of the calculation being evaluated.
// A nil Ctx means an untracked read and records nothing.
func (c *Ctx) observe(e Emitter) error {
	if c == nil {
		return nil
	}
	return c.owner.addParent(e)
}

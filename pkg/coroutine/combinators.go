package coroutine

import (
	"github.com/go-drift/sceneloop/pkg/animation"
)

// Chain runs stages strictly in order. A stage starts once the previous
// one is exhausted; stages that finish without suspending cost no extra
// ticks. A Stop from any stage stops the whole chain.
func Chain(stages ...Factory) Factory {
	return func() Routine {
		return &chain{stages: stages}
	}
}

type chain struct {
	stages  []Factory
	index   int
	current Routine
	stopped bool
}

func (c *chain) Resume(elapsedMS float64) (Instruction, bool) {
	if c.stopped {
		return Stop(), true
	}
	for c.index < len(c.stages) {
		if c.current == nil {
			c.current = c.stages[c.index]()
		}
		ins, done := c.current.Resume(elapsedMS)
		if ins.Op == OpStop {
			c.stopped = true
			c.Close()
			return Stop(), true
		}
		if !done {
			return ins, false
		}
		release(c.current)
		c.current = nil
		c.index++
		elapsedMS = 0
	}
	return Continue(), true
}

func (c *chain) Close() {
	if c.current != nil {
		release(c.current)
		c.current = nil
	}
	c.index = len(c.stages)
}

// Repeat restarts a fresh instance from factory every time the current one
// is exhausted, within the same resumption. An instance that finishes on
// its very first resumption is restarted on the next tick instead, so a
// routine that never suspends cannot spin forever. A Stop ends repetition.
func Repeat(factory Factory) Factory {
	return func() Routine {
		return &repeat{factory: factory}
	}
}

type repeat struct {
	factory Factory
	current Routine
	stopped bool
}

func (r *repeat) Resume(elapsedMS float64) (Instruction, bool) {
	if r.stopped {
		return Stop(), true
	}
	for {
		fresh := r.current == nil
		if fresh {
			r.current = r.factory()
		}
		ins, done := r.current.Resume(elapsedMS)
		elapsedMS = 0
		if ins.Op == OpStop {
			r.stopped = true
			r.Close()
			return Stop(), true
		}
		if !done {
			return ins, false
		}
		release(r.current)
		r.current = nil
		if fresh {
			return Continue(), false
		}
	}
}

func (r *repeat) Close() {
	if r.current != nil {
		release(r.current)
		r.current = nil
	}
}

// Blend interpolates linearly from from to to at the current eased
// progress.
type Blend func(from, to float64) float64

// Tween calls cb once per resumption while durationMS of frame time
// elapse, passing a Blend driven by ease(elapsed/durationMS). The last call
// sees progress 1, after which the routine is exhausted. A non-positive
// duration makes a single call at progress 1. A nil ease is linear.
func Tween(cb func(blend Blend), ease animation.Curve, durationMS float64) Factory {
	if ease == nil {
		ease = animation.Linear
	}
	return progress(durationMS, func(p float64) {
		eased := ease(p)
		cb(func(from, to float64) float64 {
			return animation.Lerp(from, to, eased)
		})
	})
}

// Animate drives tw over durationMS of frame time and passes every
// evaluated value to set. It follows the same timing as Tween.
func Animate[T any](tw animation.Tween[T], durationMS float64, set func(T)) Factory {
	return progress(durationMS, func(p float64) {
		set(tw.Evaluate(p))
	})
}

// progress calls step once per resumption with the fraction of durationMS
// elapsed so far, finishing after the call that sees 1.
func progress(durationMS float64, step func(p float64)) Factory {
	return func() Routine {
		var elapsed float64
		return Func(func(elapsedMS float64) (Instruction, bool) {
			elapsed += elapsedMS
			p := 1.0
			if durationMS > 0 {
				p = animation.Clamp(elapsed / durationMS)
			}
			step(p)
			return Continue(), p >= 1
		})
	}
}

// Delay waits for ms milliseconds and then finishes.
func Delay(ms float64) Factory {
	return func() Routine {
		return once(WaitMS(ms))
	}
}

// Frames waits for n ticks and then finishes.
func Frames(n int) Factory {
	return func() Routine {
		return once(WaitFrames(n))
	}
}

// Do runs fn and finishes without suspending.
func Do(fn func()) Factory {
	return func() Routine {
		return Func(func(float64) (Instruction, bool) {
			fn()
			return Continue(), true
		})
	}
}

// once yields ins on the first resumption and is exhausted on the second.
func once(ins Instruction) Routine {
	yielded := false
	return Func(func(float64) (Instruction, bool) {
		if yielded {
			return Continue(), true
		}
		yielded = true
		return ins, false
	})
}

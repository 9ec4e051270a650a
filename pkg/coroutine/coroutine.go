package coroutine

import (
	"go.uber.org/zap"

	"github.com/go-drift/sceneloop/pkg/frameclock"
	"github.com/go-drift/sceneloop/pkg/reactive"
	"github.com/go-drift/sceneloop/pkg/scheduler"
)

// End reasons reported to metrics and logs.
const (
	reasonCompleted = "completed"
	reasonStopped   = "stopped"
	reasonDisposed  = "disposed"
)

// Coroutine is a running routine driven once per tick.
type Coroutine struct {
	s        *scheduler.Scheduler
	routine  Routine
	dispose  func()
	stopped  *reactive.Signal[bool]
	ended    bool
	resuming bool

	// elapsed is the frame time accumulated since the last resumption.
	elapsed float64

	waitFrames int
	waitingMS  bool
	waitMS     float64
	waitedMS   float64
}

// Start creates a routine from factory and drives it from the next tick
// on. The coroutine belongs to the current reactive scope and ends when
// that scope is disposed.
//
// A panic raised by the routine propagates out of the tick.
func Start(s *scheduler.Scheduler, factory Factory) *Coroutine {
	rt := s.Runtime()
	c := &Coroutine{
		s:       s,
		routine: factory(),
		stopped: reactive.NewSignal(rt, false),
	}
	s.Metrics().CoroutineStarted()
	rt.Scope(func(dispose func()) {
		c.dispose = dispose
		if rt.Owner().Disposed() {
			c.end(reasonDisposed)
			return
		}
		rt.OnCleanup(func() { c.end(reasonDisposed) })
		s.OnEveryFrame(c.step)
	})
	return c
}

// Stopped reports whether the coroutine has ended. It is a tracked read.
func (c *Coroutine) Stopped() bool { return c.stopped.Get() }

// Stop ends the coroutine as if it had returned Stop. A step that is
// already running finishes first.
func (c *Coroutine) Stop() { c.end(reasonStopped) }

// Dispose cancels the driver. It is safe to call more than once.
func (c *Coroutine) Dispose() { c.end(reasonDisposed) }

func (c *Coroutine) step(snap frameclock.Snapshot) {
	if c.ended {
		return
	}
	c.elapsed += snap.ElapsedMS

	switch {
	case c.waitFrames > 0:
		c.waitFrames--
		if c.waitFrames > 0 {
			return
		}
	case c.waitingMS:
		c.waitedMS += snap.ElapsedMS
		if c.waitedMS < c.waitMS {
			return
		}
		c.waitingMS = false
	}

	elapsed := c.elapsed
	c.elapsed = 0
	ins, done := c.resume(elapsed)
	if c.ended {
		// Stopped or disposed from inside the step.
		release(c.routine)
		return
	}

	switch {
	case ins.Op == OpStop:
		c.end(reasonStopped)
	case done:
		c.end(reasonCompleted)
	case ins.Op == OpWaitMS && ins.MS > 0:
		c.waitingMS, c.waitMS, c.waitedMS = true, ins.MS, 0
	case ins.Op == OpWaitFrames && ins.Frames > 0:
		c.waitFrames = ins.Frames
	}
}

func (c *Coroutine) resume(elapsedMS float64) (Instruction, bool) {
	c.resuming = true
	defer func() { c.resuming = false }()
	return c.routine.Resume(elapsedMS)
}

func (c *Coroutine) end(reason string) {
	if c.ended {
		return
	}
	c.ended = true
	c.waitFrames, c.waitingMS = 0, false
	c.stopped.Set(true)
	if !c.resuming {
		release(c.routine)
	}
	c.s.Metrics().CoroutineEnded(reason)
	c.s.Logger().Debug("coroutine ended",
		zap.String("reason", reason),
		zap.Uint64("frame", c.s.Snapshot().Frame))
	c.dispose()
}

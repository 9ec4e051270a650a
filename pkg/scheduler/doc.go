// Package scheduler synchronizes reactive effects with the frame clock.
//
// A registration has two halves. The query runs inside a tracked
// computation and is re-evaluated as soon as anything it read changes; each
// evaluation marks the registration pending with the latest result. The
// effect runs later, untracked, on the next tick, and receives that result
// together with the tick's [frameclock.Snapshot]. Timing math belongs in
// the effect, never in the query.
//
// On every tick the scheduler drains pending registrations in the order
// they became pending, running each once. Effects that make other
// registrations pending during the drain (a cascade) are drained in the
// same tick while the per-tick budget lasts; whatever is left over runs on
// the next tick. A registration never fires twice in one tick.
//
//	s := scheduler.New(rt, frameclock.NewTicker(60))
//	stop := scheduler.SynchronizedEffect(s,
//	    func() float64 { return target.Get() },
//	    func(x float64, snap frameclock.Snapshot) {
//	        sprite.SetProp("x", x, nil)
//	    })
//	defer stop()
//	s.Start()
package scheduler

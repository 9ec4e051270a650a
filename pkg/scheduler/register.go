package scheduler

import (
	"github.com/go-drift/sceneloop/pkg/frameclock"
)

// SynchronizedEffect registers a query/effect pair and returns its
// disposer.
//
// query runs immediately and again whenever a signal it read changes; each
// run records its result and marks the registration pending without
// changing its place in the queue. effect runs on the next tick with the
// most recent result. Effects run untracked, inside a batch, and under the
// registration's scope, so cleanups and nested registrations made there
// are released by the disposer. Calling the disposer more than once is a
// no-op; after it returns the effect never runs again.
func SynchronizedEffect[T any](s *Scheduler, query func() T, effect func(T, frameclock.Snapshot)) func() {
	var dispose func()
	s.rt.Scope(func(d func()) {
		dispose = d
		e := s.newEntry(s.rt.Owner())
		var latest T
		e.run = func(snap frameclock.Snapshot) {
			effect(latest, snap)
		}
		s.rt.OnCleanup(func() { s.cancel(e) })
		s.rt.Effect(func() {
			latest = query()
			s.enqueue(e)
		})
	})
	return dispose
}

// OnEveryFrame registers fn to run once on every tick until disposed.
func (s *Scheduler) OnEveryFrame(fn func(frameclock.Snapshot)) func() {
	return SynchronizedEffect(s, s.Frame, func(_ uint64, snap frameclock.Snapshot) {
		fn(snap)
	})
}

// After runs fn once, on the first tick at which at least ms milliseconds
// of frame time have accumulated since registration.
func (s *Scheduler) After(ms float64, fn func()) func() {
	var (
		dispose func()
		elapsed float64
		done    bool
	)
	dispose = s.OnEveryFrame(func(snap frameclock.Snapshot) {
		if done {
			return
		}
		elapsed += snap.ElapsedMS
		if elapsed >= ms {
			done = true
			dispose()
			fn()
		}
	})
	return dispose
}

// Every runs fn each time another ms milliseconds of frame time have
// accumulated. A long tick may run fn several times. With ms of zero or
// less fn runs once per tick.
func (s *Scheduler) Every(ms float64, fn func()) func() {
	var acc float64
	return s.OnEveryFrame(func(snap frameclock.Snapshot) {
		if ms <= 0 {
			fn()
			return
		}
		acc += snap.ElapsedMS
		for acc >= ms {
			acc -= ms
			fn()
		}
	})
}

package reactive

import "slices"

// Computation is a tracked function that re-runs when its dependencies
// change.
type Computation struct {
	rt       *Runtime
	fn       func()
	scope    *Owner
	sources  []*source
	queued   bool
	disposed bool
}

// Disposed reports whether the computation has been disposed.
func (c *Computation) Disposed() bool {
	return c.disposed
}

func (c *Computation) run() {
	rt := c.rt
	c.scope.reset()
	c.clearSources()

	func() {
		prevObserver, prevOwner := rt.observer, rt.owner
		rt.observer, rt.owner = c, c.scope
		rt.batchDepth++
		defer func() {
			rt.observer, rt.owner = prevObserver, prevOwner
			rt.batchDepth--
		}()
		c.fn()
	}()
	rt.flush()
}

func (c *Computation) release() {
	c.disposed = true
	c.clearSources()
}

func (c *Computation) clearSources() {
	for _, s := range c.sources {
		s.unsubscribe(c)
	}
	c.sources = c.sources[:0]
}

// source is the dependency half shared by every signal type.
type source struct {
	observers []*Computation
}

func (s *source) track(rt *Runtime) {
	c := rt.observer
	if c == nil || c.disposed {
		return
	}
	if slices.Contains(c.sources, s) {
		return
	}
	c.sources = append(c.sources, s)
	s.observers = append(s.observers, c)
}

func (s *source) unsubscribe(c *Computation) {
	if i := slices.Index(s.observers, c); i >= 0 {
		s.observers = slices.Delete(s.observers, i, i+1)
	}
}

func (s *source) notify(rt *Runtime) {
	if len(s.observers) == 0 {
		return
	}
	for _, c := range slices.Clone(s.observers) {
		rt.schedule(c)
	}
	rt.flush()
}

package reactive

import (
	"fmt"

	"github.com/go-drift/sceneloop/pkg/errors"
)

// maxFlushRuns bounds a single flush so a computation that keeps writing a
// signal it reads fails loudly instead of spinning forever.
const maxFlushRuns = 100_000

// Runtime owns the tracking state of one signal graph.
type Runtime struct {
	observer   *Computation
	owner      *Owner
	batchDepth int
	queue      []*Computation
	flushing   bool
}

// NewRuntime creates an empty runtime.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// Owner returns the scope that is current on this runtime, or nil.
func (rt *Runtime) Owner() *Owner {
	return rt.owner
}

// Root runs fn inside a new detached scope. The scope lives until the
// dispose function handed to fn is called.
func (rt *Runtime) Root(fn func(dispose func())) {
	rt.runScope(newOwner(rt, nil), fn)
}

// Scope runs fn inside a new scope nested under the current owner. The
// scope is disposed by the dispose function handed to fn or together with
// its parent, whichever comes first. Reads inside fn are not tracked by an
// enclosing computation.
func (rt *Runtime) Scope(fn func(dispose func())) {
	rt.runScope(newOwner(rt, rt.owner), fn)
}

func (rt *Runtime) runScope(o *Owner, fn func(dispose func())) {
	prevObserver, prevOwner := rt.observer, rt.owner
	rt.observer, rt.owner = nil, o
	defer func() {
		rt.observer, rt.owner = prevObserver, prevOwner
	}()
	fn(o.Dispose)
}

// RunWithOwner runs fn with o as the current owner and no tracking
// observer. It is used to resume work later under a scope captured earlier.
func (rt *Runtime) RunWithOwner(o *Owner, fn func()) {
	prevObserver, prevOwner := rt.observer, rt.owner
	rt.observer, rt.owner = nil, o
	defer func() {
		rt.observer, rt.owner = prevObserver, prevOwner
	}()
	fn()
}

// OnCleanup registers fn to run when the current owner is disposed or, for
// a computation, before its next run. It panics outside of any owner.
func (rt *Runtime) OnCleanup(fn func()) {
	if rt.owner == nil {
		errors.Structural("reactive.OnCleanup", "", "called outside of an owner scope")
	}
	rt.owner.cleanups = append(rt.owner.cleanups, fn)
}

// Untrack runs fn without recording signal reads.
func (rt *Runtime) Untrack(fn func()) {
	prev := rt.observer
	rt.observer = nil
	defer func() { rt.observer = prev }()
	fn()
}

// Batch runs fn and defers re-running affected computations until it
// returns, so several writes produce a single notification pass.
func (rt *Runtime) Batch(fn func()) {
	func() {
		rt.batchDepth++
		defer func() { rt.batchDepth-- }()
		fn()
	}()
	rt.flush()
}

// Effect creates a computation owned by the current scope and runs it
// immediately. It re-runs whenever a signal read during its last run
// changes.
func (rt *Runtime) Effect(fn func()) *Computation {
	c := &Computation{rt: rt, fn: fn}
	c.scope = newOwner(rt, rt.owner)
	c.scope.finalizer = c.release
	if c.scope.disposed {
		c.disposed = true
		return c
	}
	c.run()
	return c
}

func (rt *Runtime) schedule(c *Computation) {
	if c.queued || c.disposed {
		return
	}
	c.queued = true
	rt.queue = append(rt.queue, c)
}

func (rt *Runtime) flush() {
	if rt.batchDepth > 0 || rt.flushing {
		return
	}
	rt.flushing = true
	defer func() { rt.flushing = false }()

	runs := 0
	for len(rt.queue) > 0 {
		c := rt.queue[0]
		rt.queue[0] = nil
		rt.queue = rt.queue[1:]
		c.queued = false
		if c.disposed {
			continue
		}
		runs++
		if runs > maxFlushRuns {
			rt.queue = nil
			panic(fmt.Sprintf("reactive: more than %d updates in one flush; a computation is writing a signal it reads", maxFlushRuns))
		}
		c.run()
	}
}

package reactive

import "slices"

// Owner is a disposal scope. Scopes form a tree: disposing one disposes its
// children first, newest to oldest, and then runs its own cleanups in
// reverse registration order.
type Owner struct {
	rt        *Runtime
	parent    *Owner
	children  []*Owner
	cleanups  []func()
	finalizer func()
	disposed  bool
}

func newOwner(rt *Runtime, parent *Owner) *Owner {
	o := &Owner{rt: rt, parent: parent}
	if parent != nil {
		if parent.disposed {
			o.disposed = true
			return o
		}
		parent.children = append(parent.children, o)
	}
	return o
}

// Parent returns the enclosing scope, or nil for a root.
func (o *Owner) Parent() *Owner {
	return o.parent
}

// Disposed reports whether the scope has been torn down.
func (o *Owner) Disposed() bool {
	return o.disposed
}

// Dispose tears the scope down. Calling it more than once is a no-op.
func (o *Owner) Dispose() {
	if o.disposed {
		return
	}
	o.disposed = true
	o.reset()
	if o.finalizer != nil {
		o.finalizer()
	}
	if o.parent != nil {
		o.parent.removeChild(o)
	}
}

// reset disposes child scopes and runs cleanups but keeps the scope alive.
func (o *Owner) reset() {
	children := o.children
	o.children = nil
	for i := len(children) - 1; i >= 0; i-- {
		child := children[i]
		child.parent = nil
		child.Dispose()
	}
	cleanups := o.cleanups
	o.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

func (o *Owner) removeChild(child *Owner) {
	if i := slices.Index(o.children, child); i >= 0 {
		o.children = slices.Delete(o.children, i, i+1)
	}
}

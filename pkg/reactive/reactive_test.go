package reactive

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/sceneloop/pkg/errors"
)

func TestEffectRunsImmediatelyAndOnChange(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 0)
	var seen []int

	rt.Root(func(dispose func()) {
		rt.Effect(func() {
			seen = append(seen, count.Get())
		})
	})

	count.Set(1)
	count.Set(1) // equal value, no notification
	count.Set(2)

	if diff := cmp.Diff([]int{0, 1, 2}, seen); diff != "" {
		t.Errorf("effect runs mismatch (-want +got):\n%s", diff)
	}
}

func TestPeekDoesNotTrack(t *testing.T) {
	rt := NewRuntime()
	a := NewSignal(rt, 1)
	runs := 0
	rt.Root(func(func()) {
		rt.Effect(func() {
			runs++
			_ = a.Peek()
		})
	})
	a.Set(2)
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestUntrack(t *testing.T) {
	rt := NewRuntime()
	a := NewSignal(rt, 1)
	b := NewSignal(rt, 1)
	runs := 0
	rt.Root(func(func()) {
		rt.Effect(func() {
			runs++
			a.Get()
			rt.Untrack(func() { b.Get() })
		})
	})
	b.Set(2)
	if runs != 1 {
		t.Errorf("runs after untracked write = %d, want 1", runs)
	}
	a.Set(2)
	if runs != 2 {
		t.Errorf("runs after tracked write = %d, want 2", runs)
	}
}

func TestDynamicDependencies(t *testing.T) {
	rt := NewRuntime()
	useA := NewSignal(rt, true)
	a := NewSignal(rt, "a")
	b := NewSignal(rt, "b")
	var seen []string
	rt.Root(func(func()) {
		rt.Effect(func() {
			if useA.Get() {
				seen = append(seen, a.Get())
			} else {
				seen = append(seen, b.Get())
			}
		})
	})

	useA.Set(false)
	a.Set("a2") // no longer a dependency
	b.Set("b2")

	if diff := cmp.Diff([]string{"a", "b", "b2"}, seen); diff != "" {
		t.Errorf("seen mismatch (-want +got):\n%s", diff)
	}
}

func TestBatchCoalescesWrites(t *testing.T) {
	rt := NewRuntime()
	a := NewSignal(rt, 0)
	b := NewSignal(rt, 0)
	runs := 0
	rt.Root(func(func()) {
		rt.Effect(func() {
			runs++
			a.Get()
			b.Get()
		})
	})
	rt.Batch(func() {
		a.Set(1)
		b.Set(1)
	})
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestDisposeStopsEffects(t *testing.T) {
	rt := NewRuntime()
	a := NewSignal(rt, 0)
	runs := 0
	var dispose func()
	rt.Root(func(d func()) {
		dispose = d
		rt.Effect(func() {
			runs++
			a.Get()
		})
	})
	dispose()
	dispose()
	a.Set(1)
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestScopeDisposedWithParent(t *testing.T) {
	rt := NewRuntime()
	var order []string
	var disposeRoot func()
	rt.Root(func(d func()) {
		disposeRoot = d
		rt.OnCleanup(func() { order = append(order, "root") })
		rt.Scope(func(func()) {
			rt.OnCleanup(func() { order = append(order, "child") })
		})
	})
	disposeRoot()
	if diff := cmp.Diff([]string{"child", "root"}, order); diff != "" {
		t.Errorf("cleanup order mismatch (-want +got):\n%s", diff)
	}
}

func TestScopeDisposedIndependently(t *testing.T) {
	rt := NewRuntime()
	cleaned := 0
	var disposeChild func()
	var root *Owner
	rt.Root(func(func()) {
		root = rt.Owner()
		rt.Scope(func(d func()) {
			disposeChild = d
			rt.OnCleanup(func() { cleaned++ })
		})
	})
	disposeChild()
	if cleaned != 1 {
		t.Errorf("cleaned = %d, want 1", cleaned)
	}
	if len(root.children) != 0 {
		t.Errorf("root still has %d children after child dispose", len(root.children))
	}
	root.Dispose()
	if cleaned != 1 {
		t.Errorf("cleaned = %d after root dispose, want 1", cleaned)
	}
}

func TestEffectCleanupRunsBeforeRerun(t *testing.T) {
	rt := NewRuntime()
	a := NewSignal(rt, 0)
	var log []string
	rt.Root(func(func()) {
		rt.Effect(func() {
			v := a.Get()
			log = append(log, "run")
			rt.OnCleanup(func() {
				log = append(log, "cleanup")
				_ = v
			})
		})
	})
	a.Set(1)
	if diff := cmp.Diff([]string{"run", "cleanup", "run"}, log); diff != "" {
		t.Errorf("log mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedEffectDisposedOnRerun(t *testing.T) {
	rt := NewRuntime()
	outer := NewSignal(rt, 0)
	inner := NewSignal(rt, 0)
	innerRuns := 0
	rt.Root(func(func()) {
		rt.Effect(func() {
			outer.Get()
			rt.Effect(func() {
				innerRuns++
				inner.Get()
			})
		})
	})
	outer.Set(1) // recreates the inner effect
	inner.Set(1) // only the live inner effect runs
	if innerRuns != 3 {
		t.Errorf("innerRuns = %d, want 3", innerRuns)
	}
}

func TestWriteInsideEffectIsDeferred(t *testing.T) {
	rt := NewRuntime()
	src := NewSignal(rt, 1)
	derived := NewSignal(rt, 0)
	var seen []int
	rt.Root(func(func()) {
		rt.Effect(func() {
			derived.Set(src.Get() * 10)
		})
		rt.Effect(func() {
			seen = append(seen, derived.Get())
		})
	})
	src.Set(2)
	if diff := cmp.Diff([]int{10, 20}, seen); diff != "" {
		t.Errorf("seen mismatch (-want +got):\n%s", diff)
	}
}

func TestRunWithOwner(t *testing.T) {
	rt := NewRuntime()
	var captured *Owner
	cleaned := false
	var dispose func()
	rt.Root(func(d func()) {
		dispose = d
		captured = rt.Owner()
	})
	rt.RunWithOwner(captured, func() {
		rt.OnCleanup(func() { cleaned = true })
	})
	dispose()
	if !cleaned {
		t.Error("cleanup registered through RunWithOwner did not run")
	}
}

func TestOnCleanupOutsideOwnerPanics(t *testing.T) {
	rt := NewRuntime()
	defer func() {
		if _, ok := recover().(*errors.StructuralError); !ok {
			t.Error("expected *errors.StructuralError panic")
		}
	}()
	rt.OnCleanup(func() {})
}

func TestEffectUnderDisposedOwnerNeverRuns(t *testing.T) {
	rt := NewRuntime()
	var owner *Owner
	rt.Root(func(d func()) {
		owner = rt.Owner()
		d()
	})
	ran := false
	rt.RunWithOwner(owner, func() {
		c := rt.Effect(func() { ran = true })
		if !c.Disposed() {
			t.Error("computation under a disposed owner should be disposed")
		}
	})
	if ran {
		t.Error("effect under disposed owner ran")
	}
}

func TestSignalFuncNilEqualAlwaysNotifies(t *testing.T) {
	rt := NewRuntime()
	s := NewSignalFunc[[]int](rt, nil, nil)
	runs := 0
	rt.Root(func(func()) {
		rt.Effect(func() {
			runs++
			s.Get()
		})
	})
	s.Set(nil)
	s.Update(func(v []int) []int { return append(v, 1) })
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
}

func TestRunawayFlushPanics(t *testing.T) {
	rt := NewRuntime()
	a := NewSignal(rt, 0)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for self-feeding computation")
		}
	}()
	rt.Root(func(func()) {
		rt.Effect(func() {
			a.Set(a.Get() + 1)
		})
	})
}

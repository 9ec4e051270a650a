package testing

import (
	"testing"
	"time"

	"github.com/go-drift/sceneloop/pkg/animation"
	"github.com/go-drift/sceneloop/pkg/frameclock"
	"github.com/go-drift/sceneloop/pkg/reactive"
	"github.com/go-drift/sceneloop/pkg/scheduler"
)

func TestFakeClock_Advance(t *testing.T) {
	clk := NewFakeClock()
	start := clk.Now()

	clk.Advance(100 * time.Millisecond)
	elapsed := clk.Now().Sub(start)

	if elapsed != 100*time.Millisecond {
		t.Errorf("expected 100ms elapsed, got %v", elapsed)
	}
}

func TestFakeClock_Step(t *testing.T) {
	clk := NewFakeClock()
	clk.SetStep(5 * time.Millisecond)
	first := clk.Now()
	second := clk.Now()
	if second.Sub(first) != 5*time.Millisecond {
		t.Errorf("expected 5ms between reads, got %v", second.Sub(first))
	}

	clk.SetStep(0)
	if !clk.Now().Equal(clk.Now()) {
		t.Error("expected a stopped clock after SetStep(0)")
	}
}

func TestTester_InstallsAnimationClock(t *testing.T) {
	prev := animation.Now()
	tester := NewTester()
	tester.Clock().Advance(time.Hour)
	if got := animation.Now(); !got.Equal(tester.Clock().Now()) {
		t.Errorf("animation.Now() = %v, want the fake clock", got)
	}

	tester.Cleanup()
	if animation.Now().Before(prev) {
		t.Error("animation clock not restored after Cleanup")
	}
}

func TestTester_BudgetUsesFakeClock(t *testing.T) {
	tester := NewTesterWithT(t, WithBudget(10*time.Millisecond))
	trigger := reactive.NewSignal(tester.Runtime(), 0)
	derived := reactive.NewSignal(tester.Runtime(), 0)
	var got []int

	tester.Run(func() {
		scheduler.SynchronizedEffect(tester.Scheduler(), trigger.Get, func(v int, _ frameclock.Snapshot) {
			tester.Clock().Advance(20 * time.Millisecond)
			derived.Set(v)
		})
		scheduler.SynchronizedEffect(tester.Scheduler(), derived.Get, func(v int, _ frameclock.Snapshot) {
			got = append(got, v)
		})
	})
	tester.Pump()
	trigger.Set(1)
	tester.Pump()
	if len(got) != 1 {
		t.Fatalf("cascade ran within an exhausted budget: %v", got)
	}
	tester.Pump()
	if len(got) != 2 || got[1] != 1 {
		t.Errorf("deferred effect results = %v, want [0 1]", got)
	}
}

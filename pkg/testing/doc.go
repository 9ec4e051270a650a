// Package testing provides a deterministic harness for scenes driven by the
// frame loop.
//
// # Quick Start
//
// Create a tester, build a scene under its root, and pump frames:
//
//	func TestFade(t *testing.T) {
//	    tester := scenetest.NewTesterWithT(t)
//	    sprite := tester.Tree().NewLeaf(native.KindSprite)
//	    tester.Root().AddChild(sprite)
//
//	    tester.Go(coroutine.Tween(func(blend coroutine.Blend) {
//	        sprite.SetProp("alpha", blend(1, 0), nil)
//	    }, animation.EaseOut, 300))
//
//	    if err := tester.PumpAndSettle(time.Second); err != nil {
//	        t.Fatal(err)
//	    }
//	    if got, _ := tester.Object(sprite).Prop("alpha"); got != 0.0 {
//	        t.Errorf("alpha = %v, want 0", got)
//	    }
//	}
//
// # Snapshot Testing
//
// Capture the native graph and compare it with a golden file:
//
//	tester.CaptureSnapshot().MatchesFile(t, "testdata/fade.snapshot.yaml")
//
// Update golden files with:
//
//	SCENELOOP_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Time
//
// Frames advance the manual frame clock by a fixed step (16ms unless set
// with WithFrameMS). The scheduler's budget is metered against a
// [FakeClock], so cascades never overrun unless a test moves that clock.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import scenetest "github.com/go-drift/sceneloop/pkg/testing"
package testing

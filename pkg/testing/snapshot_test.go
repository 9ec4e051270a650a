package testing

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-drift/sceneloop/pkg/native"
)

func TestCaptureSnapshot_Structure(t *testing.T) {
	tester := NewTesterWithT(t)
	box, layer, _, _ := buildScene(tester)

	snap := tester.CaptureSnapshot()
	if snap.Stage.Kind != "stage" {
		t.Errorf("expected stage root, got %q", snap.Stage.Kind)
	}
	// box plus the forwarded hud container
	if len(snap.Stage.Children) != 2 {
		t.Fatalf("expected 2 stage children, got %d", len(snap.Stage.Children))
	}
	if snap.Stage.Children[0].ID != tester.Object(box).ID() {
		t.Error("expected the box first")
	}
	if len(snap.Layers) != 1 || len(snap.Layers[0].Objects) != 1 {
		t.Fatalf("expected one layer holding the hud, got %+v", snap.Layers)
	}
	if layer.Handle() == nil {
		t.Error("expected a layer handle")
	}
}

func TestSnapshot_Diff(t *testing.T) {
	tester := NewTesterWithT(t)
	leaf := tester.Tree().NewLeaf(native.KindGraphics)
	tester.Root().AddChild(leaf)

	a := tester.CaptureSnapshot()
	b := tester.CaptureSnapshot()
	if diff := a.Diff(b); diff != "" {
		t.Errorf("expected no diff for identical snapshots, got:\n%s", diff)
	}

	leaf.SetProp("tint", "red", nil)
	c := tester.CaptureSnapshot()
	diff := c.Diff(a)
	if !strings.Contains(diff, "tint") {
		t.Errorf("expected diff to mention the new property, got:\n%s", diff)
	}
}

func TestSnapshot_MatchesFile(t *testing.T) {
	tester := NewTesterWithT(t)
	text := tester.Tree().NewText()
	text.AddChild(tester.Tree().NewRawText("hello"))
	tester.Root().AddChild(text)

	path := filepath.Join(t.TempDir(), "golden", "hello.snapshot.yaml")
	snap := tester.CaptureSnapshot()
	if err := snap.UpdateFile(path); err != nil {
		t.Fatal(err)
	}
	snap.MatchesFile(t, path)

	text.AddChild(tester.Tree().NewRawText(", world"))
	rec := &recordingT{name: t.Name()}
	tester.CaptureSnapshot().MatchesFile(rec, path)
	if len(rec.errors) != 1 || !strings.Contains(rec.errors[0], "snapshot mismatch") {
		t.Errorf("expected one mismatch report, got %v", rec.errors)
	}
}

func TestSnapshot_MissingFile(t *testing.T) {
	tester := NewTesterWithT(t)
	rec := &recordingT{name: t.Name()}
	tester.CaptureSnapshot().MatchesFile(rec, filepath.Join(t.TempDir(), "none.yaml"))
	if len(rec.fatals) != 1 || !strings.Contains(rec.fatals[0], UpdateEnv) {
		t.Errorf("expected a fatal with update instructions, got %v", rec.fatals)
	}
}

// recordingT captures failures instead of failing the test.
type recordingT struct {
	name   string
	errors []string
	fatals []string
}

func (r *recordingT) Helper()      {}
func (r *recordingT) Name() string { return r.name }
func (r *recordingT) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}
func (r *recordingT) Fatalf(format string, args ...any) {
	r.fatals = append(r.fatals, fmt.Sprintf(format, args...))
}

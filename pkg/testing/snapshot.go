package testing

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/sceneloop/pkg/native/memory"
)

// UpdateEnv names the environment variable that makes MatchesFile rewrite
// golden files instead of comparing against them.
const UpdateEnv = "SCENELOOP_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the native graph under the stage and the contents of
// every layer.
type Snapshot struct {
	Stage  memory.Snapshot `yaml:"stage"`
	Layers []LayerSnapshot `yaml:"layers,omitempty"`
}

// LayerSnapshot lists the object ids attached to one layer, in order.
type LayerSnapshot struct {
	ID      int   `yaml:"id"`
	Objects []int `yaml:"objects,flow"`
}

// CaptureSnapshot captures the current native graph.
func (t *Tester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{Stage: t.Stage().Snapshot()}
	for _, l := range t.renderer.Layers() {
		ls := LayerSnapshot{ID: l.ID(), Objects: []int{}}
		for _, o := range l.Objects() {
			ls.Objects = append(ls.Objects, o.ID())
		}
		snap.Layers = append(snap.Layers, ls)
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When UpdateEnv is set to 1
// the file is rewritten instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to path, creating directories as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a readable diff from other (expected) to s (actual), or ""
// if both encode identically.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := yaml.Marshal(s)
	b, _ := yaml.Marshal(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return cmp.Diff(string(b), string(a))
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot YAML: %w", err)
	}
	return &snap, nil
}

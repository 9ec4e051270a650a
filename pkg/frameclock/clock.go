// Package frameclock provides the per-frame time source that drives the
// scheduler.
//
// Every tick publishes an immutable [Snapshot]. Two sources are provided:
// [Ticker], which fires on a real timer at a target frame rate, and
// [Manual], which fires only when advanced explicitly and is meant for
// deterministic tests and offline rendering.
package frameclock

// DefaultTargetFPS is the frame rate at which DeltaTime equals 1.
const DefaultTargetFPS = 60

// fpsWindow is the number of frame intervals averaged into Snapshot.FPS.
const fpsWindow = 10

// Snapshot describes one tick. It is never mutated after publication.
type Snapshot struct {
	// Frame is the 1-based tick counter of the clock that produced it.
	Frame uint64
	// DeltaTime is ElapsedMS normalized to the target frame rate;
	// 1.0 means the tick took exactly one target frame.
	DeltaTime float64
	// ElapsedMS is the wall-clock time since the previous tick.
	ElapsedMS float64
	// FPS is a rolling estimate over the last few ticks.
	FPS float64
}

// Clock is a tick source. The handler is invoked once per tick; a clock
// never invokes it concurrently with itself.
type Clock interface {
	// Start begins publishing ticks. Starting a running clock is a no-op.
	Start()
	// Stop halts tick publication. Stopping a stopped clock is a no-op.
	Stop()
	// Running reports whether the clock is publishing ticks.
	Running() bool
	// SetHandler installs the per-tick callback, replacing any previous one.
	SetHandler(fn func(Snapshot))
}

// meter turns raw elapsed times into snapshots.
type meter struct {
	targetFPS float64
	frame     uint64
	samples   [fpsWindow]float64
	index     int
	count     int
	sum       float64
}

func newMeter(targetFPS float64) meter {
	if targetFPS <= 0 {
		targetFPS = DefaultTargetFPS
	}
	return meter{targetFPS: targetFPS}
}

func (m *meter) next(elapsedMS float64) Snapshot {
	if elapsedMS < 0 {
		elapsedMS = 0
	}
	m.frame++

	if m.count == fpsWindow {
		m.sum -= m.samples[m.index]
	} else {
		m.count++
	}
	m.samples[m.index] = elapsedMS
	m.sum += elapsedMS
	m.index = (m.index + 1) % fpsWindow

	fps := 0.0
	if mean := m.sum / float64(m.count); mean > 0 {
		fps = 1000 / mean
	}

	return Snapshot{
		Frame:     m.frame,
		DeltaTime: elapsedMS * m.targetFPS / 1000,
		ElapsedMS: elapsedMS,
		FPS:       fps,
	}
}

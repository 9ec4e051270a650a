package frameclock

// Manual is a deterministic clock. Ticks are published synchronously by
// Advance, on the caller's goroutine, with exactly the elapsed time given.
type Manual struct {
	meter   meter
	handler func(Snapshot)
	running bool
}

// NewManual creates a stopped manual clock. A targetFPS of zero or less
// selects DefaultTargetFPS.
func NewManual(targetFPS float64) *Manual {
	return &Manual{meter: newMeter(targetFPS)}
}

// Start enables Advance.
func (m *Manual) Start() { m.running = true }

// Stop disables Advance.
func (m *Manual) Stop() { m.running = false }

// Running reports whether Advance publishes ticks.
func (m *Manual) Running() bool { return m.running }

// SetHandler installs the per-tick callback.
func (m *Manual) SetHandler(fn func(Snapshot)) { m.handler = fn }

// Advance publishes one tick that took ms milliseconds. It returns false
// and does nothing while the clock is stopped.
func (m *Manual) Advance(ms float64) bool {
	if !m.running {
		return false
	}
	snap := m.meter.next(ms)
	if m.handler != nil {
		m.handler(snap)
	}
	return true
}

// AdvanceFrames publishes n ticks of ms milliseconds each.
func (m *Manual) AdvanceFrames(n int, ms float64) {
	for range n {
		if !m.Advance(ms) {
			return
		}
	}
}

// Frame returns the number of ticks published so far.
func (m *Manual) Frame() uint64 { return m.meter.frame }

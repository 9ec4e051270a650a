// Package animation provides easing curves, tweens and the wall-clock
// abstraction shared by the scheduler and coroutine runtime.
package animation

import "time"

// Clock provides wall-clock time. The default implementation uses the
// system clock; tests inject a fake through SetClock or through component
// options.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time { return time.Now() }

var clock Clock = SystemClock{}

// SetClock replaces the package clock and returns the previous one so
// callers can restore it during cleanup.
func SetClock(c Clock) Clock {
	prev := clock
	if c == nil {
		c = SystemClock{}
	}
	clock = c
	return prev
}

// Now returns the current time from the package clock.
func Now() time.Time { return clock.Now() }

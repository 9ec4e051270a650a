package frameclock

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/sceneloop/pkg/errors"
)

// Ticker is a real-time clock driven by a time.Ticker.
//
// Ticks run on a dedicated goroutine, one at a time; the handler and every
// function queued with Dispatch execute there, so the scheduler and the
// signal graph stay single-threaded. A panic escaping a tick is reported to
// the errors handler and stops the ticker; it is not retried.
type Ticker struct {
	interval time.Duration
	logger   *zap.Logger

	mu            sync.Mutex
	handler       func(Snapshot)
	running       bool
	stop          chan struct{}
	done          chan struct{}
	dispatchQueue []func()

	// meter is owned by the loop goroutine.
	meter meter
}

// TickerOption configures a Ticker.
type TickerOption func(*Ticker)

// WithTickerLogger sets the logger used for lifecycle events.
func WithTickerLogger(logger *zap.Logger) TickerOption {
	return func(t *Ticker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTicker creates a stopped ticker firing targetFPS times per second.
// A targetFPS of zero or less selects DefaultTargetFPS.
func NewTicker(targetFPS float64, opts ...TickerOption) *Ticker {
	if targetFPS <= 0 {
		targetFPS = DefaultTargetFPS
	}
	t := &Ticker{
		interval: time.Duration(float64(time.Second) / targetFPS),
		logger:   zap.NewNop(),
		meter:    newMeter(targetFPS),
		done:     closedChan(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Interval returns the nominal time between ticks.
func (t *Ticker) Interval() time.Duration { return t.interval }

// SetHandler installs the per-tick callback.
func (t *Ticker) SetHandler(fn func(Snapshot)) {
	t.mu.Lock()
	t.handler = fn
	t.mu.Unlock()
}

// Running reports whether the tick loop is active.
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Start launches the tick loop. After a Stop, including one made from a
// tick, the new loop does not tick until the previous loop has exited.
func (t *Ticker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	prev := t.done
	t.running = true
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	t.logger.Debug("ticker started", zap.Duration("interval", t.interval))
	go t.loop(prev, t.stop, t.done)
}

// Stop asks the tick loop to exit after the current tick. It does not
// wait; use Done to observe the exit. Stop may be called from a tick.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.running = false
	close(t.stop)
	t.stop = nil
	t.logger.Debug("ticker stopped")
}

// Done returns a channel closed when the most recently started loop has
// exited.
func (t *Ticker) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// Dispatch queues fn to run on the tick goroutine at the start of the next
// tick. It is safe to call from any goroutine.
func (t *Ticker) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	t.dispatchQueue = append(t.dispatchQueue, fn)
	t.mu.Unlock()
}

// loop runs ticks until stop closes. It first waits for the previous
// loop, identified by prev, to exit so handler calls never overlap across
// a Stop and Start.
func (t *Ticker) loop(prev <-chan struct{}, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	select {
	case <-prev:
	case <-stop:
		<-prev
		return
	}

	defer errors.RecoverWithCallback("frameclock.Ticker.loop", func(r any) {
		t.logger.Error("tick panicked; ticker stopped", zap.String("panic", fmt.Sprint(r)))
		errors.Report(&errors.LoopError{
			Op:    "frameclock.Ticker.loop",
			Kind:  errors.KindClock,
			Err:   fmt.Errorf("ticker stopped after a panicking tick: %v", r),
			Frame: t.meter.frame,
		})
		t.abandon(stop)
	})

	timer := time.NewTicker(t.interval)
	defer timer.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-timer.C:
			select {
			case <-stop:
				return
			default:
			}
			elapsed := now.Sub(last)
			last = now
			t.tick(float64(elapsed) / float64(time.Millisecond))
		}
	}
}

func (t *Ticker) tick(elapsedMS float64) {
	t.mu.Lock()
	callbacks := t.dispatchQueue
	t.dispatchQueue = nil
	handler := t.handler
	t.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
	snap := t.meter.next(elapsedMS)
	if handler != nil {
		handler(snap)
	}
}

// abandon marks the loop identified by stop as no longer running.
func (t *Ticker) abandon(stop <-chan struct{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil && (<-chan struct{})(t.stop) == stop {
		t.running = false
		t.stop = nil
	}
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

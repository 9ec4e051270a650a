package scheduler

import (
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/sceneloop/pkg/animation"
	"github.com/go-drift/sceneloop/pkg/errors"
	"github.com/go-drift/sceneloop/pkg/frameclock"
	"github.com/go-drift/sceneloop/pkg/metrics"
	"github.com/go-drift/sceneloop/pkg/reactive"
)

// DefaultBudget bounds the wall-clock time a tick may spend draining
// cascaded effects.
const DefaultBudget = 8 * time.Millisecond

// Scheduler runs frame-synchronized effects. It is single-threaded: Tick,
// registrations and disposals must all happen on the goroutine that drives
// the frame clock.
type Scheduler struct {
	rt      *reactive.Runtime
	clock   frameclock.Clock
	budget  time.Duration
	now     func() time.Time
	logger  *zap.Logger
	metrics *metrics.Metrics

	frame    *reactive.Signal[uint64]
	snapshot frameclock.Snapshot
	pending  []*entry
	nextID   uint64
	draining bool
}

// entry is one registration. It is pending while queued is set.
type entry struct {
	id       uint64
	owner    *reactive.Owner
	run      func(frameclock.Snapshot)
	queued   bool
	disposed bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithBudget sets the per-tick cascade budget. Values of zero or less keep
// DefaultBudget.
func WithBudget(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.budget = d
		}
	}
}

// WithClock sets the wall clock used to meter the budget.
func WithClock(c animation.Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.now = c.Now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// New creates a scheduler that drains on clock ticks once started.
func New(rt *reactive.Runtime, clock frameclock.Clock, opts ...Option) *Scheduler {
	s := &Scheduler{
		rt:     rt,
		clock:  clock,
		budget: DefaultBudget,
		now:    animation.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.frame = reactive.NewSignal(rt, uint64(0))
	return s
}

// Runtime returns the signal graph the scheduler tracks queries in.
func (s *Scheduler) Runtime() *reactive.Runtime { return s.rt }

// Clock returns the tick source.
func (s *Scheduler) Clock() frameclock.Clock { return s.clock }

// Metrics returns the metrics sink, which may be nil.
func (s *Scheduler) Metrics() *metrics.Metrics { return s.metrics }

// Logger returns the scheduler's logger.
func (s *Scheduler) Logger() *zap.Logger { return s.logger }

// Budget returns the per-tick cascade budget.
func (s *Scheduler) Budget() time.Duration { return s.budget }

// Start installs the scheduler as the clock handler and starts the clock.
func (s *Scheduler) Start() {
	s.clock.SetHandler(s.Tick)
	s.clock.Start()
}

// Stop stops the clock. Pending registrations are kept.
func (s *Scheduler) Stop() {
	s.clock.Stop()
}

// Snapshot returns the snapshot of the tick being (or last) processed.
func (s *Scheduler) Snapshot() frameclock.Snapshot { return s.snapshot }

// Frame returns the number of ticks processed. Reading it inside a query
// makes the query re-evaluate every tick.
func (s *Scheduler) Frame() uint64 { return s.frame.Get() }

// Pending returns the number of registrations waiting for a tick.
func (s *Scheduler) Pending() int { return len(s.pending) }

func (s *Scheduler) newEntry(owner *reactive.Owner) *entry {
	s.nextID++
	return &entry{id: s.nextID, owner: owner}
}

func (s *Scheduler) enqueue(e *entry) {
	if e.disposed || e.queued {
		return
	}
	e.queued = true
	s.pending = append(s.pending, e)
}

func (s *Scheduler) cancel(e *entry) {
	if e.disposed {
		return
	}
	e.disposed = true
	if e.queued {
		e.queued = false
		if i := slices.Index(s.pending, e); i >= 0 {
			s.pending = slices.Delete(s.pending, i, i+1)
		}
	}
}

// Tick drains pending registrations for one frame. It is installed as the
// clock handler by Start and may be called directly by custom loops.
// A panic raised by an effect propagates to the caller; registrations that
// had not run yet stay pending.
func (s *Scheduler) Tick(snap frameclock.Snapshot) {
	if s.draining {
		errors.Structural("scheduler.Tick", "", "tick re-entered while draining")
	}
	s.draining = true
	s.snapshot = snap

	var (
		start    = s.now()
		fired    = make(map[uint64]struct{})
		carried  []*entry
		batch    []*entry
		next     int
		ran      int
		rounds   int
		overrun  bool
		finished bool
	)
	defer func() {
		// Whatever did not run stays pending, ahead of newer registrations.
		rest := make([]*entry, 0, len(carried)+len(batch)-next+len(s.pending))
		for _, group := range [][]*entry{carried, batch[next:], s.pending} {
			for _, e := range group {
				if !e.disposed && e.queued {
					rest = append(rest, e)
				}
			}
		}
		s.pending = rest
		s.draining = false

		if !finished {
			return
		}
		drain := s.now().Sub(start)
		if overrun {
			s.logger.Debug("cascade exceeded tick budget",
				zap.Uint64("frame", s.frame.Peek()),
				zap.Duration("budget", s.budget),
				zap.Duration("drain", drain),
				zap.Int("deferred", len(rest)))
		}
		s.metrics.ObserveTick(drain, ran, len(rest), rounds, overrun)
	}()

	// Advancing the frame counter re-queues every per-frame query.
	s.frame.Set(s.frame.Peek() + 1)

drain:
	for len(s.pending) > 0 {
		if rounds > 0 && s.now().Sub(start) > s.budget {
			overrun = true
			break
		}
		batch, next = s.pending, 0
		s.pending = nil
		rounds++
		for i, e := range batch {
			next = i
			if e.disposed || !e.queued {
				continue
			}
			if _, ok := fired[e.id]; ok {
				carried = append(carried, e)
				continue
			}
			if rounds > 1 && s.now().Sub(start) > s.budget {
				overrun = true
				break drain
			}
			next = i + 1
			e.queued = false
			fired[e.id] = struct{}{}
			ran++
			s.run(e, snap)
		}
		next = len(batch)
	}
	finished = true
}

func (s *Scheduler) run(e *entry, snap frameclock.Snapshot) {
	s.rt.RunWithOwner(e.owner, func() {
		s.rt.Batch(func() {
			e.run(snap)
		})
	})
}

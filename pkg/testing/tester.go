package testing

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/go-drift/sceneloop/pkg/animation"
	"github.com/go-drift/sceneloop/pkg/coroutine"
	"github.com/go-drift/sceneloop/pkg/frameclock"
	"github.com/go-drift/sceneloop/pkg/metrics"
	"github.com/go-drift/sceneloop/pkg/native/memory"
	"github.com/go-drift/sceneloop/pkg/reactive"
	"github.com/go-drift/sceneloop/pkg/scene"
	"github.com/go-drift/sceneloop/pkg/scheduler"
)

// DefaultFrameMS is the frame time used by Pump.
const DefaultFrameMS = 16

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: loop did not settle")

// Tester wires a reactive runtime, a manual frame clock, a scheduler and a
// memory renderer behind one application root.
type Tester struct {
	rt        *reactive.Runtime
	owner     *reactive.Owner
	dispose   func()
	frames    *frameclock.Manual
	wall      *FakeClock
	prevClock animation.Clock
	sched     *scheduler.Scheduler
	renderer  *memory.Renderer
	tree      *scene.Tree
	root      *scene.Node
	frameMS   float64

	coroutines []*coroutine.Coroutine
}

type options struct {
	frameMS   float64
	targetFPS float64
	budget    time.Duration
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// Option configures a Tester.
type Option func(*options)

// WithFrameMS sets the frame time used by Pump.
func WithFrameMS(ms float64) Option {
	return func(o *options) { o.frameMS = ms }
}

// WithTargetFPS sets the frame rate used to normalize DeltaTime.
func WithTargetFPS(fps float64) Option {
	return func(o *options) { o.targetFPS = fps }
}

// WithBudget sets the scheduler's cascade budget.
func WithBudget(d time.Duration) Option {
	return func(o *options) { o.budget = d }
}

// WithLogger sets the scheduler's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics sets the scheduler's metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// NewTester creates a tester. Call Cleanup when done, or use
// NewTesterWithT instead.
func NewTester(opts ...Option) *Tester {
	o := options{frameMS: DefaultFrameMS, targetFPS: frameclock.DefaultTargetFPS}
	for _, opt := range opts {
		opt(&o)
	}
	if o.frameMS <= 0 {
		o.frameMS = DefaultFrameMS
	}

	t := &Tester{
		rt:       reactive.NewRuntime(),
		frames:   frameclock.NewManual(o.targetFPS),
		wall:     NewFakeClock(),
		renderer: memory.NewRenderer(),
		frameMS:  o.frameMS,
	}
	t.prevClock = animation.SetClock(t.wall)
	t.sched = scheduler.New(t.rt, t.frames,
		scheduler.WithClock(t.wall),
		scheduler.WithBudget(o.budget),
		scheduler.WithLogger(o.logger),
		scheduler.WithMetrics(o.metrics))
	t.tree = scene.NewTree(t.renderer, nil)
	t.root = t.tree.NewApplication()
	t.rt.Root(func(dispose func()) {
		t.owner = t.rt.Owner()
		t.dispose = dispose
	})
	t.sched.Start()
	return t
}

// NewTesterWithT creates a tester that logs through t and cleans up via
// t.Cleanup. This is the recommended constructor for tests.
func NewTesterWithT(tb testing.TB, opts ...Option) *Tester {
	opts = append([]Option{WithLogger(zaptest.NewLogger(tb))}, opts...)
	tester := NewTester(opts...)
	tb.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup disposes everything created through Run and Go, stops the frame
// clock and restores the animation clock.
func (t *Tester) Cleanup() {
	t.dispose()
	t.sched.Stop()
	animation.SetClock(t.prevClock)
}

// Runtime returns the reactive runtime.
func (t *Tester) Runtime() *reactive.Runtime { return t.rt }

// Scheduler returns the scheduler.
func (t *Tester) Scheduler() *scheduler.Scheduler { return t.sched }

// Clock returns the fake wall clock that meters the tick budget.
func (t *Tester) Clock() *FakeClock { return t.wall }

// FrameClock returns the manual frame clock.
func (t *Tester) FrameClock() *frameclock.Manual { return t.frames }

// Renderer returns the memory renderer.
func (t *Tester) Renderer() *memory.Renderer { return t.renderer }

// Tree returns the scene tree used to create nodes.
func (t *Tester) Tree() *scene.Tree { return t.tree }

// Root returns the application node.
func (t *Tester) Root() *scene.Node { return t.root }

// Stage returns the native stage under the application node.
func (t *Tester) Stage() *memory.Object { return t.Object(t.root) }

// Object returns the memory object behind n, or nil if n has none.
func (t *Tester) Object(n *scene.Node) *memory.Object {
	obj, _ := n.Native().(*memory.Object)
	return obj
}

// Run calls fn under the tester's reactive scope, so effects and
// registrations made there are disposed by Cleanup.
func (t *Tester) Run(fn func()) {
	t.rt.RunWithOwner(t.owner, fn)
}

// Go starts a coroutine under the tester's scope. PumpAndSettle waits for
// it to end.
func (t *Tester) Go(factory coroutine.Factory) *coroutine.Coroutine {
	var co *coroutine.Coroutine
	t.Run(func() {
		co = coroutine.Start(t.sched, factory)
	})
	t.coroutines = append(t.coroutines, co)
	return co
}

// Pump publishes one frame of the default frame time.
func (t *Tester) Pump() {
	t.frames.Advance(t.frameMS)
}

// PumpFrames publishes n frames of the default frame time.
func (t *Tester) PumpFrames(n int) {
	t.frames.AdvanceFrames(n, t.frameMS)
}

// PumpMS publishes one frame that took ms milliseconds.
func (t *Tester) PumpMS(ms float64) {
	t.frames.Advance(ms)
}

// PumpAndSettle pumps frames until no scheduled work is pending and every
// coroutine started with Go has ended. It returns ErrSettleTimeout if that
// takes more than timeout of frame time.
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	limit := float64(timeout) / float64(time.Millisecond)
	for elapsed := 0.0; elapsed < limit; elapsed += t.frameMS {
		t.Pump()
		if !t.needsWork() {
			return nil
		}
	}
	return ErrSettleTimeout
}

func (t *Tester) needsWork() bool {
	if t.sched.Pending() > 0 {
		return true
	}
	for _, co := range t.coroutines {
		if !co.Stopped() {
			return true
		}
	}
	return false
}

// Find evaluates a finder against the scene below the application node.
func (t *Tester) Find(finder Finder) FinderResult {
	return FinderResult{
		nodes:  finder.Evaluate(t.root),
		finder: finder,
	}
}

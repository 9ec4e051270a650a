package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	looperrors "github.com/go-drift/sceneloop/pkg/errors"
	"github.com/go-drift/sceneloop/pkg/frameclock"
	"github.com/go-drift/sceneloop/pkg/metrics"
	"github.com/go-drift/sceneloop/pkg/native/memory"
	"github.com/go-drift/sceneloop/pkg/reactive"
	"github.com/go-drift/sceneloop/pkg/scene"
	"github.com/go-drift/sceneloop/pkg/scheduler"
)

// errTickerStopped is returned when the real-time loop exits before the
// demo could capture its result, typically after a tick panicked.
var errTickerStopped = errors.New("ticker stopped before the demo finished")

type demoOptions struct {
	ticks       int
	frameMS     float64
	sprites     int
	realtime    bool
	duration    time.Duration
	metricsAddr string
}

func newDemoCommand(root *rootOptions) *cobra.Command {
	opts := &demoOptions{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the demo scene and print its native graph",
		Long: `Builds a demo scene, animates it with coroutines and prints the
resulting native graph as YAML.

By default the scene is driven by a manual clock for a fixed number of
ticks, which makes the output deterministic. With --realtime it runs on
a real frame ticker at the configured frame rate for --duration.`,
		Example: `  sceneloop demo --ticks 60
  sceneloop demo --realtime --duration 2s --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, root, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.ticks, "ticks", "n", 60, "ticks to advance the manual clock")
	cmd.Flags().Float64Var(&opts.frameMS, "frame-ms", 1000.0/frameclock.DefaultTargetFPS, "frame time of each manual tick")
	cmd.Flags().IntVar(&opts.sprites, "sprites", 3, "number of animated sprites")
	cmd.Flags().BoolVar(&opts.realtime, "realtime", false, "drive the scene from a real-time ticker")
	cmd.Flags().DurationVar(&opts.duration, "duration", time.Second, "how long to run with --realtime")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (enables metrics)")

	return cmd
}

func runDemo(cmd *cobra.Command, root *rootOptions, opts *demoOptions) error {
	switch {
	case opts.ticks < 0:
		return fmt.Errorf("--ticks must not be negative (got %d)", opts.ticks)
	case opts.frameMS <= 0:
		return fmt.Errorf("--frame-ms must be positive (got %g)", opts.frameMS)
	case opts.sprites < 0:
		return fmt.Errorf("--sprites must not be negative (got %d)", opts.sprites)
	case opts.realtime && opts.duration <= 0:
		return fmt.Errorf("--duration must be positive (got %s)", opts.duration)
	}

	cfg := root.cfg
	logger := root.logger.Named("demo")

	mcfg, addr := cfg.Metrics, cfg.MetricsAddr
	if opts.metricsAddr != "" {
		mcfg.Enabled = true
		addr = opts.metricsAddr
	}
	m := metrics.New(mcfg)

	var (
		clock  frameclock.Clock
		manual *frameclock.Manual
		ticker *frameclock.Ticker
	)
	if opts.realtime {
		ticker = frameclock.NewTicker(cfg.TargetFPS, frameclock.WithTickerLogger(logger))
		clock = ticker
	} else {
		manual = frameclock.NewManual(cfg.TargetFPS)
		clock = manual
	}

	s := scheduler.New(reactive.NewRuntime(), clock,
		scheduler.WithBudget(cfg.Budget),
		scheduler.WithLogger(logger),
		scheduler.WithMetrics(m))
	demo := buildDemoScene(s, scene.NewTree(memory.NewRenderer(), nil), cfg.AppName, opts.sprites)

	var (
		out []byte
		err error
	)
	if opts.realtime {
		if mcfg.Enabled {
			stop, err := serveMetrics(addr, m, logger)
			if err != nil {
				return err
			}
			defer stop()
		}
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		out, err = runRealtime(ctx, s, ticker, demo, opts.duration)
	} else {
		s.Start()
		manual.AdvanceFrames(opts.ticks, opts.frameMS)
		s.Stop()
		out, err = demo.finish()
	}
	if err != nil {
		return err
	}

	logger.Info("demo finished",
		zap.Uint64("frames", s.Snapshot().Frame),
		zap.Float64("fps", s.Snapshot().FPS),
		zap.Int("pending", s.Pending()))
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// runRealtime lets the ticker drive the scene until duration elapses or
// ctx is cancelled. The result is captured on the tick goroutine.
func runRealtime(ctx context.Context, s *scheduler.Scheduler, ticker *frameclock.Ticker, demo *demoScene, duration time.Duration) ([]byte, error) {
	var (
		out      []byte
		err      error
		finished = make(chan struct{})
	)

	s.Start()
	done := ticker.Done()

	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	case <-done:
		return nil, errTickerStopped
	}

	ticker.Dispatch(func() {
		out, err = demo.finish()
		close(finished)
		s.Stop()
	})
	<-done

	select {
	case <-finished:
		return out, err
	default:
		return nil, errTickerStopped
	}
}

// serveMetrics exposes m on addr until the returned stop function is
// called.
func serveMetrics(addr string, m *metrics.Metrics, logger *zap.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			looperrors.Report(&looperrors.LoopError{Op: "demo.serveMetrics", Kind: looperrors.KindMetrics, Err: err})
		}
	}()
	logger.Info("serving metrics", zap.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

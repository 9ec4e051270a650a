// Package metrics exposes Prometheus collectors for the frame loop.
//
// A nil *Metrics, or one built with Enabled=false, accepts every call and
// records nothing, so components can take a *Metrics unconditionally.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config controls metric registration.
type Config struct {
	Enabled   bool
	Namespace string
	// DrainBuckets overrides the drain duration histogram buckets (seconds).
	DrainBuckets []float64
}

// Metrics holds the frame loop collectors on a private registry.
type Metrics struct {
	ticks            prometheus.Counter
	effectsRun       prometheus.Counter
	effectsDeferred  prometheus.Counter
	budgetOverruns   prometheus.Counter
	drainDuration    prometheus.Histogram
	cascadeRounds    prometheus.Histogram
	coroutinesActive prometheus.Gauge
	coroutinesEnded  *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates the collectors described by cfg.
func New(cfg Config) *Metrics {
	if !cfg.Enabled {
		return &Metrics{}
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = "sceneloop"
	}
	buckets := cfg.DrainBuckets
	if len(buckets) == 0 {
		buckets = prometheus.ExponentialBuckets(0.0001, 2, 12)
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "scheduler",
			Name:      "ticks_total",
			Help:      "Total number of frame clock ticks processed",
		}),
		effectsRun: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "scheduler",
			Name:      "effects_run_total",
			Help:      "Total number of scheduled effects executed",
		}),
		effectsDeferred: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "scheduler",
			Name:      "effects_deferred_total",
			Help:      "Total number of cascaded effects deferred to a later tick",
		}),
		budgetOverruns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "scheduler",
			Name:      "budget_overruns_total",
			Help:      "Ticks whose cascade exceeded the drain budget",
		}),
		drainDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "scheduler",
			Name:      "drain_duration_seconds",
			Help:      "Wall-clock time spent draining effects per tick",
			Buckets:   buckets,
		}),
		cascadeRounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: "scheduler",
			Name:      "cascade_rounds",
			Help:      "Number of cascade rounds drained per tick",
			Buckets:   prometheus.LinearBuckets(0, 1, 8),
		}),
		coroutinesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: "coroutine",
			Name:      "active",
			Help:      "Number of running coroutines",
		}),
		coroutinesEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: "coroutine",
			Name:      "ended_total",
			Help:      "Coroutines that ended, by reason",
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		m.ticks,
		m.effectsRun,
		m.effectsDeferred,
		m.budgetOverruns,
		m.drainDuration,
		m.cascadeRounds,
		m.coroutinesActive,
		m.coroutinesEnded,
	)
	return m
}

func (m *Metrics) enabled() bool {
	return m != nil && m.registry != nil
}

// Registry returns the private registry, or nil when disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	if !m.enabled() {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format. When
// disabled it responds 404.
func (m *Metrics) Handler() http.Handler {
	if !m.enabled() {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveTick records one drained tick.
func (m *Metrics) ObserveTick(drain time.Duration, ran, deferred, rounds int, overrun bool) {
	if !m.enabled() {
		return
	}
	m.ticks.Inc()
	m.effectsRun.Add(float64(ran))
	m.effectsDeferred.Add(float64(deferred))
	m.drainDuration.Observe(drain.Seconds())
	m.cascadeRounds.Observe(float64(rounds))
	if overrun {
		m.budgetOverruns.Inc()
	}
}

// CoroutineStarted increments the active coroutine gauge.
func (m *Metrics) CoroutineStarted() {
	if !m.enabled() {
		return
	}
	m.coroutinesActive.Inc()
}

// CoroutineEnded decrements the active gauge and counts the end reason
// ("completed", "stopped" or "disposed").
func (m *Metrics) CoroutineEnded(reason string) {
	if !m.enabled() {
		return
	}
	m.coroutinesActive.Dec()
	m.coroutinesEnded.WithLabelValues(reason).Inc()
}

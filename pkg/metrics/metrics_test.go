package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

// gathered returns the value of the named metric, summing label variants.
func gathered(t *testing.T, m *Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		total := 0.0
		for _, metric := range mf.GetMetric() {
			total += metricValue(metric)
		}
		return total
	}
	t.Fatalf("metric %q not gathered", name)
	return 0
}

func metricValue(m *dto.Metric) float64 {
	switch {
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue()
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue()
	case m.GetHistogram() != nil:
		return float64(m.GetHistogram().GetSampleCount())
	}
	return 0
}

func TestDisabledMetricsAreNoops(t *testing.T) {
	var nilMetrics *Metrics
	for _, m := range []*Metrics{nilMetrics, New(Config{})} {
		m.ObserveTick(time.Millisecond, 1, 1, 1, true)
		m.CoroutineStarted()
		m.CoroutineEnded("completed")
		if m.Registry() != nil {
			t.Error("disabled metrics should have no registry")
		}
		rec := httptest.NewRecorder()
		m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("disabled handler status = %d, want 404", rec.Code)
		}
	}
}

func TestObserveTick(t *testing.T) {
	m := New(Config{Enabled: true, Namespace: "test"})
	m.ObserveTick(2*time.Millisecond, 3, 2, 2, true)
	m.ObserveTick(time.Millisecond, 1, 0, 1, false)

	if got := gathered(t, m, "test_scheduler_ticks_total"); got != 2 {
		t.Errorf("ticks = %v, want 2", got)
	}
	if got := gathered(t, m, "test_scheduler_effects_run_total"); got != 4 {
		t.Errorf("effectsRun = %v, want 4", got)
	}
	if got := gathered(t, m, "test_scheduler_effects_deferred_total"); got != 2 {
		t.Errorf("effectsDeferred = %v, want 2", got)
	}
	if got := gathered(t, m, "test_scheduler_budget_overruns_total"); got != 1 {
		t.Errorf("budgetOverruns = %v, want 1", got)
	}
}

func TestCoroutineGauge(t *testing.T) {
	m := New(Config{Enabled: true})
	m.CoroutineStarted()
	m.CoroutineStarted()
	m.CoroutineEnded("stopped")

	if got := gathered(t, m, "sceneloop_coroutine_active"); got != 1 {
		t.Errorf("active = %v, want 1", got)
	}
	if got := gathered(t, m, "sceneloop_coroutine_ended_total"); got != 1 {
		t.Errorf("ended{stopped} = %v, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New(Config{Enabled: true})
	m.ObserveTick(time.Millisecond, 1, 0, 1, false)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sceneloop_scheduler_ticks_total 1") {
		t.Errorf("exposition missing ticks counter:\n%s", rec.Body.String())
	}
}

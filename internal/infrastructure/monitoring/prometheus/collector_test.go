package prometheus

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moleculab/chemalyzer/internal/infrastructure/monitoring/logging"
)

func newTestCollector(t *testing.T) MetricsCollector {
	t.Helper()
	c, err := NewCollector(CollectorConfig{
		Namespace: "test",
		Subsystem: "unit",
	}, logging.NewNopLogger())
	require.NoError(t, err)
	return c
}

func scrapeMetrics(t *testing.T, collector MetricsCollector) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestNewCollector_RequiresNamespace(t *testing.T) {
	_, err := NewCollector(CollectorConfig{Subsystem: "unit"}, nil)
	assert.Error(t, err)
}

func TestNewCollector_ProcessMetrics(t *testing.T) {
	c, err := NewCollector(CollectorConfig{
		Namespace:            "test",
		EnableProcessMetrics: true,
	}, nil)
	require.NoError(t, err)

	assert.Contains(t, scrapeMetrics(t, c), "process_cpu_seconds_total")
}

func TestRegisterCounter(t *testing.T) {
	c := newTestCollector(t)

	counter := c.RegisterCounter("requests_total", "Total requests", "method")
	counter.WithLabelValues("GET").Add(5)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_requests_total{method="GET"} 5`)
}

func TestRegisterCounter_DuplicateSharesState(t *testing.T) {
	c := newTestCollector(t)

	first := c.RegisterCounter("dup_total", "help")
	second := c.RegisterCounter("dup_total", "help")
	first.WithLabelValues().Inc()
	second.WithLabelValues().Inc()

	assert.Contains(t, scrapeMetrics(t, c), "test_unit_dup_total 2")
}

func TestRegisterGauge(t *testing.T) {
	c := newTestCollector(t)

	gauge := c.RegisterGauge("active_jobs", "Active jobs")
	gauge.WithLabelValues().Set(10)
	gauge.WithLabelValues().Dec()

	assert.Contains(t, scrapeMetrics(t, c), "test_unit_active_jobs 9")
}

func TestRegisterHistogram_DefaultBuckets(t *testing.T) {
	c := newTestCollector(t)

	hist := c.RegisterHistogram("latency_seconds", "Latency", nil)
	hist.WithLabelValues().Observe(0.1)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, "test_unit_latency_seconds_bucket")
	assert.Contains(t, out, "test_unit_latency_seconds_count 1")
}

func TestRegisterTypeConflictFallsBackToNoop(t *testing.T) {
	c := newTestCollector(t)
	c.RegisterCounter("conflict", "help").WithLabelValues().Inc()

	// Same name as a gauge must not panic and must leave the counter.
	gauge := c.RegisterGauge("conflict", "help")
	gauge.WithLabelValues().Set(10)

	assert.Contains(t, scrapeMetrics(t, c), "# TYPE test_unit_conflict counter")
}

func TestConcurrentRegistration(t *testing.T) {
	c := newTestCollector(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RegisterCounter("concurrent_total", "help", "id").WithLabelValues("1").Inc()
		}()
	}
	wg.Wait()

	assert.Contains(t, scrapeMetrics(t, c), `test_unit_concurrent_total{id="1"} 50`)
}

func TestTimer_ObservesDuration(t *testing.T) {
	c := newTestCollector(t)
	hist := c.RegisterHistogram("timed_seconds", "Timed", nil)

	timer := NewTimer(hist.WithLabelValues())
	time.Sleep(10 * time.Millisecond)
	timer.ObserveDuration()

	assert.Contains(t, scrapeMetrics(t, c), "test_unit_timed_seconds_count 1")
}

func TestNopCollector_ServesNothing(t *testing.T) {
	c := NewNopCollector()
	c.RegisterCounter("anything", "help").WithLabelValues().Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package prometheus

import (
	"strconv"
	"time"
)

// EngineMetrics holds every instrument the engine records.
type EngineMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Analysis pipeline
	AnalysesTotal    CounterVec
	AnalysisDuration HistogramVec
	AnalysesInFlight GaugeVec

	// Query resolution
	ResolutionsTotal CounterVec

	// Result cache
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec

	// Conformer generation
	ConformerJobsTotal CounterVec
	ConformerDuration  HistogramVec
	ConformerActive    GaugeVec

	// Errors by component and code
	ErrorsTotal CounterVec
}

var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

	// Analyses complete in milliseconds unless the conformer runs.
	DefaultAnalysisDurationBuckets = []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

	// Conformer work scales with atom count and iteration budget.
	DefaultConformerDurationBuckets = []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
)

// NewEngineMetrics registers every engine instrument on the collector.
func NewEngineMetrics(collector MetricsCollector) *EngineMetrics {
	m := &EngineMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total",
		"Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds",
		"HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests",
		"HTTP requests currently being served", "method", "path")

	m.AnalysesTotal = collector.RegisterCounter("analyses_total",
		"Completed analyses", "outcome")
	m.AnalysisDuration = collector.RegisterHistogram("analysis_duration_seconds",
		"Full analysis duration", DefaultAnalysisDurationBuckets, "cached")
	m.AnalysesInFlight = collector.RegisterGauge("analyses_in_flight",
		"Analyses currently executing")

	m.ResolutionsTotal = collector.RegisterCounter("resolutions_total",
		"Query resolutions", "method")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total",
		"Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total",
		"Cache misses", "cache")

	m.ConformerJobsTotal = collector.RegisterCounter("conformer_jobs_total",
		"Conformer generation jobs", "outcome")
	m.ConformerDuration = collector.RegisterHistogram("conformer_duration_seconds",
		"Conformer generation duration", DefaultConformerDurationBuckets)
	m.ConformerActive = collector.RegisterGauge("conformer_active_jobs",
		"Conformer jobs currently embedding")

	m.ErrorsTotal = collector.RegisterCounter("errors_total",
		"Errors by component and code", "component", "code")

	return m
}

// NewNopEngineMetrics returns instruments that discard everything.
func NewNopEngineMetrics() *EngineMetrics {
	return NewEngineMetrics(NewNopCollector())
}

// ─────────────────────────────────────────────────────────────────────────────
// Recording helpers
// ─────────────────────────────────────────────────────────────────────────────

// RecordHTTPRequest observes one served request.
func (m *EngineMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordAnalysis observes one finished analysis.  The outcome label is
// "ok", "partial" for records missing the 3D block, or "error".
func (m *EngineMetrics) RecordAnalysis(outcome string, cached bool, duration time.Duration) {
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.WithLabelValues(strconv.FormatBool(cached)).Observe(duration.Seconds())
}

// RecordResolution counts a successful query resolution by method.
func (m *EngineMetrics) RecordResolution(method string) {
	m.ResolutionsTotal.WithLabelValues(method).Inc()
}

// RecordCacheAccess counts one cache lookup.
func (m *EngineMetrics) RecordCacheAccess(cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// RecordConformer observes one conformer job.  The outcome label is
// "ok", "timeout", or "failed".
func (m *EngineMetrics) RecordConformer(outcome string, duration time.Duration) {
	m.ConformerJobsTotal.WithLabelValues(outcome).Inc()
	m.ConformerDuration.WithLabelValues().Observe(duration.Seconds())
}

// RecordError counts one classified error.
func (m *EngineMetrics) RecordError(component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}

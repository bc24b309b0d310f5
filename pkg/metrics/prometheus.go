// Package metrics provides Prometheus metrics for the rivals scheduler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Scheduler
	catchUpRuns          prometheus.Counter
	catchUpDaysSimulated prometheus.Counter
	competitorPoints     prometheus.Counter
	rollovers            *prometheus.CounterVec
	tickLatency          prometheus.Histogram
	clockAccelerated     prometheus.Gauge

	// User progress
	promptRotations   prometheus.Counter
	submissions       *prometheus.CounterVec
	weeklyTransitions *prometheus.CounterVec
	userPoints        prometheus.Gauge

	// Storage
	storageOps     *prometheus.CounterVec
	storageLatency *prometheus.HistogramVec
	malformedBlobs *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rivals",
		subsystem:        "scheduler",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	m.catchUpRuns = m.counter("catchup_runs_total", "Catch-up passes that walked at least one day")
	m.catchUpDaysSimulated = m.counter("catchup_days_simulated_total", "Competitor-days rolled by catch-up")
	m.competitorPoints = m.counter("competitor_points_awarded_total", "Points granted to competitors by catch-up")
	m.rollovers = m.counterVec("rollovers_total", "Detected day and week rollovers", "kind")
	m.tickLatency = m.histogram("tick_latency_milliseconds", "Duration of one scheduler tick in milliseconds")
	m.clockAccelerated = m.gauge("clock_accelerated", "1 when the virtual clock runs accelerated")

	m.promptRotations = m.counter("prompt_rotations_total", "Fresh daily prompt sets drawn")
	m.submissions = m.counterVec("submissions_total", "Submissions recorded by source", "source")
	m.weeklyTransitions = m.counterVec("weekly_task_transitions_total", "Weekly task state transitions", "transition")
	m.userPoints = m.gauge("user_points", "Current running total of the user's points")

	m.storageOps = m.counterVec("storage_operations_total", "Key-value store operations", "op", "result")
	m.storageLatency = m.histogramVec("storage_latency_milliseconds", "Key-value store latency in milliseconds", "op")
	m.malformedBlobs = m.counterVec("storage_malformed_total", "Persisted blobs that failed to decode", "key")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds",
		"endpoint", "method", "status_code")

	m.errorsByComponent = m.counterVec("errors_total", "Errors by component and type", "component", "error_type")
}

// RecordCatchUp records one catch-up pass.
func RecordCatchUp(days, points int) {
	globalManager.catchUpRuns.Inc()
	globalManager.catchUpDaysSimulated.Add(float64(days))
	globalManager.competitorPoints.Add(float64(points))
}

// RecordRollover increments the rollover counter for kind ("day" or "week").
func RecordRollover(kind string) {
	globalManager.rollovers.WithLabelValues(kind).Inc()
}

// RecordTickLatency records the duration of one scheduler tick.
func RecordTickLatency(latencyMs float64) {
	globalManager.tickLatency.Observe(latencyMs)
}

// UpdateClockAccelerated sets the acceleration gauge.
func UpdateClockAccelerated(enabled bool) {
	v := 0.0
	if enabled {
		v = 1
	}
	globalManager.clockAccelerated.Set(v)
}

// RecordPromptRotation increments the prompt rotation counter.
func RecordPromptRotation() {
	globalManager.promptRotations.Inc()
}

// RecordSubmission increments submissions for source ("prompt" or "weekly").
func RecordSubmission(source string) {
	globalManager.submissions.WithLabelValues(source).Inc()
}

// RecordWeeklyTransition increments a weekly task transition (created, completed, deleted).
func RecordWeeklyTransition(transition string) {
	globalManager.weeklyTransitions.WithLabelValues(transition).Inc()
}

// UpdateUserPoints sets the user's running total.
func UpdateUserPoints(points int) {
	globalManager.userPoints.Set(float64(points))
}

// RecordStorageOp records a store operation and its latency.
func RecordStorageOp(op, result string, latencyMs float64) {
	globalManager.storageOps.WithLabelValues(op, result).Inc()
	globalManager.storageLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordMalformedBlob increments the malformed blob counter for key.
func RecordMalformedBlob(key string) {
	globalManager.malformedBlobs.WithLabelValues(key).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

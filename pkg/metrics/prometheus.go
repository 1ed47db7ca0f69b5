// Package metrics provides Prometheus metrics for the radial chart service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the radial service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Render metrics - the engine's core work
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	sectorsBuilt   prometheus.Counter
	framesServed   prometheus.Counter

	// Playback metrics
	activeClocks prometheus.Gauge

	// Catalog metrics
	catalogSubjects prometheus.Gauge

	// Export pipeline metrics
	exportEnqueued  prometheus.Counter
	exportCompleted prometheus.Counter
	exportErrors    prometheus.Counter
	exportDuration  prometheus.Histogram
	exportQueueSize prometheus.Gauge
	exportWorkers   prometheus.Gauge

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "radial",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.renders = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "renders_total",
			Help:      "Total number of chart renders by chart kind",
		},
		[]string{"kind"},
	)

	m.renderDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "render_duration_milliseconds",
			Help:      "Histogram of render duration in milliseconds by chart kind",
			Buckets:   m.histogramBuckets,
		},
		[]string{"kind"},
	)

	m.sectorsBuilt = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sectors_built_total",
		Help:      "Total number of polygon sectors derived across all frames",
	})

	m.framesServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_served_total",
		Help:      "Total number of playback frame geometries served",
	})

	m.activeClocks = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_clocks",
		Help:      "Number of live playback clocks (each must be disposed on teardown)",
	})

	m.catalogSubjects = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_subjects",
		Help:      "Number of subjects in the loaded dataset",
	})

	m.exportEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "export_enqueued_total",
		Help:      "Total number of export jobs enqueued",
	})

	m.exportCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "export_completed_total",
		Help:      "Total number of export jobs completed",
	})

	m.exportErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "export_errors_total",
		Help:      "Total number of export jobs that failed",
	})

	m.exportDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "export_duration_milliseconds",
		Help:      "Histogram of export job duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.exportQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "export_queue_size",
		Help:      "Current size of the export job queue",
	})

	m.exportWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "export_workers",
		Help:      "Current number of export render workers",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "Histogram of HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total errors by type and severity",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total errors by endpoint and method",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "error_latency_milliseconds",
			Help:      "Histogram of latency for requests that ended in an error",
			Buckets:   m.histogramBuckets,
		},
		[]string{"component", "error_type"},
	)
}

// RecordRender increments the render counter for a chart kind.
func RecordRender(kind string) {
	globalManager.renders.WithLabelValues(kind).Inc()
}

// RecordRenderDuration records render duration in milliseconds.
func RecordRenderDuration(kind string, durationMs float64) {
	globalManager.renderDuration.WithLabelValues(kind).Observe(durationMs)
}

// RecordSectorsBuilt adds to the sectors-built counter.
func RecordSectorsBuilt(n int) {
	globalManager.sectorsBuilt.Add(float64(n))
}

// RecordFrameServed increments the frames-served counter.
func RecordFrameServed() {
	globalManager.framesServed.Inc()
}

// UpdateActiveClocks sets the live playback clock gauge.
func UpdateActiveClocks(count int) {
	globalManager.activeClocks.Set(float64(count))
}

// UpdateCatalogSubjects sets the catalog subject gauge.
func UpdateCatalogSubjects(count int) {
	globalManager.catalogSubjects.Set(float64(count))
}

// RecordExportEnqueued increments the export enqueued counter.
func RecordExportEnqueued() {
	globalManager.exportEnqueued.Inc()
}

// RecordExportCompleted increments the export completed counter.
func RecordExportCompleted() {
	globalManager.exportCompleted.Inc()
}

// RecordExportError increments the export error counter.
func RecordExportError() {
	globalManager.exportErrors.Inc()
}

// RecordExportDuration records one export job's duration in milliseconds.
func RecordExportDuration(durationMs float64) {
	globalManager.exportDuration.Observe(durationMs)
}

// UpdateExportQueueSize sets the export queue size gauge.
func UpdateExportQueueSize(size int) {
	globalManager.exportQueueSize.Set(float64(size))
}

// UpdateExportWorkers sets the export worker gauge.
func UpdateExportWorkers(count int) {
	globalManager.exportWorkers.Set(float64(count))
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByType records an error occurrence by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error occurrence by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records latency for a request that ended in error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// GetRegistry returns the custom registry served at /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package metrics provides Prometheus metrics for the Emopulse API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultNamespace = "emopulse"
	defaultSubsystem = "api"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge

	// Analysis
	analysesGenerated  *prometheus.CounterVec
	validationFailures *prometheus.CounterVec
	internalErrors     *prometheus.CounterVec
	routesRegistered   prometheus.Gauge

	// Usage pipeline
	usageQueueSize     prometheus.Gauge
	usageQueueCapacity prometheus.Gauge
	usageEnqueued      prometheus.Counter
	usageDropped       *prometheus.CounterVec
	usageRecorded      prometheus.Counter
	usageDuplicates    prometheus.Counter
	usageWorkers       prometheus.Gauge
	usageRoutesTracked prometheus.Gauge
	usageRecordLatency prometheus.Histogram

	// Demo proxy
	proxyRequests *prometheus.CounterVec

	// Errors
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	uptimeSeconds        prometheus.Gauge
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level helpers

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out of /metrics

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.customLabels}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets, ConstLabels: m.customLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"})
	m.httpInFlight = auto.NewGauge(m.gaugeOpts("http_requests_in_flight", "Requests currently being served"))

	m.analysesGenerated = auto.NewCounterVec(m.counterOpts("analyses_generated_total", "Placeholder analyses generated per route"),
		[]string{"route", "family"})
	m.validationFailures = auto.NewCounterVec(m.counterOpts("validation_failures_total", "Requests rejected for missing required fields"),
		[]string{"route"})
	m.internalErrors = auto.NewCounterVec(m.counterOpts("internal_errors_total", "Requests that ended in an internal error"),
		[]string{"route"})
	m.routesRegistered = auto.NewGauge(m.gaugeOpts("routes_registered", "Number of analysis routes in the registry"))

	m.usageQueueSize = auto.NewGauge(m.gaugeOpts("usage_queue_size", "Current number of usage records waiting in the queue"))
	m.usageQueueCapacity = auto.NewGauge(m.gaugeOpts("usage_queue_capacity", "Capacity of the usage queue"))
	m.usageEnqueued = auto.NewCounter(m.counterOpts("usage_enqueued_total", "Usage records accepted by the queue"))
	m.usageDropped = auto.NewCounterVec(m.counterOpts("usage_dropped_total", "Usage records dropped before processing"),
		[]string{"reason"})
	m.usageRecorded = auto.NewCounter(m.counterOpts("usage_recorded_total", "Usage records written to the usage store"))
	m.usageDuplicates = auto.NewCounter(m.counterOpts("usage_duplicates_total", "Usage records skipped because the request id was already seen"))
	m.usageWorkers = auto.NewGauge(m.gaugeOpts("usage_workers", "Number of usage workers running"))
	m.usageRoutesTracked = auto.NewGauge(m.gaugeOpts("usage_routes_tracked", "Number of routes with at least one recorded request"))
	m.usageRecordLatency = auto.NewHistogram(m.histogramOpts("usage_record_latency_milliseconds", "Time spent writing one usage record"))

	m.proxyRequests = auto.NewCounterVec(m.counterOpts("demo_proxy_requests_total", "Requests forwarded to the demo service by outcome"),
		[]string{"outcome"})

	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "Errors by endpoint and method"),
		[]string{"endpoint", "method", "error_type"})

	m.uptimeSeconds = auto.NewGauge(m.gaugeOpts("uptime_seconds", "Seconds since the process started"))
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause in milliseconds"))
}

// HTTP

// RecordHTTPRequest counts one served request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes request latency in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// IncHTTPInFlight marks a request as started.
func IncHTTPInFlight() { globalManager.httpInFlight.Inc() }

// DecHTTPInFlight marks a request as finished.
func DecHTTPInFlight() { globalManager.httpInFlight.Dec() }

// Analysis

// RecordAnalysis counts one generated analysis.
func RecordAnalysis(route, family string) {
	if globalManager.enabled {
		globalManager.analysesGenerated.WithLabelValues(route, family).Inc()
	}
}

// RecordValidationFailure counts a request rejected for missing fields.
func RecordValidationFailure(route string) {
	if globalManager.enabled {
		globalManager.validationFailures.WithLabelValues(route).Inc()
	}
}

// RecordInternalError counts a request that failed internally.
func RecordInternalError(route string) {
	if globalManager.enabled {
		globalManager.internalErrors.WithLabelValues(route).Inc()
	}
}

// UpdateRoutesRegistered sets the number of registered routes.
func UpdateRoutesRegistered(count int) { globalManager.routesRegistered.Set(float64(count)) }

// Usage pipeline

// UpdateUsageQueueSize sets the current usage queue length.
func UpdateUsageQueueSize(size int) { globalManager.usageQueueSize.Set(float64(size)) }

// UpdateUsageQueueCapacity sets the usage queue capacity.
func UpdateUsageQueueCapacity(capacity int) { globalManager.usageQueueCapacity.Set(float64(capacity)) }

// RecordUsageEnqueued counts a usage record accepted by the queue.
func RecordUsageEnqueued() { globalManager.usageEnqueued.Inc() }

// RecordUsageDropped counts a usage record dropped for reason.
func RecordUsageDropped(reason string) { globalManager.usageDropped.WithLabelValues(reason).Inc() }

// RecordUsageRecorded counts a usage record written to the store.
func RecordUsageRecorded() { globalManager.usageRecorded.Inc() }

// RecordUsageDuplicate counts a usage record skipped as a duplicate.
func RecordUsageDuplicate() { globalManager.usageDuplicates.Inc() }

// UpdateUsageWorkers sets the number of usage workers.
func UpdateUsageWorkers(count int) { globalManager.usageWorkers.Set(float64(count)) }

// UpdateUsageRoutesTracked sets the number of routes with usage.
func UpdateUsageRoutesTracked(count int) { globalManager.usageRoutesTracked.Set(float64(count)) }

// RecordUsageRecordLatency observes the time to write one usage record.
func RecordUsageRecordLatency(latencyMs float64) {
	globalManager.usageRecordLatency.Observe(latencyMs)
}

// Demo proxy

// RecordProxyRequest counts a demo proxy request by outcome.
func RecordProxyRequest(outcome string) { globalManager.proxyRequests.WithLabelValues(outcome).Inc() }

// Errors

// RecordErrorByType counts an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint counts an error by endpoint and method.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System

// UpdateUptime sets the process uptime.
func UpdateUptime(d time.Duration) { globalManager.uptimeSeconds.Set(d.Seconds()) }

// UpdateSystemMemoryUsage sets allocated heap bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) { globalManager.systemGoroutineCount.Set(float64(count)) }

// RecordSystemGCPauseTime observes the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// GetRegistry returns the registry backing /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package metrics provides Prometheus metrics for the geodraw recognition service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// scoreBuckets cover the similarity range with extra resolution around the
// acceptance threshold.
var scoreBuckets = []float64{0, 0.2, 0.4, 0.6, 0.7, 0.75, 0.8, 0.82, 0.85, 0.9, 0.95, 0.98, 1} //nolint:gochecknoglobals // fixed bucket layout

// latencyBuckets are in milliseconds.
var latencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000} //nolint:gochecknoglobals // fixed bucket layout

// Manager owns every Prometheus collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Recognition
	strokesReceived    prometheus.Counter
	strokesDuplicate   prometheus.Counter
	recognitions       *prometheus.CounterVec
	recognitionScore   prometheus.Histogram
	recognitionLatency prometheus.Histogram
	discoveries        *prometheus.CounterVec
	sessionsTotal      prometheus.Gauge
	templatesLoaded    prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Repository
	repositoryShardCount      prometheus.Gauge
	repositoryRecordsPerShard *prometheus.GaugeVec
	repositoryUpdateLatency   prometheus.Histogram
	repositoryQueryLatency    prometheus.Histogram

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrorRate         prometheus.Counter

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "geodraw",
		subsystem:        "service",
		histogramBuckets: latencyBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) initializeMetrics() {
	m.strokesReceived = m.counter("strokes_received_total", "Total number of strokes accepted for recognition")
	m.strokesDuplicate = m.counter("strokes_duplicate_total", "Total number of resubmitted strokes ignored")
	m.recognitions = m.counterVec("recognitions_total", "Recognitions by best shape and outcome", "shape", "outcome")
	m.recognitionScore = m.histogram("recognition_score", "Similarity score of the best template", scoreBuckets)
	m.recognitionLatency = m.histogram("recognition_latency_milliseconds", "Time to classify one stroke", m.histogramBuckets)
	m.discoveries = m.counterVec("discoveries_total", "First-time discoveries by shape", "shape")
	m.sessionsTotal = m.gauge("sessions_total", "Number of game sessions")
	m.templatesLoaded = m.gauge("templates_loaded", "Number of templates in the active store")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method",
		"endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.repositoryShardCount = m.gauge("repository_shard_count", "Total number of repository shards")
	m.repositoryRecordsPerShard = m.gaugeVec("repository_records_per_shard", "Number of sessions per shard", "shard_id")
	m.repositoryUpdateLatency = m.histogram("repository_update_latency_milliseconds", "Repository write latency in milliseconds", m.histogramBuckets)
	m.repositoryQueryLatency = m.histogram("repository_query_latency_milliseconds", "Repository read latency in milliseconds", m.histogramBuckets)

	m.queueSize = m.gauge("queue_size", "Current number of strokes waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue utilization ratio (current size / capacity)")
	m.queueEnqueueRate = m.counter("queue_enqueue_total", "Total number of strokes enqueued")
	m.queueDequeueRate = m.counter("queue_dequeue_total", "Total number of strokes dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of strokes rejected by backpressure")

	m.workerCount = m.gauge("worker_count", "Number of started workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Number of workers processing a stroke")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Worker processing latency in milliseconds", m.histogramBuckets)
	m.workerErrorRate = m.counter("worker_errors_total", "Total number of worker errors")

	m.errorRateByComponent = m.counterVec("errors_by_component_total", "Total number of errors by component", "component", "error_type")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total", "Total number of errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordStrokeReceived counts a stroke accepted by the API.
func RecordStrokeReceived() {
	globalManager.strokesReceived.Inc()
}

// RecordStrokeDuplicate counts a resubmitted stroke.
func RecordStrokeDuplicate() {
	globalManager.strokesDuplicate.Inc()
}

// RecordRecognition records the outcome of one classification. shape is the
// best template, empty when none could be computed.
func RecordRecognition(shape, outcome string, score, latencyMs float64) {
	if shape == "" {
		shape = "none"
	}
	globalManager.recognitions.WithLabelValues(shape, outcome).Inc()
	globalManager.recognitionLatency.Observe(latencyMs)
	if shape != "none" {
		globalManager.recognitionScore.Observe(score)
	}
}

// RecordDiscovery counts a first-time discovery of shape.
func RecordDiscovery(shape string) {
	globalManager.discoveries.WithLabelValues(shape).Inc()
}

// UpdateSessionsTotal sets the number of known sessions.
func UpdateSessionsTotal(count int) {
	globalManager.sessionsTotal.Set(float64(count))
}

// UpdateTemplatesLoaded sets the size of the template store.
func UpdateTemplatesLoaded(count int) {
	globalManager.templatesLoaded.Set(float64(count))
}

// RecordHTTPRequest increments the HTTP requests counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateRepositoryShardCount sets the number of repository shards.
func UpdateRepositoryShardCount(count int) {
	globalManager.repositoryShardCount.Set(float64(count))
}

// UpdateRepositoryRecordsPerShard sets the number of sessions in one shard.
func UpdateRepositoryRecordsPerShard(shardID string, count int) {
	globalManager.repositoryRecordsPerShard.WithLabelValues(shardID).Set(float64(count))
}

// RecordRepositoryUpdateLatency records repository write latency.
func RecordRepositoryUpdateLatency(latencyMs float64) {
	globalManager.repositoryUpdateLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records repository read latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue counts an enqueued stroke.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue counts a dequeued stroke.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError counts a stroke rejected by the queue.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the number of started workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records the time a worker spent on a stroke.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a stroke a worker failed to record.
func RecordWorkerError() {
	globalManager.workerErrorRate.Inc()
}

// RecordErrorByComponent counts an error raised by a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint counts an error response of an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets heap memory in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the registry the global manager exports.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

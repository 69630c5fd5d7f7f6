package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Engine
	quotesComputed  *prometheus.CounterVec
	quoteLatency    prometheus.Histogram
	warnings        *prometheus.CounterVec
	cappedPositions prometheus.Counter
	excessToProfit  prometheus.Counter
	staffingPlans   *prometheus.CounterVec

	// Rule-set store
	rulesWrites *prometheus.CounterVec
	rulesCount  prometheus.Gauge

	// Batch job queue and worker pool
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge
	queueRejected *prometheus.CounterVec
	batchSize     prometheus.Histogram
	workerLatency prometheus.Histogram
	workerActive  prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record* helpers

// customRegistry keeps the default Go runtime collectors out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // shared metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "banquet",
		subsystem:        "quotes",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     buckets,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.quotesComputed = auto.NewCounterVec(
		m.counterOpts("computed_total", "Total number of quotes computed by pricing slot"),
		[]string{"slot"},
	)
	m.quoteLatency = auto.NewHistogram(
		m.histogramOpts("latency_milliseconds", "Engine latency per quote in milliseconds", m.histogramBuckets),
	)
	m.warnings = auto.NewCounterVec(
		m.counterOpts("warnings_total", "Advisory safety warnings emitted by kind"),
		[]string{"kind"},
	)
	m.cappedPositions = auto.NewCounter(
		m.counterOpts("capped_positions_total", "Staff positions whose pay hit the cap"),
	)
	m.excessToProfit = auto.NewCounter(
		m.counterOpts("excess_to_profit_total", "Sum of capped pay returned to gross profit"),
	)
	m.staffingPlans = auto.NewCounterVec(
		m.counterOpts("staffing_plans_total", "Staffing plans by source (profile or fallback)"),
		[]string{"source"},
	)

	m.rulesWrites = auto.NewCounterVec(
		m.counterOpts("rules_writes_total", "Rule-set store writes by operation"),
		[]string{"op"},
	)
	m.rulesCount = auto.NewGauge(
		m.gaugeOpts("rules_count", "Number of rule sets held by the store"),
	)

	m.queueSize = auto.NewGauge(
		m.gaugeOpts("queue_size", "Batch jobs waiting for a worker"),
	)
	m.queueCapacity = auto.NewGauge(
		m.gaugeOpts("queue_capacity", "Maximum number of waiting batch jobs"),
	)
	m.queueRejected = auto.NewCounterVec(
		m.counterOpts("queue_rejected_total", "Batch jobs refused by the queue by reason"),
		[]string{"reason"},
	)
	m.batchSize = auto.NewHistogram(
		m.histogramOpts("batch_size", "Number of events per batch request", []float64{1, 5, 10, 25, 50, 100, 250, 500}),
	)
	m.workerLatency = auto.NewHistogram(
		m.histogramOpts("worker_job_latency_milliseconds", "Worker pool job latency in milliseconds", m.histogramBuckets),
	)
	m.workerActive = auto.NewGauge(
		m.gaugeOpts("worker_active", "Workers currently running a job"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
}

// RecordQuote counts a computed quote and observes its engine latency.
func RecordQuote(slot string, latencyMs float64) {
	globalManager.quotesComputed.WithLabelValues(slot).Inc()
	globalManager.quoteLatency.Observe(latencyMs)
}

// RecordWarning counts one advisory warning.
func RecordWarning(kind string) {
	globalManager.warnings.WithLabelValues(kind).Inc()
}

// RecordCappedPositions adds capped positions and the excess they returned.
func RecordCappedPositions(count int, excess float64) {
	if count <= 0 {
		return
	}
	globalManager.cappedPositions.Add(float64(count))
	if excess > 0 {
		globalManager.excessToProfit.Add(excess)
	}
}

// RecordStaffingPlan counts a staffing plan by its source.
func RecordStaffingPlan(source string) {
	globalManager.staffingPlans.WithLabelValues(source).Inc()
}

// RecordRulesWrite counts a store write (put, delete, load).
func RecordRulesWrite(op string) {
	globalManager.rulesWrites.WithLabelValues(op).Inc()
}

// UpdateRulesCount sets the number of stored rule sets.
func UpdateRulesCount(count int) {
	globalManager.rulesCount.Set(float64(count))
}

// UpdateQueueSize sets the number of waiting jobs.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueRejected counts a job the queue refused.
func RecordQueueRejected(reason string) {
	globalManager.queueRejected.WithLabelValues(reason).Inc()
}

// RecordBatchSize observes the size of a batch request.
func RecordBatchSize(size int) {
	globalManager.batchSize.Observe(float64(size))
}

// RecordWorkerLatency observes one worker job.
func RecordWorkerLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// AddWorkerActive moves the active worker gauge by delta.
func AddWorkerActive(delta int) {
	globalManager.workerActive.Add(float64(delta))
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

// GetRegistry returns the registry backing the global metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Handler serves the global registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

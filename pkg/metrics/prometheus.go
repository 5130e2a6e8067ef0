// Package metrics provides Prometheus metrics for the roommatch service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the roommatch service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	countBuckets     []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Matching metrics
	pairsScored          prometheus.Counter
	matchRequests        prometheus.Counter
	incompleteRejections prometheus.Counter
	rankLatency          prometheus.Histogram
	candidatesPerRequest prometheus.Histogram
	compatibilityChecks  prometheus.Counter

	// Profile metrics
	profilesTotal  prometheus.Gauge
	profileUpserts prometheus.Counter
	profileDeletes prometheus.Counter
	savedMatches   prometheus.Counter
	unmatches      prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Repository metrics
	repositoryRecords       *prometheus.GaugeVec
	repositoryQueryLatency  *prometheus.HistogramVec
	repositoryUpdateLatency *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager. Without WithPrometheusRegistry
// the metrics land on the default registerer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "roommatch",
		subsystem:        "matching",
		histogramBuckets: prometheus.DefBuckets,
		countBuckets:     prometheus.ExponentialBuckets(1, 4, 8),
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
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.pairsScored = auto.NewCounter(m.counterOpts("pairs_scored_total",
		"Total number of profile pairs scored"))
	m.matchRequests = auto.NewCounter(m.counterOpts("match_requests_total",
		"Total number of ranked match requests served"))
	m.incompleteRejections = auto.NewCounter(m.counterOpts("incomplete_profile_rejections_total",
		"Match requests rejected because the requester profile is incomplete"))
	m.rankLatency = auto.NewHistogram(m.histogramOpts("rank_latency_milliseconds",
		"Time to score and order all candidates of one request", m.histogramBuckets))
	m.candidatesPerRequest = auto.NewHistogram(m.histogramOpts("candidates_per_request",
		"Number of candidates ranked per match request", m.countBuckets))
	m.compatibilityChecks = auto.NewCounter(m.counterOpts("compatibility_checks_total",
		"Total number of one-off compatibility checks"))

	m.profilesTotal = auto.NewGauge(m.gaugeOpts("profiles_total",
		"Number of stored profiles"))
	m.profileUpserts = auto.NewCounter(m.counterOpts("profile_upserts_total",
		"Total number of profile writes"))
	m.profileDeletes = auto.NewCounter(m.counterOpts("profile_deletes_total",
		"Total number of profile deletions"))
	m.savedMatches = auto.NewCounter(m.counterOpts("saved_matches_total",
		"Total number of newly saved matches"))
	m.unmatches = auto.NewCounter(m.counterOpts("unmatches_total",
		"Total number of removed saved matches"))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.repositoryRecords = auto.NewGaugeVec(m.gaugeOpts("repository_records",
		"Number of records held by the repository by kind"),
		[]string{"kind"})
	m.repositoryQueryLatency = auto.NewHistogramVec(m.histogramOpts("repository_query_latency_milliseconds",
		"Repository read latency in milliseconds", m.histogramBuckets),
		[]string{"backend", "operation"})
	m.repositoryUpdateLatency = auto.NewHistogramVec(m.histogramOpts("repository_update_latency_milliseconds",
		"Repository write latency in milliseconds", m.histogramBuckets),
		[]string{"backend", "operation"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Errors by component and error type"),
		[]string{"component", "error_type"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Errors by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes",
		"Heap memory in use in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds",
		"Most recent GC pause in milliseconds", m.histogramBuckets))
}

// Matching metrics.

// RecordPairsScored adds n scored pairs.
func RecordPairsScored(n int) {
	globalManager.pairsScored.Add(float64(n))
}

// RecordMatchRequest records one served match request over n candidates.
func RecordMatchRequest(candidates int, latencyMs float64) {
	globalManager.matchRequests.Inc()
	globalManager.candidatesPerRequest.Observe(float64(candidates))
	globalManager.rankLatency.Observe(latencyMs)
}

// RecordIncompleteProfile counts a request rejected for an incomplete profile.
func RecordIncompleteProfile() {
	globalManager.incompleteRejections.Inc()
}

// RecordCompatibilityCheck counts a one-off pair score.
func RecordCompatibilityCheck() {
	globalManager.compatibilityChecks.Inc()
}

// Profile metrics.

// UpdateProfilesTotal sets the number of stored profiles.
func UpdateProfilesTotal(count int) {
	globalManager.profilesTotal.Set(float64(count))
}

// RecordProfileUpsert counts a profile write.
func RecordProfileUpsert() {
	globalManager.profileUpserts.Inc()
}

// RecordProfileDelete counts a profile deletion.
func RecordProfileDelete() {
	globalManager.profileDeletes.Inc()
}

// RecordSavedMatch counts a newly saved match.
func RecordSavedMatch() {
	globalManager.savedMatches.Inc()
}

// RecordUnmatch counts a removed saved match.
func RecordUnmatch() {
	globalManager.unmatches.Inc()
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Repository metrics.

// UpdateRepositoryRecords sets the number of records of a kind.
func UpdateRepositoryRecords(kind string, count int) {
	globalManager.repositoryRecords.WithLabelValues(kind).Set(float64(count))
}

// RecordRepositoryQueryLatency records a read on the given backend.
func RecordRepositoryQueryLatency(backend, operation string, latencyMs float64) {
	globalManager.repositoryQueryLatency.WithLabelValues(backend, operation).Observe(latencyMs)
}

// RecordRepositoryUpdateLatency records a write on the given backend.
func RecordRepositoryUpdateLatency(backend, operation string, latencyMs float64) {
	globalManager.repositoryUpdateLatency.WithLabelValues(backend, operation).Observe(latencyMs)
}

// Error metrics.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System metrics.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

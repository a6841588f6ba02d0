// Package metrics provides Prometheus metrics for the rove
// recommendation engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus instrument for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Ranking pipeline
	recommendationsServed *prometheus.CounterVec // source: fresh|cache
	rankingLatency        prometheus.Histogram
	candidatesFetched     prometheus.Histogram

	// Refresh gate
	refreshDenied    prometheus.Counter
	refreshCommitted prometheus.Counter
	refreshRaceLost  prometheus.Counter

	// Scheduler
	scheduleProposals *prometheus.CounterVec // outcome: scheduled|tight|conflict
	validateChecks    *prometheus.CounterVec // result: ok|conflict

	// Venue provider
	providerErrors *prometheus.CounterVec // kind
	providerFetch  prometheus.Counter

	// Feedback pipeline
	feedbackApplied       *prometheus.CounterVec // action: accepted|declined
	feedbackDuplicate     prometheus.Counter
	feedbackApplyErrors   prometheus.Counter
	feedbackApplyLatency  prometheus.Histogram
	feedbackQueueSize     prometheus.Gauge
	feedbackQueueCapacity prometheus.Gauge
	feedbackEnqueueErrors *prometheus.CounterVec // reason
	feedbackWorkerCount   prometheus.Gauge

	// Rank cache
	rankCacheUsers  prometheus.Gauge
	rankCacheShards prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System performance
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "rove",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.recommendationsServed = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_served_total",
		Help:      "Ranked lists served, by source (fresh or cache).",
	}, []string{"source"})

	m.rankingLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_latency_ms",
		Help:      "End-to-end latency of one ranking invocation in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.candidatesFetched = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidates_fetched",
		Help:      "Venue candidates returned per provider fetch.",
		Buckets:   []float64{0, 5, 10, 25, 50, 100, 250, 500},
	})

	m.refreshDenied = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_denied_total",
		Help:      "Refreshes denied by the cooldown gate.",
	})

	m.refreshCommitted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_committed_total",
		Help:      "Successful refreshes committed to the gate.",
	})

	m.refreshRaceLost = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_race_lost_total",
		Help:      "Refresh commits rejected because a concurrent refresh won.",
	})

	m.scheduleProposals = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "schedule_proposals_total",
		Help:      "Schedule proposals by outcome (scheduled, tight, conflict).",
	}, []string{"outcome"})

	m.validateChecks = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validate_checks_total",
		Help:      "Manual-override validations by result (ok, conflict).",
	}, []string{"result"})

	m.providerErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "provider_errors_total",
		Help:      "Venue provider failures by kind.",
	}, []string{"kind"})

	m.providerFetch = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "provider_fetch_total",
		Help:      "Successful venue provider fetches.",
	})

	m.feedbackApplied = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_applied_total",
		Help:      "Feedback events folded into profiles, by action.",
	}, []string{"action"})

	m.feedbackDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_duplicate_total",
		Help:      "Feedback events suppressed as duplicates.",
	})

	m.feedbackApplyErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_apply_errors_total",
		Help:      "Feedback events that failed to apply.",
	})

	m.feedbackApplyLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_apply_latency_ms",
		Help:      "Latency of applying one feedback event in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.feedbackQueueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_queue_size",
		Help:      "Feedback events currently queued.",
	})

	m.feedbackQueueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_queue_capacity",
		Help:      "Configured feedback queue capacity.",
	})

	m.feedbackEnqueueErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_enqueue_errors_total",
		Help:      "Feedback enqueue failures by reason.",
	}, []string{"reason"})

	m.feedbackWorkerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_worker_count",
		Help:      "Running feedback apply workers.",
	})

	m.rankCacheUsers = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rankcache_users",
		Help:      "Users with a cached last-known ranking.",
	})

	m.rankCacheShards = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rankcache_shards",
		Help:      "Configured rank cache shard count.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	// System Performance Metrics
	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Package-level helpers over the global manager.

// RecordRecommendationServed counts one served ranking.
func RecordRecommendationServed(fromCache bool) {
	source := "fresh"
	if fromCache {
		source = "cache"
	}
	globalManager.recommendationsServed.WithLabelValues(source).Inc()
}

// RecordRankingLatency records one ranking invocation's latency.
func RecordRankingLatency(latencyMs float64) {
	globalManager.rankingLatency.Observe(latencyMs)
}

// RecordProviderFetch counts a successful fetch and its yield.
func RecordProviderFetch(candidates int) {
	globalManager.providerFetch.Inc()
	globalManager.candidatesFetched.Observe(float64(candidates))
}

// RecordProviderError counts a provider failure by kind.
func RecordProviderError(kind string) {
	globalManager.providerErrors.WithLabelValues(kind).Inc()
}

// RecordRefreshDenied counts a gate denial.
func RecordRefreshDenied() {
	globalManager.refreshDenied.Inc()
}

// RecordRefreshCommitted counts a committed refresh.
func RecordRefreshCommitted() {
	globalManager.refreshCommitted.Inc()
}

// RecordRefreshRaceLost counts a lost concurrent-refresh race.
func RecordRefreshRaceLost() {
	globalManager.refreshRaceLost.Inc()
}

// RecordScheduleProposal counts a proposal by outcome.
func RecordScheduleProposal(outcome string) {
	globalManager.scheduleProposals.WithLabelValues(outcome).Inc()
}

// RecordValidateCheck counts a manual-override validation.
func RecordValidateCheck(conflict bool) {
	result := "ok"
	if conflict {
		result = "conflict"
	}
	globalManager.validateChecks.WithLabelValues(result).Inc()
}

// RecordFeedbackApplied counts an applied feedback event.
func RecordFeedbackApplied(accepted bool) {
	action := "declined"
	if accepted {
		action = "accepted"
	}
	globalManager.feedbackApplied.WithLabelValues(action).Inc()
}

// RecordFeedbackDuplicate counts a suppressed duplicate.
func RecordFeedbackDuplicate() {
	globalManager.feedbackDuplicate.Inc()
}

// RecordFeedbackApplyError counts a failed apply.
func RecordFeedbackApplyError() {
	globalManager.feedbackApplyErrors.Inc()
}

// RecordFeedbackApplyLatency records one apply's latency.
func RecordFeedbackApplyLatency(latencyMs float64) {
	globalManager.feedbackApplyLatency.Observe(latencyMs)
}

// UpdateFeedbackQueueSize sets the queued event gauge.
func UpdateFeedbackQueueSize(size int) {
	globalManager.feedbackQueueSize.Set(float64(size))
}

// UpdateFeedbackQueueCapacity sets the configured capacity gauge.
func UpdateFeedbackQueueCapacity(capacity int) {
	globalManager.feedbackQueueCapacity.Set(float64(capacity))
}

// RecordFeedbackEnqueueError counts an enqueue failure by reason.
func RecordFeedbackEnqueueError(reason string) {
	globalManager.feedbackEnqueueErrors.WithLabelValues(reason).Inc()
}

// UpdateFeedbackWorkerCount sets the worker gauge.
func UpdateFeedbackWorkerCount(count int) {
	globalManager.feedbackWorkerCount.Set(float64(count))
}

// UpdateRankCacheUsers sets the cached-user gauge.
func UpdateRankCacheUsers(count int) {
	globalManager.rankCacheUsers.Set(float64(count))
}

// UpdateRankCacheShards sets the shard gauge.
func UpdateRankCacheShards(count int) {
	globalManager.rankCacheShards.Set(float64(count))
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records one HTTP request's duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// System Performance Metrics Functions.

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

// GetRegistry exposes the custom registry for the /healthz handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package metrics provides Prometheus metrics for the anemos wind resource service.
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

// Manager manages all Prometheus metrics for the anemos service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Grid metrics - dataset loading and point sampling
	gridFilesLoaded  prometheus.Gauge
	gridTimeSteps    prometheus.Gauge
	gridLoadDuration prometheus.Histogram
	sampleQueries    prometheus.Counter
	sampleLatency    prometheus.Histogram
	sampleErrors     prometheus.Counter

	// Fit metrics - Weibull fitting outcomes
	weibullFits       prometheus.Counter
	weibullDegenerate prometheus.Counter

	// Energy metrics - AEP computation
	aepComputations prometheus.Counter
	aepLatency      prometheus.Histogram

	// Screening job metrics
	jobsProcessed prometheus.Counter
	jobsDuplicate prometheus.Counter

	// Queue metrics - screening job queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueues      prometheus.Counter
	queueDequeues      prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	queueLatency       prometheus.Histogram

	// Worker metrics - evaluation pool
	workerCount       prometheus.Gauge
	workerLatency     prometheus.Histogram
	workerErrors      prometheus.Counter
	evaluationLatency prometheus.Histogram

	// Ranking store metrics
	rankedSites            prometheus.Gauge
	rankingUpdateLatency   prometheus.Histogram
	rankingQueryLatency    prometheus.Histogram
	rankingSnapshotRebuild prometheus.Histogram
	rankingSnapshots       prometheus.Counter
	rankingSnapshotUnix    prometheus.Gauge

	// Render metrics - plot generation
	plotsRendered *prometheus.CounterVec
	renderLatency prometheus.Histogram

	// Warehouse export metrics
	exportRows   prometheus.Counter
	exportErrors prometheus.Counter

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec
	errorsByType      *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec
	errorLatency      *prometheus.HistogramVec

	// System performance metrics
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

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "anemos",
		subsystem:        "windres",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.gridFilesLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "grid_files_loaded",
		Help:      "Number of grid files merged into the in-memory dataset",
	})

	m.gridTimeSteps = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "grid_time_steps",
		Help:      "Number of time steps on the merged dataset's time axis",
	})

	m.gridLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "grid_load_duration_milliseconds",
		Help:      "Histogram of grid dataset load duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.sampleQueries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sample_queries_total",
		Help:      "Total number of point time series sampled from the grid",
	})

	m.sampleLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sample_latency_milliseconds",
		Help:      "Histogram of point sampling latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.sampleErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sample_errors_total",
		Help:      "Total number of failed sampling requests (out of extent, empty window, unknown height)",
	})

	m.weibullFits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "weibull_fits_total",
		Help:      "Total number of Weibull fits performed",
	})

	m.weibullDegenerate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "weibull_degenerate_fits_total",
		Help:      "Total number of fits that yielded non-finite parameters (empty or zero-mean samples)",
	})

	m.aepComputations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aep_computations_total",
		Help:      "Total number of annual energy production computations",
	})

	m.aepLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aep_latency_milliseconds",
		Help:      "Histogram of AEP computation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.jobsProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "screening_jobs_processed_total",
		Help:      "Total number of screening jobs accepted for evaluation",
	})

	m.jobsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "screening_jobs_duplicate_total",
		Help:      "Total number of duplicate screening jobs rejected by the deduper",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current number of jobs in the screening queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Configured capacity of the screening queue",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization",
		Help:      "Screening queue utilization ratio (0.0 to 1.0)",
	})

	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_total",
		Help:      "Total number of jobs enqueued",
	})

	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeue_total",
		Help:      "Total number of jobs dequeued by workers",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of failed enqueue attempts (full, closed, cancelled)",
	})

	m.queueLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_latency_milliseconds",
		Help:      "Histogram of enqueue operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of evaluation workers in the pool",
	})

	m.workerLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_latency_milliseconds",
		Help:      "Histogram of end-to-end job processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of job processing errors",
	})

	m.evaluationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_latency_milliseconds",
		Help:      "Histogram of per-site AEP evaluation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.rankedSites = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_sites_total",
		Help:      "Number of sites tracked in the ranking store",
	})

	m.rankingUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_update_latency_milliseconds",
		Help:      "Histogram of ranking store update latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.rankingQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_query_latency_milliseconds",
		Help:      "Histogram of ranking store query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.rankingSnapshotRebuild = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_snapshot_rebuild_milliseconds",
		Help:      "Histogram of ranking snapshot rebuild duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.rankingSnapshots = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_snapshot_total",
		Help:      "Total number of ranking snapshots published",
	})

	m.rankingSnapshotUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranking_snapshot_last_unix",
		Help:      "Unix timestamp of the last published ranking snapshot",
	})

	m.plotsRendered = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "plots_rendered_total",
		Help:      "Total number of plots rendered, by kind",
	}, []string{"kind"})

	m.renderLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "render_latency_milliseconds",
		Help:      "Histogram of plot render latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.exportRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "export_rows_total",
		Help:      "Total number of rows exported to the warehouse",
	})

	m.exportErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "export_errors_total",
		Help:      "Total number of warehouse export failures",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Total errors by component and kind",
	}, []string{"component", "kind"})

	m.errorsByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_type_total",
		Help:      "Total errors by type and severity",
	}, []string{"kind", "severity"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "Total errors by endpoint, method and kind",
	}, []string{"endpoint", "method", "kind"})

	m.errorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "error_latency_milliseconds",
		Help:      "Histogram of latency for failed operations in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"source", "kind"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_milliseconds",
		Help:      "Histogram of garbage collector pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// Grid metric methods.

func (m *Manager) UpdateGridFilesLoaded(n int) {
	if !m.enabled {
		return
	}
	m.gridFilesLoaded.Set(float64(n))
}

func (m *Manager) UpdateGridTimeSteps(n int) {
	if !m.enabled {
		return
	}
	m.gridTimeSteps.Set(float64(n))
}

func (m *Manager) RecordGridLoadDuration(ms float64) {
	if !m.enabled {
		return
	}
	m.gridLoadDuration.Observe(ms)
}

func (m *Manager) RecordSampleQuery() {
	if !m.enabled {
		return
	}
	m.sampleQueries.Inc()
}

func (m *Manager) RecordSampleLatency(ms float64) {
	if !m.enabled {
		return
	}
	m.sampleLatency.Observe(ms)
}

func (m *Manager) RecordSampleError() {
	if !m.enabled {
		return
	}
	m.sampleErrors.Inc()
}

// Fit metric methods.

func (m *Manager) RecordWeibullFit() {
	if !m.enabled {
		return
	}
	m.weibullFits.Inc()
}

func (m *Manager) RecordDegenerateFit() {
	if !m.enabled {
		return
	}
	m.weibullDegenerate.Inc()
}

// Energy metric methods.

func (m *Manager) RecordAEPComputation() {
	if !m.enabled {
		return
	}
	m.aepComputations.Inc()
}

func (m *Manager) RecordAEPLatency(ms float64) {
	if !m.enabled {
		return
	}
	m.aepLatency.Observe(ms)
}

// Screening job metric methods.

func (m *Manager) RecordJobProcessed() {
	if !m.enabled {
		return
	}
	m.jobsProcessed.Inc()
}

func (m *Manager) RecordJobDuplicate() {
	if !m.enabled {
		return
	}
	m.jobsDuplicate.Inc()
}

// Queue metric methods.

func (m *Manager) UpdateQueueSize(n int) {
	if !m.enabled {
		return
	}
	m.queueSize.Set(float64(n))
}

func (m *Manager) UpdateQueueCapacity(n int) {
	if !m.enabled {
		return
	}
	m.queueCapacity.Set(float64(n))
}

func (m *Manager) UpdateQueueUtilization(ratio float64) {
	if !m.enabled {
		return
	}
	m.queueUtilization.Set(ratio)
}

func (m *Manager) RecordQueueEnqueue() {
	if !m.enabled {
		return
	}
	m.queueEnqueues.Inc()
}

func (m *Manager) RecordQueueDequeue() {
	if !m.enabled {
		return
	}
	m.queueDequeues.Inc()
}

func (m *Manager) RecordQueueEnqueueError() {
	if !m.enabled {
		return
	}
	m.queueEnqueueErrors.Inc()
}

func (m *Manager) RecordQueueLatency(ms float64) {
	if !m.enabled {
		return
	}
	m.queueLatency.Observe(ms)
}

// Worker metric methods.

func (m *Manager) UpdateWorkerCount(n int) {
	if !m.enabled {
		return
	}
	m.workerCount.Set(float64(n))
}

func (m *Manager) RecordWorkerLatency(ms float64) {
	if !m.enabled {
		return
	}
	m.workerLatency.Observe(ms)
}

func (m *Manager) RecordWorkerError() {
	if !m.enabled {
		return
	}
	m.workerErrors.Inc()
}

func (m *Manager) RecordEvaluationLatency(ms float64) {
	if !m.enabled {
		return
	}
	m.evaluationLatency.Observe(ms)
}

// Ranking metric methods.

func (m *Manager) UpdateRankedSites(n int) {
	if !m.enabled {
		return
	}
	m.rankedSites.Set(float64(n))
}

func (m *Manager) RecordRankingUpdateLatency(ms float64) {
	if !m.enabled {
		return
	}
	m.rankingUpdateLatency.Observe(ms)
}

func (m *Manager) RecordRankingQueryLatency(ms float64) {
	if !m.enabled {
		return
	}
	m.rankingQueryLatency.Observe(ms)
}

func (m *Manager) RecordRankingSnapshotRebuild(ms float64) {
	if !m.enabled {
		return
	}
	m.rankingSnapshotRebuild.Observe(ms)
	m.rankingSnapshots.Inc()
	m.rankingSnapshotUnix.Set(float64(time.Now().Unix()))
}

// Render metric methods.

func (m *Manager) RecordPlotRendered(kind string) {
	if !m.enabled {
		return
	}
	m.plotsRendered.WithLabelValues(kind).Inc()
}

func (m *Manager) RecordRenderLatency(ms float64) {
	if !m.enabled {
		return
	}
	m.renderLatency.Observe(ms)
}

// Export metric methods.

func (m *Manager) RecordExportedRows(n int) {
	if !m.enabled {
		return
	}
	m.exportRows.Add(float64(n))
}

func (m *Manager) RecordExportError() {
	if !m.enabled {
		return
	}
	m.exportErrors.Inc()
}

// HTTP metric methods.

func (m *Manager) RecordHTTPRequest(endpoint, method, status string) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func (m *Manager) RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	if !m.enabled {
		return
	}
	m.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// Error metric methods.

func (m *Manager) RecordErrorByComponent(component, kind string) {
	if !m.enabled {
		return
	}
	m.errorsByComponent.WithLabelValues(component, kind).Inc()
}

func (m *Manager) RecordErrorByType(kind, severity string) {
	if !m.enabled {
		return
	}
	m.errorsByType.WithLabelValues(kind, severity).Inc()
}

func (m *Manager) RecordErrorByEndpoint(endpoint, method, kind string) {
	if !m.enabled {
		return
	}
	m.errorsByEndpoint.WithLabelValues(endpoint, method, kind).Inc()
}

func (m *Manager) RecordErrorLatency(source, kind string, ms float64) {
	if !m.enabled {
		return
	}
	m.errorLatency.WithLabelValues(source, kind).Observe(ms)
}

// System metric methods.

func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(bytes))
}

func (m *Manager) UpdateSystemGoroutineCount(n int) {
	if !m.enabled {
		return
	}
	m.systemGoroutineCount.Set(float64(n))
}

func (m *Manager) RecordSystemGCPauseTime(ms float64) {
	if !m.enabled {
		return
	}
	m.systemGCPauseTime.Observe(ms)
}

// Package-level helpers delegating to the global manager.

func UpdateGridFilesLoaded(n int)        { globalManager.UpdateGridFilesLoaded(n) }
func UpdateGridTimeSteps(n int)          { globalManager.UpdateGridTimeSteps(n) }
func RecordGridLoadDuration(ms float64)  { globalManager.RecordGridLoadDuration(ms) }
func RecordSampleQuery()                 { globalManager.RecordSampleQuery() }
func RecordSampleLatency(ms float64)     { globalManager.RecordSampleLatency(ms) }
func RecordSampleError()                 { globalManager.RecordSampleError() }
func RecordWeibullFit()                  { globalManager.RecordWeibullFit() }
func RecordDegenerateFit()               { globalManager.RecordDegenerateFit() }
func RecordAEPComputation()              { globalManager.RecordAEPComputation() }
func RecordAEPLatency(ms float64)        { globalManager.RecordAEPLatency(ms) }
func RecordJobProcessed()                { globalManager.RecordJobProcessed() }
func RecordJobDuplicate()                { globalManager.RecordJobDuplicate() }
func UpdateQueueSize(n int)              { globalManager.UpdateQueueSize(n) }
func UpdateQueueCapacity(n int)          { globalManager.UpdateQueueCapacity(n) }
func UpdateQueueUtilization(r float64)   { globalManager.UpdateQueueUtilization(r) }
func RecordQueueEnqueue()                { globalManager.RecordQueueEnqueue() }
func RecordQueueDequeue()                { globalManager.RecordQueueDequeue() }
func RecordQueueEnqueueError()           { globalManager.RecordQueueEnqueueError() }
func RecordQueueLatency(ms float64)      { globalManager.RecordQueueLatency(ms) }
func UpdateWorkerCount(n int)            { globalManager.UpdateWorkerCount(n) }
func RecordWorkerLatency(ms float64)     { globalManager.RecordWorkerLatency(ms) }
func RecordWorkerError()                 { globalManager.RecordWorkerError() }
func RecordEvaluationLatency(ms float64) { globalManager.RecordEvaluationLatency(ms) }
func UpdateRankedSites(n int)            { globalManager.UpdateRankedSites(n) }
func RecordRankingUpdateLatency(ms float64) {
	globalManager.RecordRankingUpdateLatency(ms)
}
func RecordRankingQueryLatency(ms float64) {
	globalManager.RecordRankingQueryLatency(ms)
}
func RecordRankingSnapshotRebuild(ms float64) {
	globalManager.RecordRankingSnapshotRebuild(ms)
}
func RecordPlotRendered(kind string) { globalManager.RecordPlotRendered(kind) }
func RecordRenderLatency(ms float64) { globalManager.RecordRenderLatency(ms) }
func RecordExportedRows(n int)       { globalManager.RecordExportedRows(n) }
func RecordExportError()             { globalManager.RecordExportError() }
func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.RecordHTTPRequest(endpoint, method, status)
}
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, status, ms)
}
func RecordErrorByComponent(component, kind string) {
	globalManager.RecordErrorByComponent(component, kind)
}
func RecordErrorByType(kind, severity string) {
	globalManager.RecordErrorByType(kind, severity)
}
func RecordErrorByEndpoint(endpoint, method, kind string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, kind)
}
func RecordErrorLatency(source, kind string, ms float64) {
	globalManager.RecordErrorLatency(source, kind, ms)
}
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }
func UpdateSystemGoroutineCount(n int)     { globalManager.UpdateSystemGoroutineCount(n) }
func RecordSystemGCPauseTime(ms float64)   { globalManager.RecordSystemGCPauseTime(ms) }

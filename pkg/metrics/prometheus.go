// Package metrics provides Prometheus metrics for the lightscan service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector the service exports.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	latencyBuckets   []float64
	registry         *prometheus.Registry

	scansIngested     *prometheus.CounterVec
	ingestRejections  *prometheus.CounterVec
	scanLatency       prometheus.Histogram
	lightsRegistered  prometheus.Gauge
	storeOpDuration   *prometheus.HistogramVec
	httpRequests      *prometheus.CounterVec
	httpRequestMillis *prometheus.HistogramVec
}

var globalManager = NewManager() //nolint:gochecknoglobals // process-wide metrics singleton

// NewManager builds a Manager registered on its own registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "lightscan",
		subsystem:        "service",
		histogramBuckets: []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		latencyBuckets:   []float64{10, 25, 50, 75, 100, 150, 200, 300, 500, 1000, 2500},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.scansIngested = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scans_ingested_total",
		Help:      "Scans stored, by ingestion source and reported outcome",
	}, []string{"source", "outcome"})

	m.ingestRejections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_rejections_total",
		Help:      "Scan submissions rejected, by source and reason",
	}, []string{"source", "reason"})

	m.scanLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scan_latency_milliseconds",
		Help:      "Latency reported by devices in ingested scans",
		Buckets:   m.latencyBuckets,
	})

	m.lightsRegistered = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lights_registered",
		Help:      "Number of lights seen in the last analytics snapshot",
	})

	m.storeOpDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_operation_duration_milliseconds",
		Help:      "Record store round-trip duration by operation and result",
		Buckets:   m.histogramBuckets,
	}, []string{"operation", "result"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestMillis = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

func (m *Manager) RecordScanIngested(source string, failed bool, latencyMs float64) {
	outcome := "success"
	if failed {
		outcome = "error"
	}
	m.scansIngested.WithLabelValues(source, outcome).Inc()
	m.scanLatency.Observe(latencyMs)
}

func (m *Manager) RecordIngestRejection(source, reason string) {
	m.ingestRejections.WithLabelValues(source, reason).Inc()
}

func (m *Manager) UpdateLightsRegistered(n int) {
	m.lightsRegistered.Set(float64(n))
}

func (m *Manager) RecordStoreOperation(op string, err error, durationMs float64) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.storeOpDuration.WithLabelValues(op, result).Observe(durationMs)
}

func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestMillis.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Package-level helpers delegate to the global manager.

func RecordScanIngested(source string, failed bool, latencyMs float64) {
	globalManager.RecordScanIngested(source, failed, latencyMs)
}

func RecordIngestRejection(source, reason string) {
	globalManager.RecordIngestRejection(source, reason)
}

func UpdateLightsRegistered(n int) { globalManager.UpdateLightsRegistered(n) }

func RecordStoreOperation(op string, err error, durationMs float64) {
	globalManager.RecordStoreOperation(op, err, durationMs)
}

func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// GetRegistry returns the registry served at /metrics.
func GetRegistry() *prometheus.Registry { return globalManager.registry }

// Package metrics provides Prometheus metrics for the travrank analyser.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the analyser.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Normalization
	cardsNormalized      prometheus.Counter
	parseFailures        prometheus.Counter
	racesWithoutStarters prometheus.Counter
	unknownDrivers       prometheus.Counter

	// Ranking
	entriesScored  prometheus.Counter
	rankingLatency prometheus.Histogram

	// Reference data
	referenceRecords *prometheus.GaugeVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "travrank",
		subsystem:        "analysis",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.cardsNormalized = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "cards_normalized_total",
		Help:        "Raw documents successfully normalized into race cards",
		ConstLabels: m.constLabels,
	})

	m.parseFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "parse_failures_total",
		Help:        "Raw documents rejected as unreadable JSON",
		ConstLabels: m.constLabels,
	})

	m.racesWithoutStarters = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "races_without_starters_total",
		Help:        "Races emitted empty because no entry list alias matched",
		ConstLabels: m.constLabels,
	})

	m.unknownDrivers = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "unknown_drivers_total",
		Help:        "Drivers missing from the rating reference and defaulted to the minimum rating",
		ConstLabels: m.constLabels,
	})

	m.entriesScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "entries_scored_total",
		Help:        "Race entries passed through the score calculator",
		ConstLabels: m.constLabels,
	})

	m.rankingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "ranking_latency_milliseconds",
		Help:        "Time spent ranking every race of a card",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.referenceRecords = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reference_records",
		Help:        "Records loaded per reference data set",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "HTTP requests by endpoint, method and status code",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "Failed HTTP requests by endpoint, method and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})
}

// RecordCardNormalized counts a normalized card.
func RecordCardNormalized() {
	globalManager.cardsNormalized.Inc()
}

// RecordParseFailure counts an unreadable raw document.
func RecordParseFailure() {
	globalManager.parseFailures.Inc()
}

// RecordRaceWithoutStarters counts a race emitted with zero entries.
func RecordRaceWithoutStarters() {
	globalManager.racesWithoutStarters.Inc()
}

// RecordUnknownDriver counts a driver that fell back to the minimum rating.
func RecordUnknownDriver() {
	globalManager.unknownDrivers.Inc()
}

// RecordEntriesScored adds n scored entries.
func RecordEntriesScored(n int) {
	globalManager.entriesScored.Add(float64(n))
}

// RecordRankingLatency observes the time spent ranking a card.
func RecordRankingLatency(latencyMs float64) {
	globalManager.rankingLatency.Observe(latencyMs)
}

// UpdateReferenceRecords sets the record count of a reference data set.
func UpdateReferenceRecords(kind string, count int) {
	globalManager.referenceRecords.WithLabelValues(kind).Set(float64(count))
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint counts a failed HTTP request.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

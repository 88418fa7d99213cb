package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "dataapi"
	subsystem = "api"
)

// Metrics struct manages all Prometheus metrics.
type Metrics struct {
	// HTTP metrics.
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	// Store metrics.
	documentsServed   *prometheus.CounterVec
	responseDocuments *prometheus.GaugeVec
	fetchDuration     *prometheus.HistogramVec
	fetchErrors       *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics creates a new Metrics instance registered with the default registry.
func NewMetrics() *Metrics {
	m := &Metrics{gatherer: prometheus.DefaultGatherer}

	m.initMetricsWithRegistry(prometheus.DefaultRegisterer)
	return m
}

// NewMetricsWithRegistry creates a new Metrics instance (for testing).
func NewMetricsWithRegistry(registry *prometheus.Registry) *Metrics {
	m := &Metrics{gatherer: registry}

	m.initMetricsWithRegistry(registry)
	return m
}

// initMetricsWithRegistry initializes metrics in the specified registry.
func (m *Metrics) initMetricsWithRegistry(registry prometheus.Registerer) {
	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "code"},
	)

	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Time taken to serve HTTP requests (seconds)",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	m.documentsServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "documents_served_total",
			Help:      "Total number of documents returned to clients",
		},
		[]string{"database", "collection"},
	)

	// The endpoint returns the whole collection, so this tracks how large a
	// single response has become.
	m.responseDocuments = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "response_documents",
			Help:      "Number of documents in the most recent successful response",
		},
		[]string{"database", "collection"},
	)

	m.fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "fetch_duration_seconds",
			Help:      "Time taken to connect, query and release the store (seconds)",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"database", "collection", "status"},
	)

	m.fetchErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "fetch_errors_total",
			Help:      "Total number of failed store fetches by error type",
		},
		[]string{"database", "collection", "error_type"},
	)

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.documentsServed,
		m.responseDocuments,
		m.fetchDuration,
		m.fetchErrors,
	)
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method, code string, duration time.Duration) {
	m.requestsTotal.WithLabelValues(route, method, code).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// RecordFetchSuccess records a successful fetch of count documents.
func (m *Metrics) RecordFetchSuccess(database, collection string, count int, duration time.Duration) {
	m.documentsServed.WithLabelValues(database, collection).Add(float64(count))
	m.responseDocuments.WithLabelValues(database, collection).Set(float64(count))
	m.fetchDuration.WithLabelValues(database, collection, "success").Observe(duration.Seconds())
}

// RecordFetchError records a failed fetch.
func (m *Metrics) RecordFetchError(database, collection, errorType string, duration time.Duration) {
	m.fetchErrors.WithLabelValues(database, collection, errorType).Inc()
	m.fetchDuration.WithLabelValues(database, collection, "error").Observe(duration.Seconds())
}

// Handler returns the metrics HTTP handler for the registry the metrics were
// registered with.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

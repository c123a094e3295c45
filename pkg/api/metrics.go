package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API. Each instance owns its
// registry so several servers can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Codec metrics
	codecOperationsTotal  *prometheus.CounterVec
	invalidEncodingsTotal prometheus.Counter

	// Header log metrics
	logHeadersTotal prometheus.Gauge

	authRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics on a fresh registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gamehdr_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gamehdr_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gamehdr_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		codecOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gamehdr_codec_operations_total",
				Help: "Total number of header encode and decode operations",
			},
			[]string{"operation", "status"},
		),

		invalidEncodingsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "gamehdr_invalid_encodings_total",
				Help: "Total number of bytes rejected because their speed code is invalid",
			},
		),

		logHeadersTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gamehdr_log_headers_total",
				Help: "Number of headers in the header log",
			},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gamehdr_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),
	}
}

// Handler serves the metrics of this instance's registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCodecOperation records an encode or decode
func (m *Metrics) RecordCodecOperation(operation string, success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.codecOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordInvalidEncoding counts a byte rejected by the decoder
func (m *Metrics) RecordInvalidEncoding() {
	m.invalidEncodingsTotal.Inc()
}

// UpdateLogStats updates header log statistics
func (m *Metrics) UpdateLogStats(headers int64) {
	m.logHeadersTotal.Set(float64(headers))
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

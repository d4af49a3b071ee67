package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics registers Prometheus collectors for outbound API traffic and
// attendance-kiosk activity.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	requestErrors   *prometheus.CounterVec

	captureTotal prometheus.Counter
	matchTotal   *prometheus.CounterVec
}

// New registers the core collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_request_duration_seconds",
		Help:    "Duration of outbound API requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "resource", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_requests_total",
		Help: "Total number of outbound API requests",
	}, []string{"method", "resource", "status"})

	requestErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_request_errors_total",
		Help: "Total outbound API requests that failed before a response arrived",
	}, []string{"method", "resource"})

	captureTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "kiosk_captures_total",
		Help: "Total face capture attempts",
	})

	matchTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_matches_total",
		Help: "Face match outcomes by result",
	}, []string{"result"})

	registry.MustRegister(requestDuration, requestTotal, requestErrors, captureTotal, matchTotal)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		requestErrors:   requestErrors,
		captureTotal:    captureTotal,
		matchTotal:      matchTotal,
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// ObserveRequest records a completed outbound request.
func (m *Metrics) ObserveRequest(method, resource string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	m.requestTotal.WithLabelValues(method, resource, code).Inc()
	m.requestDuration.WithLabelValues(method, resource, code).Observe(duration.Seconds())
}

// ObserveRequestError records a request that never produced a response.
func (m *Metrics) ObserveRequestError(method, resource string) {
	m.requestErrors.WithLabelValues(method, resource).Inc()
}

// ObserveCapture counts one face capture attempt.
func (m *Metrics) ObserveCapture() {
	m.captureTotal.Inc()
}

// ObserveMatch counts a match outcome ("matched" or "unmatched").
func (m *Metrics) ObserveMatch(result string) {
	m.matchTotal.WithLabelValues(result).Inc()
}

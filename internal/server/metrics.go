package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth event labels for the auth counter
const (
	authRegister    = "register"
	authLogin       = "login"
	authLoginFailed = "login_failed"
	authLogout      = "logout"
)

// Metrics holds the server's Prometheus collectors. Each server owns its
// own registry so that tests can build many servers in one process.
type Metrics struct {
	registry *prometheus.Registry

	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	authEvents *prometheus.CounterVec

	StartTime time.Time
}

// NewMetrics creates a Metrics instance. activeSessions, when non-nil,
// is sampled on every scrape.
func NewMetrics(activeSessions func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checklist",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "checklist",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checklist",
			Name:      "auth_events_total",
			Help:      "Registrations, logins and logouts.",
		}, []string{"event"}),
		StartTime: time.Now(),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.authEvents,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if activeSessions != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "checklist",
			Name:      "active_sessions",
			Help:      "Unexpired session tokens.",
		}, func() float64 { return float64(activeSessions()) }))
	}

	return m
}

// ObserveRequest records one finished request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncAuthEvent increments the counter for one auth event
func (m *Metrics) IncAuthEvent(event string) {
	m.authEvents.WithLabelValues(event).Inc()
}

// Uptime returns the time since the metrics were created
func (m *Metrics) Uptime() time.Duration {
	return time.Since(m.StartTime)
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

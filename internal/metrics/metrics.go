// Package metrics holds the Prometheus collectors for taskbridge.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metrics for upstream calls, the project cache and commands.
// A nil *Metrics is valid and records nothing.
//
// Metrics:
//   - taskbridge_upstream_requests_total{backend,code} - upstream HTTP requests
//   - taskbridge_upstream_request_duration_seconds{backend} - upstream latency
//   - taskbridge_project_cache_lookups_total{outcome} - "hit" or "miss"
//   - taskbridge_command_calls_total{command,outcome} - "ok", "retriable" or "terminal"
type Metrics struct {
	registry *prometheus.Registry

	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	CacheLookups     *prometheus.CounterVec
	CommandCalls     *prometheus.CounterVec
}

// New registers the collectors on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		UpstreamRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskbridge_upstream_requests_total",
				Help: "Total number of upstream API requests",
			},
			[]string{"backend", "code"}, // code "error" when no response was received
		),
		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskbridge_upstream_request_duration_seconds",
				Help:    "Duration of upstream API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskbridge_project_cache_lookups_total",
				Help: "Total number of project cache lookups",
			},
			[]string{"outcome"},
		),
		CommandCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskbridge_command_calls_total",
				Help: "Total number of dispatched commands",
			},
			[]string{"command", "outcome"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveUpstream records one upstream request. status 0 means no response.
func (m *Metrics) ObserveUpstream(backend string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.UpstreamRequests.WithLabelValues(backend, code).Inc()
	m.UpstreamDuration.WithLabelValues(backend).Observe(elapsed.Seconds())
}

// CacheHit records a project cache hit or miss.
func (m *Metrics) CacheHit(hit bool) {
	if m == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.CacheLookups.WithLabelValues(outcome).Inc()
}

// CommandCall records a dispatched command outcome.
func (m *Metrics) CommandCall(command, outcome string) {
	if m == nil {
		return
	}
	m.CommandCalls.WithLabelValues(command, outcome).Inc()
}

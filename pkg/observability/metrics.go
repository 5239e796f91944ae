// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the gemini proxy.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts all HTTP requests by method, status class, and route.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geminiproxy_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status", "route"},
	)

	// RequestDuration records HTTP request duration in seconds by method and route.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geminiproxy_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "route"},
	)

	// UpstreamRequestsTotal counts generateContent calls by model and outcome.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geminiproxy_upstream_requests_total",
			Help: "Upstream requests",
		},
		[]string{"model", "status"},
	)

	// UpstreamLatency records upstream call latency in seconds.
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geminiproxy_upstream_latency_seconds",
			Help:    "Upstream latency",
			Buckets: LLMBuckets,
		},
		[]string{"model"},
	)

	// AuthRejectedTotal counts requests rejected by inbound authentication.
	AuthRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "geminiproxy_auth_rejected_total",
			Help: "Requests rejected by authentication",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		UpstreamRequestsTotal,
		UpstreamLatency,
		AuthRejectedTotal,
	)
}

// RecordUpstream records the outcome and latency of one upstream call.
func RecordUpstream(model, status string, d time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(model, status).Inc()
	UpstreamLatency.WithLabelValues(model).Observe(d.Seconds())
}

// Handler returns the Prometheus scrape handler for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

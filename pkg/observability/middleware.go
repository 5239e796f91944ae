package observability

import (
	"net/http"
	"strconv"
	"time"
)

// knownRoutes bounds the route label cardinality. Anything else, apart
// from the metrics path itself, is reported as "unmatched".
var knownRoutes = map[string]bool{
	"/":                    true,
	"/v1/models":           true,
	"/v1/chat/completions": true,
}

// MetricsMiddleware wraps an HTTP handler to record request metrics.
//
// It captures:
//   - geminiproxy_requests_total (counter): method, status class, and route labels
//   - geminiproxy_request_duration_seconds (histogram): method and route labels
//
// metricsPath is where the metrics endpoint is mounted; scrapes are
// labelled with it.
func MetricsMiddleware(next http.Handler, metricsPath string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := routeLabel(r.URL.Path, metricsPath)
		statusStr := strconv.Itoa(sw.status/100) + "xx"

		RequestsTotal.WithLabelValues(r.Method, statusStr, route).Inc()
		RequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routeLabel(path, metricsPath string) string {
	if knownRoutes[path] || (metricsPath != "" && path == metricsPath) {
		return path
	}
	return "unmatched"
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

// WriteHeader captures the status code and delegates to the underlying writer.
func (w *statusWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
	}
	w.ResponseWriter.WriteHeader(status)
}

// Write delegates to the underlying writer and marks the status as written.
func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
	}
	return w.ResponseWriter.Write(b)
}

// Unwrap returns the underlying ResponseWriter, enabling http.ResponseController
// and similar utilities to access the original writer.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

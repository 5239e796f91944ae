package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestMetricsRegistered verifies that all metrics are registered in the
// default registry once they have been observed.
func TestMetricsRegistered(t *testing.T) {
	RequestsTotal.WithLabelValues("GET", "2xx", "/").Inc()
	RequestDuration.WithLabelValues("GET", "/").Observe(0.1)
	RecordUpstream("test-model", "success", 100*time.Millisecond)
	AuthRejectedTotal.Add(0)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}

	expected := map[string]bool{
		"geminiproxy_requests_total":           false,
		"geminiproxy_request_duration_seconds": false,
		"geminiproxy_upstream_requests_total":  false,
		"geminiproxy_upstream_latency_seconds": false,
		"geminiproxy_auth_rejected_total":      false,
	}
	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("metric %q not found in default registry", name)
		}
	}
}

func TestRecordUpstream(t *testing.T) {
	before := counterValue(t, UpstreamRequestsTotal, "gemini-pro", "4xx")
	beforeCount := histogramCount(t, UpstreamLatency, "gemini-pro")

	RecordUpstream("gemini-pro", "4xx", 250*time.Millisecond)

	if got := counterValue(t, UpstreamRequestsTotal, "gemini-pro", "4xx") - before; got != 1 {
		t.Errorf("upstream counter delta = %f, want 1", got)
	}
	if got := histogramCount(t, UpstreamLatency, "gemini-pro") - beforeCount; got != 1 {
		t.Errorf("upstream latency sample delta = %d, want 1", got)
	}
}

// TestMiddlewareRecordsRequestCount verifies that the middleware increments
// the request counter for each served request.
func TestMiddlewareRecordsRequestCount(t *testing.T) {
	before := counterValue(t, RequestsTotal, "GET", "2xx", "/v1/models")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), "/metrics")

	req := httptest.NewRequest("GET", "/v1/models", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	after := counterValue(t, RequestsTotal, "GET", "2xx", "/v1/models")
	if after-before != 1 {
		t.Errorf("expected request count to increase by 1, got delta=%f", after-before)
	}
}

// TestMiddlewareRecordsDuration verifies that the middleware records
// a request duration observation.
func TestMiddlewareRecordsDuration(t *testing.T) {
	before := histogramCount(t, RequestDuration, "POST", "/v1/chat/completions")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}), "/metrics")

	req := httptest.NewRequest("POST", "/v1/chat/completions", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	after := histogramCount(t, RequestDuration, "POST", "/v1/chat/completions")
	if after-before != 1 {
		t.Errorf("expected histogram sample count to increase by 1, got delta=%d", after-before)
	}
}

// TestMiddlewareCapturesStatusCode verifies that non-200 status codes are
// captured in the status label and unknown paths collapse to "unmatched".
func TestMiddlewareCapturesStatusCode(t *testing.T) {
	before := counterValue(t, RequestsTotal, "GET", "4xx", "unmatched")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), "/metrics")

	req := httptest.NewRequest("GET", "/v1/unknown/abc", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	after := counterValue(t, RequestsTotal, "GET", "4xx", "unmatched")
	if after-before != 1 {
		t.Errorf("expected 4xx count to increase by 1, got delta=%f", after-before)
	}
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		path        string
		metricsPath string
		want        string
	}{
		{"/", "/metrics", "/"},
		{"/v1/models", "/metrics", "/v1/models"},
		{"/v1/chat/completions", "", "/v1/chat/completions"},
		{"/metrics", "/metrics", "/metrics"},
		{"/internal/metrics", "/internal/metrics", "/internal/metrics"},
		{"/metrics", "/internal/metrics", "unmatched"},
		{"/metrics", "", "unmatched"},
		{"/v1/unknown", "/metrics", "unmatched"},
	}
	for _, tt := range tests {
		if got := routeLabel(tt.path, tt.metricsPath); got != tt.want {
			t.Errorf("routeLabel(%q, %q) = %q, want %q", tt.path, tt.metricsPath, got, tt.want)
		}
	}
}

func TestMiddlewareLabelsCustomMetricsPath(t *testing.T) {
	before := counterValue(t, RequestsTotal, "GET", "2xx", "/internal/metrics")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), "/internal/metrics")
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/internal/metrics", nil))

	if got := counterValue(t, RequestsTotal, "GET", "2xx", "/internal/metrics") - before; got != 1 {
		t.Errorf("custom metrics path count delta = %f, want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordUpstream("scrape-model", "success", time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `geminiproxy_upstream_requests_total{model="scrape-model",status="success"}`) {
		t.Errorf("scrape output missing upstream counter")
	}
}

// counterValue reads the current value of a CounterVec for the given labels.
func counterValue(t *testing.T, cv *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting counter metric: %v", err)
	}
	if err := c.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing counter metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

// histogramCount reads the observation count from a HistogramVec.
func histogramCount(t *testing.T, hv *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	m := &dto.Metric{}
	obs, err := hv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting histogram metric: %v", err)
	}
	if err := obs.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing histogram metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

package integration

import (
	"net/http"
	"strings"
	"testing"
)

func TestMetricsEndpoint(t *testing.T) {
	// Generate one upstream call so the upstream series exist.
	readBody(t, postJSON(t, "/v1/chat/completions", userMessage("count me")))

	resp := do(t, http.MethodGet, "/metrics", "", false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := readBody(t, resp)
	for _, want := range []string{
		"geminiproxy_requests_total",
		"geminiproxy_request_duration_seconds",
		`geminiproxy_upstream_requests_total{model="gemini-pro",status="success"}`,
		"geminiproxy_upstream_latency_seconds",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

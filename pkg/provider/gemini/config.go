package gemini

import (
	"net/http"
	"time"
)

// DefaultBaseURL is the public Gemini v1 REST root.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1"

// Config holds configuration for the Gemini provider adapter.
type Config struct {
	// BaseURL is the REST root, without the /models suffix.
	// Defaults to DefaultBaseURL.
	BaseURL string

	// APIKey is attached to every call as the "key" query parameter.
	APIKey string

	// Timeout for individual HTTP requests. Zero leaves the transport
	// default in place (no client-side deadline).
	Timeout time.Duration

	// HTTPClient overrides the client used for upstream calls. Mainly for tests.
	HTTPClient *http.Client
}

// DefaultConfig returns a Config pointing at the public endpoint.
func DefaultConfig(apiKey string) Config {
	return Config{
		BaseURL: DefaultBaseURL,
		APIKey:  apiKey,
	}
}

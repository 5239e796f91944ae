package gemini

import (
	"fmt"
	"io"
	"net/http"

	"github.com/rhuss/gemini-proxy/pkg/api"
	"github.com/rhuss/gemini-proxy/pkg/debug"
)

// mapHTTPError converts a non-2xx upstream reply into an upstream APIError
// carrying the status code and the raw body text.
func mapHTTPError(resp *http.Response) *api.APIError {
	return api.NewUpstreamError(resp.StatusCode, readErrorBody(resp.Body))
}

// mapNetworkError converts a transport failure (connection refused, DNS,
// timeout) into an upstream APIError. The request URL embedded in net/http
// errors carries the API key, so it is redacted.
func mapNetworkError(err error) *api.APIError {
	return api.NewUpstreamShapeError(fmt.Sprintf("Gemini connection error: %s", debug.Redact(err.Error())))
}

// readErrorBody returns the whole of body as text; it is forwarded to the
// caller unabridged.
func readErrorBody(body io.Reader) string {
	if body == nil {
		return ""
	}
	data, _ := io.ReadAll(body)
	return string(data)
}

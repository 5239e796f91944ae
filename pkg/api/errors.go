package api

import "fmt"

// ErrorKind classifies a failure inside the proxy. The kind drives the HTTP
// status code and logging; it is never serialized.
type ErrorKind string

const (
	KindInvalidRequest ErrorKind = "invalid_request"
	KindUpstream       ErrorKind = "upstream_error"
	KindNotFound       ErrorKind = "not_found"
	KindInternal       ErrorKind = "internal_error"

	// KindUnauthenticated is only produced when inbound auth is enabled.
	KindUnauthenticated ErrorKind = "unauthenticated"
)

// ErrorType is the value of the "type" field in an error response body.
type ErrorType string

const (
	ErrorTypeAPI      ErrorType = "api_error"
	ErrorTypeNotFound ErrorType = "not_found"
	ErrorTypeInternal ErrorType = "internal_error"
	ErrorTypeInvalid  ErrorType = "invalid_request"
)

// CodeProcessingError is attached to every chat completion failure.
const CodeProcessingError = "processing_error"

// APIError represents a structured API error.
type APIError struct {
	Kind    ErrorKind `json:"-"`
	Type    ErrorType `json:"type"`
	Code    string    `json:"code,omitempty"`
	Message string    `json:"message"`

	// UpstreamStatus and UpstreamBody are set for KindUpstream errors caused
	// by a non-2xx reply. UpstreamStatus is 0 for network and shape failures.
	UpstreamStatus int    `json:"-"`
	UpstreamBody   string `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ErrorResponse wraps an APIError for JSON serialization as the top-level error response.
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// NewInvalidRequestError creates an APIError for a malformed inbound request.
func NewInvalidRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindInvalidRequest,
		Type:    ErrorTypeAPI,
		Code:    CodeProcessingError,
		Message: message,
	}
}

// NewUpstreamError creates an APIError for a non-success reply from the
// upstream provider. The raw body is forwarded in the message.
func NewUpstreamError(status int, body string) *APIError {
	return &APIError{
		Kind:           KindUpstream,
		Type:           ErrorTypeAPI,
		Code:           CodeProcessingError,
		Message:        fmt.Sprintf("Gemini API error: %d - %s", status, body),
		UpstreamStatus: status,
		UpstreamBody:   body,
	}
}

// NewUpstreamShapeError creates an APIError for an upstream reply that could
// not be used: unreachable backend, unparseable body, or no candidates.
func NewUpstreamShapeError(message string) *APIError {
	return &APIError{
		Kind:    KindUpstream,
		Type:    ErrorTypeAPI,
		Code:    CodeProcessingError,
		Message: message,
	}
}

// NewNotFoundError creates an APIError for an unmatched route.
func NewNotFoundError(path string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("Route %s not found", path),
	}
}

// NewInternalError creates the generic APIError returned for anything
// uncaught. The real cause is logged by the caller and never included here.
func NewInternalError() *APIError {
	return &APIError{
		Kind:    KindInternal,
		Type:    ErrorTypeInternal,
		Message: "Internal server error",
	}
}

// NewUnauthenticatedError creates an APIError for a request rejected by
// inbound authentication.
func NewUnauthenticatedError() *APIError {
	return &APIError{
		Kind:    KindUnauthenticated,
		Type:    ErrorTypeInvalid,
		Message: "authentication required",
	}
}

// Message constants shared by validation and the provider adapters.
const (
	MsgMissingMessages = "Missing messages array"
	MsgNoUserMessage   = "No user message found"
	MsgNoResponse      = "No response from provider"
)

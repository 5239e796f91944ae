package transport

import (
	"encoding/json"
	"net/http"

	"github.com/rhuss/gemini-proxy/pkg/api"
)

// HTTPStatusFromError maps an APIError kind to the HTTP status code.
// Unmatched routes are surfaced as 404 and auth rejections as 401; every
// other failure, including invalid requests and upstream errors, is a 500.
func HTTPStatusFromError(err *api.APIError) int {
	switch err.Kind {
	case api.KindNotFound:
		return http.StatusNotFound
	case api.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v as a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// WriteErrorResponse writes a JSON error response using the ErrorResponse
// wrapper format from pkg/api.
func WriteErrorResponse(w http.ResponseWriter, apiErr *api.APIError, statusCode int) {
	WriteJSON(w, statusCode, api.ErrorResponse{Error: apiErr})
}

// WriteAPIError writes an APIError response, deriving the HTTP status code
// from the error kind.
func WriteAPIError(w http.ResponseWriter, apiErr *api.APIError) {
	WriteErrorResponse(w, apiErr, HTTPStatusFromError(apiErr))
}

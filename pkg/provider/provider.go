package provider

import "context"

// Provider abstracts a generative-content backend.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type Provider interface {
	// Name returns the provider identifier (e.g., "gemini").
	Name() string

	// Complete performs a single non-streaming generation. Failures are
	// returned as *api.APIError values of kind upstream_error.
	Complete(ctx context.Context, req *ProviderRequest) (*ProviderResponse, error)

	// Close releases provider resources (HTTP clients, connections).
	Close() error
}

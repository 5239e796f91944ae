// Package provider defines the backend abstraction the engine talks to.
// Each adapter (currently only Gemini) owns its wire protocol and maps
// failures to *api.APIError values.
package provider

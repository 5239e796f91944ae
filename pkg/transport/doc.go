// Package transport defines the handler interfaces and middleware chain for
// the gemini-proxy HTTP transport layer.
//
// The transport layer bridges external clients and the translation engine.
// It deserializes incoming requests into the wire types defined in pkg/api,
// dispatches them for processing, and serializes completions or errors back
// to the client as JSON.
//
// # Handler Interfaces
//
//   - CompletionCreator handles POST /v1/chat/completions.
//   - ModelLister handles GET /v1/models.
//
// # Middleware
//
// The middleware chain wraps CompletionCreator with cross-cutting concerns.
// Built-in middleware provides panic recovery, request ID assignment
// (X-Request-ID), and structured logging via log/slog.
package transport

// Package api defines the wire types for the gemini-proxy chat completion
// surface.
//
// The inbound and outbound shapes mirror the OpenAI Chat Completions API so
// that existing client libraries can talk to the proxy unchanged. The package
// performs no I/O and depends only on the Go standard library.
//
// Core types:
//   - [ChatCompletionRequest]: Inbound request (messages + optional model)
//   - [ChatCompletionResponse]: Outbound completion with a single choice
//   - [ModelList]: Static model catalog served by GET /v1/models
//   - [APIError]: Structured error with kind, type, code, and message
package api

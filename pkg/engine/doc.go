// Package engine implements the translation pipeline of gemini-proxy.
// The Engine validates an inbound chat completion request, reduces it to
// the last user message, calls the provider once, and shapes the result
// into a chat completion. It also serves the static model catalog.
// The Engine holds no per-request state and is safe for concurrent use.
package engine

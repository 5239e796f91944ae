package transport

import (
	"context"

	"github.com/google/uuid"

	"github.com/rhuss/gemini-proxy/pkg/api"
)

type requestIDKey struct{}

// ContextWithRequestID returns a copy of ctx carrying id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// NewRequestID returns a random UUID string.
func NewRequestID() string {
	return uuid.NewString()
}

// RequestID makes sure every completion has an ID to log under. The HTTP
// adapter normally sets one from X-Request-ID; callers that bypass it get
// a fresh one here.
func RequestID() Middleware {
	return func(next CompletionCreator) CompletionCreator {
		return CompletionCreatorFunc(func(ctx context.Context, req *api.ChatCompletionRequest) (*api.ChatCompletionResponse, error) {
			if RequestIDFromContext(ctx) == "" {
				ctx = ContextWithRequestID(ctx, NewRequestID())
			}
			return next.CreateCompletion(ctx, req)
		})
	}
}

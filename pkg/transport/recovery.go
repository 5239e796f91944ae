package transport

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/rhuss/gemini-proxy/pkg/api"
)

// Recovery returns middleware that catches panics in the handler and
// converts them to a generic internal error. The panic value and stack are
// logged; the caller only ever sees "Internal server error".
func Recovery() Middleware {
	return func(next CompletionCreator) CompletionCreator {
		return CompletionCreatorFunc(func(ctx context.Context, req *api.ChatCompletionRequest) (resp *api.ChatCompletionResponse, retErr error) {
			defer func() {
				if r := recover(); r != nil {
					slog.ErrorContext(ctx, "panic recovered",
						"request_id", RequestIDFromContext(ctx),
						"panic", r,
						"stack", string(debug.Stack()),
					)
					resp, retErr = nil, api.NewInternalError()
				}
			}()
			return next.CreateCompletion(ctx, req)
		})
	}
}

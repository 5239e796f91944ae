package transport

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rhuss/gemini-proxy/pkg/api"
)

// Logging returns middleware that emits one structured log entry per chat
// completion. Failures are logged at error level with the error kind and,
// for upstream failures, the upstream status code.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next CompletionCreator) CompletionCreator {
		return CompletionCreatorFunc(func(ctx context.Context, req *api.ChatCompletionRequest) (*api.ChatCompletionResponse, error) {
			start := time.Now()

			resp, err := next.CreateCompletion(ctx, req)

			attrs := []slog.Attr{
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.Duration("duration", time.Since(start)),
			}
			if model := loggedModel(req, resp); model != "" {
				attrs = append(attrs, slog.String("model", model))
			}
			if req != nil {
				attrs = append(attrs, slog.Int("messages", len(req.Messages)))
			}

			if err != nil {
				var apiErr *api.APIError
				if errors.As(err, &apiErr) {
					attrs = append(attrs, slog.String("kind", string(apiErr.Kind)))
					if apiErr.UpstreamStatus != 0 {
						attrs = append(attrs, slog.Int("upstream_status", apiErr.UpstreamStatus))
					}
				}
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "chat completion failed", attrs...)
			} else {
				logger.LogAttrs(ctx, slog.LevelInfo, "chat completion served", attrs...)
			}

			return resp, err
		})
	}
}

// loggedModel prefers the model the response was served with, since a
// request may leave the choice to the server's default.
func loggedModel(req *api.ChatCompletionRequest, resp *api.ChatCompletionResponse) string {
	if resp != nil && resp.Model != "" {
		return resp.Model
	}
	if req != nil {
		return req.Model
	}
	return ""
}

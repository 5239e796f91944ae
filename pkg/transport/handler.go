package transport

import (
	"context"

	"github.com/rhuss/gemini-proxy/pkg/api"
)

// CompletionCreator handles the chat completion operation. Failures are
// returned as *api.APIError where the cause is known; anything else is
// treated as an internal error by the HTTP adapter.
type CompletionCreator interface {
	CreateCompletion(ctx context.Context, req *api.ChatCompletionRequest) (*api.ChatCompletionResponse, error)
}

// CompletionCreatorFunc is an adapter that allows using an ordinary function
// as a CompletionCreator.
type CompletionCreatorFunc func(ctx context.Context, req *api.ChatCompletionRequest) (*api.ChatCompletionResponse, error)

// CreateCompletion calls f(ctx, req).
func (f CompletionCreatorFunc) CreateCompletion(ctx context.Context, req *api.ChatCompletionRequest) (*api.ChatCompletionResponse, error) {
	return f(ctx, req)
}

// ModelLister returns the model catalog.
type ModelLister interface {
	ListModels(ctx context.Context) (*api.ModelList, error)
}

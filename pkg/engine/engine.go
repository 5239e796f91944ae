package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rhuss/gemini-proxy/pkg/api"
	"github.com/rhuss/gemini-proxy/pkg/debug"
	"github.com/rhuss/gemini-proxy/pkg/observability"
	"github.com/rhuss/gemini-proxy/pkg/provider"
	"github.com/rhuss/gemini-proxy/pkg/transport"
)

// Engine bridges the transport layer and the provider backend. It
// implements transport.CompletionCreator and transport.ModelLister.
type Engine struct {
	provider provider.Provider
	cfg      Config
}

// Ensure Engine implements the transport contracts at compile time.
var (
	_ transport.CompletionCreator = (*Engine)(nil)
	_ transport.ModelLister       = (*Engine)(nil)
)

// New creates a new Engine. The provider must not be nil.
func New(p provider.Provider, cfg Config) (*Engine, error) {
	if p == nil {
		return nil, fmt.Errorf("engine: provider must not be nil")
	}
	return &Engine{
		provider: p,
		cfg:      cfg,
	}, nil
}

// CreateCompletion validates req, forwards its last user message to the
// provider, and returns the translated completion. Validation failures
// return before any upstream call is made.
func (e *Engine) CreateCompletion(ctx context.Context, req *api.ChatCompletionRequest) (*api.ChatCompletionResponse, error) {
	var model string
	if req != nil {
		model = req.Model
	}
	if model == "" {
		model = e.cfg.defaultModel()
	}

	provReq, apiErr := translateRequest(req, model, e.cfg.generation())
	if apiErr != nil {
		return nil, apiErr
	}

	debug.Log("engine", "forwarding last user message", "model", model, "messages", len(req.Messages), "prompt_bytes", len(provReq.Prompt))

	start := time.Now()
	provResp, err := e.provider.Complete(ctx, provReq)
	observability.RecordUpstream(model, upstreamStatus(err), time.Since(start))
	if err != nil {
		return nil, err
	}

	return api.NewChatCompletionResponse(model, provResp.Text, e.cfg.now()), nil
}

// ListModels returns the fixed catalog. Every entry is stamped with the
// current time, so only the created field varies between calls.
func (e *Engine) ListModels(_ context.Context) (*api.ModelList, error) {
	created := e.cfg.now().Unix()
	list := &api.ModelList{
		Object: api.ObjectList,
		Data:   make([]api.Model, 0, len(DefaultModels)),
	}
	for _, id := range DefaultModels {
		list.Data = append(list.Data, api.Model{
			ID:      id,
			Object:  api.ObjectModel,
			Created: created,
			OwnedBy: DefaultOwnedBy,
		})
	}
	return list, nil
}

// upstreamStatus labels the outcome of a provider call for metrics.
func upstreamStatus(err error) string {
	if err == nil {
		return "success"
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.UpstreamStatus != 0 {
		return fmt.Sprintf("%dxx", apiErr.UpstreamStatus/100)
	}
	return "error"
}

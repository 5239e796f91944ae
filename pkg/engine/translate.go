package engine

import (
	"github.com/rhuss/gemini-proxy/pkg/api"
	"github.com/rhuss/gemini-proxy/pkg/provider"
)

// translateRequest reduces an inbound request to a ProviderRequest. Only the
// last user message is forwarded; every earlier turn is dropped.
func translateRequest(req *api.ChatCompletionRequest, model string, gen provider.GenerationConfig) (*provider.ProviderRequest, *api.APIError) {
	if req == nil || req.Messages == nil {
		return nil, api.NewInvalidRequestError(api.MsgMissingMessages)
	}

	msg, apiErr := api.LastUserMessage(req.Messages)
	if apiErr != nil {
		return nil, apiErr
	}

	return &provider.ProviderRequest{
		Model:      model,
		Prompt:     string(msg.Content),
		Generation: gen,
	}, nil
}

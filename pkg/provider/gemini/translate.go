package gemini

import (
	"github.com/rhuss/gemini-proxy/pkg/api"
	"github.com/rhuss/gemini-proxy/pkg/provider"
)

// TranslateRequest converts a ProviderRequest into a generateContent body
// with exactly one content block holding the prompt text.
func TranslateRequest(req *provider.ProviderRequest) GenerateContentRequest {
	return GenerateContentRequest{
		Contents: []Content{
			{Parts: []Part{{Text: req.Prompt}}},
		},
		GenerationConfig: GenerationConfig{
			Temperature:     req.Generation.Temperature,
			TopK:            req.Generation.TopK,
			TopP:            req.Generation.TopP,
			MaxOutputTokens: req.Generation.MaxOutputTokens,
		},
	}
}

// TranslateResponse extracts the first candidate's first part text. The
// text is returned verbatim. A reply without candidates, or whose first
// candidate has no parts, is an upstream error.
func TranslateResponse(model string, resp *GenerateContentResponse) (*provider.ProviderResponse, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, api.NewUpstreamShapeError(api.MsgNoResponse)
	}

	first := resp.Candidates[0]
	if len(first.Content.Parts) == 0 {
		return nil, api.NewUpstreamShapeError(api.MsgNoResponse)
	}

	return &provider.ProviderResponse{
		Model:        model,
		Text:         first.Content.Parts[0].Text,
		FinishReason: first.FinishReason,
	}, nil
}

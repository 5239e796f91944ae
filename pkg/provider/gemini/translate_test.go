package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhuss/gemini-proxy/pkg/provider"
)

func TestTranslateRequest(t *testing.T) {
	got := TranslateRequest(&provider.ProviderRequest{
		Model:      "gemini-pro",
		Prompt:     "hello",
		Generation: provider.DefaultGeneration(),
	})

	require.Len(t, got.Contents, 1)
	require.Len(t, got.Contents[0].Parts, 1)
	assert.Equal(t, "hello", got.Contents[0].Parts[0].Text)
	assert.Empty(t, got.Contents[0].Role)
	assert.Equal(t, GenerationConfig{Temperature: 0.7, TopK: 40, TopP: 0.95, MaxOutputTokens: 2048}, got.GenerationConfig)
}

func TestTranslateResponse_NilResponse(t *testing.T) {
	_, err := TranslateResponse("m", nil)
	assert.Error(t, err)
}

func TestTranslateResponse_FinishReason(t *testing.T) {
	resp, err := TranslateResponse("m", &GenerateContentResponse{
		Candidates: []Candidate{{Content: Content{Parts: []Part{{Text: "t"}}}, FinishReason: "MAX_TOKENS"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "MAX_TOKENS", resp.FinishReason)
	assert.Equal(t, "t", resp.Text)
}

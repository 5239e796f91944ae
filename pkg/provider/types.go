package provider

// GenerationConfig holds the sampling parameters sent upstream.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature" yaml:"temperature"`
	TopK            int     `json:"top_k" yaml:"top_k"`
	TopP            float64 `json:"top_p" yaml:"top_p"`
	MaxOutputTokens int     `json:"max_output_tokens" yaml:"max_output_tokens"`
}

// DefaultGeneration returns the fixed generation parameters used for every
// request: temperature 0.7, top-k 40, top-p 0.95, 2048 output tokens.
func DefaultGeneration() GenerationConfig {
	return GenerationConfig{
		Temperature:     0.7,
		TopK:            40,
		TopP:            0.95,
		MaxOutputTokens: 2048,
	}
}

// ProviderRequest is the backend-facing request: a single prompt and the
// generation parameters. Conversation history is never forwarded.
type ProviderRequest struct {
	Model      string
	Prompt     string
	Generation GenerationConfig
}

// ProviderResponse carries the text of the first candidate.
type ProviderResponse struct {
	Model        string
	Text         string
	FinishReason string
}

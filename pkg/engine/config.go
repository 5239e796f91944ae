package engine

import (
	"time"

	"github.com/rhuss/gemini-proxy/pkg/provider"
)

// DefaultModel is used when neither the request nor the config names one.
const DefaultModel = "gemini-pro"

// DefaultOwnedBy is the owned_by label of every catalog entry.
const DefaultOwnedBy = "google"

// DefaultModels is the fixed model catalog served by GET /v1/models.
var DefaultModels = []string{"gemini-pro", "gemini-1.5-pro"}

// Config holds configuration for the engine.
type Config struct {
	// DefaultModel is used when the request omits the model field.
	// Empty means DefaultModel.
	DefaultModel string

	// Generation is sent with every upstream request. The zero value
	// means provider.DefaultGeneration().
	Generation provider.GenerationConfig

	// Now is the clock used for IDs and timestamps. Nil means time.Now.
	Now func() time.Time
}

func (c Config) defaultModel() string {
	if c.DefaultModel == "" {
		return DefaultModel
	}
	return c.DefaultModel
}

func (c Config) generation() provider.GenerationConfig {
	if c.Generation == (provider.GenerationConfig{}) {
		return provider.DefaultGeneration()
	}
	return c.Generation
}

func (c Config) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

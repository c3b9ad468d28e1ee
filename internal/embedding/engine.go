// Package embedding generates skill-text embeddings for the vector matching
// tier. Two providers sit behind one interface: Gemini (default) and a local
// Ollama server. A store-backed cache can wrap either provider.
package embedding

import (
	"context"
	"fmt"
)

// Engine generates vector embeddings for canonicalized skill text.
type Engine interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimensions returns the dimensionality of produced embeddings.
	Dimensions() int
	// Name identifies the provider and model.
	Name() string
	// Close releases any resources held by the engine.
	Close() error
}

// Provider names accepted by New.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

// Config selects and parameterizes the embedding provider. Empty fields fall
// back to provider defaults.
type Config struct {
	Provider       string
	GeminiModel    string
	OllamaEndpoint string
	OllamaModel    string
}

// New creates an embedding engine from configuration. The API key is only
// used by the Gemini provider.
func New(ctx context.Context, cfg Config, apiKey string) (Engine, error) {
	switch cfg.Provider {
	case ProviderOllama:
		return NewOllamaEngine(cfg.OllamaEndpoint, cfg.OllamaModel), nil
	case ProviderGemini, "":
		return NewGeminiEngine(ctx, apiKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

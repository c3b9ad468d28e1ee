package embedding

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// geminiDimensions is the output dimensionality of text-embedding-004.
const geminiDimensions = 768

// defaultGeminiModel is used when no model is configured.
const defaultGeminiModel = "text-embedding-004"

// GeminiEngine generates embeddings through the Gemini API.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

// NewGeminiEngine creates a Gemini embedding engine.
func NewGeminiEngine(ctx context.Context, apiKey, model string) (*GeminiEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiEngine{client: client, model: model}, nil
}

// Embed generates an embedding for a single text. Rate limits, server errors
// and network failures come back as transient so callers can apply the
// retry policy.
func (e *GeminiEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	em := e.client.EmbeddingModel(e.model)

	resp, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		if transientGeminiError(err) {
			return nil, &types.ErrTransientExternal{Op: "gemini embed", Err: err}
		}
		return nil, fmt.Errorf("failed to embed content: %w", err)
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding in response")
	}

	return resp.Embedding.Values, nil
}

// Dimensions returns the dimensionality of produced embeddings.
func (e *GeminiEngine) Dimensions() int { return geminiDimensions }

// Name identifies the provider and model.
func (e *GeminiEngine) Name() string { return "gemini:" + e.model }

// Close releases the underlying API client.
func (e *GeminiEngine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// transientGeminiError reports whether an error is worth retrying: rate
// limits, server-side failures, and network-level errors.
func transientGeminiError(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

package embedding

import (
	"context"

	"github.com/jonathan/candidate-matcher/internal/llm"
)

// Cache persists generated embeddings keyed by input text. Get updates the
// entry's access statistics on a hit.
type Cache interface {
	Get(ctx context.Context, text string) ([]float32, bool, error)
	Put(ctx context.Context, text string, embedding []float32) error
}

// CachedEngine fronts an Engine with a persistent cache. Hits skip the
// provider entirely; misses generate and insert. Provider calls retry once
// on transient failure; cache calls never retry.
type CachedEngine struct {
	engine Engine
	cache  Cache
	retry  llm.RetryPolicy
}

// NewCachedEngine wraps engine with cache.
func NewCachedEngine(engine Engine, cache Cache) *CachedEngine {
	return &CachedEngine{engine: engine, cache: cache, retry: llm.TransientRetryPolicy}
}

// Embed returns the cached embedding when present, otherwise generates one
// and stores it.
func (c *CachedEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, ok, err := c.cache.Get(ctx, text)
	if err != nil {
		return nil, err
	}
	if ok {
		return vec, nil
	}

	vec, err = llm.RetryTransient(ctx, c.retry, "generate embedding",
		func(ctx context.Context) ([]float32, error) {
			return c.engine.Embed(ctx, text)
		})
	if err != nil {
		return nil, err
	}
	if err := c.cache.Put(ctx, text, vec); err != nil {
		return nil, err
	}

	return vec, nil
}

// Dimensions returns the wrapped engine's dimensionality.
func (c *CachedEngine) Dimensions() int { return c.engine.Dimensions() }

// Name identifies the wrapped engine.
func (c *CachedEngine) Name() string { return "cached:" + c.engine.Name() }

// Close closes the wrapped engine.
func (c *CachedEngine) Close() error { return c.engine.Close() }

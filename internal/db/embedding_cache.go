package db

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// EmbeddingCache adapts the embedding_cache table to the cache interface the
// embedding layer consumes. The table is the only shared-writable store in
// the system; concurrent puts for the same text overwrite, which is fine
// because the provider is deterministic for a given input.
type EmbeddingCache struct {
	db *DB
}

// EmbeddingCache returns the store-backed embedding cache.
func (db *DB) EmbeddingCache() *EmbeddingCache {
	return &EmbeddingCache{db: db}
}

// Get returns the cached vector for text. A hit bumps the entry's access
// statistics in the same statement.
func (c *EmbeddingCache) Get(ctx context.Context, text string) ([]float32, bool, error) {
	var embedding []float32
	err := c.db.pool.QueryRow(ctx,
		`UPDATE embedding_cache
		 SET accessed_at = NOW(), access_count = access_count + 1
		 WHERE input_text = $1
		 RETURNING embedding`,
		text,
	).Scan(&embedding)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, &types.ErrPersistence{Op: "embedding cache get", Err: err}
	}
	return embedding, true, nil
}

// Put stores the vector for text, overwriting any existing entry.
func (c *EmbeddingCache) Put(ctx context.Context, text string, embedding []float32) error {
	_, err := c.db.pool.Exec(ctx,
		`INSERT INTO embedding_cache (input_text, embedding)
		 VALUES ($1, $2)
		 ON CONFLICT (input_text) DO UPDATE SET embedding = EXCLUDED.embedding`,
		text, embedding)
	if err != nil {
		return &types.ErrPersistence{Op: "embedding cache put", Err: err}
	}
	return nil
}

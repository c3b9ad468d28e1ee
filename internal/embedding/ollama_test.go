package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/candidate-matcher/internal/types"
)

func TestOllamaEmbed(t *testing.T) {
	var gotReq ollamaEmbedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	}))
	defer server.Close()

	engine := NewOllamaEngine(server.URL, "nomic-embed-text")

	vec, err := engine.Embed(context.Background(), "java")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "nomic-embed-text", gotReq.Model)
	assert.Equal(t, "java", gotReq.Prompt)
}

func TestOllamaEmbedServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	engine := NewOllamaEngine(server.URL, "")

	_, err := engine.Embed(context.Background(), "java")
	require.Error(t, err)

	var transient *types.ErrTransientExternal
	assert.ErrorAs(t, err, &transient)
}

func TestOllamaEmbedClientErrorIsNotTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such model", http.StatusNotFound)
	}))
	defer server.Close()

	engine := NewOllamaEngine(server.URL, "")

	_, err := engine.Embed(context.Background(), "java")
	require.Error(t, err)

	var transient *types.ErrTransientExternal
	assert.False(t, errors.As(err, &transient))
}

func TestOllamaEmbedConnectionFailureIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	engine := NewOllamaEngine(server.URL, "")

	_, err := engine.Embed(context.Background(), "java")
	require.Error(t, err)

	var transient *types.ErrTransientExternal
	assert.ErrorAs(t, err, &transient)
}

func TestOllamaEmbedEmptyEmbedding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{})
	}))
	defer server.Close()

	engine := NewOllamaEngine(server.URL, "")

	_, err := engine.Embed(context.Background(), "java")
	assert.ErrorContains(t, err, "empty embedding")
}

func TestOllamaDefaults(t *testing.T) {
	engine := NewOllamaEngine("", "")
	assert.Equal(t, 768, engine.Dimensions())
	assert.Equal(t, "ollama:nomic-embed-text", engine.Name())
	assert.NoError(t, engine.Close())
}

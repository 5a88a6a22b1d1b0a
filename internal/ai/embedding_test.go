package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func embedServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestEmbedSuccess(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]any
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		vec := make([]float32, 1536)
		vec[0] = 0.25
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": vec}},
		})
	})

	c := NewClient()
	cfg := EmbeddingConfig{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		Model:      "text-embedding-ada-002",
		Dimensions: 1536,
	}
	vec, err := c.Embed(context.Background(), cfg, "habeas corpus in Nigerian law")
	require.NoError(t, err)

	assert.Len(t, vec, 1536)
	assert.InDelta(t, 0.25, vec[0], 1e-6)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "/embeddings", gotPath)
	assert.Equal(t, "text-embedding-ada-002", gotBody["model"])
	assert.Equal(t, "habeas corpus in Nigerian law", gotBody["input"])
}

func TestEmbedDimensionMismatchRejected(t *testing.T) {
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{0.1, 0.2, 0.3}}},
		})
	})

	c := NewClient()
	cfg := EmbeddingConfig{BaseURL: srv.URL, APIKey: "k", Model: "m", Dimensions: 1536}
	_, err := c.Embed(context.Background(), cfg, "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension mismatch")
}

func TestEmbedMissingAPIKey(t *testing.T) {
	c := NewClient()
	_, err := c.Embed(context.Background(), EmbeddingConfig{BaseURL: "http://unused", Model: "m"}, "query")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestEmbedEmptyInput(t *testing.T) {
	c := NewClient()
	cfg := EmbeddingConfig{BaseURL: "http://unused", APIKey: "k", Model: "m"}
	_, err := c.Embed(context.Background(), cfg, "   ")
	require.Error(t, err)
}

func TestEmbedUpstreamError(t *testing.T) {
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limit"}}`)
	})

	c := NewClient()
	cfg := EmbeddingConfig{BaseURL: srv.URL, APIKey: "k", Model: "m"}
	_, err := c.Embed(context.Background(), cfg, "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestEmbedEmptyData(t *testing.T) {
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	})

	c := NewClient()
	cfg := EmbeddingConfig{BaseURL: srv.URL, APIKey: "k", Model: "m"}
	_, err := c.Embed(context.Background(), cfg, "query")
	require.Error(t, err)
}

func TestEmbeddingClientBindsConfig(t *testing.T) {
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float32{1, 2}}},
		})
	})

	e := NewEmbeddingClient(NewClient(), EmbeddingConfig{BaseURL: srv.URL, APIKey: "k", Model: "m", Dimensions: 2})
	vec, err := e.Embed(context.Background(), "some text")
	require.NoError(t, err)
	assert.Len(t, vec, 2)
}

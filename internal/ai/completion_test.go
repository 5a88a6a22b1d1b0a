package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteSuccess(t *testing.T) {
	var gotBody map[string]any
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "The doctrine of stare decisis applies."}},
			},
		})
	})

	c := NewClient()
	cfg := ChatConfig{
		BaseURL:     srv.URL,
		APIKey:      "k",
		Model:       "gpt-4",
		Temperature: 0.3,
		MaxTokens:   1500,
	}
	answer, err := c.Complete(context.Background(), cfg, []ChatMessage{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "question"},
	})
	require.NoError(t, err)

	assert.Equal(t, "The doctrine of stare decisis applies.", answer)
	assert.Equal(t, "gpt-4", gotBody["model"])
	assert.InDelta(t, 0.3, gotBody["temperature"].(float64), 1e-6)
	assert.EqualValues(t, 1500, gotBody["max_tokens"])
	assert.Equal(t, false, gotBody["stream"])
}

func TestCompleteMissingAPIKey(t *testing.T) {
	c := NewClient()
	_, err := c.Complete(context.Background(), ChatConfig{BaseURL: "http://unused"}, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	c := NewClient()
	_, err := c.Complete(context.Background(), ChatConfig{BaseURL: srv.URL, APIKey: "k", Model: "m"}, nil)
	require.Error(t, err)
}

func TestCompleteUpstreamError(t *testing.T) {
	srv := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	})

	c := NewClient()
	_, err := c.Complete(context.Background(), ChatConfig{BaseURL: srv.URL, APIKey: "k", Model: "m"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

package ai

import (
	"errors"
	"net/http"
	"time"
)

// ErrMissingAPIKey means the provider credential was never configured.
// Callers surface this as a server-side configuration failure, not as a
// transient service error.
var ErrMissingAPIKey = errors.New("llm api key not configured")

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// EmbeddingConfig holds API settings for text embedding (OpenAI-compatible).
// Dimensions, when non-zero, is enforced on every response: a vector of any
// other length is rejected rather than returned.
type EmbeddingConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	Dimensions int
}

// ChatConfig holds API settings for chat completion (OpenAI-compatible).
type ChatConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
}

type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// Package search queries external web-search providers for Nigerian legal
// material when the private corpus lacks coverage. Providers are tried in
// a fixed priority order; the first non-empty result set wins.
package search

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrNoCredentials means a provider has no API key configured. The chain
// treats it as "try the next provider", not as a failure of the query.
var ErrNoCredentials = errors.New("search provider credentials not configured")

// Result is one web search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// Provider is one web-search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// legalQuery scopes a raw query to the Nigerian legal domain.
func legalQuery(query string) string {
	return query + " Nigerian law legal"
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

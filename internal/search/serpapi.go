package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// SerpAPIProvider queries Google via SerpAPI, geolocated to Nigeria.
type SerpAPIProvider struct {
	apiKey     string
	httpClient *http.Client
}

func NewSerpAPIProvider(apiKey string) *SerpAPIProvider {
	return &SerpAPIProvider{apiKey: apiKey, httpClient: newHTTPClient()}
}

func (p *SerpAPIProvider) Name() string { return "serpapi" }

func (p *SerpAPIProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if p.apiKey == "" {
		return nil, ErrNoCredentials
	}

	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", legalQuery(query))
	params.Set("api_key", p.apiKey)
	params.Set("num", strconv.Itoa(maxResults))
	params.Set("gl", "ng")
	params.Set("hl", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://serpapi.com/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build serpapi request failed: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read serpapi response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("serpapi response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		OrganicResults []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse serpapi json failed: %w", err)
	}

	results := make([]Result, 0, len(parsed.OrganicResults))
	for _, r := range parsed.OrganicResults {
		results = append(results, Result{
			Title:   r.Title,
			URL:     r.Link,
			Snippet: r.Snippet,
			Source:  p.Name(),
		})
	}
	return results, nil
}

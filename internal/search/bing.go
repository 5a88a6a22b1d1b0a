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

// BingProvider is the last-resort provider, queried with the Nigerian
// English market.
type BingProvider struct {
	apiKey     string
	httpClient *http.Client
}

func NewBingProvider(apiKey string) *BingProvider {
	return &BingProvider{apiKey: apiKey, httpClient: newHTTPClient()}
}

func (p *BingProvider) Name() string { return "bing" }

func (p *BingProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if p.apiKey == "" {
		return nil, ErrNoCredentials
	}

	params := url.Values{}
	params.Set("q", legalQuery(query))
	params.Set("count", strconv.Itoa(maxResults))
	params.Set("mkt", "en-NG")
	params.Set("safeSearch", "Moderate")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://api.bing.microsoft.com/v7.0/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build bing request failed: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bing request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read bing response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bing response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		WebPages struct {
			Value []struct {
				Name    string `json:"name"`
				URL     string `json:"url"`
				Snippet string `json:"snippet"`
			} `json:"value"`
		} `json:"webPages"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse bing json failed: %w", err)
	}

	results := make([]Result, 0, len(parsed.WebPages.Value))
	for _, r := range parsed.WebPages.Value {
		results = append(results, Result{
			Title:   r.Name,
			URL:     r.URL,
			Snippet: r.Snippet,
			Source:  p.Name(),
		})
	}
	return results, nil
}

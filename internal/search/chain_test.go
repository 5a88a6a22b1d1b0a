package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	providerName string
	results      []Result
	err          error
	calls        int
	gotQuery     string
	gotMax       int
}

func (f *fakeProvider) Name() string { return f.providerName }

func (f *fakeProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	f.calls++
	f.gotQuery = query
	f.gotMax = maxResults
	return f.results, f.err
}

func TestChainFirstProviderWins(t *testing.T) {
	first := &fakeProvider{providerName: "tavily", results: []Result{{Title: "hit", Source: "tavily"}}}
	second := &fakeProvider{providerName: "serpapi", results: []Result{{Title: "other"}}}
	chain := NewChain(10, first, second)

	results := chain.Search(context.Background(), "tenancy law")
	require.Len(t, results, 1)
	assert.Equal(t, "hit", results[0].Title)
	assert.Equal(t, 1, first.calls)
	assert.Zero(t, second.calls)
	assert.Equal(t, 10, first.gotMax)
}

func TestChainSkipsFailedProvider(t *testing.T) {
	first := &fakeProvider{providerName: "tavily", err: ErrNoCredentials}
	second := &fakeProvider{providerName: "serpapi", err: errors.New("http 500")}
	third := &fakeProvider{providerName: "bing", results: []Result{{Title: "bing hit"}}}
	chain := NewChain(10, first, second, third)

	results := chain.Search(context.Background(), "tenancy law")
	require.Len(t, results, 1)
	assert.Equal(t, "bing hit", results[0].Title)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestChainSkipsEmptyResults(t *testing.T) {
	first := &fakeProvider{providerName: "tavily"}
	second := &fakeProvider{providerName: "serpapi", results: []Result{{Title: "found"}}}
	chain := NewChain(10, first, second)

	results := chain.Search(context.Background(), "q")
	require.Len(t, results, 1)
	assert.Equal(t, "found", results[0].Title)
}

func TestChainAllFail(t *testing.T) {
	first := &fakeProvider{providerName: "tavily", err: ErrNoCredentials}
	second := &fakeProvider{providerName: "serpapi", err: ErrNoCredentials}
	chain := NewChain(10, first, second)

	assert.Empty(t, chain.Search(context.Background(), "q"))
}

func TestNewChainDefaultsMaxResults(t *testing.T) {
	p := &fakeProvider{providerName: "tavily", results: []Result{{Title: "x"}}}
	chain := NewChain(0, p)

	chain.Search(context.Background(), "q")
	assert.Equal(t, DefaultMaxResults, p.gotMax)
}

func TestLegalQuerySuffix(t *testing.T) {
	assert.Equal(t, "land disputes Nigerian law legal", legalQuery("land disputes"))
}

func TestProvidersRequireCredentials(t *testing.T) {
	ctx := context.Background()

	_, err := NewTavilyProvider("").Search(ctx, "q", 10)
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = NewSerpAPIProvider("").Search(ctx, "q", 10)
	assert.ErrorIs(t, err, ErrNoCredentials)

	_, err = NewBingProvider("").Search(ctx, "q", 10)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

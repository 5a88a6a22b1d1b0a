package search

import (
	"context"
	"log"
)

// DefaultMaxResults caps results per provider query.
const DefaultMaxResults = 10

// Chain tries providers in priority order. A provider with no credentials
// or a failed call is logged and skipped; the first provider returning a
// non-empty result set wins. If every provider comes up empty the chain
// returns an empty set, never an error.
type Chain struct {
	providers  []Provider
	maxResults int
}

func NewChain(maxResults int, providers ...Provider) *Chain {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Chain{providers: providers, maxResults: maxResults}
}

// Search runs the provider chain for query.
func (c *Chain) Search(ctx context.Context, query string) []Result {
	for _, p := range c.providers {
		results, err := p.Search(ctx, query, c.maxResults)
		if err != nil {
			log.Printf("search: %s failed: %v", p.Name(), err)
			continue
		}
		if len(results) > 0 {
			return results
		}
	}
	return nil
}

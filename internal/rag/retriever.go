package rag

import (
	"context"
	"fmt"
	"log"

	"naijalaw-ai/internal/model"
)

// DefaultTopK is the number of chunks retrieved per query.
const DefaultTopK = 5

// Fallback keywords for lexical search when vector search is not
// provisioned. Mirrors the corpus domain.
var lexicalKeywords = []string{"Nigerian", "law", "legal", "case", "court", "statute"}

// Embedder converts text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ChunkStore is the retrieval surface of the knowledge store.
type ChunkStore interface {
	SimilaritySearch(ctx context.Context, queryVector []float32, k int) ([]model.DocumentChunk, error)
	LexicalSearch(ctx context.Context, keywords []string, k int) ([]model.DocumentChunk, error)
}

// searcher is one retrieval strategy. attempt returns ok=false when the
// strategy is not provisioned, which means "try the next one"; an error
// is a genuine failure and is never masked as an empty result.
type searcher interface {
	name() string
	attempt(ctx context.Context, query string, k int) (chunks []model.DocumentChunk, ok bool, err error)
}

// Retriever returns the top-K chunks relevant to a query, preferring
// vector similarity and degrading to lexical search. Whether vector
// search is available is decided once at construction and holds for the
// process lifetime.
type Retriever struct {
	searchers []searcher
	topK      int
}

func NewRetriever(store ChunkStore, embedder Embedder, useVector bool, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{
		topK: topK,
		searchers: []searcher{
			&vectorSearcher{store: store, embedder: embedder, available: useVector && embedder != nil},
			&lexicalSearcher{store: store},
		},
	}
}

// Retrieve runs the strategy list in order and returns the first
// provisioned strategy's results. Zero chunks is a valid outcome.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]model.DocumentChunk, error) {
	for _, s := range r.searchers {
		chunks, ok, err := s.attempt(ctx, query, r.topK)
		if err != nil {
			return nil, fmt.Errorf("%s search failed: %w", s.name(), err)
		}
		if !ok {
			log.Printf("retriever: %s search unavailable, trying next strategy", s.name())
			continue
		}
		return chunks, nil
	}
	return nil, nil
}

type vectorSearcher struct {
	store     ChunkStore
	embedder  Embedder
	available bool
}

func (s *vectorSearcher) name() string { return "vector" }

func (s *vectorSearcher) attempt(ctx context.Context, query string, k int) ([]model.DocumentChunk, bool, error) {
	if !s.available {
		return nil, false, nil
	}
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, true, fmt.Errorf("embed query: %w", err)
	}
	chunks, err := s.store.SimilaritySearch(ctx, vec, k)
	if err != nil {
		return nil, true, err
	}
	return chunks, true, nil
}

type lexicalSearcher struct {
	store ChunkStore
}

func (s *lexicalSearcher) name() string { return "lexical" }

func (s *lexicalSearcher) attempt(ctx context.Context, _ string, k int) ([]model.DocumentChunk, bool, error) {
	chunks, err := s.store.LexicalSearch(ctx, lexicalKeywords, k)
	if err != nil {
		return nil, true, err
	}
	return chunks, true, nil
}

package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"naijalaw-ai/internal/model"
)

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	return f.vector, f.err
}

type fakeChunkStore struct {
	similarityChunks []model.DocumentChunk
	similarityErr    error
	similarityCalls  int

	lexicalChunks   []model.DocumentChunk
	lexicalErr      error
	lexicalCalls    int
	lexicalKeywords []string
}

func (f *fakeChunkStore) SimilaritySearch(ctx context.Context, queryVector []float32, k int) ([]model.DocumentChunk, error) {
	f.similarityCalls++
	return f.similarityChunks, f.similarityErr
}

func (f *fakeChunkStore) LexicalSearch(ctx context.Context, keywords []string, k int) ([]model.DocumentChunk, error) {
	f.lexicalCalls++
	f.lexicalKeywords = keywords
	return f.lexicalChunks, f.lexicalErr
}

func TestRetrievePrefersVector(t *testing.T) {
	store := &fakeChunkStore{
		similarityChunks: []model.DocumentChunk{{ID: 1}, {ID: 2}},
		lexicalChunks:    []model.DocumentChunk{{ID: 9}},
	}
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	r := NewRetriever(store, embedder, true, 5)

	chunks, err := r.Retrieve(context.Background(), "fundamental rights enforcement")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, 1, embedder.calls)
	assert.Equal(t, 1, store.similarityCalls)
	assert.Zero(t, store.lexicalCalls)
}

func TestRetrieveFallsBackWhenVectorUnprovisioned(t *testing.T) {
	store := &fakeChunkStore{
		lexicalChunks: []model.DocumentChunk{{ID: 7}},
	}
	embedder := &fakeEmbedder{vector: []float32{0.1}}
	r := NewRetriever(store, embedder, false, 5)

	chunks, err := r.Retrieve(context.Background(), "land use act")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, uint(7), chunks[0].ID)
	assert.Zero(t, embedder.calls)
	assert.Zero(t, store.similarityCalls)
	assert.Equal(t, 1, store.lexicalCalls)
	assert.Equal(t, lexicalKeywords, store.lexicalKeywords)
}

func TestRetrieveNilEmbedderFallsBack(t *testing.T) {
	store := &fakeChunkStore{lexicalChunks: []model.DocumentChunk{{ID: 3}}}
	r := NewRetriever(store, nil, true, 5)

	chunks, err := r.Retrieve(context.Background(), "any query")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 1, store.lexicalCalls)
}

func TestRetrieveEmbedErrorPropagates(t *testing.T) {
	store := &fakeChunkStore{lexicalChunks: []model.DocumentChunk{{ID: 4}}}
	embedder := &fakeEmbedder{err: errors.New("upstream unavailable")}
	r := NewRetriever(store, embedder, true, 5)

	chunks, err := r.Retrieve(context.Background(), "query")
	require.Error(t, err)
	assert.Nil(t, chunks)
	assert.Contains(t, err.Error(), "vector search failed")
	// a genuine failure is never masked by the lexical fallback
	assert.Zero(t, store.lexicalCalls)
}

func TestRetrieveSimilarityErrorPropagates(t *testing.T) {
	store := &fakeChunkStore{similarityErr: errors.New("db gone")}
	embedder := &fakeEmbedder{vector: []float32{0.5}}
	r := NewRetriever(store, embedder, true, 5)

	_, err := r.Retrieve(context.Background(), "query")
	require.Error(t, err)
	assert.Zero(t, store.lexicalCalls)
}

func TestRetrieveZeroChunksIsValid(t *testing.T) {
	store := &fakeChunkStore{}
	embedder := &fakeEmbedder{vector: []float32{0.5}}
	r := NewRetriever(store, embedder, true, 5)

	chunks, err := r.Retrieve(context.Background(), "query with no matches")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestRetrieveLexicalErrorPropagates(t *testing.T) {
	store := &fakeChunkStore{lexicalErr: errors.New("bad table")}
	r := NewRetriever(store, nil, false, 5)

	_, err := r.Retrieve(context.Background(), "query")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lexical search failed")
}

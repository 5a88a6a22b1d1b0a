package rag

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"naijalaw-ai/internal/model"
)

func chunkWithMeta(meta map[string]string) model.DocumentChunk {
	var c model.DocumentChunk
	c.Content = "some chunk text"
	if meta != nil {
		c.SetMetadata(meta)
	}
	return c
}

func TestExtractCitationsEmptyInput(t *testing.T) {
	assert.Empty(t, ExtractCitations(nil))
	assert.Empty(t, ExtractCitations([]model.DocumentChunk{}))
}

func TestExtractCitationsFieldPrecedence(t *testing.T) {
	chunks := []model.DocumentChunk{
		chunkWithMeta(map[string]string{
			"case_name":  "Carlill v. Carbolic Smoke Ball Co",
			"title":      "ignored title",
			"year":       "1893",
			"date":       "1893-12-07",
			"court":      "Court of Appeal",
			"url":        "https://lawpavilion.com/carlill",
			"source_url": "https://ignored.example",
		}),
	}

	citations := ExtractCitations(chunks)
	require.Len(t, citations, 1)
	assert.Equal(t, "Carlill v. Carbolic Smoke Ball Co", citations[0].CaseName)
	assert.Equal(t, "1893", citations[0].Year)
	assert.Equal(t, "Court of Appeal", citations[0].Court)
	assert.Equal(t, "https://lawpavilion.com/carlill", citations[0].URL)
}

func TestExtractCitationsSecondaryKeys(t *testing.T) {
	chunks := []model.DocumentChunk{
		chunkWithMeta(map[string]string{
			"title":      "Land Use Act Commentary",
			"date":       "1978",
			"source_url": "https://lawnigeria.com/land-use-act",
		}),
	}

	citations := ExtractCitations(chunks)
	require.Len(t, citations, 1)
	assert.Equal(t, "Land Use Act Commentary", citations[0].CaseName)
	assert.Equal(t, "1978", citations[0].Year)
	assert.Equal(t, UnknownCourt, citations[0].Court)
	assert.Equal(t, "https://lawnigeria.com/land-use-act", citations[0].URL)
}

func TestExtractCitationsUnknownPlaceholders(t *testing.T) {
	chunks := []model.DocumentChunk{
		chunkWithMeta(map[string]string{"chunk_index": "0"}),
	}

	citations := ExtractCitations(chunks)
	require.Len(t, citations, 1)
	assert.Equal(t, UnknownCase, citations[0].CaseName)
	assert.Equal(t, UnknownYear, citations[0].Year)
	assert.Equal(t, UnknownCourt, citations[0].Court)
	assert.Empty(t, citations[0].URL)
}

func TestExtractCitationsDeduplicates(t *testing.T) {
	meta := map[string]string{
		"case_name": "Awolowo v. Shagari",
		"year":      "1979",
		"court":     "Supreme Court of Nigeria",
		"url":       "https://nigerianlawguru.com/awolowo",
	}
	dup := map[string]string{
		"case_name": "Awolowo v. Shagari",
		"year":      "1979",
		"court":     "Supreme Court of Nigeria",
		"url":       "https://other.example/awolowo",
	}
	other := map[string]string{
		"case_name": "Awolowo v. Shagari",
		"year":      "1983",
		"court":     "Supreme Court of Nigeria",
	}

	citations := ExtractCitations([]model.DocumentChunk{
		chunkWithMeta(meta),
		chunkWithMeta(dup),
		chunkWithMeta(other),
	})

	require.Len(t, citations, 2)
	// first occurrence wins, including its URL
	assert.Equal(t, "https://nigerianlawguru.com/awolowo", citations[0].URL)
	assert.Equal(t, "1983", citations[1].Year)
}

func TestExtractCitationsGenericFallback(t *testing.T) {
	chunks := []model.DocumentChunk{
		chunkWithMeta(nil),
		chunkWithMeta(nil),
	}

	citations := ExtractCitations(chunks)
	require.Len(t, citations, 1)
	assert.Equal(t, GenericSourceName, citations[0].CaseName)
	assert.Equal(t, strconv.Itoa(time.Now().Year()), citations[0].Year)
	assert.Equal(t, GenericSourceCourt, citations[0].Court)
}

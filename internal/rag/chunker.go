// Package rag implements the retrieval-augmented generation pipeline:
// chunking, retrieval, answer synthesis, and citation extraction.
package rag

import "strconv"

// Default chunking parameters, in characters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunk is one bounded slice of a document's text. StartChar/EndChar are
// rune offsets into the source; consecutive chunks overlap by the
// configured amount so no sentence is lost on a boundary.
type Chunk struct {
	Index     int
	StartChar int
	EndChar   int
	Content   string
	Metadata  map[string]string
}

// Chunker splits raw text into overlapping fixed-size windows. It is
// deterministic and does no I/O.
type Chunker struct {
	size    int
	overlap int
}

func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 4
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split chunks text into windows of the configured size. Chunk i starts at
// i*(size-overlap). Each chunk's metadata is the inherited metadata plus
// chunk_index, start_char and end_char. Empty text yields no chunks; text
// shorter than one window yields exactly one chunk.
func (c *Chunker) Split(text string, metadata map[string]string) []Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []Chunk
	for i := 0; i < len(runes); i += step {
		end := i + c.size
		if end > len(runes) {
			end = len(runes)
		}

		meta := make(map[string]string, len(metadata)+3)
		for k, v := range metadata {
			meta[k] = v
		}
		index := i / step
		meta["chunk_index"] = strconv.Itoa(index)
		meta["start_char"] = strconv.Itoa(i)
		meta["end_char"] = strconv.Itoa(end)

		chunks = append(chunks, Chunk{
			Index:     index,
			StartChar: i,
			EndChar:   end,
			Content:   string(runes[i:end]),
			Metadata:  meta,
		})
	}
	return chunks
}

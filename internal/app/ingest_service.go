package app

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"naijalaw-ai/internal/model"
	"naijalaw-ai/internal/rag"
)

// Ingestion constants. The preview replaces the document's full content
// once all chunks are stored.
const (
	previewLength    = 1000
	embedConcurrency = 8
)

// DocumentGetter looks up the document being ingested.
type DocumentGetter interface {
	GetByID(id uint) (*model.Document, error)
}

// ChunkInserter is the atomic write surface of the knowledge store.
type ChunkInserter interface {
	InsertChunks(ctx context.Context, doc *model.Document, chunks []model.DocumentChunk) error
}

// IngestService turns a document's raw text into stored chunks with
// embeddings. Ingestion is all-or-nothing: if any embedding call fails,
// nothing is written.
type IngestService struct {
	docs     DocumentGetter
	chunks   ChunkInserter
	embedder rag.Embedder
	chunker  *rag.Chunker
}

func NewIngestService(docs DocumentGetter, chunks ChunkInserter, embedder rag.Embedder, chunker *rag.Chunker) *IngestService {
	if chunker == nil {
		chunker = rag.NewChunker(rag.DefaultChunkSize, rag.DefaultChunkOverlap)
	}
	return &IngestService{
		docs:     docs,
		chunks:   chunks,
		embedder: embedder,
		chunker:  chunker,
	}
}

type IngestInput struct {
	DocumentID uint
	Content    string
	Metadata   map[string]string
}

type IngestResult struct {
	Success         bool `json:"success"`
	ChunksProcessed int  `json:"chunks_processed"`
	DocumentID      uint `json:"document_id"`
}

// Ingest chunks the content, embeds every chunk, and persists them
// together with the document's preview update in one transaction.
// Embedding calls fan out concurrently since they are independent;
// results are joined before anything is written.
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	if input.DocumentID == 0 || strings.TrimSpace(input.Content) == "" {
		return nil, ErrInvalidInput
	}

	doc, err := s.docs.GetByID(input.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}

	chunks := s.chunker.Split(input.Content, input.Metadata)

	embeddings := make([][]float32, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)
	for i := range chunks {
		i := i
		g.Go(func() error {
			vec, err := s.embedder.Embed(gctx, chunks[i].Content)
			if err != nil {
				return err
			}
			embeddings[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := make([]model.DocumentChunk, len(chunks))
	for i, c := range chunks {
		records[i] = model.DocumentChunk{
			DocumentID: doc.ID,
			ChunkIndex: c.Index,
			StartChar:  c.StartChar,
			EndChar:    c.EndChar,
			Content:    c.Content,
		}
		records[i].SetMetadata(c.Metadata)
		records[i].SetEmbedding(embeddings[i])
	}

	doc.Content = previewOf(input.Content)
	meta := doc.MetadataMap()
	for k, v := range input.Metadata {
		meta[k] = v
	}
	meta["chunks_count"] = strconv.Itoa(len(chunks))
	meta["processed"] = "true"
	doc.SetMetadata(meta)

	if err := s.chunks.InsertChunks(ctx, doc, records); err != nil {
		return nil, err
	}

	return &IngestResult{
		Success:         true,
		ChunksProcessed: len(chunks),
		DocumentID:      doc.ID,
	}, nil
}

// previewOf truncates content to the preview length, marking truncation
// with an ellipsis.
func previewOf(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}

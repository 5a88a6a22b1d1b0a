package repository

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"gorm.io/gorm"

	"naijalaw-ai/internal/model"
)

type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// InsertChunks stores all chunks for a document and flips the document to
// its ingested state in a single transaction. Either every chunk becomes
// visible together with the updated document, or nothing does — a failed
// ingestion never leaves a half-ingested document queryable. Re-ingesting
// a document replaces its previous chunks.
func (r *ChunkRepository) InsertChunks(ctx context.Context, doc *model.Document, chunks []model.DocumentChunk) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", doc.ID).Delete(&model.DocumentChunk{}).Error; err != nil {
			return fmt.Errorf("clear previous chunks failed: %w", err)
		}
		if len(chunks) > 0 {
			if err := tx.Create(&chunks).Error; err != nil {
				return fmt.Errorf("create chunks failed: %w", err)
			}
		}
		updates := map[string]any{
			"content":  doc.Content,
			"metadata": doc.Metadata,
		}
		if err := tx.Model(&model.Document{}).Where("id = ?", doc.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update document failed: %w", err)
		}
		return nil
	})
}

// SimilaritySearch returns the k chunks nearest to queryVector by cosine
// similarity. MySQL has no vector index, so candidate embeddings are
// ranked in process; chunks without a stored embedding or with a
// different dimension are skipped.
func (r *ChunkRepository) SimilaritySearch(ctx context.Context, queryVector []float32, k int) ([]model.DocumentChunk, error) {
	if k <= 0 || len(queryVector) == 0 {
		return nil, nil
	}

	var candidates []model.DocumentChunk
	if err := r.db.WithContext(ctx).
		Where("embedding <> '' AND embedding <> '[]'").
		Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("load chunk candidates failed: %w", err)
	}

	type scored struct {
		chunk model.DocumentChunk
		score float64
	}
	ranked := make([]scored, 0, len(candidates))
	for i := range candidates {
		vec := candidates[i].EmbeddingVector()
		if len(vec) != len(queryVector) {
			continue
		}
		ranked = append(ranked, scored{
			chunk: candidates[i],
			score: cosineSimilarity(queryVector, vec),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	if k > len(ranked) {
		k = len(ranked)
	}

	out := make([]model.DocumentChunk, k)
	for i := 0; i < k; i++ {
		out[i] = ranked[i].chunk
	}
	return out, nil
}

// LexicalSearch returns up to k chunks whose content matches any of the
// keywords, ordered by how many keywords match.
func (r *ChunkRepository) LexicalSearch(ctx context.Context, keywords []string, k int) ([]model.DocumentChunk, error) {
	if k <= 0 || len(keywords) == 0 {
		return nil, nil
	}

	var where []string
	var score []string
	var args []any
	for _, kw := range keywords {
		pattern := "%" + kw + "%"
		where = append(where, "content LIKE ?")
		score = append(score, "(content LIKE ?)")
		args = append(args, pattern)
	}
	for _, kw := range keywords {
		args = append(args, "%"+kw+"%")
	}
	args = append(args, k)

	query := fmt.Sprintf(
		"SELECT * FROM document_chunks WHERE %s ORDER BY (%s) DESC, id ASC LIMIT ?",
		strings.Join(where, " OR "),
		strings.Join(score, " + "),
	)

	var chunks []model.DocumentChunk
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&chunks).Error; err != nil {
		return nil, fmt.Errorf("lexical search failed: %w", err)
	}
	return chunks, nil
}

func (r *ChunkRepository) DeleteByDocumentID(documentID uint) error {
	if err := r.db.Where("document_id = ?", documentID).Delete(&model.DocumentChunk{}).Error; err != nil {
		return fmt.Errorf("delete chunks by document failed: %w", err)
	}
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

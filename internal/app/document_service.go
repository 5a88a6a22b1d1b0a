package app

import (
	"strings"

	"naijalaw-ai/internal/model"
	"naijalaw-ai/internal/repository"
)

// DocumentService manages document records. Text extraction and ingestion
// happen separately in IngestService.
type DocumentService struct {
	docRepo   *repository.DocumentRepository
	chunkRepo *repository.ChunkRepository
}

func NewDocumentService(docRepo *repository.DocumentRepository, chunkRepo *repository.ChunkRepository) *DocumentService {
	return &DocumentService{docRepo: docRepo, chunkRepo: chunkRepo}
}

type CreateDocumentInput struct {
	UserID   uint
	Title    string
	Type     string
	Content  string
	Metadata map[string]string
}

// CreateDocument records an uploaded document prior to ingestion.
func (s *DocumentService) CreateDocument(input CreateDocumentInput) (*model.Document, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Untitled"
	}
	docType := strings.ToLower(strings.TrimSpace(input.Type))
	if docType == "" {
		docType = model.DocTypeTXT
	}
	if !model.ValidDocType(docType) {
		return nil, ErrInvalidInput
	}

	doc := &model.Document{
		UserID:  input.UserID,
		Title:   title,
		Type:    docType,
		Content: input.Content,
	}
	doc.SetMetadata(input.Metadata)
	if err := s.docRepo.Create(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *DocumentService) ListDocuments(userID uint) ([]model.Document, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.docRepo.ListByUserID(userID)
}

// DeleteDocument removes a document and all of its chunks.
func (s *DocumentService) DeleteDocument(userID, documentID uint) error {
	if userID == 0 || documentID == 0 {
		return ErrInvalidInput
	}
	doc, err := s.docRepo.GetByIDAndUserID(documentID, userID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}
	if err := s.chunkRepo.DeleteByDocumentID(doc.ID); err != nil {
		return err
	}
	return s.docRepo.DeleteByIDAndUserID(doc.ID, userID)
}

package handler

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"naijalaw-ai/internal/app"
	"naijalaw-ai/internal/model"
	"naijalaw-ai/internal/pkg/pdfextract"
	"naijalaw-ai/internal/transport/http/response"
)

const maxUploadBytes = 20 << 20

type RAGHandler struct {
	documentService *app.DocumentService
	ingestService   *app.IngestService
}

func NewRAGHandler(documentService *app.DocumentService, ingestService *app.IngestService) *RAGHandler {
	return &RAGHandler{documentService: documentService, ingestService: ingestService}
}

type IngestRequest struct {
	DocumentID uint              `json:"document_id"`
	Content    string            `json:"content"`
	Metadata   map[string]string `json:"metadata"`
}

// Ingest is the ingestion entry point. Both document_id and content are
// required; the response shape mirrors the ingest result directly.
func (h *RAGHandler) Ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.DocumentID == 0 || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Missing required fields: document_id, content",
		})
		return
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), app.IngestInput{
		DocumentID: req.DocumentID,
		Content:    req.Content,
		Metadata:   req.Metadata,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, app.ErrDocumentNotFound) {
			status = http.StatusNotFound
		} else if errors.Is(err, app.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		log.Printf("ingest document %d failed: %v", req.DocumentID, err)
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

type CreateDocumentRequest struct {
	UserID   uint              `json:"user_id" binding:"required"`
	Title    string            `json:"title"`
	Type     string            `json:"type"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

func (h *RAGHandler) CreateDocument(c *gin.Context) {
	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	doc, err := h.documentService.CreateDocument(app.CreateDocumentInput{
		UserID:   req.UserID,
		Title:    req.Title,
		Type:     req.Type,
		Content:  req.Content,
		Metadata: req.Metadata,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create document failed")
		}
		return
	}
	response.OK(c, doc)
}

func (h *RAGHandler) ListDocuments(c *gin.Context) {
	userID := parseUintQuery(c, "user_id")
	if userID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing user_id")
		return
	}
	docs, err := h.documentService.ListDocuments(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		return
	}
	response.OK(c, docs)
}

func (h *RAGHandler) DeleteDocument(c *gin.Context) {
	userID := parseUintQuery(c, "user_id")
	documentID, err := parseUintParam(c, "id")
	if err != nil || documentID == 0 || userID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid document id or user_id")
		return
	}
	if err := h.documentService.DeleteDocument(userID, documentID); err != nil {
		switch {
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeDocNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete document failed")
		}
		return
	}
	response.OK(c, gin.H{"deleted_document_id": documentID})
}

// UploadDocument accepts a multipart file, extracts its text, creates the
// document record and ingests it in one request.
func (h *RAGHandler) UploadDocument(c *gin.Context) {
	userID := parseUintQuery(c, "user_id")
	if userID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing user_id")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file field")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "open upload failed")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "read upload failed")
		return
	}

	var content, docType string
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".pdf":
		docType = model.DocTypePDF
		content, err = pdfextract.ExtractText(bytes.NewReader(raw))
		if err != nil {
			log.Printf("pdf extraction failed for %s: %v", fileHeader.Filename, err)
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "pdf text extraction failed")
			return
		}
	case ".txt":
		docType = model.DocTypeTXT
		content = string(raw)
	default:
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "unsupported file type, use .pdf or .txt")
		return
	}
	if strings.TrimSpace(content) == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file contains no extractable text")
		return
	}

	title := strings.TrimSuffix(fileHeader.Filename, filepath.Ext(fileHeader.Filename))
	doc, err := h.documentService.CreateDocument(app.CreateDocumentInput{
		UserID: userID,
		Title:  title,
		Type:   docType,
	})
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create document failed")
		return
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), app.IngestInput{
		DocumentID: doc.ID,
		Content:    content,
		Metadata:   map[string]string{"title": doc.Title, "source": "upload"},
	})
	if err != nil {
		log.Printf("ingest uploaded document %d failed: %v", doc.ID, err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ingestion failed")
		return
	}

	response.OK(c, gin.H{
		"document": doc,
		"ingest":   result,
	})
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"naijalaw-ai/internal/app"
	"naijalaw-ai/internal/rag"
	"naijalaw-ai/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type CreateSessionRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Title  string `json:"title" binding:"max=256"`
}

type SendMessageRequest struct {
	Query     string `json:"query"`
	SessionID uint   `json:"session_id"`
	UserID    uint   `json:"user_id"`
}

// ChatResponse is the query entry point's wire shape. The failure path
// still returns a well-formed body with the apology text, never an empty
// response.
type ChatResponse struct {
	Content  string         `json:"content"`
	Sources  []rag.Citation `json:"sources"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Error    string         `json:"error,omitempty"`
}

func (h *ChatHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}
	session, err := h.chatService.CreateSession(app.CreateSessionInput{
		UserID: req.UserID,
		Title:  req.Title,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "create session failed")
		}
		return
	}
	response.OK(c, session)
}

func (h *ChatHandler) ListSessions(c *gin.Context) {
	userID := parseUintQuery(c, "user_id")
	if userID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing user_id")
		return
	}
	sessions, err := h.chatService.ListSessions(userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list sessions failed")
		return
	}
	response.OK(c, sessions)
}

func (h *ChatHandler) DeleteSession(c *gin.Context) {
	userID := parseUintQuery(c, "user_id")
	sessionID, err := parseUintParam(c, "id")
	if err != nil || sessionID == 0 || userID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid session id or user_id")
		return
	}
	if err := h.chatService.DeleteSession(userID, sessionID); err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "delete session failed")
		}
		return
	}
	response.OK(c, gin.H{"deleted_session_id": sessionID})
}

// SendMessage runs one chat turn. Required fields: query, session_id,
// user_id.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Query == "" || req.SessionID == 0 || req.UserID == 0 {
		c.JSON(http.StatusBadRequest, ChatResponse{
			Error:   "Missing required fields: query, session_id, user_id",
			Sources: []rag.Citation{},
		})
		return
	}

	result, err := h.chatService.SendMessage(c.Request.Context(), app.SendMessageInput{
		UserID:    req.UserID,
		SessionID: req.SessionID,
		Query:     req.Query,
	})
	if err != nil {
		h.respondFailure(c, err)
		return
	}

	// A pipeline failure still persists the turn, but the response carries
	// the error at the top level alongside the fallback content.
	if processed, ok := result.Metadata["query_processed"].(bool); ok && !processed {
		errMsg, _ := result.Metadata["error"].(string)
		c.JSON(http.StatusInternalServerError, ChatResponse{
			Error:    errMsg,
			Content:  result.Content,
			Sources:  result.Sources,
			Metadata: result.Metadata,
		})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Content:  result.Content,
		Sources:  result.Sources,
		Metadata: result.Metadata,
	})
}

func (h *ChatHandler) respondFailure(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrMessageEmpty):
		status = http.StatusBadRequest
	case errors.Is(err, app.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, app.ErrSendInFlight):
		status = http.StatusConflict
	}
	c.JSON(status, ChatResponse{
		Error:   err.Error(),
		Content: app.ApologyMessage,
		Sources: []rag.Citation{},
	})
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID := parseUintQuery(c, "user_id")
	sessionID := parseUintQuery(c, "session_id")
	if userID == 0 || sessionID == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing user_id or session_id")
		return
	}
	limit := int(parseUintQuery(c, "limit"))

	messages, err := h.chatService.GetHistory(c.Request.Context(), userID, sessionID, limit)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSessionNotFound):
			response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get history failed")
		}
		return
	}
	response.OK(c, messages)
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	u, err := strconv.ParseUint(c.Param(key), 10, 64)
	return uint(u), err
}

func parseUintQuery(c *gin.Context, key string) uint {
	s := c.Query(key)
	if s == "" {
		return 0
	}
	u, _ := strconv.ParseUint(s, 10, 64)
	return uint(u)
}

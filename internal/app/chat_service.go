package app

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"naijalaw-ai/internal/model"
	"naijalaw-ai/internal/rag"
)

// ApologyMessage is shown in place of a real answer when the pipeline
// fails mid-turn. The underlying error goes into message metadata, never
// to the user verbatim.
const ApologyMessage = "I apologize, but I'm experiencing technical difficulties. Please try again later."

// Session titles derive from the first user message, truncated to this
// many characters plus an ellipsis.
const titleMaxLen = 50

// SessionStore persists chat sessions.
type SessionStore interface {
	Create(session *model.ChatSession) error
	GetByIDAndUserID(sessionID, userID uint) (*model.ChatSession, error)
	ListByUserID(userID uint) ([]model.ChatSession, error)
	UpdateTitle(sessionID uint, title string) error
	DeleteByIDAndUserID(sessionID, userID uint) error
}

// MessageStore persists transcript messages.
type MessageStore interface {
	Create(message *model.ChatMessage) error
	ListBySessionID(sessionID uint, limit int) ([]model.ChatMessage, error)
	CountBySessionID(sessionID uint) (int64, error)
	DeleteBySessionID(sessionID uint) error
}

// ChunkRetriever returns the chunks most relevant to a query.
type ChunkRetriever interface {
	Retrieve(ctx context.Context, query string) ([]model.DocumentChunk, error)
}

// AnswerSynthesizer produces a grounded answer from retrieved chunks.
type AnswerSynthesizer interface {
	Answer(ctx context.Context, query string, chunks []model.DocumentChunk) (string, error)
}

// SessionLocker is the per-session single-flight guard.
type SessionLocker interface {
	TryLock(ctx context.Context, sessionID uint) (bool, error)
	Unlock(ctx context.Context, sessionID uint) error
}

// HistoryCache caches session transcripts between reads.
type HistoryCache interface {
	GetHistory(ctx context.Context, sessionID uint) ([]model.ChatMessage, bool, error)
	SetHistory(ctx context.Context, sessionID uint, messages []model.ChatMessage) error
	DeleteHistory(ctx context.Context, sessionID uint) error
	MarkDirty(ctx context.Context, sessionID uint) error
	IsDirty(ctx context.Context, sessionID uint) (bool, error)
}

// ChatService runs one chat turn end to end: persist the user message,
// retrieve context, synthesize an answer, extract citations, persist the
// assistant message. A turn always resolves to a persisted assistant
// message, real or fallback.
type ChatService struct {
	sessions     SessionStore
	messages     MessageStore
	retriever    ChunkRetriever
	synthesizer  AnswerSynthesizer
	lock         SessionLocker
	historyCache HistoryCache
}

func NewChatService(
	sessions SessionStore,
	messages MessageStore,
	retriever ChunkRetriever,
	synthesizer AnswerSynthesizer,
	lock SessionLocker,
	historyCache HistoryCache,
) *ChatService {
	return &ChatService{
		sessions:     sessions,
		messages:     messages,
		retriever:    retriever,
		synthesizer:  synthesizer,
		lock:         lock,
		historyCache: historyCache,
	}
}

type CreateSessionInput struct {
	UserID uint
	Title  string
}

func (s *ChatService) CreateSession(input CreateSessionInput) (*model.ChatSession, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	session := &model.ChatSession{
		UserID: input.UserID,
		Title:  strings.TrimSpace(input.Title),
	}
	if err := s.sessions.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *ChatService) ListSessions(userID uint) ([]model.ChatSession, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.sessions.ListByUserID(userID)
}

func (s *ChatService) DeleteSession(userID, sessionID uint) error {
	if userID == 0 || sessionID == 0 {
		return ErrInvalidInput
	}
	session, err := s.sessions.GetByIDAndUserID(sessionID, userID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if err := s.messages.DeleteBySessionID(sessionID); err != nil {
		return err
	}
	if err := s.sessions.DeleteByIDAndUserID(sessionID, userID); err != nil {
		return err
	}
	if s.historyCache != nil {
		_ = s.historyCache.DeleteHistory(context.Background(), sessionID)
	}
	return nil
}

type SendMessageInput struct {
	UserID    uint
	SessionID uint
	Query     string
}

// SendMessageResult carries both persisted turn messages plus the answer
// payload returned to the caller.
type SendMessageResult struct {
	UserMessage      model.ChatMessage `json:"user_message"`
	AssistantMessage model.ChatMessage `json:"assistant_message"`
	Content          string            `json:"content"`
	Sources          []rag.Citation    `json:"sources"`
	Metadata         map[string]any    `json:"metadata"`
}

// SendMessage runs one turn. The user message is persisted before the
// pipeline runs, regardless of its outcome; a pipeline failure persists a
// fallback assistant message with the error recorded in metadata.
func (s *ChatService) SendMessage(ctx context.Context, input SendMessageInput) (*SendMessageResult, error) {
	if input.UserID == 0 || input.SessionID == 0 {
		return nil, ErrInvalidInput
	}
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, ErrMessageEmpty
	}

	session, err := s.sessions.GetByIDAndUserID(input.SessionID, input.UserID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	acquired, err := s.lock.TryLock(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSendInFlight
	}
	defer func() {
		if err := s.lock.Unlock(context.Background(), input.SessionID); err != nil {
			log.Printf("chat: release send lock for session %d failed: %v", input.SessionID, err)
		}
	}()

	priorMessages, err := s.messages.CountBySessionID(input.SessionID)
	if err != nil {
		return nil, err
	}

	userMessage := model.ChatMessage{
		SessionID: input.SessionID,
		UserID:    input.UserID,
		Role:      model.RoleUser,
		Content:   query,
		CreatedAt: time.Now(),
	}
	userMessage.SetSources([]rag.Citation{})
	userMessage.SetMetadata(map[string]any{})
	if err := s.messages.Create(&userMessage); err != nil {
		return nil, err
	}

	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, input.SessionID)
		_ = s.historyCache.DeleteHistory(ctx, input.SessionID)
	}

	if priorMessages == 0 {
		if err := s.sessions.UpdateTitle(input.SessionID, deriveTitle(query)); err != nil {
			log.Printf("chat: set title for session %d failed: %v", input.SessionID, err)
		}
	}

	turnID := uuid.NewString()
	content, citations, metadata := s.runPipeline(ctx, query, turnID)

	assistantMessage := model.ChatMessage{
		SessionID: input.SessionID,
		UserID:    input.UserID,
		Role:      model.RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	}
	assistantMessage.SetSources(citations)
	assistantMessage.SetMetadata(metadata)
	if err := s.messages.Create(&assistantMessage); err != nil {
		return nil, err
	}

	return &SendMessageResult{
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
		Content:          content,
		Sources:          citations,
		Metadata:         metadata,
	}, nil
}

// runPipeline executes retrieve → synthesize → extract. Failures collapse
// to the fixed apology with the cause recorded in metadata; they never
// abort the turn.
func (s *ChatService) runPipeline(ctx context.Context, query, turnID string) (string, []rag.Citation, map[string]any) {
	chunks, err := s.retriever.Retrieve(ctx, query)
	if err != nil {
		log.Printf("chat: retrieval failed: %v", err)
		return ApologyMessage, []rag.Citation{}, map[string]any{
			"turn_id":         turnID,
			"error":           err.Error(),
			"query_processed": false,
		}
	}

	answer, err := s.synthesizer.Answer(ctx, query, chunks)
	if err != nil {
		log.Printf("chat: synthesis failed: %v", err)
		return ApologyMessage, []rag.Citation{}, map[string]any{
			"turn_id":         turnID,
			"error":           err.Error(),
			"query_processed": false,
		}
	}

	citations := rag.ExtractCitations(chunks)
	if citations == nil {
		citations = []rag.Citation{}
	}
	return answer, citations, map[string]any{
		"turn_id":         turnID,
		"chunks_used":     len(chunks),
		"query_processed": true,
	}
}

func (s *ChatService) GetHistory(ctx context.Context, userID, sessionID uint, limit int) ([]model.ChatMessage, error) {
	if userID == 0 || sessionID == 0 {
		return nil, ErrInvalidInput
	}

	session, err := s.sessions.GetByIDAndUserID(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, sessionID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, sessionID); cacheErr == nil && hit {
				return trimMessages(cached, limit), nil
			}
		}
	}

	messages, err := s.messages.ListBySessionID(sessionID, limit)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, sessionID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, sessionID, messages)
		}
	}
	return messages, nil
}

func trimMessages(messages []model.ChatMessage, limit int) []model.ChatMessage {
	if limit <= 0 || limit >= len(messages) {
		return messages
	}
	return messages[len(messages)-limit:]
}

// deriveTitle truncates the first user message to the title bound.
func deriveTitle(query string) string {
	runes := []rune(query)
	if len(runes) <= titleMaxLen {
		return query
	}
	return string(runes[:titleMaxLen]) + "..."
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"naijalaw-ai/internal/app"
	"naijalaw-ai/internal/model"
)

type stubSessionStore struct {
	session *model.ChatSession
}

func (s *stubSessionStore) Create(session *model.ChatSession) error { return nil }

func (s *stubSessionStore) GetByIDAndUserID(sessionID, userID uint) (*model.ChatSession, error) {
	return s.session, nil
}

func (s *stubSessionStore) ListByUserID(userID uint) ([]model.ChatSession, error) {
	return nil, nil
}

func (s *stubSessionStore) UpdateTitle(sessionID uint, title string) error { return nil }

func (s *stubSessionStore) DeleteByIDAndUserID(sessionID, userID uint) error { return nil }

type stubMessageStore struct {
	stored []model.ChatMessage
}

func (s *stubMessageStore) Create(message *model.ChatMessage) error {
	message.ID = uint(len(s.stored) + 1)
	s.stored = append(s.stored, *message)
	return nil
}

func (s *stubMessageStore) ListBySessionID(sessionID uint, limit int) ([]model.ChatMessage, error) {
	return s.stored, nil
}

func (s *stubMessageStore) CountBySessionID(sessionID uint) (int64, error) { return 0, nil }

func (s *stubMessageStore) DeleteBySessionID(sessionID uint) error { return nil }

type stubRetriever struct {
	chunks []model.DocumentChunk
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string) ([]model.DocumentChunk, error) {
	return s.chunks, nil
}

type stubSynthesizer struct {
	answer string
	err    error
}

func (s *stubSynthesizer) Answer(ctx context.Context, query string, chunks []model.DocumentChunk) (string, error) {
	return s.answer, s.err
}

type stubLocker struct{}

func (s *stubLocker) TryLock(ctx context.Context, sessionID uint) (bool, error) { return true, nil }

func (s *stubLocker) Unlock(ctx context.Context, sessionID uint) error { return nil }

func chatTurnRouter(messages *stubMessageStore, synthesizer *stubSynthesizer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := app.NewChatService(
		&stubSessionStore{session: &model.ChatSession{ID: 1, UserID: 2}},
		messages,
		&stubRetriever{},
		synthesizer,
		&stubLocker{},
		nil,
	)
	router := gin.New()
	router.POST("/messages", NewChatHandler(svc).SendMessage)
	return router
}

func TestSendMessageSuccessShape(t *testing.T) {
	messages := &stubMessageStore{}
	router := chatTurnRouter(messages, &stubSynthesizer{answer: "The position is settled."})

	rec := postJSON(router, "/messages", `{"query":"what is the law","session_id":1,"user_id":2}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var parsed ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	assert.Equal(t, "The position is settled.", parsed.Content)
	assert.Empty(t, parsed.Error)
	assert.Equal(t, true, parsed.Metadata["query_processed"])
	require.Len(t, messages.stored, 2)
}

func TestSendMessagePipelineFailureShape(t *testing.T) {
	messages := &stubMessageStore{}
	router := chatTurnRouter(messages, &stubSynthesizer{err: errors.New("completion timeout")})

	rec := postJSON(router, "/messages", `{"query":"what is the law","session_id":1,"user_id":2}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var parsed ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parsed))
	assert.Contains(t, parsed.Error, "completion timeout")
	assert.Equal(t, app.ApologyMessage, parsed.Content)
	assert.NotNil(t, parsed.Sources)
	assert.Equal(t, false, parsed.Metadata["query_processed"])

	// the turn is still persisted on both sides
	require.Len(t, messages.stored, 2)
	assert.Equal(t, model.RoleUser, messages.stored[0].Role)
	assert.Equal(t, app.ApologyMessage, messages.stored[1].Content)
}

package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/websearch-rag/gateway/internal/adapter/ragclient"
	"github.com/websearch-rag/gateway/internal/domain"
	"github.com/websearch-rag/gateway/internal/store"
	"github.com/websearch-rag/gateway/policy"
)

// newTestService wires a real in-memory store and a real RAG client
// against the given stub handler.
func newTestService(t *testing.T, ragHandler http.HandlerFunc) (*Service, *store.SQLiteStore) {
	t.Helper()

	db, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	server := httptest.NewServer(ragHandler)
	t.Cleanup(server.Close)

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)

	rag := ragclient.NewClient(server.URL, 2*time.Second)
	return New(db, rag, engine, zap.NewNop()), db
}

func createConversation(t *testing.T, svc *Service) *domain.Conversation {
	t.Helper()
	conv, err := svc.CreateConversation(context.Background(), "")
	require.NoError(t, err)
	return conv
}

func TestSendMessageEmptyQuery(t *testing.T) {
	ragCalled := false
	svc, db := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		ragCalled = true
	})
	ctx := context.Background()
	conv := createConversation(t, svc)

	result, err := svc.SendMessage(ctx, conv.ID, "   \t\n ", true, false)
	require.NoError(t, err)

	assert.False(t, ragCalled, "empty query must not reach the RAG service")
	assert.Equal(t, domain.RoleAssistant, result.Message.Role)
	assert.Contains(t, result.Response, "No search query")
	assert.Empty(t, result.Sources)
	assert.Equal(t, domain.ContextInfo{}, result.ContextInfo)

	// Exactly one message persisted, and no user message.
	messages, err := db.GetMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, domain.RoleAssistant, messages[0].Role)
}

func TestSendMessageHappyPath(t *testing.T) {
	svc, db := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat", r.URL.Path)
		fmt.Fprint(w, `{"response":"R","sources":["u1","u2"]}`)
	})
	ctx := context.Background()
	conv := createConversation(t, svc)

	result, err := svc.SendMessage(ctx, conv.ID, "  hello world  ", true, false)
	require.NoError(t, err)

	assert.Equal(t, "R", result.Response)
	assert.Equal(t, []string{"u1", "u2"}, result.Sources)
	// Web-search count defaults to the number of returned sources.
	assert.Equal(t, domain.ContextInfo{WebSearch: 2}, result.ContextInfo)

	messages, err := db.GetMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleUser, messages[0].Role)
	assert.Equal(t, "hello world", messages[0].Content, "user turn is stored trimmed")
	assert.Equal(t, domain.RoleAssistant, messages[1].Role)
	assert.Equal(t, "R", messages[1].Content)
	assert.Equal(t, []string{"u1", "u2"}, messages[1].Sources)
}

func TestSendMessageStructuredEndpoint(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/structured", r.URL.Path)
		fmt.Fprint(w, `{"response":"## Answer","context_info":{"shortTermMemory":1,"longTermMemory":2,"webSearch":3}}`)
	})
	conv := createConversation(t, svc)

	result, err := svc.SendMessage(context.Background(), conv.ID, "analyze this", true, true)
	require.NoError(t, err)
	assert.Equal(t, domain.ContextInfo{ShortTermMemory: 1, LongTermMemory: 2, WebSearch: 3}, result.ContextInfo)
}

func TestSendMessageTitleDerivation(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":"Paris","sources":["https://en.wikipedia.org/wiki/Paris"]}`)
	})
	ctx := context.Background()
	conv := createConversation(t, svc)

	result, err := svc.SendMessage(ctx, conv.ID, "What is the capital of France?", true, false)
	require.NoError(t, err)
	assert.Equal(t, domain.ContextInfo{WebSearch: 1}, result.ContextInfo)
	assert.Equal(t, []string{"https://en.wikipedia.org/wiki/Paris"}, result.Sources)

	got, err := svc.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "What is the capital of France?", got.Title)

	// A later turn must not retitle the conversation.
	_, err = svc.SendMessage(ctx, conv.ID, "And of Germany?", true, false)
	require.NoError(t, err)

	got, err = svc.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "What is the capital of France?", got.Title)
}

func TestSendMessageTitleTruncation(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":"ok"}`)
	})
	ctx := context.Background()
	conv := createConversation(t, svc)

	long := strings.Repeat("a", 60)
	_, err := svc.SendMessage(ctx, conv.ID, long, true, false)
	require.NoError(t, err)

	got, err := svc.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 50)+"...", got.Title)
}

func TestSendMessageRAGFailure(t *testing.T) {
	svc, db := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})
	ctx := context.Background()
	conv := createConversation(t, svc)

	result, err := svc.SendMessage(ctx, conv.ID, "hello", true, false)
	require.NoError(t, err, "RAG failures must not surface as errors")

	assert.Contains(t, result.Response, "temporary problem")
	assert.Empty(t, result.Sources)
	assert.Equal(t, domain.ContextInfo{}, result.ContextInfo)

	// The user turn survived the failure; the apology was stored after it.
	messages, err := db.GetMessages(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleUser, messages[0].Role)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, domain.RoleAssistant, messages[1].Role)

	// A degraded turn never assigns a title.
	got, err := svc.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, got.Title)
}

func TestDeriveTitleRuneSafe(t *testing.T) {
	long := strings.Repeat("한", 55)
	got := deriveTitle(long)
	assert.Equal(t, strings.Repeat("한", 50)+"...", got)

	short := "hello"
	assert.Equal(t, "hello", deriveTitle(short))
}

func TestDeleteConversationCascade(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":"ok"}`)
	})
	ctx := context.Background()
	conv := createConversation(t, svc)

	_, err := svc.SendMessage(ctx, conv.ID, "hi", true, false)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConversation(ctx, conv.ID))

	messages, err := svc.GetMessages(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	got, err := svc.GetConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

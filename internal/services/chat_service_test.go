package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallTechOrg/ai-agent-boilerplate/internal/core/database/memory"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/core/llm"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/core/workers"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/models"
)

func newChatService(store *memory.Store, provider llm.Provider, pool *workers.Pool) *ChatService {
	prompts := NewPromptService(store)
	extractor := NewLeadExtractor(store, provider, prompts)
	return NewChatService(store, provider, prompts, extractor, pool)
}

func TestChatTurnAppendsBothSides(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mock := llm.NewMockLLM()
	mock.ChatReply = "Happy to help!"
	mock.GenerateReply = `{}`
	pool := workers.NewPool(1)
	defer pool.Shutdown(time.Second)

	svc := newChatService(store, mock, pool)

	reply, err := svc.Chat(ctx, "hello", testSessionID, models.AgentTypeGeneric, "ACME_COM")
	require.NoError(t, err)
	assert.Equal(t, "Happy to help!", reply)

	msgs, err := store.ListChatMessages(ctx, testSessionID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, models.ChatMessage{Type: models.MessageTypeHuman, Content: "hello"}, msgs[0])
	assert.Equal(t, models.ChatMessage{Type: models.MessageTypeAI, Content: "Happy to help!"}, msgs[1])
}

func TestChatTurnReplaysHistory(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mock := llm.NewMockLLM()
	mock.GenerateReply = `{}`
	pool := workers.NewPool(1)
	defer pool.Shutdown(time.Second)

	svc := newChatService(store, mock, pool)

	_, err := svc.Chat(ctx, "first", testSessionID, models.AgentTypeGeneric, "ACME_COM")
	require.NoError(t, err)
	_, err = svc.Chat(ctx, "second", testSessionID, models.AgentTypeGeneric, "ACME_COM")
	require.NoError(t, err)

	assert.Equal(t, 2, mock.LastHistoryLen, "second turn sees the first exchange")
	assert.Equal(t, "second", mock.LastInput)
}

func TestChatLLMFailureReturnsErrorWithoutAppending(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mock := llm.NewMockLLM()
	mock.ChatErr = errors.New("upstream unavailable")
	pool := workers.NewPool(1)
	defer pool.Shutdown(time.Second)

	svc := newChatService(store, mock, pool)

	_, err := svc.Chat(ctx, "hello", testSessionID, models.AgentTypeGeneric, "ACME_COM")
	require.Error(t, err)

	msgs, err := store.ListChatMessages(ctx, testSessionID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestBackgroundExtractionFailureDoesNotAffectReply(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mock := llm.NewMockLLM()
	mock.ChatReply = "Sure thing."
	mock.GenerateErr = errors.New("extraction model down")
	pool := workers.NewPool(1)

	svc := newChatService(store, mock, pool)

	reply, err := svc.Chat(ctx, "hello", testSessionID, models.AgentTypeSales, "ACME_COM")
	require.NoError(t, err)
	assert.Equal(t, "Sure thing.", reply)

	// Drain the background task; its failure must stay contained.
	pool.Shutdown(2 * time.Second)
	assert.Zero(t, store.SaveLeadContactCalls)
}

func TestHistorySeedsNewSession(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.UpsertPrompt(ctx, "ACME_COM", "sales", "intro-message", "Hi, how can I help?"))

	pool := workers.NewPool(1)
	defer pool.Shutdown(time.Second)
	svc := newChatService(store, llm.NewMockLLM(), pool)

	msgs, created, err := svc.History(ctx, testSessionID, "ACME_COM")
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, msgs, 1)
	assert.Equal(t, models.MessageTypeAI, msgs[0].Type)
	assert.Equal(t, "Hi, how can I help?", msgs[0].Content)

	msgs, created, err = svc.History(ctx, testSessionID, "ACME_COM")
	require.NoError(t, err)
	assert.False(t, created, "second call finds the seeded session")
	assert.Len(t, msgs, 1)
}

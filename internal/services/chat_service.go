package services

import (
	"context"
	"fmt"
	"log/slog"

	db "github.com/smallTechOrg/ai-agent-boilerplate/internal/core/database"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/core/llm"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/core/workers"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/models"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/observability"
)

// ChatService runs one chat turn: resolve the system prompt, replay the
// session history against the LLM, persist both sides of the exchange, and
// hand the message to the background lead-extraction pass.
type ChatService struct {
	db        db.DbClient
	llm       llm.Provider
	prompts   *PromptService
	extractor *LeadExtractor
	pool      *workers.Pool
	log       *slog.Logger
}

func NewChatService(client db.DbClient, provider llm.Provider, prompts *PromptService, extractor *LeadExtractor, pool *workers.Pool) *ChatService {
	return &ChatService{
		db:        client,
		llm:       provider,
		prompts:   prompts,
		extractor: extractor,
		pool:      pool,
		log:       observability.WithComponent("chat"),
	}
}

// Chat returns the assistant's reply for a validated visitor message.
func (s *ChatService) Chat(ctx context.Context, input, sessionID string, requestType models.AgentType, domainKey string) (string, error) {
	systemPrompt, err := s.prompts.GetPrompt(ctx, domainKey, requestType, SlotSystem)
	if err != nil {
		return "", fmt.Errorf("resolve system prompt: %w", err)
	}

	history, err := s.db.ListChatMessages(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("load history: %w", err)
	}

	reply, err := s.llm.Chat(ctx, systemPrompt, history, input)
	if err != nil {
		return "", fmt.Errorf("llm chat: %w", err)
	}

	if err := s.db.AppendChatMessage(ctx, sessionID, models.ChatMessage{Type: models.MessageTypeHuman, Content: input}); err != nil {
		return "", fmt.Errorf("append human message: %w", err)
	}
	if err := s.db.AppendChatMessage(ctx, sessionID, models.ChatMessage{Type: models.MessageTypeAI, Content: reply}); err != nil {
		return "", fmt.Errorf("append ai message: %w", err)
	}

	// Fire-and-forget: extraction failures are logged by the pool and never
	// reach this turn's caller.
	s.pool.Submit("lead-extraction", func(taskCtx context.Context) error {
		return s.extractor.Process(taskCtx, input, sessionID, requestType, domainKey)
	})

	return reply, nil
}

// History returns the session's messages, seeding a fresh session with the
// domain's intro message. created reports whether the session was new.
func (s *ChatService) History(ctx context.Context, sessionID, domainKey string) ([]models.ChatMessage, bool, error) {
	messages, err := s.db.ListChatMessages(ctx, sessionID)
	if err != nil {
		return nil, false, fmt.Errorf("load history: %w", err)
	}
	if len(messages) > 0 {
		return messages, false, nil
	}

	intro, err := s.prompts.GetPrompt(ctx, domainKey, models.AgentTypeSales, SlotIntroMessage)
	if err != nil {
		return nil, false, fmt.Errorf("resolve intro message: %w", err)
	}
	first := models.ChatMessage{Type: models.MessageTypeAI, Content: intro}
	if err := s.db.AppendChatMessage(ctx, sessionID, first); err != nil {
		return nil, false, fmt.Errorf("seed intro message: %w", err)
	}

	s.log.Info("seeded new session", "session_id", sessionID, "domain", domainKey)
	return []models.ChatMessage{first}, true, nil
}

// UpdateChatInfo applies a validated partial update to a session's lead row.
func (s *ChatService) UpdateChatInfo(ctx context.Context, sessionID string, status, remarks *string, isActive *bool) error {
	return s.db.UpdateChatInfo(ctx, sessionID, status, remarks, isActive)
}

// ListLeads returns the active leads for the dashboard, newest first.
func (s *ChatService) ListLeads(ctx context.Context) ([]models.Lead, error) {
	return s.db.ListActiveLeads(ctx)
}

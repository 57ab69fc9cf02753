package llm

import (
	"context"

	"github.com/smallTechOrg/ai-agent-boilerplate/internal/models"
)

// Provider is the LLM completion API the chat and extraction flows call.
type Provider interface {
	// Chat runs one conversational turn: system prompt, prior history, and
	// the visitor's new message.
	Chat(ctx context.Context, systemPrompt string, history []models.ChatMessage, input string) (string, error)

	// Generate runs a single-shot completion with no history, used by the
	// background lead-extraction pass.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

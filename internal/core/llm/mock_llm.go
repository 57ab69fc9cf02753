package llm

import (
	"context"
	"fmt"

	"github.com/smallTechOrg/ai-agent-boilerplate/internal/models"
)

// MockLLM is a deterministic provider for tests. ChatReply and GenerateReply
// override the canned responses; ChatErr and GenerateErr force failures.
type MockLLM struct {
	ChatReply     string
	GenerateReply string
	ChatErr       error
	GenerateErr   error

	// Last inputs seen, for assertions.
	LastSystemPrompt string
	LastInput        string
	LastUserPrompt   string
	LastHistoryLen   int
}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Chat(ctx context.Context, systemPrompt string, history []models.ChatMessage, input string) (string, error) {
	m.LastSystemPrompt = systemPrompt
	m.LastInput = input
	m.LastHistoryLen = len(history)
	if m.ChatErr != nil {
		return "", m.ChatErr
	}
	if m.ChatReply != "" {
		return m.ChatReply, nil
	}
	return fmt.Sprintf("You said %q.", input), nil
}

func (m *MockLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.LastSystemPrompt = systemPrompt
	m.LastUserPrompt = userPrompt
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	return m.GenerateReply, nil
}

var _ Provider = (*MockLLM)(nil)

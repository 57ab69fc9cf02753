package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	db "github.com/smallTechOrg/ai-agent-boilerplate/internal/core/database"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/models"
)

// Prompt slot names.
const (
	SlotSystem       = "system"
	SlotBasePrompt   = "base-prompt"
	SlotCompany      = "company"
	SlotIntroMessage = "intro-message"
	SlotFetchContact = "fetch-contact-info"
	SlotFetchName    = "fetch-name"
)

// maxInheritanceDepth caps the parent walk so an accidental cycle in the
// domains table cannot loop forever.
const maxInheritanceDepth = 10

// formattingSuffix is appended to every composed sales system prompt.
const formattingSuffix = "\n\nKeep replies short and conversational. " +
	"Answer in plain text without markdown formatting."

// PromptService resolves prompt text with one-level-per-hop parent domain
// inheritance, walking up to the root.
type PromptService struct {
	db db.DbClient
}

func NewPromptService(client db.DbClient) *PromptService {
	return &PromptService{db: client}
}

// FindPrompt is an exact-match lookup; found is false on a miss.
func (s *PromptService) FindPrompt(ctx context.Context, domain, agentType, promptType string) (string, bool, error) {
	return s.db.FindPromptText(ctx, domain, agentType, promptType)
}

// FindParentKey resolves a domain's parent's key; empty at the root.
func (s *PromptService) FindParentKey(ctx context.Context, domainKey string) (string, error) {
	return s.db.FindParentKey(ctx, domainKey)
}

// LoadPrompt tries an exact match, then retries up the parent chain until a
// root domain is reached. Returns "" when nothing resolves.
func (s *PromptService) LoadPrompt(ctx context.Context, domain, agentType, promptType string) (string, error) {
	current := domain
	for i := 0; i < maxInheritanceDepth && current != ""; i++ {
		text, found, err := s.db.FindPromptText(ctx, current, agentType, promptType)
		if err != nil {
			return "", fmt.Errorf("load prompt %s/%s/%s: %w", current, agentType, promptType, err)
		}
		if found {
			return flattenPromptText(text), nil
		}
		parent, err := s.db.FindParentKey(ctx, current)
		if err != nil {
			return "", fmt.Errorf("resolve parent of %s: %w", current, err)
		}
		current = parent
	}
	return "", nil
}

// GetPrompt returns the prompt for (domain, agentType, promptType). The
// sales system prompt is composed from the base-prompt and company slots,
// each falling back to the parent domain independently, with a fixed
// formatting suffix. Every other slot resolves to a single value, empty when
// unresolved.
func (s *PromptService) GetPrompt(ctx context.Context, domain string, agentType models.AgentType, promptType string) (string, error) {
	if agentType == models.AgentTypeSales && promptType == SlotSystem {
		base, err := s.LoadPrompt(ctx, domain, string(agentType), SlotBasePrompt)
		if err != nil {
			return "", err
		}
		company, err := s.LoadPrompt(ctx, domain, string(agentType), SlotCompany)
		if err != nil {
			return "", err
		}
		return base + "\n\n" + company + formattingSuffix, nil
	}
	return s.LoadPrompt(ctx, domain, string(agentType), promptType)
}

// flattenPromptText handles prompt rows stored as JSON objects with a
// "system" array by newline-joining the array. Anything else is returned
// verbatim.
func flattenPromptText(text string) string {
	var parsed struct {
		System []string `json:"system"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err == nil && len(parsed.System) > 0 {
		return strings.Join(parsed.System, "\n")
	}
	return text
}

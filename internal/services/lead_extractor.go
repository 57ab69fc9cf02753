package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	db "github.com/smallTechOrg/ai-agent-boilerplate/internal/core/database"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/core/llm"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/models"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/observability"
)

// LeadExtractor runs the background pass that asks the LLM whether the
// latest visitor message contains contact information and, if so, enriches
// the session's chat_info row. It must never surface errors to the chat
// caller; the worker pool logs and discards whatever it returns.
type LeadExtractor struct {
	db      db.DbClient
	llm     llm.Provider
	prompts *PromptService
	log     *slog.Logger
}

func NewLeadExtractor(client db.DbClient, provider llm.Provider, prompts *PromptService) *LeadExtractor {
	return &LeadExtractor{
		db:      client,
		llm:     provider,
		prompts: prompts,
		log:     observability.WithComponent("lead-extractor"),
	}
}

// extractionResult is the JSON object the extraction prompt asks the LLM to
// produce. NameDetected is only meaningful for non-sales extraction.
type extractionResult struct {
	models.LeadContact
	NameDetected bool `json:"name_detected"`
}

// Process analyzes one visitor message for contact information.
func (e *LeadExtractor) Process(ctx context.Context, input, sessionID string, requestType models.AgentType, domainKey string) error {
	// Make sure the session has a chat_info row carrying its request type,
	// even when no contact info ever shows up.
	if err := e.db.EnsureChatInfo(ctx, sessionID, string(requestType)); err != nil {
		return fmt.Errorf("ensure chat_info: %w", err)
	}

	result, err := e.detect(ctx, input, requestType, domainKey)
	if err != nil {
		return err
	}
	if !hasValidInfo(result, requestType) {
		e.log.Info("no contact info in message", "session_id", sessionID)
		return nil
	}

	metadata, _ := json.Marshal(map[string]string{
		"info_detected_from_message": input,
		"detection_method":           string(requestType),
		"detection_timestamp":        time.Now().Format(time.RFC3339),
	})

	contact := models.LeadContact{
		ContactName: strings.TrimSpace(result.ContactName),
		Email:       strings.TrimSpace(result.Email),
		Mobile:      strings.TrimSpace(result.Mobile),
		Country:     strings.TrimSpace(result.Country),
	}
	if err := e.db.SaveLeadContact(ctx, sessionID, contact, string(requestType), domainKey, metadata); err != nil {
		return fmt.Errorf("save lead contact: %w", err)
	}

	e.log.Info("lead info saved", "session_id", sessionID)
	return nil
}

func (e *LeadExtractor) detect(ctx context.Context, input string, requestType models.AgentType, domainKey string) (extractionResult, error) {
	slot := SlotFetchName
	if requestType == models.AgentTypeSales {
		slot = SlotFetchContact
	}

	promptText, err := e.prompts.GetPrompt(ctx, domainKey, requestType, slot)
	if err != nil {
		return extractionResult{}, fmt.Errorf("load extraction prompt: %w", err)
	}
	promptText = strings.ReplaceAll(promptText, "{message}", input)

	reply, err := e.llm.Generate(ctx, "", promptText)
	if err != nil {
		return extractionResult{}, fmt.Errorf("extraction call: %w", err)
	}

	var result extractionResult
	if err := json.Unmarshal([]byte(stripFences(reply)), &result); err != nil {
		// All fields default to empty; the caller treats that as "nothing
		// detected" rather than an error worth surfacing.
		e.log.Warn("unparsable extraction response", "error", err)
		return extractionResult{}, nil
	}
	return result, nil
}

// hasValidInfo reports whether the extraction found at least one required
// field: any contact field for sales, a detected name otherwise.
func hasValidInfo(r extractionResult, requestType models.AgentType) bool {
	if requestType == models.AgentTypeSales {
		return strings.TrimSpace(r.ContactName) != "" ||
			strings.TrimSpace(r.Email) != "" ||
			strings.TrimSpace(r.Mobile) != "" ||
			strings.TrimSpace(r.Country) != ""
	}
	return r.NameDetected && strings.TrimSpace(r.ContactName) != ""
}

// stripFences removes a surrounding markdown code fence from an LLM reply.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "`")
	s = strings.TrimPrefix(s, "json\n")
	return strings.TrimSpace(s)
}

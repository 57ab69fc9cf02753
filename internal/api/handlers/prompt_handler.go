package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	db "github.com/smallTechOrg/ai-agent-boilerplate/internal/core/database"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/models"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/observability"
)

type PromptHandler struct {
	dbclient db.DbClient
	log      *slog.Logger
}

func NewPromptHandler(dbclient db.DbClient) *PromptHandler {
	return &PromptHandler{
		dbclient: dbclient,
		log:      observability.WithComponent("prompt-handler"),
	}
}

// ListPrompts handles GET /prompts.
func (h *PromptHandler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.dbclient.ListPrompts(r.Context())
	if err != nil {
		h.log.Error("prompt listing failed", "error", err)
		internalError(w)
		return
	}
	if prompts == nil {
		prompts = []models.Prompt{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"prompts": prompts})
}

type upsertPromptRequest struct {
	Domain    string `json:"domain"`
	AgentType string `json:"agent_type"`
	Type      string `json:"type"`
	Text      string `json:"text"`
}

// UpsertPrompt handles POST /prompt: insert-or-update on the natural key
// (domain, agent_type, type).
func (h *PromptHandler) UpsertPrompt(w http.ResponseWriter, r *http.Request) {
	var req upsertPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if req.Domain == "" || req.AgentType == "" || req.Type == "" || req.Text == "" {
		badRequest(w, "Missing required fields: domain, agent_type, type, text")
		return
	}

	if err := h.dbclient.UpsertPrompt(r.Context(), req.Domain, req.AgentType, req.Type, req.Text); err != nil {
		h.log.Error("prompt upsert failed", "domain", req.Domain, "type", req.Type, "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Prompt created/updated.",
	})
}

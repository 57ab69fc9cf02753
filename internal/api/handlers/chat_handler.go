package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/smallTechOrg/ai-agent-boilerplate/internal/api/validators"
	db "github.com/smallTechOrg/ai-agent-boilerplate/internal/core/database"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/models"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/observability"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/services"
)

type ChatHandler struct {
	dbclient       db.DbClient
	chat           *services.ChatService
	maxInputLength int
	log            *slog.Logger
}

func NewChatHandler(dbclient db.DbClient, chat *services.ChatService, maxInputLength int) *ChatHandler {
	return &ChatHandler{
		dbclient:       dbclient,
		chat:           chat,
		maxInputLength: maxInputLength,
		log:            observability.WithComponent("chat-handler"),
	}
}

type chatRequest struct {
	Input       string `json:"input"`
	SessionID   string `json:"session_id"`
	RequestType string `json:"request_type"`
}

// Chat handles POST /chat: validate, run one LLM turn, return the reply.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	if res := validators.ValidateMessage(req.Input, h.maxInputLength); !res.Valid {
		badRequest(w, res.Message)
		return
	}
	if res := validators.ValidateSessionID(req.SessionID); !res.Valid {
		badRequest(w, res.Message)
		return
	}

	domainKey, res, err := validators.ResolveDomainKey(ctx, h.dbclient, r)
	if err != nil {
		h.log.Error("address lookup failed", "error", err)
		internalError(w)
		return
	}
	if !res.Valid {
		badRequest(w, res.Message)
		return
	}

	// Unknown request types silently degrade to the generic agent.
	requestType := models.ParseAgentType(req.RequestType)

	reply, err := h.chat.Chat(ctx, strings.TrimSpace(req.Input), req.SessionID, requestType, domainKey)
	if err != nil {
		h.log.Error("chat turn failed", "session_id", req.SessionID, "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"response": reply,
	})
}

// History handles GET /history: fetch a session's messages, seeding new
// sessions with an intro message (201).
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sessionID := r.URL.Query().Get("session_id")
	if res := validators.ValidateSessionID(sessionID); !res.Valid {
		badRequest(w, res.Message)
		return
	}

	domainKey, res, err := validators.ResolveDomainKey(ctx, h.dbclient, r)
	if err != nil {
		h.log.Error("address lookup failed", "error", err)
		internalError(w)
		return
	}
	if !res.Valid {
		badRequest(w, res.Message)
		return
	}

	messages, created, err := h.chat.History(ctx, sessionID, domainKey)
	if err != nil {
		h.log.Error("history load failed", "session_id", sessionID, "error", err)
		internalError(w)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"session_id": sessionID,
		"history":    messages,
	})
}

type updateChatInfoRequest struct {
	SessionID string  `json:"session_id"`
	Status    *string `json:"status"`
	Remarks   *string `json:"remarks"`
	IsActive  *bool   `json:"is_active"`
}

// UpdateChatInfo handles PATCH /chat-info: partial update of a lead's
// dashboard fields.
func (h *ChatHandler) UpdateChatInfo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateChatInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Covers non-boolean is_active and other type mismatches.
		badRequest(w, "Invalid input")
		return
	}

	if res := validators.ValidateSessionID(req.SessionID); !res.Valid {
		badRequest(w, res.Message)
		return
	}
	if res := validators.ValidateStatus(req.Status); !res.Valid {
		badRequest(w, res.Message)
		return
	}

	if err := h.chat.UpdateChatInfo(ctx, req.SessionID, req.Status, req.Remarks, req.IsActive); err != nil {
		h.log.Error("chat-info update failed", "session_id", req.SessionID, "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "chat-info updated",
	})
}

// ListLeads handles GET /chat-info: all active leads for the dashboard.
func (h *ChatHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.chat.ListLeads(r.Context())
	if err != nil {
		h.log.Error("lead listing failed", "error", err)
		internalError(w)
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

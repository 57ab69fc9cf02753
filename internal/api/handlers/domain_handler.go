package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/smallTechOrg/ai-agent-boilerplate/internal/models"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/observability"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/services"
)

type DomainHandler struct {
	domains *services.DomainService
	log     *slog.Logger
}

func NewDomainHandler(domains *services.DomainService) *DomainHandler {
	return &DomainHandler{
		domains: domains,
		log:     observability.WithComponent("domain-handler"),
	}
}

type createDomainRequest struct {
	WebsiteURL string `json:"website_url"`
	Key        string `json:"key"`
	ParentID   *int64 `json:"parent_id"`
}

// CreateDomain handles POST /domains/: extract the canonical hostname,
// resolve or generate the key, and persist the record.
func (h *DomainHandler) CreateDomain(w http.ResponseWriter, r *http.Request) {
	var req createDomainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "invalid request body"})
		return
	}

	domain, err := h.domains.AddDomain(r.Context(), req.WebsiteURL, req.Key, req.ParentID)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, domain)
	case errors.Is(err, services.ErrDomainAlreadyExists):
		writeJSON(w, http.StatusConflict, map[string]string{"message": err.Error()})
	case errors.Is(err, services.ErrInvalidWebsiteURL):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": err.Error()})
	case errors.Is(err, services.ErrParentDomainNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"message": err.Error()})
	default:
		h.log.Error("domain creation failed", "error", err)
		internalError(w)
	}
}

// ListDomains handles GET /domains/.
func (h *DomainHandler) ListDomains(w http.ResponseWriter, r *http.Request) {
	domains, err := h.domains.ListDomains(r.Context())
	if err != nil {
		h.log.Error("domain listing failed", "error", err)
		internalError(w)
		return
	}
	if domains == nil {
		domains = []models.Domain{}
	}
	writeJSON(w, http.StatusOK, domains)
}

// GetDomain handles GET /domains/{id}.
func (h *DomainHandler) GetDomain(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "domain not found"})
		return
	}

	domain, err := h.domains.GetDomain(r.Context(), id)
	if err != nil {
		h.log.Error("domain lookup failed", "id", id, "error", err)
		internalError(w)
		return
	}
	if domain == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "domain not found"})
		return
	}
	writeJSON(w, http.StatusOK, domain)
}

package handlers

import (
	"net/http"

	db "github.com/smallTechOrg/ai-agent-boilerplate/internal/core/database"
)

type HealthHandler struct {
	dbclient db.DbClient
}

func NewHealthHandler(dbclient db.DbClient) *HealthHandler {
	return &HealthHandler{dbclient: dbclient}
}

// Health handles GET /health: liveness plus a DB connectivity probe.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{
		"message":  "Hello World",
		"database": "connected",
	}

	if err := h.dbclient.Ping(r.Context()); err != nil {
		status["database"] = "disconnected"
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

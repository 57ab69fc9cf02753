package handlers

import (
	"encoding/json"
	"net/http"
)

// genericErrorMessage is the only error text 5xx responses ever carry;
// details stay in the server logs.
const genericErrorMessage = "Sorry, something went wrong. Please try again later."

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"error":   message,
	})
}

func internalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"success": false,
		"error":   genericErrorMessage,
	})
}

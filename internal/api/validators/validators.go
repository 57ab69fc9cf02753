package validators

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	db "github.com/smallTechOrg/ai-agent-boilerplate/internal/core/database"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/models"
)

// Result is the outcome of one field-level check. Message is user-facing
// and names the failing field.
type Result struct {
	Valid   bool
	Message string
}

func ok() Result {
	return Result{Valid: true}
}

func fail(msg string) Result {
	return Result{Valid: false, Message: msg}
}

// ValidateMessage rejects empty/whitespace-only input and input over the
// length cap.
func ValidateMessage(input string, maxLength int) Result {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fail("Please enter a message before sending.")
	}
	if len(trimmed) > maxLength {
		return fail(fmt.Sprintf("Your message is too long. Please limit to %d characters.", maxLength))
	}
	return ok()
}

// ValidateSessionID requires a well-formed UUID of any version.
func ValidateSessionID(sessionID string) Result {
	if sessionID == "" {
		return fail("session_id is required")
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return fail("Invalid session_id format")
	}
	return ok()
}

// ValidateStatus accepts an absent status; a present one must be a known
// enum value.
func ValidateStatus(status *string) Result {
	if status == nil {
		return ok()
	}
	if !models.LeadStatus(*status).Valid() {
		return fail("Status not allowed")
	}
	return ok()
}

// RequestAddress derives the hostname the visitor is chatting from. An
// explicit origin query parameter takes precedence over the Origin header.
func RequestAddress(r *http.Request) string {
	origin := strings.TrimSpace(r.URL.Query().Get("origin"))
	if origin == "" {
		origin = strings.TrimSpace(r.Header.Get("Origin"))
	}
	if origin == "" {
		return ""
	}
	if u, err := url.Parse(origin); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	// Bare hostname without a scheme.
	if u, err := url.Parse("https://" + origin); err == nil {
		return u.Hostname()
	}
	return ""
}

// ResolveDomainKey maps the request's declared origin to a registered
// domain key. Unknown hostnames fail validation.
func ResolveDomainKey(ctx context.Context, client db.DbClient, r *http.Request) (string, Result, error) {
	address := RequestAddress(r)
	if address == "" {
		return "", fail("Incorrect Address"), nil
	}
	domain, err := client.GetDomainByAddress(ctx, address)
	if err != nil {
		return "", Result{}, err
	}
	if domain == nil {
		return "", fail("Incorrect Address"), nil
	}
	return domain.Key, ok(), nil
}

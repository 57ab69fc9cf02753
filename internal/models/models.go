package models

import (
	"strings"
	"time"
)

// AgentType is the conversational persona a chat turn runs under.
type AgentType string

const (
	AgentTypeSales   AgentType = "sales"
	AgentTypeGeneric AgentType = "generic"
)

// ParseAgentType normalizes a raw request_type value. Unknown values fall
// back to the generic agent rather than failing the request.
func ParseAgentType(raw string) AgentType {
	switch AgentType(strings.ToLower(strings.TrimSpace(raw))) {
	case AgentTypeSales:
		return AgentTypeSales
	case AgentTypeGeneric:
		return AgentTypeGeneric
	default:
		return AgentTypeGeneric
	}
}

// LeadStatus is the dashboard status of a lead.
type LeadStatus string

const (
	StatusOpen       LeadStatus = "OPEN"
	StatusClosed     LeadStatus = "CLOSED"
	StatusQualifying LeadStatus = "QUALIFYING"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusQualifying:
		return true
	}
	return false
}

// Chat message roles as stored in history.
const (
	MessageTypeHuman = "human"
	MessageTypeAI    = "ai"
)

// Domain is a registered hostname permitted to use the chat widget. ParentID
// links a child domain to the domain whose prompts it inherits.
type Domain struct {
	ID        int64     `db:"id" json:"id"`
	Key       string    `db:"key" json:"key"`
	Address   string    `db:"address" json:"address"`
	ParentID  *int64    `db:"parent_id" json:"parent_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Prompt is one piece of prompt text keyed by (domain, agent_type, type).
// Text may be plain text or a JSON object with a "system" array.
type Prompt struct {
	ID        int64     `db:"id" json:"id"`
	Domain    string    `db:"domain" json:"domain"`
	AgentType string    `db:"agent_type" json:"agent_type"`
	Type      string    `db:"type" json:"type"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Lead is the dashboard view of a chat_info row.
type Lead struct {
	SessionID    string `db:"session_id" json:"session_id"`
	Name         string `db:"contact_name" json:"name"`
	Email        string `db:"email" json:"email"`
	MobileNumber string `db:"mobile" json:"mobile_number"`
	Country      string `db:"country" json:"country"`
	Status       string `db:"status" json:"status"`
	Remarks      string `db:"remarks" json:"remarks"`
}

// LeadContact holds the contact fields extracted from a single message.
type LeadContact struct {
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Mobile      string `json:"mobile"`
	Country     string `json:"country"`
}

// ChatMessage is one turn of a session's conversation history.
type ChatMessage struct {
	Type    string `json:"type"` // "human" or "ai"
	Content string `json:"content"`
}

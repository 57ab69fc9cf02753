package db

import (
	"context"

	"github.com/smallTechOrg/ai-agent-boilerplate/internal/models"
)

// DbClient defines all persistence operations the services need. It
// abstracts Postgres so higher layers never depend on a specific DB.
type DbClient interface {
	// Domains
	CreateDomain(ctx context.Context, key, address string, parentID *int64) (*models.Domain, error)
	GetDomainByID(ctx context.Context, id int64) (*models.Domain, error)
	GetDomainByAddress(ctx context.Context, address string) (*models.Domain, error)
	ListDomains(ctx context.Context) ([]models.Domain, error)
	FindParentKey(ctx context.Context, domainKey string) (string, error)

	// Prompts
	FindPromptText(ctx context.Context, domain, agentType, promptType string) (string, bool, error)
	ListPrompts(ctx context.Context) ([]models.Prompt, error)
	UpsertPrompt(ctx context.Context, domain, agentType, promptType, text string) error

	// Leads (chat_info)
	EnsureChatInfo(ctx context.Context, sessionID, requestType string) error
	SaveLeadContact(ctx context.Context, sessionID string, contact models.LeadContact, requestType, domain string, metadata []byte) error
	UpdateChatInfo(ctx context.Context, sessionID string, status, remarks *string, isActive *bool) error
	ListActiveLeads(ctx context.Context) ([]models.Lead, error)

	// Conversation history
	AppendChatMessage(ctx context.Context, sessionID string, msg models.ChatMessage) error
	ListChatMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error)

	Ping(ctx context.Context) error
	Close() error
}

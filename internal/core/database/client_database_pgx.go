package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/smallTechOrg/ai-agent-boilerplate/internal/config"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (DbClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	// Ensure bootstrap once
	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	if err := SeedDefaultPrompts(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed prompts: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func (c *DatabaseClient) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Domains

func (c *DatabaseClient) CreateDomain(ctx context.Context, key, address string, parentID *int64) (*models.Domain, error) {
	const q = `
		INSERT INTO domains ("key", address, parent_id)
		VALUES ($1, $2, $3)
		RETURNING id, "key", address, parent_id, created_at
	`
	var d models.Domain
	err := c.db.QueryRowContext(ctx, q, key, address, parentID).Scan(
		&d.ID, &d.Key, &d.Address, &d.ParentID, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *DatabaseClient) GetDomainByID(ctx context.Context, id int64) (*models.Domain, error) {
	const q = `
		SELECT id, "key", address, parent_id, created_at
		FROM domains WHERE id = $1
	`
	return c.scanDomain(c.db.QueryRowContext(ctx, q, id))
}

func (c *DatabaseClient) GetDomainByAddress(ctx context.Context, address string) (*models.Domain, error) {
	const q = `
		SELECT id, "key", address, parent_id, created_at
		FROM domains WHERE address = $1
	`
	return c.scanDomain(c.db.QueryRowContext(ctx, q, address))
}

func (c *DatabaseClient) ListDomains(ctx context.Context) ([]models.Domain, error) {
	const q = `
		SELECT id, "key", address, parent_id, created_at
		FROM domains
		ORDER BY created_at ASC
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Domain
	for rows.Next() {
		var d models.Domain
		if err := rows.Scan(&d.ID, &d.Key, &d.Address, &d.ParentID, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// FindParentKey resolves a domain's parent's key with a one-hop self join.
// Returns "" for root domains and unknown keys.
func (c *DatabaseClient) FindParentKey(ctx context.Context, domainKey string) (string, error) {
	const q = `
		SELECT p."key"
		FROM domains c
		JOIN domains p ON c.parent_id = p.id
		WHERE c."key" = $1
	`
	var key string
	err := c.db.QueryRowContext(ctx, q, domainKey).Scan(&key)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return key, nil
}

func (c *DatabaseClient) scanDomain(row *sql.Row) (*models.Domain, error) {
	var d models.Domain
	err := row.Scan(&d.ID, &d.Key, &d.Address, &d.ParentID, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Prompts

func (c *DatabaseClient) FindPromptText(ctx context.Context, domain, agentType, promptType string) (string, bool, error) {
	const q = `
		SELECT "text"
		FROM prompts
		WHERE domain = $1 AND agent_type = $2 AND type = $3
		LIMIT 1
	`
	var text sql.NullString
	err := c.db.QueryRowContext(ctx, q, domain, agentType, promptType).Scan(&text)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text.String, true, nil
}

func (c *DatabaseClient) ListPrompts(ctx context.Context) ([]models.Prompt, error) {
	const q = `
		SELECT id, domain, agent_type, type, COALESCE("text", ''), created_at
		FROM prompts
		ORDER BY created_at ASC
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Prompt
	for rows.Next() {
		var p models.Prompt
		if err := rows.Scan(&p.ID, &p.Domain, &p.AgentType, &p.Type, &p.Text, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) UpsertPrompt(ctx context.Context, domain, agentType, promptType, text string) error {
	const q = `
		INSERT INTO prompts (domain, agent_type, type, "text")
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (domain, agent_type, type)
		DO UPDATE SET "text" = EXCLUDED."text"
	`
	_, err := c.db.ExecContext(ctx, q, domain, agentType, promptType, text)
	return err
}

// Leads (chat_info)

// EnsureChatInfo inserts a chat_info row for the session when one does not
// exist yet. Existing rows are left untouched.
func (c *DatabaseClient) EnsureChatInfo(ctx context.Context, sessionID, requestType string) error {
	const q = `
		INSERT INTO chat_info (session_id, request_type)
		VALUES ($1, $2)
		ON CONFLICT (session_id) DO NOTHING
	`
	_, err := c.db.ExecContext(ctx, q, sessionID, requestType)
	return err
}

// SaveLeadContact upserts extracted contact fields for a session. Contact
// fields never overwrite known values with empty ones; request_type, domain
// and metadata are always replaced.
func (c *DatabaseClient) SaveLeadContact(ctx context.Context, sessionID string, contact models.LeadContact, requestType, domain string, metadata []byte) error {
	const q = `
		INSERT INTO chat_info (session_id, contact_name, email, country, mobile, request_type, domain, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id)
		DO UPDATE SET
			contact_name = COALESCE(EXCLUDED.contact_name, chat_info.contact_name),
			email        = COALESCE(EXCLUDED.email, chat_info.email),
			country      = COALESCE(EXCLUDED.country, chat_info.country),
			mobile       = COALESCE(EXCLUDED.mobile, chat_info.mobile),
			request_type = EXCLUDED.request_type,
			domain       = EXCLUDED.domain,
			metadata     = EXCLUDED.metadata
	`
	if metadata == nil {
		metadata = []byte("{}")
	}
	_, err := c.db.ExecContext(ctx, q, sessionID,
		nullIfEmpty(contact.ContactName),
		nullIfEmpty(contact.Email),
		nullIfEmpty(contact.Country),
		nullIfEmpty(contact.Mobile),
		requestType, domain, metadata,
	)
	return err
}

// UpdateChatInfo upserts dashboard fields for a session. Nil pointers leave
// the stored value unchanged.
func (c *DatabaseClient) UpdateChatInfo(ctx context.Context, sessionID string, status, remarks *string, isActive *bool) error {
	const q = `
		INSERT INTO chat_info (session_id, status, remarks, is_active)
		VALUES ($1, COALESCE($2, 'OPEN'), $3, COALESCE($4, TRUE))
		ON CONFLICT (session_id)
		DO UPDATE SET
			status    = COALESCE($2, chat_info.status),
			remarks   = COALESCE($3, chat_info.remarks),
			is_active = COALESCE($4, chat_info.is_active)
	`
	_, err := c.db.ExecContext(ctx, q, sessionID, status, remarks, isActive)
	return err
}

func (c *DatabaseClient) ListActiveLeads(ctx context.Context) ([]models.Lead, error) {
	const q = `
		SELECT
			session_id,
			COALESCE(contact_name, ''),
			COALESCE(email, ''),
			COALESCE(mobile, ''),
			COALESCE(country, ''),
			COALESCE(status, 'OPEN'),
			COALESCE(remarks, '')
		FROM chat_info
		WHERE is_active IS TRUE
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Lead
	for rows.Next() {
		var l models.Lead
		if err := rows.Scan(&l.SessionID, &l.Name, &l.Email, &l.MobileNumber, &l.Country, &l.Status, &l.Remarks); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Conversation history

func (c *DatabaseClient) AppendChatMessage(ctx context.Context, sessionID string, msg models.ChatMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	const q = `
		INSERT INTO chat_history (session_id, message)
		VALUES ($1, $2)
	`
	_, err = c.db.ExecContext(ctx, q, sessionID, payload)
	return err
}

func (c *DatabaseClient) ListChatMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	const q = `
		SELECT message
		FROM chat_history
		WHERE session_id = $1
		ORDER BY id ASC
	`
	rows, err := c.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ChatMessage
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var m models.ChatMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"
)

//go:embed scripts/initdb.sql
var bootstrapFS embed.FS

// EnsureBootstrapped applies the embedded schema when the meta table or its
// version row is missing. Safe to run on every startup.
func EnsureBootstrapped(ctx context.Context, db *sql.DB) error {

	ctxBoot, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	var exists bool
	err := db.QueryRowContext(ctxBoot, `
		SELECT EXISTS (
		  SELECT 1 FROM information_schema.tables
		  WHERE table_name = 'agent_meta'
		)`).
		Scan(&exists)
	if err != nil {
		return fmt.Errorf("meta table check failed: %w", err)
	}

	if !exists {
		return runBootstrap(ctxBoot, db)
	}

	var hasVersion bool
	if err := db.QueryRowContext(ctxBoot, `SELECT EXISTS (SELECT 1 FROM agent_meta WHERE version = 1)`).Scan(&hasVersion); err != nil {
		return fmt.Errorf("meta version check failed: %w", err)
	}
	if !hasVersion {
		return runBootstrap(ctxBoot, db)
	}

	return nil
}

func runBootstrap(ctx context.Context, db *sql.DB) error {
	sqlBytes, err := bootstrapFS.ReadFile("scripts/initdb.sql")
	if err != nil {
		return fmt.Errorf("read initdb.sql: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("exec bootstrap: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bootstrap: %w", err)
	}
	return nil
}

// SeedDefaultPrompts inserts the default prompt rows when the prompts table
// is empty. An already-populated table is left alone.
func SeedDefaultPrompts(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prompts`).Scan(&count); err != nil {
		return fmt.Errorf("count prompts: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		domain, agentType, promptType, text string
	}{
		{"common", "contact_us", "name_prompt", "May I know your name?"},
		{"common", "contact_us", "email_prompt", "Could you share your email address?"},
		{"common", "contact_us", "mobile_prompt", "May I get your phone number?"},
		{"common", "contact_us", "request_prompt", "How may we assist you today?"},
		{"smalltech.in", "contact_us", "intro", "Welcome to SmallTech! How can we help you?"},
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	for _, p := range defaults {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO prompts (domain, agent_type, type, "text")
			VALUES ($1, $2, $3, $4)
		`, p.domain, p.agentType, p.promptType, p.text); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert default prompt: %w", err)
		}
	}
	return tx.Commit()
}

package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS journal_entries (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id TEXT NOT NULL,
		user_email TEXT NOT NULL DEFAULT '',
		persona_type TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		cleaned_text TEXT NOT NULL DEFAULT '',
		turns JSONB NOT NULL,
		user_entries INTEGER NOT NULL,
		assistant_entries INTEGER NOT NULL,
		input_length INTEGER NOT NULL,
		output_length INTEGER NOT NULL,
		duration_seconds BIGINT NOT NULL,
		chat_id TEXT NOT NULL DEFAULT '',
		voice_session_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_journal_entries_user ON journal_entries (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS discarded_sessions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id TEXT NOT NULL DEFAULT '',
		persona_type TEXT NOT NULL DEFAULT '',
		voice_session_id TEXT NOT NULL DEFAULT '',
		ended_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

func RunMigration(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range migrationStatements {
		stmt := strings.TrimSpace(s)
		if stmt == "" {
			continue
		}
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

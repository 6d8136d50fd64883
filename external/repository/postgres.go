package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/o-mars/daily-journai/internal/conversation"
	"github.com/o-mars/daily-journai/internal/journal"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) journal.Repository {
	return &PostgresRepository{pool: pool}
}

// storedTurn is the JSONB shape of one conversation turn.
type storedTurn struct {
	Speaker string    `json:"speaker"`
	Text    string    `json:"text"`
	SentAt  time.Time `json:"sent_at"`
}

func encodeTurns(turns []conversation.Turn) ([]byte, error) {
	out := make([]storedTurn, 0, len(turns))
	for _, t := range turns {
		out = append(out, storedTurn{
			Speaker: string(t.Speaker),
			Text:    t.Text,
			SentAt:  t.SentAt,
		})
	}
	return json.Marshal(out)
}

func (r *PostgresRepository) CreateJournalEntry(ctx context.Context, input journal.CreateEntryInput) (*journal.JournalEntry, error) {
	turnsJSON, err := encodeTurns(input.Turns)
	if err != nil {
		return nil, fmt.Errorf("encode turns: %w", err)
	}

	meta := input.Metadata
	row := r.pool.QueryRow(ctx,
		`INSERT INTO journal_entries
		   (user_id, user_email, persona_type, turns,
		    user_entries, assistant_entries, input_length, output_length,
		    duration_seconds, chat_id, voice_session_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at, updated_at`,
		input.UserID, meta.UserEmail, meta.PersonaType, turnsJSON,
		meta.UserEntries, meta.AssistantEntries, meta.InputLength, meta.OutputLength,
		meta.DurationSeconds, meta.ChatID, meta.VoiceSessionID, input.CreatedAt)

	entry := journal.JournalEntry{
		UserID:   input.UserID,
		Turns:    input.Turns,
		Metadata: meta,
	}
	if err := row.Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *PostgresRepository) SaveEntryDerivation(ctx context.Context, entryID string, d journal.EntryDerivation) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE journal_entries
		 SET summary = $2, title = $3, cleaned_text = $4, updated_at = NOW()
		 WHERE id = $1`,
		entryID, d.Summary, d.Title, d.CleanedText)
	return err
}

func (r *PostgresRepository) DiscardSession(ctx context.Context, input journal.DiscardSessionInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO discarded_sessions (user_id, persona_type, voice_session_id, ended_at)
		 VALUES ($1, $2, $3, $4)`,
		input.UserID, input.PersonaType, input.VoiceSessionID, input.EndedAt)
	return err
}

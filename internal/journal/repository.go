package journal

import (
	"context"
	"time"

	"github.com/o-mars/daily-journai/internal/conversation"
)

type CreateEntryInput struct {
	UserID    string
	Turns     []conversation.Turn
	Metadata  SessionMetadata
	CreatedAt time.Time
}

type DiscardSessionInput struct {
	UserID         string
	PersonaType    string
	VoiceSessionID string
	EndedAt        time.Time
}

type Repository interface {
	// CreateJournalEntry persists the finalized turn list and metadata and
	// returns the stored entry with its assigned ID.
	CreateJournalEntry(ctx context.Context, input CreateEntryInput) (*JournalEntry, error)
	// SaveEntryDerivation attaches the asynchronously derived summary, title
	// and cleaned transcript to an existing entry.
	SaveEntryDerivation(ctx context.Context, entryID string, d EntryDerivation) error
	// DiscardSession records that a session ended without user interaction.
	// Best-effort: callers log failures instead of propagating them.
	DiscardSession(ctx context.Context, input DiscardSessionInput) error
}

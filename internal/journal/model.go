package journal

import (
	"time"

	"github.com/o-mars/daily-journai/internal/conversation"
)

// SessionMetadata is derived once at finalization and immutable afterwards.
// InputLength and OutputLength count raw UTF-8 bytes of the native string;
// they are metrics, never truncation bounds.
type SessionMetadata struct {
	UserID           string
	UserEmail        string
	PersonaType      string
	UserEntries      int
	AssistantEntries int
	InputLength      int
	OutputLength     int
	DurationSeconds  int64
	ChatID           string
	VoiceSessionID   string
}

type JournalEntry struct {
	ID          string
	UserID      string
	Title       string
	Summary     string
	CleanedText string
	Turns       []conversation.Turn
	Metadata    SessionMetadata
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EntryDerivation is the asynchronously produced summary/title/cleaned
// transcript attached to an already persisted entry.
type EntryDerivation struct {
	Summary     string
	Title       string
	CleanedText string
}

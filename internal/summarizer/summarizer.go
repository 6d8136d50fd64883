package summarizer

import (
	"context"

	"github.com/o-mars/daily-journai/internal/conversation"
)

type Derivation struct {
	Summary     string
	Title       string
	CleanedText string
}

// Summarizer derives a summary, title and cleaned transcript from a
// finalized conversation. Implementations call an external completion API.
type Summarizer interface {
	Derive(ctx context.Context, turns []conversation.Turn) (Derivation, error)
}

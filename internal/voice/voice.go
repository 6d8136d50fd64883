package voice

import (
	"context"

	"github.com/o-mars/daily-journai/internal/conversation"
	"github.com/o-mars/daily-journai/internal/persona"
)

// SessionConfig is the payload sent to the voice platform when a session is
// opened: which persona speaks and how eagerly utterances are finalized.
type SessionConfig struct {
	PersonaType  string
	SystemPrompt string
	VADStopSecs  float64
}

// EventHandler receives the decoded event stream for a connected session.
// HandleEvent reports a rejected event back to the transport so a dropped
// message is loud rather than silent.
type EventHandler interface {
	HandleEvent(sessionID string, ev conversation.Event) error
	HandleHistory(sessionID string, turns []conversation.Turn)
}

// Connection is one live session on the voice platform.
type Connection interface {
	// SessionID is the platform's correlation ID for the realtime session.
	SessionID() string
	// ChatID is the platform's correlation ID for the conversation itself.
	ChatID() string
	Close() error
}

// Gateway opens sessions against the realtime voice platform.
type Gateway interface {
	Connect(ctx context.Context, cfg SessionConfig, handler EventHandler) (Connection, error)
}

// SessionRequest asks for a new journaling session on behalf of an
// authenticated user.
type SessionRequest struct {
	Token       string
	Preferences persona.Preferences
}

// SessionStarter is implemented by the session manager; the control listener
// invokes it for every incoming session request.
type SessionStarter interface {
	StartSession(ctx context.Context, req SessionRequest) (string, error)
}

// Listener subscribes to the platform's control stream and forwards session
// requests to the starter until the context is canceled.
type Listener interface {
	Run(ctx context.Context, starter SessionStarter) error
}

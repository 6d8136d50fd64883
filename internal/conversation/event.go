package conversation

import (
	"errors"
	"time"
)

type EventKind string

const (
	EventUserTranscript EventKind = "user_transcript"
	EventBotText        EventKind = "bot_text"
	EventBotStopped     EventKind = "bot_stopped"
	EventSpeechStarted  EventKind = "speech_started"
	EventSpeechStopped  EventKind = "speech_stopped"
	EventDisconnected   EventKind = "disconnected"
)

var ErrUnsupportedEvent = errors.New("unsupported event kind")

// Event is a single message from the realtime voice platform, decoded into
// the kinds the session pipeline understands. Text, Timestamp and Final are
// populated only for the kinds that carry them.
type Event struct {
	Kind      EventKind
	Text      string
	Timestamp time.Time
	Final     bool
}

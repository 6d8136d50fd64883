package voice

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/o-mars/daily-journai/internal/persona"
	voicepkg "github.com/o-mars/daily-journai/internal/voice"
)

const (
	messageTypeSessionRequest = "session-request"
	messageTypeSessionStarted = "session-started"
	messageTypeSessionError   = "session-error"

	reconnectDelay = 3 * time.Second
)

type sessionRequestPayload struct {
	Type        string  `json:"type"`
	Token       string  `json:"token"`
	PersonaType string  `json:"persona_type"`
	VADStopSecs float64 `json:"vad_stop_secs"`
}

type sessionResultPayload struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ControlListener holds a websocket to the voice platform's control stream
// and turns every session request on it into a StartSession call. The
// connection is re-dialed after failures until the context is canceled.
type ControlListener struct {
	url    string
	apiKey string
	dialer *websocket.Dialer
}

func NewControlListener(url, apiKey string) voicepkg.Listener {
	return &ControlListener{
		url:    url,
		apiKey: apiKey,
		dialer: &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
	}
}

func (l *ControlListener) Run(ctx context.Context, starter voicepkg.SessionStarter) error {
	for {
		if err := l.serveOnce(ctx, starter); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("control stream lost; reconnecting", "error", err, "delay", reconnectDelay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

func (l *ControlListener) serveOnce(ctx context.Context, starter voicepkg.SessionStarter) error {
	header := http.Header{}
	if l.apiKey != "" {
		header.Set("Authorization", "Bearer "+l.apiKey)
	}
	conn, _, err := l.dialer.DialContext(ctx, l.url, header)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Unblock ReadJSON when the context is canceled. The watcher exits with
	// the connection so reconnect cycles do not accumulate goroutines.
	watchDone := make(chan struct{})
	defer close(watchDone)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-watchDone:
		}
	}()

	slog.Info("listening for session requests", "url", l.url)
	for {
		var req sessionRequestPayload
		if err := conn.ReadJSON(&req); err != nil {
			return err
		}
		if req.Type != messageTypeSessionRequest {
			slog.Debug("ignoring unknown control message", "type", req.Type)
			continue
		}
		l.startSession(ctx, conn, starter, req)
	}
}

func (l *ControlListener) startSession(ctx context.Context, conn *websocket.Conn, starter voicepkg.SessionStarter, req sessionRequestPayload) {
	sessionID, err := starter.StartSession(ctx, voicepkg.SessionRequest{
		Token: req.Token,
		Preferences: persona.Preferences{
			PersonaType: req.PersonaType,
			VADStopSecs: req.VADStopSecs,
		},
	})
	result := sessionResultPayload{Type: messageTypeSessionStarted, SessionID: sessionID}
	if err != nil {
		slog.Warn("session request rejected", "persona_type", req.PersonaType, "error", err)
		result = sessionResultPayload{Type: messageTypeSessionError, Error: err.Error()}
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(result); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		slog.Warn("failed to ack session request", "error", err)
	}
}

package voice

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/o-mars/daily-journai/internal/conversation"
	voicepkg "github.com/o-mars/daily-journai/internal/voice"
)

const (
	messageTypeSessionSetup        = "session-setup"
	messageTypeSessionReady        = "session-ready"
	messageTypeUserTranscription   = "user-transcription"
	messageTypeBotLLMText          = "bot-llm-text"
	messageTypeBotLLMStopped       = "bot-llm-stopped"
	messageTypeUserStartedSpeaking = "user-started-speaking"
	messageTypeUserStoppedSpeaking = "user-stopped-speaking"
	messageTypeConversationHistory = "conversation-history"
	messageTypeDisconnected        = "disconnected"
)

const (
	dialTimeout      = 10 * time.Second
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 5 * time.Second
)

type wireTurn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	SentAt  int64  `json:"sent_at_ms"`
}

type wireMessage struct {
	Type        string     `json:"type"`
	SessionID   string     `json:"session_id,omitempty"`
	ChatID      string     `json:"chat_id,omitempty"`
	Text        string     `json:"text,omitempty"`
	Final       bool       `json:"final,omitempty"`
	TimestampMS int64      `json:"timestamp_ms,omitempty"`
	Turns       []wireTurn `json:"turns,omitempty"`
}

type sessionSetupPayload struct {
	Type         string  `json:"type"`
	PersonaType  string  `json:"persona_type"`
	SystemPrompt string  `json:"system_prompt"`
	VADStopSecs  float64 `json:"vad_stop_secs"`
}

// WebSocketGateway opens realtime sessions against the voice platform over a
// websocket per session.
type WebSocketGateway struct {
	url    string
	apiKey string
	dialer *websocket.Dialer
}

func NewWebSocketGateway(url, apiKey string) voicepkg.Gateway {
	return &WebSocketGateway{
		url:    url,
		apiKey: apiKey,
		dialer: &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
	}
}

func (g *WebSocketGateway) Connect(ctx context.Context, cfg voicepkg.SessionConfig, handler voicepkg.EventHandler) (voicepkg.Connection, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	header := http.Header{}
	if g.apiKey != "" {
		header.Set("Authorization", "Bearer "+g.apiKey)
	}
	conn, _, err := g.dialer.DialContext(dialCtx, g.url, header)
	if err != nil {
		return nil, fmt.Errorf("dial voice gateway: %w", err)
	}

	// The setup/ready exchange shares the dial deadline, so a gateway that
	// upgrades and then stalls cannot block Connect past it.
	handshakeDeadline, _ := dialCtx.Deadline()
	setup := sessionSetupPayload{
		Type:         messageTypeSessionSetup,
		PersonaType:  cfg.PersonaType,
		SystemPrompt: cfg.SystemPrompt,
		VADStopSecs:  cfg.VADStopSecs,
	}
	_ = conn.SetWriteDeadline(handshakeDeadline)
	if err := conn.WriteJSON(setup); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("send session setup: %w", err)
	}

	_ = conn.SetReadDeadline(handshakeDeadline)
	var ready wireMessage
	if err := conn.ReadJSON(&ready); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("read session ready: %w", err)
	}
	if ready.Type != messageTypeSessionReady {
		_ = conn.Close()
		return nil, fmt.Errorf("unexpected message %q before session ready", ready.Type)
	}
	_ = conn.SetReadDeadline(time.Time{})
	_ = conn.SetWriteDeadline(time.Time{})

	sessionID := ready.SessionID
	if sessionID == "" {
		// Some gateway builds omit their own correlation ID; mint one so the
		// session is still addressable.
		sessionID = uuid.NewString()
		slog.Warn("voice gateway sent no session id; generated one", "session_id", sessionID)
	}
	chatID := ready.ChatID
	if chatID == "" {
		chatID = uuid.NewString()
	}

	wc := &wsConnection{
		conn:      conn,
		sessionID: sessionID,
		chatID:    chatID,
	}
	go wc.readLoop(handler)
	return wc, nil
}

type wsConnection struct {
	conn      *websocket.Conn
	sessionID string
	chatID    string

	closeOnce sync.Once
	closeErr  error
}

func (c *wsConnection) SessionID() string { return c.sessionID }
func (c *wsConnection) ChatID() string    { return c.chatID }

func (c *wsConnection) Close() error {
	c.closeOnce.Do(func() {
		deadline := time.Now().Add(writeTimeout)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *wsConnection) readLoop(handler voicepkg.EventHandler) {
	for {
		var msg wireMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("voice gateway read ended", "session_id", c.sessionID, "error", err)
			}
			c.deliver(handler, conversation.Event{Kind: conversation.EventDisconnected})
			return
		}
		if msg.Type == messageTypeDisconnected {
			c.deliver(handler, conversation.Event{Kind: conversation.EventDisconnected})
			return
		}
		if msg.Type == messageTypeConversationHistory {
			handler.HandleHistory(c.sessionID, decodeWireTurns(msg.Turns))
			continue
		}
		c.deliver(handler, decodeWireEvent(msg))
	}
}

func (c *wsConnection) deliver(handler voicepkg.EventHandler, ev conversation.Event) {
	if err := handler.HandleEvent(c.sessionID, ev); err != nil {
		slog.Warn("voice event rejected", "session_id", c.sessionID, "kind", ev.Kind, "error", err)
	}
}

// decodeWireEvent maps a gateway message onto the typed event enum. Types this
// build does not know keep the raw wire type as their kind; the session
// pipeline rejects those, which is the signal that the gateway and this
// service have drifted apart.
func decodeWireEvent(msg wireMessage) conversation.Event {
	var kind conversation.EventKind
	switch msg.Type {
	case messageTypeUserTranscription:
		kind = conversation.EventUserTranscript
	case messageTypeBotLLMText:
		kind = conversation.EventBotText
	case messageTypeBotLLMStopped:
		kind = conversation.EventBotStopped
	case messageTypeUserStartedSpeaking:
		kind = conversation.EventSpeechStarted
	case messageTypeUserStoppedSpeaking:
		kind = conversation.EventSpeechStopped
	default:
		kind = conversation.EventKind(msg.Type)
	}
	ev := conversation.Event{
		Kind:  kind,
		Text:  msg.Text,
		Final: msg.Final,
	}
	if msg.TimestampMS > 0 {
		ev.Timestamp = time.UnixMilli(msg.TimestampMS)
	}
	return ev
}

func decodeWireTurns(wire []wireTurn) []conversation.Turn {
	turns := make([]conversation.Turn, 0, len(wire))
	for _, wt := range wire {
		speaker := conversation.Speaker(wt.Speaker)
		if speaker != conversation.SpeakerUser && speaker != conversation.SpeakerAssistant {
			continue
		}
		turn := conversation.Turn{
			Speaker: speaker,
			Text:    wt.Text,
		}
		if wt.SentAt > 0 {
			turn.SentAt = time.UnixMilli(wt.SentAt)
		}
		turns = append(turns, turn)
	}
	return turns
}

package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/o-mars/daily-journai/internal/config"
	"github.com/o-mars/daily-journai/internal/conversation"
	"github.com/o-mars/daily-journai/internal/identity"
	"github.com/o-mars/daily-journai/internal/persona"
	"github.com/o-mars/daily-journai/internal/voice"
)

// Manager owns the set of live journaling sessions. It routes gateway events
// into each session's reconciler, watches the idle and max-duration timers,
// and drives finalization on every teardown path.
type Manager struct {
	cfg       *config.Config
	idp       identity.Provider
	gateway   voice.Gateway
	finalizer *Finalizer

	mu       sync.Mutex
	sessions map[string]*runningSession
}

type runningSession struct {
	user        identity.User
	personaType string
	chatID      string
	conn        voice.Connection
	rec         *conversation.Reconciler
	idleTimer   *time.Timer
	maxTimer    *time.Timer
}

func (rs *runningSession) touch(idle time.Duration) {
	if rs.idleTimer != nil {
		rs.idleTimer.Stop()
		rs.idleTimer.Reset(idle)
	}
}

func (rs *runningSession) stopTimers() {
	if rs.idleTimer != nil {
		rs.idleTimer.Stop()
	}
	if rs.maxTimer != nil {
		rs.maxTimer.Stop()
	}
}

func NewManager(cfg *config.Config, idp identity.Provider, gw voice.Gateway, fin *Finalizer) *Manager {
	return &Manager{
		cfg:       cfg,
		idp:       idp,
		gateway:   gw,
		finalizer: fin,
		sessions:  make(map[string]*runningSession),
	}
}

// StartSession resolves the caller's identity, opens a voice platform
// connection with the resolved persona, and registers the session.
func (m *Manager) StartSession(ctx context.Context, req voice.SessionRequest) (string, error) {
	user, err := m.idp.ResolveUser(ctx, req.Token)
	if err != nil {
		return "", fmt.Errorf("resolve user: %w", err)
	}

	spec := persona.Build(req.Preferences)
	conn, err := m.gateway.Connect(ctx, voice.SessionConfig{
		PersonaType:  spec.Type,
		SystemPrompt: spec.SystemPrompt,
		VADStopSecs:  spec.VADStopSecs,
	}, m)
	if err != nil {
		return "", fmt.Errorf("connect voice gateway: %w", err)
	}
	sessionID := conn.SessionID()

	rs := &runningSession{
		user:        user,
		personaType: spec.Type,
		chatID:      conn.ChatID(),
		conn:        conn,
		rec:         conversation.NewReconciler(),
	}

	m.mu.Lock()
	if _, exists := m.sessions[sessionID]; exists {
		m.mu.Unlock()
		_ = conn.Close()
		return "", fmt.Errorf("session %s is already running", sessionID)
	}
	m.sessions[sessionID] = rs
	rs.idleTimer = time.AfterFunc(m.cfg.IdleTimeout(), func() {
		m.endWithReason(sessionID, stopReasonIdleTimeout)
	})
	rs.maxTimer = time.AfterFunc(m.cfg.MaxSessionDuration(), func() {
		m.endWithReason(sessionID, stopReasonMaxDuration)
	})
	m.mu.Unlock()

	slog.Info("session started",
		"session_id", sessionID,
		"chat_id", rs.chatID,
		"user_id", user.ID,
		"persona_type", spec.Type,
	)
	return sessionID, nil
}

// HandleEvent receives one decoded platform event. Disconnects tear the
// session down; speech activity only feeds the idle timer; everything else
// goes through the reconciler, which rejects kinds it does not know.
func (m *Manager) HandleEvent(sessionID string, ev conversation.Event) error {
	if ev.Kind == conversation.EventDisconnected {
		if err := m.EndSession(context.Background(), sessionID, stopReasonDisconnected); err != nil {
			slog.Error("failed to finalize session", "session_id", sessionID, "error", err)
		}
		return nil
	}

	m.mu.Lock()
	rs, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		slog.Debug("event for unknown session", "session_id", sessionID, "kind", ev.Kind)
		return nil
	}
	rs.touch(m.cfg.IdleTimeout())

	var err error
	switch ev.Kind {
	case conversation.EventSpeechStarted, conversation.EventSpeechStopped:
		// Activity only; nothing reaches the turn list.
	default:
		err = rs.rec.Apply(ev)
	}
	m.mu.Unlock()

	if err != nil {
		slog.Error("rejected event", "session_id", sessionID, "kind", ev.Kind, "error", err)
		return err
	}
	return nil
}

// HandleHistory merges a republished window of recent turns from the
// platform into the session's stored list.
func (m *Manager) HandleHistory(sessionID string, turns []conversation.Turn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rs, ok := m.sessions[sessionID]
	if !ok {
		slog.Debug("history for unknown session", "session_id", sessionID, "turns", len(turns))
		return
	}
	rs.touch(m.cfg.IdleTimeout())
	rs.rec.Resume(turns)
}

// EndSession removes the session, clears its reconciler state, and runs the
// finalizer over a snapshot of the turns. The clear happens before the
// persistence attempt, so a failed save cannot wedge the session pipeline;
// the error still propagates to the caller. Ending an unknown session is a
// no-op.
func (m *Manager) EndSession(ctx context.Context, sessionID, reason string) error {
	m.mu.Lock()
	rs, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()
	if !ok {
		return nil
	}

	rs.stopTimers()
	if err := rs.conn.Close(); err != nil {
		slog.Warn("failed to close voice connection", "session_id", sessionID, "error", err)
	}

	turns := rs.rec.Turns()
	rs.rec.Reset()

	slog.Info("session ended", "session_id", sessionID, "reason", reason, "turns", len(turns))

	result, err := m.finalizer.Finalize(ctx, FinalizeInput{
		User:           rs.user,
		PersonaType:    rs.personaType,
		ChatID:         rs.chatID,
		VoiceSessionID: sessionID,
		EndedAt:        time.Now(),
		Turns:          turns,
	})
	if err != nil {
		return err
	}
	if result.Saved {
		m.runSessionWorker(sessionID, "derive_entry", func() {
			m.finalizer.DeriveEntry(context.Background(), result.EntryID, result.Turns)
		})
	}
	return nil
}

// StopAllSessions ends every running session, used on shutdown.
func (m *Manager) StopAllSessions() int {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.endWithReason(id, stopReasonServerClosed)
	}
	return len(ids)
}

func (m *Manager) IsSessionRunning(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[sessionID]
	return ok
}

func (m *Manager) endWithReason(sessionID, reason string) {
	if err := m.EndSession(context.Background(), sessionID, reason); err != nil {
		slog.Error("failed to finalize session", "session_id", sessionID, "reason", reason, "error", err)
	}
}

func (m *Manager) runSessionWorker(sessionID, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("session worker panicked", "session_id", sessionID, "worker", name, "panic", r)
			}
		}()
		fn()
	}()
}

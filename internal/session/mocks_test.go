package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/o-mars/daily-journai/internal/conversation"
	"github.com/o-mars/daily-journai/internal/identity"
	"github.com/o-mars/daily-journai/internal/journal"
	"github.com/o-mars/daily-journai/internal/summarizer"
	"github.com/o-mars/daily-journai/internal/voice"
)

type mockRepository struct {
	mu              sync.Mutex
	createCalls     []journal.CreateEntryInput
	derivationCalls map[string]journal.EntryDerivation
	discardCalls    []journal.DiscardSessionInput
	createErr       error
	derivationErr   error
	discardErr      error
}

func (m *mockRepository) CreateJournalEntry(_ context.Context, input journal.CreateEntryInput) (*journal.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.createCalls = append(m.createCalls, input)
	return &journal.JournalEntry{
		ID:       "entry-" + input.Metadata.VoiceSessionID,
		UserID:   input.UserID,
		Turns:    input.Turns,
		Metadata: input.Metadata,
	}, nil
}

func (m *mockRepository) SaveEntryDerivation(_ context.Context, entryID string, d journal.EntryDerivation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.derivationErr != nil {
		return m.derivationErr
	}
	if m.derivationCalls == nil {
		m.derivationCalls = make(map[string]journal.EntryDerivation)
	}
	m.derivationCalls[entryID] = d
	return nil
}

func (m *mockRepository) DiscardSession(_ context.Context, input journal.DiscardSessionInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.discardErr != nil {
		return m.discardErr
	}
	m.discardCalls = append(m.discardCalls, input)
	return nil
}

func (m *mockRepository) createdEntries() []journal.CreateEntryInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]journal.CreateEntryInput(nil), m.createCalls...)
}

func (m *mockRepository) derivationFor(entryID string) (journal.EntryDerivation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.derivationCalls[entryID]
	return d, ok
}

type mockSummarizer struct {
	mu         sync.Mutex
	deriveErr  error
	derivation summarizer.Derivation
	calls      int
}

func (m *mockSummarizer) Derive(_ context.Context, _ []conversation.Turn) (summarizer.Derivation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.deriveErr != nil {
		return summarizer.Derivation{}, m.deriveErr
	}
	return m.derivation, nil
}

type recordedMetric struct {
	category string
	event    string
	props    map[string]any
}

type mockRecorder struct {
	mu      sync.Mutex
	records []recordedMetric
}

func (m *mockRecorder) Record(_ context.Context, category, event string, props map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, recordedMetric{category: category, event: event, props: props})
}

func (m *mockRecorder) events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r.event)
	}
	return out
}

type mockIdentityProvider struct {
	user identity.User
	err  error
}

func (m *mockIdentityProvider) ResolveUser(_ context.Context, _ string) (identity.User, error) {
	if m.err != nil {
		return identity.User{}, m.err
	}
	return m.user, nil
}

type mockConnection struct {
	sessionID  string
	chatID     string
	mu         sync.Mutex
	closeCount int
}

func (m *mockConnection) SessionID() string { return m.sessionID }
func (m *mockConnection) ChatID() string    { return m.chatID }
func (m *mockConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCount++
	return nil
}

func (m *mockConnection) closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeCount > 0
}

type mockGateway struct {
	connectErr error
	nextID     int
	lastConfig voice.SessionConfig
	lastConn   *mockConnection
}

func (m *mockGateway) Connect(_ context.Context, cfg voice.SessionConfig, _ voice.EventHandler) (voice.Connection, error) {
	if m.connectErr != nil {
		return nil, m.connectErr
	}
	m.nextID++
	m.lastConfig = cfg
	m.lastConn = &mockConnection{
		sessionID: fmt.Sprintf("voice-session-%d", m.nextID),
		chatID:    fmt.Sprintf("chat-%d", m.nextID),
	}
	return m.lastConn, nil
}

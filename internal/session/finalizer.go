package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/o-mars/daily-journai/internal/conversation"
	"github.com/o-mars/daily-journai/internal/identity"
	"github.com/o-mars/daily-journai/internal/journal"
	"github.com/o-mars/daily-journai/internal/metrics"
	"github.com/o-mars/daily-journai/internal/summarizer"
)

const metricCategorySession = "session"

var ErrNoUserIdentity = errors.New("cannot persist a journal entry without a user identity")

// Finalizer runs once per session lifecycle: it decides persist-vs-discard,
// computes session metadata, and hands saved entries off for asynchronous
// summary derivation.
type Finalizer struct {
	repo       journal.Repository
	summarizer summarizer.Summarizer
	metrics    metrics.Recorder
}

func NewFinalizer(repo journal.Repository, sum summarizer.Summarizer, rec metrics.Recorder) *Finalizer {
	return &Finalizer{repo: repo, summarizer: sum, metrics: rec}
}

type FinalizeInput struct {
	User           identity.User
	PersonaType    string
	ChatID         string
	VoiceSessionID string
	EndedAt        time.Time
	Turns          []conversation.Turn
}

type FinalizeResult struct {
	Saved    bool
	EntryID  string
	Metadata journal.SessionMetadata
	// Turns is the merged alternating-speaker list the decision was made on.
	Turns []conversation.Turn
}

// Finalize computes metadata for the final turn list and either persists a
// journal entry or discards the session. A list without a single user turn is
// discarded; the discard itself is best-effort. Persistence failures
// propagate to the caller, which already cleared the reconciler state, so a
// failed save never wedges the session pipeline.
func (f *Finalizer) Finalize(ctx context.Context, input FinalizeInput) (FinalizeResult, error) {
	merged := conversation.MergeAdjacent(input.Turns)
	meta := buildSessionMetadata(merged)
	meta.DurationSeconds = durationSeconds(input.Turns)
	meta.UserID = input.User.ID
	meta.UserEmail = input.User.Email
	meta.PersonaType = input.PersonaType
	meta.ChatID = input.ChatID
	meta.VoiceSessionID = input.VoiceSessionID

	f.metrics.Record(ctx, metricCategorySession, "session_ended", metadataProps(meta))

	if meta.UserEntries == 0 {
		if err := f.repo.DiscardSession(ctx, journal.DiscardSessionInput{
			UserID:         meta.UserID,
			PersonaType:    meta.PersonaType,
			VoiceSessionID: meta.VoiceSessionID,
			EndedAt:        input.EndedAt,
		}); err != nil {
			slog.Warn("failed to record discarded session", "error", err, "voice_session_id", meta.VoiceSessionID)
		}
		f.metrics.Record(ctx, metricCategorySession, "session_discarded", metadataProps(meta))
		slog.Info("session discarded: no user turns", "voice_session_id", meta.VoiceSessionID, "assistant_entries", meta.AssistantEntries)
		return FinalizeResult{Metadata: meta, Turns: merged}, nil
	}

	if input.User.ID == "" {
		return FinalizeResult{Metadata: meta, Turns: merged}, ErrNoUserIdentity
	}

	entry, err := f.repo.CreateJournalEntry(ctx, journal.CreateEntryInput{
		UserID:    input.User.ID,
		Turns:     merged,
		Metadata:  meta,
		CreatedAt: input.EndedAt,
	})
	if err != nil {
		return FinalizeResult{Metadata: meta, Turns: merged}, fmt.Errorf("create journal entry: %w", err)
	}

	f.metrics.Record(ctx, metricCategorySession, "session_saved", metadataProps(meta))
	slog.Info("journal entry saved",
		"entry_id", entry.ID,
		"user_id", meta.UserID,
		"user_entries", meta.UserEntries,
		"assistant_entries", meta.AssistantEntries,
		"duration_seconds", meta.DurationSeconds,
	)
	return FinalizeResult{Saved: true, EntryID: entry.ID, Metadata: meta, Turns: merged}, nil
}

// DeriveEntry asks the completion API for a summary, title and cleaned
// transcript and attaches them to the entry. Runs detached from Finalize;
// failure is logged and never rolls back the already created entry.
func (f *Finalizer) DeriveEntry(ctx context.Context, entryID string, turns []conversation.Turn) {
	d, err := f.summarizer.Derive(ctx, turns)
	if err != nil {
		slog.Error("failed to derive entry summary", "error", err, "entry_id", entryID)
		return
	}
	if err := f.repo.SaveEntryDerivation(ctx, entryID, journal.EntryDerivation{
		Summary:     d.Summary,
		Title:       d.Title,
		CleanedText: d.CleanedText,
	}); err != nil {
		slog.Error("failed to save entry derivation", "error", err, "entry_id", entryID)
		return
	}
	slog.Info("entry derivation saved", "entry_id", entryID, "title", d.Title)
}

// buildSessionMetadata derives the aggregate counters for a finished turn
// list.
func buildSessionMetadata(turns []conversation.Turn) journal.SessionMetadata {
	var meta journal.SessionMetadata
	for _, t := range turns {
		switch t.Speaker {
		case conversation.SpeakerUser:
			meta.UserEntries++
			meta.InputLength += len(t.Text)
		case conversation.SpeakerAssistant:
			meta.AssistantEntries++
			meta.OutputLength += len(t.Text)
		}
	}
	return meta
}

// durationSeconds is the floor of the elapsed seconds between the first and
// last turn, taken from the pre-merge list: merging reassigns a run's SentAt
// to its last member, which would shave the opening run off the duration.
// A single-turn list has duration zero.
func durationSeconds(turns []conversation.Turn) int64 {
	if len(turns) < 2 {
		return 0
	}
	elapsed := turns[len(turns)-1].SentAt.Sub(turns[0].SentAt)
	if elapsed <= 0 {
		return 0
	}
	return int64(elapsed.Seconds())
}

func metadataProps(meta journal.SessionMetadata) map[string]any {
	return map[string]any{
		"persona_type":      meta.PersonaType,
		"user_entries":      meta.UserEntries,
		"assistant_entries": meta.AssistantEntries,
		"input_length":      meta.InputLength,
		"output_length":     meta.OutputLength,
		"duration_seconds":  meta.DurationSeconds,
		"chat_id":           meta.ChatID,
		"voice_session_id":  meta.VoiceSessionID,
	}
}

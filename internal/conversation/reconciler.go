package conversation

import (
	"fmt"
	"strings"
	"time"
)

// Reconciler folds the platform's possibly overlapping message stream into an
// ordered turn list. All operations are append-only or replace the trailing
// partial turn, so SentAt values stay non-decreasing without a sorting step.
// It is not safe for concurrent use; the session manager serializes events.
type Reconciler struct {
	turns     []Turn
	fragments []string
	now       func() time.Time
}

func NewReconciler() *Reconciler {
	return &Reconciler{now: time.Now}
}

// Apply dispatches a single event. Kinds the reconciler does not own are
// rejected with ErrUnsupportedEvent so a dropped message never silently
// corrupts the transcript. Prior state is untouched on rejection.
func (r *Reconciler) Apply(ev Event) error {
	switch ev.Kind {
	case EventUserTranscript:
		r.applyUserTranscript(ev)
	case EventBotText:
		r.fragments = append(r.fragments, ev.Text)
	case EventBotStopped:
		r.flushFragments()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedEvent, ev.Kind)
	}
	return nil
}

func (r *Reconciler) applyUserTranscript(ev Event) {
	if n := len(r.turns); n > 0 {
		last := &r.turns[n-1]
		if last.Speaker == SpeakerUser && last.IsPartial {
			// The transcript service re-emits a growing or corrected
			// hypothesis each time; the newest event is authoritative.
			last.Text = ev.Text
			last.SentAt = ev.Timestamp
			last.IsPartial = !ev.Final
			return
		}
	}
	r.turns = append(r.turns, Turn{
		Speaker:   SpeakerUser,
		Text:      ev.Text,
		SentAt:    ev.Timestamp,
		IsPartial: !ev.Final,
	})
}

func (r *Reconciler) flushFragments() {
	joined := strings.Join(r.fragments, "")
	r.fragments = nil
	if joined == "" {
		return
	}
	r.turns = append(r.turns, Turn{
		Speaker: SpeakerAssistant,
		Text:    joined,
		SentAt:  r.now(),
	})
}

// Resume merges a republished batch of recent turns (see ResumeOverlap).
func (r *Reconciler) Resume(batch []Turn) {
	r.turns = ResumeOverlap(r.turns, batch)
}

// Turns returns a copy of the reconciled turn list.
func (r *Reconciler) Turns() []Turn {
	out := make([]Turn, len(r.turns))
	copy(out, r.turns)
	return out
}

// Reset discards the turn list and fragment buffer unconditionally.
func (r *Reconciler) Reset() {
	r.turns = nil
	r.fragments = nil
}

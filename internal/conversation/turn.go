package conversation

import "time"

type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// Turn is one contiguous utterance attributed to a single speaker.
// Text and SentAt may still be revised while IsPartial is true.
type Turn struct {
	Speaker   Speaker
	Text      string
	SentAt    time.Time
	IsPartial bool
}

// MergeAdjacent collapses every run of consecutive same-speaker turns into a
// single turn. The merged text is the space-joined run in original order and
// the merged SentAt is the timestamp of the last turn in the run; a run's
// start time is not preserved, so callers that need elapsed time compute it
// from the pre-merge list. Applying it to an already merged list is a no-op.
func MergeAdjacent(turns []Turn) []Turn {
	if len(turns) == 0 {
		return nil
	}
	merged := make([]Turn, 0, len(turns))
	for _, t := range turns {
		if len(merged) > 0 && merged[len(merged)-1].Speaker == t.Speaker {
			last := &merged[len(merged)-1]
			last.Text = last.Text + " " + t.Text
			last.SentAt = t.SentAt
			last.IsPartial = t.IsPartial
			continue
		}
		merged = append(merged, t)
	}
	return merged
}

// ResumeOverlap reconciles a freshly delivered batch of turns against the
// previously stored list. The upstream source republishes a rolling window of
// its recent turns, so the batch may overlap history already recorded here.
// If the first incoming turn matches a stored turn by exact speaker and text,
// the stored suffix from that index on is replaced by the batch; otherwise
// the batch is appended unmodified. A turn whose text was edited upstream
// will miss the match and duplicate history; that trade-off is deliberate.
func ResumeOverlap(stored, incoming []Turn) []Turn {
	if len(incoming) == 0 {
		return stored
	}
	if len(stored) == 0 {
		return append([]Turn(nil), incoming...)
	}
	first := incoming[0]
	for i, t := range stored {
		if t.Speaker == first.Speaker && t.Text == first.Text {
			out := make([]Turn, 0, i+len(incoming))
			out = append(out, stored[:i]...)
			return append(out, incoming...)
		}
	}
	out := make([]Turn, 0, len(stored)+len(incoming))
	out = append(out, stored...)
	return append(out, incoming...)
}

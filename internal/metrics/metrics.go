package metrics

import "context"

// Recorder delivers analytics events to an external sink. Calls are
// fire-and-forget: implementations return nothing and callers never wait on
// or inspect the outcome.
type Recorder interface {
	Record(ctx context.Context, category, event string, props map[string]any)
}

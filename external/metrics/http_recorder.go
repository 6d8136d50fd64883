package metrics

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/o-mars/daily-journai/internal/metrics"
)

const recordTimeout = 5 * time.Second

// HTTPRecorder posts analytics events to a webhook-style JSON sink. Failures
// are logged, never returned; the caller must not depend on delivery.
type HTTPRecorder struct {
	endpointURL string
	client      *http.Client
}

func NewHTTPRecorder(endpointURL string) metrics.Recorder {
	return &HTTPRecorder{
		endpointURL: endpointURL,
		client:      &http.Client{Timeout: recordTimeout},
	}
}

type eventPayload struct {
	Category   string         `json:"category"`
	Event      string         `json:"event"`
	Properties map[string]any `json:"properties,omitempty"`
	RecordedAt string         `json:"recorded_at"`
}

func (r *HTTPRecorder) Record(ctx context.Context, category, event string, props map[string]any) {
	if r.endpointURL == "" {
		return
	}

	b, err := json.Marshal(eventPayload{
		Category:   category,
		Event:      event,
		Properties: props,
		RecordedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		slog.Warn("failed to marshal analytics event", "error", err, "event", event)
		return
	}
	// Deliver off the caller's goroutine; the client timeout bounds the
	// request, and the caller's cancellation must not abort delivery.
	go r.send(context.WithoutCancel(ctx), event, b)
}

func (r *HTTPRecorder) send(ctx context.Context, event string, body []byte) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpointURL, bytes.NewReader(body))
	if err != nil {
		slog.Warn("failed to build analytics request", "error", err, "event", event)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		slog.Warn("failed to deliver analytics event", "error", err, "event", event)
		return
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if !isHTTPSuccessStatus(resp.StatusCode) {
		slog.Warn("analytics sink rejected event", "status", resp.StatusCode, "event", event)
	}
}

func isHTTPSuccessStatus(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

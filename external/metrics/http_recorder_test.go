package metrics

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRecord_EmptyEndpointIsNoOp(t *testing.T) {
	rec := NewHTTPRecorder("")
	rec.Record(context.Background(), "session", "session_ended", nil)
}

func TestRecord_PostsJSONPayload(t *testing.T) {
	received := make(chan eventPayload, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read body: %v", err)
		}
		var got eventPayload
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("failed to unmarshal body: %v", err)
		}
		received <- got
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rec := NewHTTPRecorder(server.URL)
	rec.Record(context.Background(), "session", "session_saved", map[string]any{"user_entries": 3})

	var got eventPayload
	select {
	case got = <-received:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the event to be delivered")
	}

	if got.Category != "session" || got.Event != "session_saved" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.Properties["user_entries"] != float64(3) {
		t.Fatalf("unexpected properties: %+v", got.Properties)
	}
	if got.RecordedAt == "" {
		t.Fatal("expected recorded_at to be set")
	}
}

func TestRecord_DoesNotBlockOnSlowSink(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	rec := NewHTTPRecorder(server.URL)
	start := time.Now()
	rec.Record(context.Background(), "session", "session_ended", nil)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Record blocked %v on a stalled sink", elapsed)
	}
}

func TestRecord_SurvivesCallerCancellation(t *testing.T) {
	received := make(chan struct{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- struct{}{}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	rec := NewHTTPRecorder(server.URL)
	rec.Record(ctx, "session", "session_discarded", nil)
	cancel()

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("expected delivery to proceed despite the canceled caller context")
	}
}

func TestRecord_Non2xxDoesNotPanic(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	rec := NewHTTPRecorder(server.URL)
	rec.Record(context.Background(), "session", "session_discarded", nil)
}

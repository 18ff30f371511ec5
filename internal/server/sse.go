package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonathan/resume-analyzer/internal/apiclient"
	"github.com/jonathan/resume-analyzer/internal/session"
)

// Event names used on the analysis stream.
const (
	EventFeature  = "feature"
	EventError    = "error"
	EventComplete = "complete"
)

// FeatureEvent reports that one analysis feature finished.
type FeatureEvent struct {
	Feature session.Feature `json:"feature"`
	OK      bool            `json:"ok"`
	Error   string          `json:"error,omitempty"`
}

// SSEWriter writes numbered Server-Sent Events. Features finish on separate
// goroutines, so writes are serialized.
type SSEWriter struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	seq     int
}

// NewSSEWriter sets the stream headers on w
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends data as one event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if _, err := fmt.Fprintf(s.w, "id: %d\nevent: %s\ndata: %s\n\n", s.seq, event, payload); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteFeature reports a finished feature. A failure carries the message the
// UI would show for it.
func (s *SSEWriter) WriteFeature(feature session.Feature, ferr error, fallback string) error {
	ev := FeatureEvent{Feature: feature, OK: ferr == nil}
	if ferr != nil {
		ev.Error = apiclient.UserMessage(ferr, fallback)
	}
	return s.WriteEvent(EventFeature, ev)
}

// WriteError sends an error event
func (s *SSEWriter) WriteError(message string) {
	s.WriteEvent(EventError, map[string]string{"error": message}) //nolint:errcheck
}

// WriteComplete ends the stream with the final session state
func (s *SSEWriter) WriteComplete(snap session.Snapshot) {
	s.WriteEvent(EventComplete, snap) //nolint:errcheck
}

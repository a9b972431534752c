package telemetry

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/atxtechbro/mcpdash/internal/errors"
)

// Status is the outcome of one tool invocation.
type Status int

const (
	StatusSuccess Status = iota
	StatusError
)

// String returns the status label used by the feed.
func (s Status) String() string {
	if s == StatusSuccess {
		return "SUCCESS"
	}
	return "ERROR"
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStatus maps a wire status to a Status. Comparison is case-insensitive
// and anything other than SUCCESS is an error.
func ParseStatus(s string) Status {
	if strings.EqualFold(strings.TrimSpace(s), "success") {
		return StatusSuccess
	}
	return StatusError
}

// Event is one tool invocation record delivered over the push channel.
// Events are immutable once parsed.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Server    string    `json:"server"`
	Tool      string    `json:"tool"`
	Status    Status    `json:"status"`
	Branch    string    `json:"branch,omitempty"`
	Details   string    `json:"details,omitempty"`
	// Duration is the execution time in milliseconds, nil when the backend
	// did not report one.
	Duration *float64 `json:"duration,omitempty"`
	Type     string   `json:"type,omitempty"`
}

// HasDuration reports whether the event carries an execution time.
func (e Event) HasDuration() bool { return e.Duration != nil }

// wireEvent is the backend's log entry shape.
type wireEvent struct {
	Timestamp  *time.Time      `json:"timestamp"`
	Server     string          `json:"server"`
	Tool       string          `json:"tool"`
	Status     string          `json:"status"`
	Branch     string          `json:"branch"`
	Details    string          `json:"details"`
	Duration   *float64        `json:"duration"`
	Type       string          `json:"type"`
	Parameters json.RawMessage `json:"parameters"`
}

// ParseEvent decodes one push message. Payloads that are not a JSON object,
// or that name neither a tool nor a server, are MALFORMED errors.
func ParseEvent(payload []byte) (Event, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Event{}, errors.New(errors.ErrMalformed,
			"Push payload is not a JSON object",
			"The backend should send one event document per message")
	}

	var w wireEvent
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return Event{}, errors.WrapWithCode(err, errors.ErrMalformed,
			"Push payload is not valid JSON",
			"The backend should send one event document per message")
	}

	if strings.TrimSpace(w.Tool) == "" && strings.TrimSpace(w.Server) == "" {
		return Event{}, errors.New(errors.ErrMalformed,
			"Push payload names neither a tool nor a server",
			"Check the backend is emitting tool call events")
	}

	ev := Event{
		Server:   w.Server,
		Tool:     w.Tool,
		Status:   ParseStatus(w.Status),
		Branch:   w.Branch,
		Details:  w.Details,
		Duration: w.Duration,
		Type:     w.Type,
	}
	if w.Timestamp != nil {
		ev.Timestamp = *w.Timestamp
	}
	return ev, nil
}

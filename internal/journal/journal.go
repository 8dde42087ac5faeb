// Package journal keeps an append-only JSONL log of every bus event in a
// timing session and provides indexed read-back of past attempts. One
// journal is created per cubetimer invocation in cmd/cubetimer/wiring.go.
package journal

import (
	"encoding/json"
	"time"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
)

// Entry is one journal line.
type Entry struct {
	Timestamp  time.Time       `json:"ts"`
	Event      bus.Name        `json:"event"`
	Attempt    int             `json:"attempt,omitempty"` // 1-based sequence within the session
	ContextID  string          `json:"context_id,omitempty"`
	ScrambleID string          `json:"scramble_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// Writer persists journal entries to durable storage.
type Writer interface {
	Append(entry Entry) error
	Close() error
}

// Reader retrieves past attempt data from storage.
type Reader interface {
	Attempts() ([]AttemptSummary, error)
	AttemptLog(n int) ([]Entry, error)
	SessionSummary() (SessionSummary, error)
}

// Journal combines Writer and Reader into a single session-scoped handle.
type Journal interface {
	Writer
	Reader
}

// AttemptSummary summarises one finished attempt.
type AttemptSummary struct {
	Number       int
	ContextID    string
	ScrambleID   string
	Cancelled    bool
	Text         string // display text of the stopped readout
	Centiseconds int64
	DNF          bool
	PlusTwo      bool
	StartAt      time.Time
	EndAt        time.Time
}

// SessionSummary summarises the current session.
type SessionSummary struct {
	SessionID string
	StartedAt time.Time
	Attempts  int
	Completed int
	Cancelled int
	DNFs      int
	Best      int64 // centiseconds, -1 when there is no valid result
	Mean      int64 // centiseconds over valid results, -1 when none
	Failures  int   // sync failures seen
}

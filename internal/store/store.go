// Package store defines the records kept for timing contexts and the errors
// shared by store implementations.
package store

import (
	"errors"
	"time"
)

var (
	// ErrUnknownContext is returned when a context id is not configured.
	ErrUnknownContext = errors.New("store: unknown context")
	// ErrUnknownScramble is returned when a result names a scramble that does
	// not belong to its context.
	ErrUnknownScramble = errors.New("store: unknown scramble")
	// ErrContextComplete is returned when a result arrives for a context
	// whose attempts are all recorded.
	ErrContextComplete = errors.New("store: context complete")
	// ErrNoAttempts is returned by edits on a context with no attempts.
	ErrNoAttempts = errors.New("store: no attempts")
)

// ContextDef describes one timing context.
type ContextDef struct {
	ID       string
	Name     string
	Puzzle   string
	Attempts int
}

// ContextSummary is a context together with its progress.
type ContextSummary struct {
	ContextDef
	Comment  string
	Recorded int
}

// Complete reports whether every attempt of the context is recorded.
func (c ContextSummary) Complete() bool { return c.Attempts > 0 && c.Recorded >= c.Attempts }

// AttemptRecord is one persisted attempt.
type AttemptRecord struct {
	ID           string
	ContextID    string
	ScrambleID   string
	Scramble     string
	Position     int
	Centiseconds int64
	IsDNF        bool
	IsPlusTwo    bool
	CreatedAt    time.Time
}

package tui

import (
	"time"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/journal"
)

// tickMsg is sent every second for the header clock.
type tickMsg time.Time

// frameMsg drives the attempt clock while an attempt needs ticks.
type frameMsg time.Time

// continuationMsg carries a persistence continuation back onto the loop.
type continuationMsg func()

// continuationsClosedMsg signals the continuation channel closed.
type continuationsClosedMsg struct{}

// attemptLogLoadedMsg carries a past attempt's journal entries.
type attemptLogLoadedMsg struct {
	Number  int
	Entries []journal.Entry
	Err     error
}

// sessionLoadedMsg carries refreshed session figures from the journal.
type sessionLoadedMsg struct {
	Summary  journal.SessionSummary
	Attempts []journal.AttemptSummary
	Err      error
}

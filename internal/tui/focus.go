package tui

import "github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"

// FocusTarget identifies which panel currently holds keyboard focus.
type FocusTarget int

const (
	FocusContexts FocusTarget = iota // Left sidebar, context list
	FocusAttempts                    // Left sidebar, session attempts
	FocusTimer                       // Right top, scramble and timer face
	FocusLog                         // Right bottom, event log and session stats
)

// Next returns the next focus target in forward tab order.
func (f FocusTarget) Next() FocusTarget {
	return (f + 1) % 4
}

// Prev returns the previous focus target in reverse tab order.
func (f FocusTarget) Prev() FocusTarget {
	return (f + 3) % 4 // equivalent to (f - 1 + 4) % 4
}

// String returns the human-readable name of the focus target.
func (f FocusTarget) String() string {
	switch f {
	case FocusContexts:
		return "contexts"
	case FocusAttempts:
		return "attempts"
	case FocusTimer:
		return "timer"
	case FocusLog:
		return "log"
	default:
		return "unknown"
	}
}

// stateSymbol returns a single-character symbol for an attempt state.
func stateSymbol(s attempt.State) string {
	switch s {
	case attempt.StateInactive:
		return "○"
	case attempt.StateArmed, attempt.StateInspectionArmed:
		return "●"
	case attempt.StateInspecting:
		return "◐"
	case attempt.StateRunning:
		return "▶"
	case attempt.StateDone:
		return "✓"
	default:
		return "?"
	}
}

package tui

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/display"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/input"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/journal"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/observe"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/tui/panels"
)

// EntrySource delivers every journal entry as it is written.
// *journal.Recorder satisfies it.
type EntrySource interface {
	OnAppend(fn func(journal.Entry))
}

// SyncState reports a result still waiting to be saved.
// *records.Synchronizer satisfies it.
type SyncState interface {
	Pending() (attempt.Result, bool)
}

// Deps is everything the TUI drives or observes. The caller wires the
// components to one bus before calling New; the TUI only publishes user
// requests and reads observer state.
type Deps struct {
	Bus         *bus.Bus
	Clock       *attempt.Clock
	Coordinator *input.Coordinator
	Repeat      *input.RepeatDetector
	History     *input.History
	Cancel      *input.KeyBinding
	Projector   *display.Projector
	Cards       *observe.Cards
	Screens     *observe.Screens
	Notices     *observe.Notices

	// Continuations is drained on the UI loop. Nil when persistence runs
	// inline.
	Continuations <-chan func()
	// Sync may be nil when nothing is persisted.
	Sync SyncState
	// Journal and Entries may be nil when no session log is kept.
	Journal journal.Reader
	Entries EntrySource

	Contexts     []panels.ContextItem
	Initial      string // context selected at startup, if any
	AccentColor  string
	WorkDir      string
	TickInterval time.Duration
	Now          clockwork.Clock
}

package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/display"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/input"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/journal"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/observe"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/tui/panels"
)

// Pages of the navigation history. The history passed in Deps must be rooted
// at PageContexts.
const (
	PageContexts = "contexts"
	PageTimer    = "timer"
)

const defaultTickInterval = 10 * time.Millisecond

// uiFlags is UI state read by callbacks that outlive a single Model value.
type uiFlags struct {
	editing bool
}

// contextTracker keeps the latest snapshot of the context on screen.
type contextTracker struct {
	snap  attempt.Snapshot
	ok    bool
	dirty bool
	// progress holds snapshots of contexts not on the clock.
	progress []attempt.Snapshot
}

func (t *contextTracker) onRefreshed(payload any) {
	t.snap = payload.(attempt.Snapshot)
	t.ok = true
	t.dirty = true
}

func (t *contextTracker) onProgress(payload any) {
	t.progress = append(t.progress, payload.(attempt.Snapshot))
}

// entryFeed buffers journal entries until the next Update drains them.
type entryFeed struct {
	entries []journal.Entry
}

func (f *entryFeed) push(e journal.Entry) { f.entries = append(f.entries, e) }

func (f *entryFeed) drain() []journal.Entry {
	out := f.entries
	f.entries = nil
	return out
}

// Model is the root bubbletea model for the multi-panel cubetimer TUI.
type Model struct {
	// Timing core
	bus       *bus.Bus
	clock     *attempt.Clock
	coord     *input.Coordinator
	repeat    *input.RepeatDetector
	history   *input.History
	cancel    *input.KeyBinding
	projector *display.Projector
	cards     *observe.Cards
	screens   *observe.Screens
	notices   *observe.Notices

	// Event sources
	continuations <-chan func()
	sync          SyncState
	journal       journal.Reader
	clk           clockwork.Clock
	tickInterval  time.Duration

	ui      *uiFlags
	current *contextTracker
	feed    *entryFeed

	// Sub-panels
	contextsPanel panels.ContextsPanel
	attemptsPanel panels.AttemptsPanel
	timerView     panels.TimerView
	secondary     panels.SecondaryPanel
	help          help.Model
	showHelp      bool

	// Layout and focus
	layout Layout
	focus  FocusTarget
	theme  Theme
	width  int
	height int

	// framing is set while a frameMsg is scheduled.
	framing bool

	// Time
	startedAt time.Time
	now       time.Time

	workDir string
	initial string
}

// New creates the multi-panel TUI Model and hooks it up to d. Every field of
// d except Continuations, Sync, Journal, Entries and Now is required.
func New(d Deps) Model {
	if d.Now == nil {
		d.Now = clockwork.NewRealClock()
	}
	if d.TickInterval <= 0 {
		d.TickInterval = defaultTickInterval
	}
	now := d.Now.Now()
	layout := Calculate(80, 24)

	ui := &uiFlags{}
	tracker := &contextTracker{}
	d.Bus.Subscribe(attempt.EventContextRefreshed, tracker.onRefreshed)
	d.Bus.Subscribe(attempt.EventProgressUpdated, tracker.onProgress)
	feed := &entryFeed{}
	if d.Entries != nil {
		d.Entries.OnAppend(feed.push)
	}
	history := d.History
	d.Clock.SetArmGuard(func() bool {
		return history.Current() == PageTimer && !ui.editing
	})

	ctxW, ctxH := innerDims(layout.Contexts)
	attW, attH := innerDims(layout.Attempts)
	timerW, timerH := innerDims(layout.Timer)
	logW, logH := innerDims(layout.Log)

	return Model{
		bus:           d.Bus,
		clock:         d.Clock,
		coord:         d.Coordinator,
		repeat:        d.Repeat,
		history:       d.History,
		cancel:        d.Cancel,
		projector:     d.Projector,
		cards:         d.Cards,
		screens:       d.Screens,
		notices:       d.Notices,
		continuations: d.Continuations,
		sync:          d.Sync,
		journal:       d.Journal,
		clk:           d.Now,
		tickInterval:  d.TickInterval,
		ui:            ui,
		current:       tracker,
		feed:          feed,
		contextsPanel: panels.NewContextsPanel(d.Contexts, ctxW, ctxH),
		attemptsPanel: panels.NewAttemptsPanel(attW, attH),
		timerView:     panels.NewTimerView(timerW, timerH),
		secondary:     panels.NewSecondaryPanel(logW, logH),
		help:          help.New(),
		layout:        layout,
		focus:         FocusContexts,
		theme:         NewTheme(d.AccentColor),
		width:         80,
		height:        24,
		startedAt:     now,
		now:           now,
		workDir:       d.WorkDir,
		initial:       d.Initial,
	}
}

// Init returns the initial commands: clock ticker, continuation listener,
// the first session load and the initial context selection.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), waitForContinuation(m.continuations), loadSession(m.journal)}
	if m.initial != "" {
		id := m.initial
		cmds = append(cmds, func() tea.Msg { return panels.ContextSelectedMsg{ID: id} })
	}
	return tea.Batch(cmds...)
}

// tickCmd schedules the next one-second clock tick.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// frameCmd schedules the next attempt clock frame.
func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// waitForContinuation blocks on the continuation channel and returns the
// next continuation as a message.
func waitForContinuation(ch <-chan func()) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		fn, ok := <-ch
		if !ok {
			return continuationsClosedMsg{}
		}
		return continuationMsg(fn)
	}
}

// loadSession reads the session figures off the loop.
func loadSession(r journal.Reader) tea.Cmd {
	if r == nil {
		return nil
	}
	return func() tea.Msg {
		sum, err := r.SessionSummary()
		if err != nil {
			return sessionLoadedMsg{Err: err}
		}
		attempts, err := r.Attempts()
		return sessionLoadedMsg{Summary: sum, Attempts: attempts, Err: err}
	}
}

// loadAttemptLog reads one attempt's journal entries off the loop.
func loadAttemptLog(r journal.Reader, n int) tea.Cmd {
	if r == nil {
		return nil
	}
	return func() tea.Msg {
		entries, err := r.AttemptLog(n)
		return attemptLogLoadedMsg{Number: n, Entries: entries, Err: err}
	}
}

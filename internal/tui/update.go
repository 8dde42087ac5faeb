package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/input"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/journal"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/tui/panels"
)

// Update handles all incoming bubbletea messages. Bus events raised while
// handling msg are folded into the panels before returning.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	return m.settle(cmd)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	case tickMsg:
		m.now = m.clk.Now()
		return m, tickCmd()
	case frameMsg:
		return m.handleFrame(), nil
	case continuationMsg:
		msg()
		return m, waitForContinuation(m.continuations)
	case continuationsClosedMsg:
		return m, nil
	case panels.ContextSelectedMsg:
		return m.handleContextSelected(msg), nil
	case panels.AttemptSelectedMsg:
		return m, loadAttemptLog(m.journal, msg.Number)
	case panels.CommentSubmittedMsg:
		if m.current.ok && !m.unsaved() {
			m.bus.Publish(attempt.EventCommentSubmitted, attempt.CommentRequest{
				ContextID: m.current.snap.ContextID,
				Text:      msg.Text,
			})
		}
		return m, nil
	case attemptLogLoadedMsg:
		return m.handleAttemptLogLoaded(msg), nil
	case sessionLoadedMsg:
		if msg.Err != nil {
			log.Warn().Err(msg.Err).Msg("tui: load session")
			return m, nil
		}
		m.secondary = m.secondary.SetSession(msg.Summary, msg.Attempts)
		m.attemptsPanel = m.attemptsPanel.SetAttempts(msg.Attempts)
		return m, nil
	}
	return m.delegateToFocused(msg)
}

// settle folds observer state into the panels and keeps attempt frames
// scheduled while the clock or the key repeat window needs them.
func (m Model) settle(cmd tea.Cmd) (Model, tea.Cmd) {
	cmds := []tea.Cmd{cmd}
	m.ui.editing = m.timerView.Editing()

	if m.current.dirty {
		m.current.dirty = false
		snap := m.current.snap
		m.contextsPanel = m.contextsPanel.SetRecorded(snap.ContextID, len(snap.PriorAttempts))
	}
	for _, snap := range m.current.progress {
		m.contextsPanel = m.contextsPanel.SetRecorded(snap.ContextID, len(snap.PriorAttempts))
	}
	m.current.progress = nil

	var reload bool
	for _, e := range m.feed.drain() {
		m = m.appendEntry(e)
		if e.Event == attempt.EventCompleted || e.Event == attempt.EventCancelled {
			reload = true
		}
	}
	if reload {
		cmds = append(cmds, loadSession(m.journal))
	}

	m.timerView = m.timerView.SetProps(m.timerProps())

	if !m.framing && (m.clock.NeedsTicks() || m.repeat.Held()) {
		m.framing = true
		cmds = append(cmds, frameCmd(m.tickInterval))
	}
	return m, tea.Batch(cmds...)
}

// appendEntry routes one journal entry to the log tabs and the attempts list.
func (m Model) appendEntry(e journal.Entry) Model {
	logW, _ := innerDims(m.layout.Log)
	rendered := m.theme.RenderEntry(e, logW)
	m.secondary = m.secondary.AppendLine(rendered, panels.TabEvents)

	switch e.Event {
	case attempt.EventArmed:
		m.attemptsPanel = m.attemptsPanel.SetLive(e.Attempt)
	case attempt.EventCancelled:
		m.attemptsPanel = m.attemptsPanel.SetLive(0)
		m.secondary = m.secondary.AppendLine(rendered, panels.TabErrors)
	case attempt.EventCompleted:
		m.attemptsPanel = m.attemptsPanel.SetLive(0)
	case attempt.EventSyncFailed:
		m.secondary = m.secondary.AppendLine(rendered, panels.TabErrors)
	}
	return m
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.layout = Calculate(msg.Width, msg.Height)
	m.help.Width = msg.Width
	if !m.layout.TooSmall {
		ctxW, ctxH := innerDims(m.layout.Contexts)
		attW, attH := innerDims(m.layout.Attempts)
		timerW, timerH := innerDims(m.layout.Timer)
		logW, logH := innerDims(m.layout.Log)
		m.contextsPanel = m.contextsPanel.SetSize(ctxW, ctxH)
		m.attemptsPanel = m.attemptsPanel.SetSize(attW, attH)
		m.timerView = m.timerView.SetSize(timerW, timerH)
		m.secondary = m.secondary.SetSize(logW, logH)
	}
	return m
}

// handleFrame advances the attempt clock by one frame. A key whose repeats
// have stopped counts as released before the clock samples time.
func (m Model) handleFrame() Model {
	m.framing = false
	if m.repeat.Expired() {
		m.coord.Release(input.SourceKey)
	}
	m.clock.Tick()
	return m
}

// keyName normalizes the space key, whose name differs between terminals.
func keyName(msg tea.KeyMsg) string {
	if msg.Type == tea.KeySpace || msg.String() == " " {
		return "space"
	}
	return msg.String()
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	name := keyName(msg)
	if name == "ctrl+c" {
		return m, tea.Quit
	}
	if m.timerView.Editing() {
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		return m, cmd
	}
	if m.cancel != nil && m.cancel.Handle(name) {
		return m, nil
	}
	if name == m.coord.ActivationKey() {
		if m.repeat.KeyDown() {
			m.coord.Press(input.SourceKey)
		}
		return m, nil
	}
	if key.Matches(msg, keys.Back) {
		if m.history.Back() {
			m.focus = FocusContexts
		}
		return m, nil
	}
	if m.coord.OtherKey(name) {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.NextPanel):
		m.focus = m.focus.Next()
		return m, nil
	case key.Matches(msg, keys.PrevPanel):
		m.focus = m.focus.Prev()
		return m, nil
	case key.Matches(msg, keys.Panel):
		m.focus = FocusTarget(msg.Runes[0] - '1')
		return m, nil
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case key.Matches(msg, keys.Undo):
		if snap, ok := m.editable(); ok && snap.ControlButtons.Undo {
			m.bus.Publish(attempt.EventUndoRequested, snap.ContextID)
		}
		return m, nil
	case key.Matches(msg, keys.DNF):
		if snap, ok := m.editable(); ok && snap.ControlButtons.DNF {
			m.requestPenalty(snap, attempt.PenaltyDNF)
		}
		return m, nil
	case key.Matches(msg, keys.PlusTwo):
		if snap, ok := m.editable(); ok && snap.ControlButtons.PlusTwo {
			m.requestPenalty(snap, attempt.PenaltyPlusTwo)
		}
		return m, nil
	case key.Matches(msg, keys.Comment):
		if snap, ok := m.editable(); ok && snap.ControlButtons.Comment {
			var cmd tea.Cmd
			m.focus = FocusTimer
			m.timerView, cmd = m.timerView.StartComment(snap.Comment)
			return m, cmd
		}
		return m, nil
	case key.Matches(msg, keys.Resubmit):
		if m.notices.Resubmittable() {
			m.bus.Publish(attempt.EventResubmitRequested, nil)
		}
		return m, nil
	}
	return m.delegateToFocused(msg)
}

// editable returns the snapshot of the context on screen when its results
// may be edited: a context is selected, no attempt is live and no result is
// waiting to be saved.
func (m Model) editable() (attempt.Snapshot, bool) {
	if !m.current.ok || m.clock.Live() || m.unsaved() || m.history.Current() != PageTimer {
		return attempt.Snapshot{}, false
	}
	return m.current.snap, true
}

// unsaved reports whether a completed result has not reached the store yet.
func (m Model) unsaved() bool {
	if m.sync == nil {
		return false
	}
	_, ok := m.sync.Pending()
	return ok
}

// requestPenalty toggles p on the latest attempt: asking for the penalty it
// already carries clears it.
func (m Model) requestPenalty(snap attempt.Snapshot, p attempt.Penalty) {
	if n := len(snap.PriorAttempts); n > 0 {
		last := snap.PriorAttempts[n-1]
		if (p == attempt.PenaltyDNF && last.IsDNF) || (p == attempt.PenaltyPlusTwo && last.IsPlusTwo) {
			p = attempt.PenaltyNone
		}
	}
	m.bus.Publish(attempt.EventPenaltyRequested, attempt.PenaltyRequest{ContextID: snap.ContextID, Penalty: p})
}

// handleMouse treats the left button inside the timer panel as the touch
// activation source. Releases count anywhere.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && m.layout.Timer.Contains(msg.X, msg.Y) {
			m.coord.Press(input.SourceTouch)
		}
	case tea.MouseActionRelease:
		m.coord.Release(input.SourceTouch)
	}
	return m
}

func (m Model) handleContextSelected(msg panels.ContextSelectedMsg) Model {
	if m.clock.Live() || m.unsaved() {
		return m
	}
	item, ok := m.contextsPanel.Find(msg.ID)
	if !ok {
		return m
	}
	m.cards.SetSlots(item.Attempts)
	m.contextsPanel = m.contextsPanel.SetCurrent(item.ID)
	if m.history.Current() != PageTimer {
		m.history.Push(PageTimer)
	}
	m.focus = FocusTimer
	m.timerView = m.timerView.SwitchToTimer()
	m.bus.Publish(attempt.EventContextSelected, item.ID)
	return m
}

func (m Model) handleAttemptLogLoaded(msg attemptLogLoadedMsg) Model {
	if msg.Err != nil {
		log.Warn().Err(msg.Err).Int("attempt", msg.Number).Msg("tui: load attempt log")
		return m
	}
	timerW, _ := innerDims(m.layout.Timer)
	rendered := make([]string, len(msg.Entries))
	for i, e := range msg.Entries {
		rendered[i] = m.theme.RenderEntry(e, timerW)
	}
	m.timerView = m.timerView.ShowReplay(rendered)
	m.focus = FocusTimer
	return m
}

func (m Model) delegateToFocused(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusContexts:
		m.contextsPanel, cmd = m.contextsPanel.Update(msg)
	case FocusAttempts:
		m.attemptsPanel, cmd = m.attemptsPanel.Update(msg)
	case FocusTimer:
		m.timerView, cmd = m.timerView.Update(msg)
	case FocusLog:
		m.secondary, cmd = m.secondary.Update(msg)
	}
	return m, cmd
}

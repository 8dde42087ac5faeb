package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/observe"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/tui/panels"
)

// View renders the full multi-panel TUI.
func (m Model) View() string {
	if m.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%dx%d).\nPlease resize to at least 80x24.", m.width, m.height)
		return lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Render(msg)
	}

	header := panels.RenderHeader(m.headerProps(), m.layout.Header.Width, m.theme.AccentHeaderStyle())
	footer := panels.RenderFooter(m.footerProps(), m.layout.Footer.Width)

	ctxW, ctxH := innerDims(m.layout.Contexts)
	attW, attH := innerDims(m.layout.Attempts)
	timerW, timerH := innerDims(m.layout.Timer)
	logW, logH := innerDims(m.layout.Log)

	logContent := m.secondary.View()
	if m.showHelp {
		logContent = m.help.View(keys)
	}

	sidebar := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.PanelBorderStyle(m.focus == FocusContexts).
			Width(ctxW).Height(ctxH).
			Render(m.contextsPanel.View()),
		m.theme.PanelBorderStyle(m.focus == FocusAttempts).
			Width(attW).Height(attH).
			Render(m.attemptsPanel.View()),
	)

	rightCol := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.PanelBorderStyle(m.focus == FocusTimer).
			Width(timerW).Height(timerH).
			Render(m.timerView.View()),
		m.theme.PanelBorderStyle(m.focus == FocusLog).
			Width(logW).Height(logH).
			Render(logContent),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, rightCol)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// onTimerPage reports whether a context is selected and being shown.
func (m Model) onTimerPage() bool {
	return m.current.ok && m.history.Current() == PageTimer
}

func (m Model) headerProps() panels.HeaderProps {
	state := m.clock.State()
	props := panels.HeaderProps{
		WorkDir:     m.workDir,
		Inspection:  m.clock.UsesInspection(),
		StateSymbol: stateSymbol(state),
		StateLabel:  state.String(),
		Elapsed:     m.now.Sub(m.startedAt),
		Clock:       m.now,
	}
	if m.onTimerPage() {
		snap := m.current.snap
		props.ContextName = snap.ContextName
		if item, ok := m.contextsPanel.Find(snap.ContextID); ok {
			props.Recorded = len(snap.PriorAttempts)
			props.Attempts = item.Attempts
		}
	}
	return props
}

func (m Model) footerProps() panels.FooterProps {
	props := panels.FooterProps{
		Focus:         m.focus.String(),
		ActivationKey: m.coord.ActivationKey(),
		Editing:       m.timerView.Editing(),
		Live:          m.clock.Live(),
		Help:          m.help.ShortHelpView(keys.ShortHelp()),
	}
	if res, ok := m.clock.LastResult(); ok {
		props.LastResult = resultText(res)
	}
	return props
}

// timerProps assembles what the timer tab shows from the observers.
func (m Model) timerProps() panels.TimerProps {
	r := m.projector.Readout()
	props := panels.TimerProps{
		Readout: m.theme.ReadoutStyle(r).Render(r.Text),
		Status:  m.status(),
		Notice:  m.notices.Message(),
	}
	if props.Notice != "" && m.notices.Resubmittable() {
		props.Notice += "  (r to resubmit)"
	}
	if !m.onTimerPage() {
		props.Status = ""
		return props
	}

	snap := m.current.snap
	props.ContextName = snap.ContextName
	screen := m.screens.Current()
	if screen == observe.ScreenFocus {
		return props
	}
	props.Comment = snap.Comment
	props.Complete = screen == observe.ScreenSummary
	if !props.Complete {
		props.Scramble = snap.NextScrambleText
	} else if snap.LastResultSummary != "" {
		props.Summary = []string{snap.LastResultSummary}
	}
	for _, c := range m.cards.Cards() {
		props.Cards = append(props.Cards, panels.CardProps{
			Text:        c.Text,
			Recorded:    c.Recorded,
			Active:      c.Active,
			Highlighted: c.Highlighted,
			DNF:         c.DNF,
			PlusTwo:     c.PlusTwo,
		})
	}
	return props
}

// status is the one-line prompt under the timer face.
func (m Model) status() string {
	key := m.coord.ActivationKey()
	switch m.clock.State() {
	case attempt.StateArmed, attempt.StateInspectionArmed:
		return "release to start"
	case attempt.StateInspecting:
		return "inspecting · hold " + key + " to arm"
	case attempt.StateRunning:
		return "press " + key + " to stop"
	case attempt.StateDone:
		if m.notices.Message() == "" {
			return "saving…"
		}
		return ""
	}
	if !m.coord.Enabled() {
		return ""
	}
	return "hold " + key + " to arm"
}

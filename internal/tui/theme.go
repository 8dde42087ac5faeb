package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/display"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/journal"
)

// Theme holds accent-color-derived styles for the multi-panel TUI.
type Theme struct {
	accentStyle     lipgloss.Style // header background
	readoutStyle    lipgloss.Style // idle timer face
	borderFocused   lipgloss.Style // focused panel border
	borderUnfocused lipgloss.Style // unfocused panel border
}

// NewTheme creates a Theme from a hex accent color string (e.g. "#7D56F4").
// If accentColor is empty, the default accent color is used.
func NewTheme(accentColor string) Theme {
	color := defaultAccentColor
	if accentColor != "" {
		color = accentColor
	}
	c := lipgloss.Color(color)
	return Theme{
		accentStyle: lipgloss.NewStyle().
			Background(c).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		readoutStyle: lipgloss.NewStyle().
			Foreground(c).
			Bold(true),
		borderFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c),
		borderUnfocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray),
	}
}

// AccentHeaderStyle returns the style for the header bar.
func (t Theme) AccentHeaderStyle() lipgloss.Style {
	return t.accentStyle
}

// PanelBorderStyle returns the appropriate border style for a panel based on
// whether it currently holds keyboard focus.
func (t Theme) PanelBorderStyle(focused bool) lipgloss.Style {
	if focused {
		return t.borderFocused
	}
	return t.borderUnfocused
}

// ReadoutStyle returns the style of the timer face for a readout.
func (t Theme) ReadoutStyle(r display.Readout) lipgloss.Style {
	switch {
	case r.DNF:
		return errorStyle
	case r.Armed:
		return armedStyle.Bold(true)
	case r.Phase == display.PhaseInspecting && r.PlusTwo:
		return errorStyle
	case r.Phase == display.PhaseInspecting:
		return inspectStyle.Bold(true)
	case r.Phase == display.PhaseRunning:
		return runStyle.Bold(true)
	case r.Phase == display.PhaseStopped:
		return resultStyle
	default:
		return t.readoutStyle
	}
}

// RenderEntry renders a journal entry as a single terminal line.
func (t Theme) RenderEntry(entry journal.Entry, width int) string {
	ts := timestampStyle.Render(fmt.Sprintf("[%s]", entry.Timestamp.Format("15:04:05")))
	style := eventStyle(entry.Event)

	label := string(entry.Event)
	if entry.Attempt > 0 {
		label = fmt.Sprintf("#%d %s", entry.Attempt, label)
	}
	text := label
	if detail := entryDetail(entry); detail != "" {
		text += "  " + detail
	}

	maxText := width - 16
	if maxText < 20 {
		maxText = 20
	}
	if runes := []rune(text); len(runes) > maxText {
		text = string(runes[:maxText-1]) + "…"
	}
	return fmt.Sprintf("%s  %s %s", ts, eventIcon(entry.Event), style.Render(text))
}

// entryDetail extracts the interesting part of an entry's payload.
func entryDetail(entry journal.Entry) string {
	if len(entry.Payload) == 0 {
		return ""
	}
	switch entry.Event {
	case attempt.EventInspectionStarted:
		var p attempt.InspectionStarted
		if json.Unmarshal(entry.Payload, &p) == nil {
			return fmt.Sprintf("%ds", p.DurationSeconds)
		}
	case attempt.EventInspectionTick:
		var p attempt.InspectionTick
		if json.Unmarshal(entry.Payload, &p) == nil {
			return fmt.Sprintf("%d left", p.Remaining)
		}
	case attempt.EventStopped:
		var p attempt.Stopped
		if json.Unmarshal(entry.Payload, &p) == nil {
			if p.IsDNF {
				return "DNF"
			}
			return display.Elapsed(p.Seconds, p.Centiseconds)
		}
	case attempt.EventCompleted:
		var p attempt.Result
		if json.Unmarshal(entry.Payload, &p) == nil {
			return resultText(p)
		}
	case attempt.EventContextSelected, attempt.EventUndoRequested:
		var id string
		if json.Unmarshal(entry.Payload, &id) == nil {
			return id
		}
	case attempt.EventContextRefreshed:
		var p attempt.Snapshot
		if json.Unmarshal(entry.Payload, &p) == nil {
			return fmt.Sprintf("%s  %d done", p.ContextName, len(p.PriorAttempts))
		}
	case attempt.EventSyncFailed:
		var p attempt.SyncFailure
		if json.Unmarshal(entry.Payload, &p) == nil {
			return singleLine(p.Message)
		}
	case attempt.EventCommentSubmitted:
		var p attempt.CommentRequest
		if json.Unmarshal(entry.Payload, &p) == nil {
			return fmt.Sprintf("%q", singleLine(p.Text))
		}
	case attempt.EventPenaltyRequested:
		var p attempt.PenaltyRequest
		if json.Unmarshal(entry.Payload, &p) == nil {
			return p.Penalty.String()
		}
	}
	return ""
}

// resultText formats a Result the way attempt cards show it.
func resultText(r attempt.Result) string {
	if r.IsDNF {
		return "DNF"
	}
	if r.IsPlusTwo {
		return attempt.FormatCentiseconds(r.ElapsedCentiseconds+200) + "+"
	}
	return attempt.FormatCentiseconds(r.ElapsedCentiseconds)
}

// singleLine collapses newlines and tabs into single spaces.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Package tui provides a bubbletea + lipgloss terminal UI for the cube timer.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/config"
)

// defaultAccentColor is the default accent color (indigo).
const defaultAccentColor = config.DefaultAccentColor

// Color palette.
var (
	colorWhite  = lipgloss.Color("#FAFAFA")
	colorGray   = lipgloss.Color("#888888")
	colorBlue   = lipgloss.Color("#5B9BD5")
	colorGreen  = lipgloss.Color("#6BCB77")
	colorYellow = lipgloss.Color("#FFD93D")
	colorRed    = lipgloss.Color("#FF6B6B")
	colorOrange = lipgloss.Color("#FFA54F")
)

// Styles used across the TUI. Accent-dependent styles (header, borders)
// live on the Theme.
var (
	timestampStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	armedStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	inspectStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	runStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	contextStyle = lipgloss.NewStyle().
			Foreground(colorOrange)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorWhite)
)

// eventIcon returns the icon shown next to a journal line for an event.
func eventIcon(name bus.Name) string {
	switch name {
	case attempt.EventArmed, attempt.EventInspectionArmed:
		return "●"
	case attempt.EventInspectionStarted, attempt.EventInspectionTick:
		return "👁"
	case attempt.EventRunStarted:
		return "▶"
	case attempt.EventStopped, attempt.EventCompleted:
		return "⏹"
	case attempt.EventCancelled:
		return "✗"
	case attempt.EventSyncFailed:
		return "❌"
	case attempt.EventContextSelected, attempt.EventContextRefreshed:
		return "🧊"
	default:
		return "⚡"
	}
}

// eventStyle returns the lipgloss style for a journal line.
func eventStyle(name bus.Name) lipgloss.Style {
	switch name {
	case attempt.EventArmed, attempt.EventInspectionArmed:
		return armedStyle
	case attempt.EventInspectionStarted, attempt.EventInspectionTick:
		return inspectStyle
	case attempt.EventRunStarted:
		return runStyle
	case attempt.EventStopped, attempt.EventCompleted:
		return resultStyle
	case attempt.EventCancelled, attempt.EventSyncFailed:
		return errorStyle
	case attempt.EventContextSelected, attempt.EventContextRefreshed:
		return contextStyle
	default:
		return infoStyle
	}
}

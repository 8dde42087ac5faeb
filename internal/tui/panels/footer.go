package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// FooterProps holds all data needed to render the footer bar.
type FooterProps struct {
	Focus         string // "contexts", "attempts", "timer", "log"
	ActivationKey string
	LastResult    string
	Editing       bool
	Live          bool
	Help          string // rendered global key help
}

// RenderFooter renders the context-sensitive footer bar.
// Left side: last result. Right side: keybinding hints for current focus + global.
func RenderFooter(props FooterProps, width int) string {
	last := props.LastResult
	if last == "" {
		last = "—"
	}
	left := fmt.Sprintf("last: %s", last)

	var right string
	switch {
	case props.Editing:
		right = "enter:save comment  esc:cancel"
	case props.Live:
		right = fmt.Sprintf("%s:stop  any other key:abort", props.ActivationKey)
	default:
		right = panelHints(props.Focus) + "  hold " + props.ActivationKey + ":time"
		if props.Help != "" {
			right += "  " + props.Help
		}
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}

	return footerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// panelHints returns the context-sensitive keybinding hints for a given focus.
func panelHints(focus string) string {
	switch focus {
	case "contexts":
		return "j/k:navigate  enter:time context"
	case "attempts":
		return "j/k:navigate  enter:replay"
	case "timer":
		return "u:undo  d:DNF  p:+2  c:comment  [/]:tab"
	case "log":
		return "[/]:tab  f:follow  j/k:scroll"
	default:
		return "tab:next panel"
	}
}

// Package components holds the small widgets the cubetimer panels share.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	tabBadgeStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
)

// Tab is one labelled tab. A positive Badge is drawn after the label.
type Tab struct {
	Label string
	Badge int
}

// TabBar is a row of tabs with one active. It is a value; every change
// returns a new TabBar.
type TabBar struct {
	tabs   []Tab
	active int
	width  int
}

// NewTabBar creates a TabBar with the first tab active.
func NewTabBar(labels ...string) TabBar {
	tabs := make([]Tab, len(labels))
	for i, l := range labels {
		tabs[i] = Tab{Label: l}
	}
	return TabBar{tabs: tabs}
}

// Active returns the index of the active tab.
func (t TabBar) Active() int { return t.active }

// Select makes tab i active. Out-of-range indexes are ignored.
func (t TabBar) Select(i int) TabBar {
	if i >= 0 && i < len(t.tabs) {
		t.active = i
	}
	return t
}

// Next activates the following tab, wrapping around.
func (t TabBar) Next() TabBar {
	if len(t.tabs) == 0 {
		return t
	}
	return t.Select((t.active + 1) % len(t.tabs))
}

// Prev activates the preceding tab, wrapping around.
func (t TabBar) Prev() TabBar {
	if len(t.tabs) == 0 {
		return t
	}
	return t.Select((t.active + len(t.tabs) - 1) % len(t.tabs))
}

// SetBadge sets the counter shown on tab i; zero hides it.
func (t TabBar) SetBadge(i, n int) TabBar {
	if i < 0 || i >= len(t.tabs) {
		return t
	}
	tabs := make([]Tab, len(t.tabs))
	copy(tabs, t.tabs)
	tabs[i].Badge = n
	t.tabs = tabs
	return t
}

// Badge returns the counter on tab i.
func (t TabBar) Badge(i int) int {
	if i < 0 || i >= len(t.tabs) {
		return 0
	}
	return t.tabs[i].Badge
}

// SetWidth sets the width View truncates to. Zero disables truncation.
func (t TabBar) SetWidth(w int) TabBar {
	t.width = w
	return t
}

// View renders the tabs on one line separated by " │ ".
func (t TabBar) View() string {
	if len(t.tabs) == 0 {
		return ""
	}
	parts := make([]string, len(t.tabs))
	for i, tab := range t.tabs {
		style := tabInactiveStyle
		if i == t.active {
			style = tabActiveStyle
		}
		label := style.Render(tab.Label)
		if tab.Badge > 0 {
			label += " " + tabBadgeStyle.Render(fmt.Sprintf("(%d)", tab.Badge))
		}
		parts[i] = label
	}
	line := strings.Join(parts, "  │  ")
	if t.width > 0 {
		line = lipgloss.NewStyle().MaxWidth(t.width).Render(line)
	}
	return line
}

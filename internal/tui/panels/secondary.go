package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/journal"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/tui/components"
)

// SecondaryTab identifies the active content tab in the secondary panel.
type SecondaryTab int

const (
	TabEvents  SecondaryTab = iota // Every journaled bus event
	TabErrors                      // Sync failures and cancellations
	TabSession                     // Session statistics
)

var secondaryTabLabels = []string{"Events", "Errors", "Session"}

// SecondaryPanel is the secondary (right-bottom) panel with event/error/session tabs.
type SecondaryPanel struct {
	tabbar    components.TabBar
	events    components.Feed
	errors    components.Feed
	session   journal.SessionSummary
	attempts  []journal.AttemptSummary
	width     int
	height    int
	activeTab SecondaryTab
}

// NewSecondaryPanel creates a secondary panel.
func NewSecondaryPanel(w, h int) SecondaryPanel {
	contentH := h - 1
	if contentH < 1 {
		contentH = 1
	}
	return SecondaryPanel{
		tabbar:    components.NewTabBar(secondaryTabLabels...).SetWidth(w),
		events:    components.NewFeed(w, contentH, 0),
		errors:    components.NewFeed(w, contentH, 0),
		session:   journal.SessionSummary{Best: -1, Mean: -1},
		width:     w,
		height:    h,
		activeTab: TabEvents,
	}
}

// AppendLine appends a pre-rendered line routed to the appropriate tab.
// Errors arriving while another tab is shown are counted on the Errors tab.
func (p SecondaryPanel) AppendLine(rendered string, routeTab SecondaryTab) SecondaryPanel {
	switch routeTab {
	case TabEvents:
		p.events = p.events.Append(rendered)
	case TabErrors:
		p.errors = p.errors.Append(rendered)
		if p.activeTab != TabErrors {
			i := int(TabErrors)
			p.tabbar = p.tabbar.SetBadge(i, p.tabbar.Badge(i)+1)
		}
	}
	return p
}

func (p SecondaryPanel) selectTab(tb components.TabBar) SecondaryPanel {
	p.tabbar = tb
	p.activeTab = SecondaryTab(tb.Active())
	if p.activeTab == TabErrors {
		p.tabbar = p.tabbar.SetBadge(int(TabErrors), 0)
	}
	return p
}

// SetSession replaces the session statistics.
func (p SecondaryPanel) SetSession(sum journal.SessionSummary, attempts []journal.AttemptSummary) SecondaryPanel {
	p.session = sum
	p.attempts = append([]journal.AttemptSummary(nil), attempts...)
	return p
}

// SetSize resizes all internal viewports.
func (p SecondaryPanel) SetSize(w, h int) SecondaryPanel {
	p.width = w
	p.height = h
	contentH := h - 1
	if contentH < 1 {
		contentH = 1
	}
	p.tabbar = p.tabbar.SetWidth(w)
	p.events = p.events.SetSize(w, contentH)
	p.errors = p.errors.SetSize(w, contentH)
	return p
}

// Update handles key messages for the secondary panel.
func (p SecondaryPanel) Update(msg tea.Msg) (SecondaryPanel, tea.Cmd) {
	var cmd tea.Cmd
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "]":
			return p.selectTab(p.tabbar.Next()), nil
		case "[":
			return p.selectTab(p.tabbar.Prev()), nil
		case "f":
			switch p.activeTab {
			case TabEvents:
				p.events = p.events.ToggleFollow()
			case TabErrors:
				p.errors = p.errors.ToggleFollow()
			}
			return p, nil
		}
	}
	switch p.activeTab {
	case TabEvents:
		p.events, cmd = p.events.Update(msg)
	case TabErrors:
		p.errors, cmd = p.errors.Update(msg)
	}
	return p, cmd
}

// View renders the secondary panel: tab bar + active tab content.
func (p SecondaryPanel) View() string {
	tabRow := p.tabbar.View()
	var content string
	switch p.activeTab {
	case TabEvents:
		content = p.events.View()
		tabRow += unreadMarker(p.events)
	case TabErrors:
		content = p.errors.View()
		tabRow += unreadMarker(p.errors)
	case TabSession:
		content = p.renderSessionTable()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabRow, content)
}

func unreadMarker(f components.Feed) string {
	if f.Following() || f.Unread() == 0 {
		return ""
	}
	return dimStyle.Render(fmt.Sprintf("  ↓ %d new", f.Unread()))
}

// renderSessionTable renders the per-attempt table for the Session tab.
func (p SecondaryPanel) renderSessionTable() string {
	contentH := p.height - 1
	if contentH < 1 {
		contentH = 1
	}
	if p.session.Attempts == 0 {
		return lipgloss.NewStyle().
			Width(p.width).Height(contentH).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#888888")).
			Render("No attempts yet")
	}

	var sb strings.Builder
	header := fmt.Sprintf("  %-4s %-8s %10s", "#", "Context", "Result")
	divider := strings.Repeat("─", min(p.width, 26))
	sb.WriteString(dimStyle.Render(header))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(divider))
	sb.WriteString("\n")

	for _, s := range p.attempts {
		result := s.Text
		if s.Cancelled {
			result = "cancelled"
		}
		sb.WriteString(fmt.Sprintf("  %-4d %-8s %10s\n", s.Number, s.ContextID, result))
	}

	sb.WriteString(dimStyle.Render(divider))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(SessionLine(p.session)))

	return lipgloss.NewStyle().
		Width(p.width).Height(contentH).
		Render(sb.String())
}

// SessionLine formats the session totals on one line.
func SessionLine(s journal.SessionSummary) string {
	best, mean := "-", "-"
	if s.Best >= 0 {
		best = attempt.FormatCentiseconds(s.Best)
	}
	if s.Mean >= 0 {
		mean = attempt.FormatCentiseconds(s.Mean)
	}
	line := fmt.Sprintf("done %d  dnf %d  cancelled %d  best %s  mean %s",
		s.Completed, s.DNFs, s.Cancelled, best, mean)
	if s.Failures > 0 {
		line += fmt.Sprintf("  sync failures %d", s.Failures)
	}
	return line
}

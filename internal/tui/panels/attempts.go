package panels

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/journal"
)

// AttemptSelectedMsg is emitted when the user selects a session attempt.
// Defined here (not in parent tui package) to avoid circular imports.
type AttemptSelectedMsg struct{ Number int }

// attemptItem implements list.Item for a session attempt.
type attemptItem struct {
	summary journal.AttemptSummary
	live    bool // true for the attempt currently on the clock
}

func (i attemptItem) Title() string {
	status := "✓"
	switch {
	case i.live:
		status = "●"
	case i.summary.Cancelled:
		status = "✗"
	case i.summary.DNF:
		status = "✗"
	}
	return fmt.Sprintf("#%d %s %s", i.summary.Number, i.summary.ContextID, status)
}

func (i attemptItem) Description() string {
	switch {
	case i.live:
		return "timing…"
	case i.summary.Cancelled:
		return "cancelled"
	case i.summary.Text != "":
		return i.summary.Text
	default:
		return "-"
	}
}

func (i attemptItem) FilterValue() string {
	return fmt.Sprintf("#%d", i.summary.Number)
}

// AttemptsPanel lists the attempts timed in this session.
type AttemptsPanel struct {
	list     list.Model
	attempts []journal.AttemptSummary
	liveNum  *int // attempt currently on the clock (nil if idle)
	width    int
	height   int
}

// attemptDelegate is a custom list item delegate with compact rendering.
type attemptDelegate struct{}

func (d attemptDelegate) Height() int                             { return 1 }
func (d attemptDelegate) Spacing() int                            { return 0 }
func (d attemptDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d attemptDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(attemptItem)
	if !ok {
		return
	}
	s := fmt.Sprintf("%s  %s", item.Title(), item.Description())
	if index == m.Index() {
		s = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Render("> " + s)
	} else {
		s = "  " + s
	}
	fmt.Fprint(w, s)
}

// NewAttemptsPanel creates an empty attempts panel.
func NewAttemptsPanel(w, h int) AttemptsPanel {
	l := list.New(nil, attemptDelegate{}, w, h)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return AttemptsPanel{
		list:   l,
		width:  w,
		height: h,
	}
}

// SetAttempts replaces the list of finished attempts.
func (p AttemptsPanel) SetAttempts(attempts []journal.AttemptSummary) AttemptsPanel {
	p.attempts = append([]journal.AttemptSummary(nil), attempts...)
	p.list.SetItems(p.buildItems())
	return p
}

// SetLive marks the given attempt number as on the clock. Pass 0 to clear
// the indicator.
func (p AttemptsPanel) SetLive(n int) AttemptsPanel {
	if n == 0 {
		p.liveNum = nil
	} else {
		p.liveNum = &n
	}
	p.list.SetItems(p.buildItems())
	return p
}

// buildItems rebuilds the list.Item slice, newest first.
func (p AttemptsPanel) buildItems() []list.Item {
	items := make([]list.Item, 0, len(p.attempts)+1)
	if p.liveNum != nil {
		items = append(items, attemptItem{summary: journal.AttemptSummary{Number: *p.liveNum}, live: true})
	}
	for i := len(p.attempts) - 1; i >= 0; i-- {
		items = append(items, attemptItem{summary: p.attempts[i]})
	}
	return items
}

// SelectedAttempt returns the currently selected attempt summary, or nil.
func (p AttemptsPanel) SelectedAttempt() *journal.AttemptSummary {
	if item, ok := p.list.SelectedItem().(attemptItem); ok && !item.live {
		s := item.summary
		return &s
	}
	return nil
}

// SetSize resizes the panel.
func (p AttemptsPanel) SetSize(w, h int) AttemptsPanel {
	p.width = w
	p.height = h
	p.list.SetSize(w, h)
	return p
}

// Update handles key/mouse messages for the panel.
func (p AttemptsPanel) Update(msg tea.Msg) (AttemptsPanel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyDown})
		case "k", "up":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyUp})
		case "enter":
			if sel := p.SelectedAttempt(); sel != nil {
				n := sel.Number
				return p, func() tea.Msg { return AttemptSelectedMsg{Number: n} }
			}
		default:
			p.list, cmd = p.list.Update(msg)
		}
	default:
		p.list, cmd = p.list.Update(msg)
	}
	return p, cmd
}

// View renders the attempts panel.
func (p AttemptsPanel) View() string {
	if len(p.attempts) == 0 && p.liveNum == nil {
		return lipgloss.NewStyle().
			Width(p.width).Height(p.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#888888")).
			Render("No attempts yet")
	}
	return p.list.View()
}

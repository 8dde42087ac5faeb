package panels

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ContextSelectedMsg is emitted when the user picks a context with enter.
type ContextSelectedMsg struct{ ID string }

// ContextItem is one timing context in the sidebar.
type ContextItem struct {
	ID       string
	Name     string
	Puzzle   string
	Recorded int
	Attempts int
}

// Complete reports whether every attempt of the context is recorded.
func (c ContextItem) Complete() bool { return c.Attempts > 0 && c.Recorded >= c.Attempts }

// contextItem wraps a ContextItem as a list.Item.
type contextItem struct {
	ctx     ContextItem
	current bool
}

func (c contextItem) Title() string {
	status := "⬜"
	switch {
	case c.ctx.Complete():
		status = "✅"
	case c.ctx.Recorded > 0:
		status = "🔄"
	}
	return fmt.Sprintf("%s  %s", status, c.ctx.Name)
}

func (c contextItem) Description() string {
	return fmt.Sprintf("%d/%d", c.ctx.Recorded, c.ctx.Attempts)
}

func (c contextItem) FilterValue() string {
	return c.ctx.Name
}

// contextDelegate is a custom item delegate for compact single-line items.
type contextDelegate struct{}

func (d contextDelegate) Height() int                             { return 1 }
func (d contextDelegate) Spacing() int                            { return 0 }
func (d contextDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d contextDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ci, ok := item.(contextItem)
	if !ok {
		return
	}
	s := fmt.Sprintf("%s  %s", ci.Title(), ci.Description())
	if ci.current {
		s += " ◀"
	}
	if index == m.Index() {
		s = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Render("> " + s)
	} else {
		s = "  " + s
	}
	_, _ = fmt.Fprint(w, s)
}

// ContextsPanel displays the navigable list of timing contexts.
type ContextsPanel struct {
	list     list.Model
	contexts []ContextItem
	current  string
	width    int
	height   int
}

// NewContextsPanel creates a contexts panel.
func NewContextsPanel(contexts []ContextItem, w, h int) ContextsPanel {
	l := list.New(nil, contextDelegate{}, w, h)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	p := ContextsPanel{
		list:     l,
		contexts: append([]ContextItem(nil), contexts...),
		width:    w,
		height:   h,
	}
	p.list.SetItems(p.buildItems())
	return p
}

func (p ContextsPanel) buildItems() []list.Item {
	items := make([]list.Item, len(p.contexts))
	for i, c := range p.contexts {
		items[i] = contextItem{ctx: c, current: c.ID == p.current}
	}
	return items
}

// Contexts returns the contexts shown.
func (p ContextsPanel) Contexts() []ContextItem { return p.contexts }

// Find returns the context with the given id.
func (p ContextsPanel) Find(id string) (ContextItem, bool) {
	for _, c := range p.contexts {
		if c.ID == id {
			return c, true
		}
	}
	return ContextItem{}, false
}

// SelectedContext returns the highlighted context, or nil.
func (p ContextsPanel) SelectedContext() *ContextItem {
	if item, ok := p.list.SelectedItem().(contextItem); ok {
		c := item.ctx
		return &c
	}
	return nil
}

// SetCurrent marks the context being timed.
func (p ContextsPanel) SetCurrent(id string) ContextsPanel {
	p.current = id
	p.list.SetItems(p.buildItems())
	return p
}

// SetRecorded updates the recorded attempt count of a context.
func (p ContextsPanel) SetRecorded(id string, n int) ContextsPanel {
	for i := range p.contexts {
		if p.contexts[i].ID == id {
			p.contexts[i].Recorded = n
		}
	}
	p.list.SetItems(p.buildItems())
	return p
}

// SetSize resizes the panel.
func (p ContextsPanel) SetSize(w, h int) ContextsPanel {
	p.width = w
	p.height = h
	p.list.SetSize(w, h)
	return p
}

// Update handles key/mouse messages for the panel.
func (p ContextsPanel) Update(msg tea.Msg) (ContextsPanel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyDown})
		case "k", "up":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyUp})
		case "enter":
			if sel := p.SelectedContext(); sel != nil {
				id := sel.ID
				return p, func() tea.Msg { return ContextSelectedMsg{ID: id} }
			}
		default:
			p.list, cmd = p.list.Update(msg)
		}
	default:
		p.list, cmd = p.list.Update(msg)
	}
	return p, cmd
}

// View renders the contexts panel.
func (p ContextsPanel) View() string {
	if len(p.contexts) == 0 {
		return lipgloss.NewStyle().
			Width(p.width).Height(p.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#888888")).
			Render("No contexts")
	}
	return p.list.View()
}

package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/tui/components"
)

// TimerTab identifies the active content tab in the timer view.
type TimerTab int

const (
	TabTimer  TimerTab = iota // Scramble, timer face and cards
	TabReplay                 // Past attempt drill-down
)

var timerTabLabels = []string{"Timer", "Replay"}

// CommentSubmittedMsg is emitted when the user confirms the comment editor.
type CommentSubmittedMsg struct{ Text string }

// CardProps is one attempt slot under the timer.
type CardProps struct {
	Text        string
	Recorded    bool
	Active      bool
	Highlighted bool
	DNF         bool
	PlusTwo     bool
}

// TimerProps holds everything the Timer tab draws. Readout is pre-styled by
// the caller.
type TimerProps struct {
	ContextName string
	Scramble    string
	Readout     string
	Status      string
	Cards       []CardProps
	Comment     string
	Notice      string
	Complete    bool
	Summary     []string
}

var (
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	cardStyle    = lipgloss.NewStyle().Padding(0, 1)
	activeCard   = cardStyle.Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	highlightCrd = cardStyle.Foreground(lipgloss.Color("#6BCB77")).Bold(true)
	dnfCard      = cardStyle.Foreground(lipgloss.Color("#FF6B6B"))
)

// TimerView is the main (right-top) panel.
type TimerView struct {
	tabbar    components.TabBar
	replay    components.Feed
	props     TimerProps
	input     textinput.Model
	editing   bool
	width     int
	height    int
	activeTab TimerTab
}

// NewTimerView creates a TimerView with the timer tab active.
func NewTimerView(w, h int) TimerView {
	contentH := h - 1 // subtract tab bar row
	if contentH < 1 {
		contentH = 1
	}
	ti := textinput.New()
	ti.Placeholder = "comment"
	ti.CharLimit = 280
	if w > 4 {
		ti.Width = w - 4
	}
	return TimerView{
		tabbar: components.NewTabBar(timerTabLabels...).SetWidth(w),
		replay: components.NewFeed(w, contentH, 0),
		input:  ti,
		width:  w,
		height: h,
	}
}

// SetProps replaces what the timer tab shows.
func (v TimerView) SetProps(props TimerProps) TimerView {
	v.props = props
	return v
}

// Props returns what the timer tab shows.
func (v TimerView) Props() TimerProps { return v.props }

// ActiveTab returns the tab being shown.
func (v TimerView) ActiveTab() TimerTab { return v.activeTab }

// ShowReplay loads a past attempt's journal lines and switches to TabReplay.
func (v TimerView) ShowReplay(rendered []string) TimerView {
	v.replay = v.replay.Replace(rendered)
	return v.switchTo(TabReplay)
}

// SwitchToTimer returns to the timer tab.
func (v TimerView) SwitchToTimer() TimerView {
	return v.switchTo(TabTimer)
}

func (v TimerView) switchTo(tab TimerTab) TimerView {
	v.activeTab = tab
	v.tabbar = v.tabbar.Select(int(tab))
	return v
}

// StartComment opens the comment editor prefilled with current.
func (v TimerView) StartComment(current string) (TimerView, tea.Cmd) {
	v.editing = true
	v.input.SetValue(current)
	v.input.CursorEnd()
	v.input.Focus()
	v = v.switchTo(TabTimer)
	return v, textinput.Blink
}

// Editing reports whether the comment editor has focus.
func (v TimerView) Editing() bool { return v.editing }

func (v TimerView) stopEditing() TimerView {
	v.editing = false
	v.input.Blur()
	v.input.Reset()
	return v
}

// SetSize resizes the timer view.
func (v TimerView) SetSize(w, h int) TimerView {
	v.width = w
	v.height = h
	contentH := h - 1
	if contentH < 1 {
		contentH = 1
	}
	v.tabbar = v.tabbar.SetWidth(w)
	v.replay = v.replay.SetSize(w, contentH)
	if w > 4 {
		v.input.Width = w - 4
	}
	return v
}

// Update handles key messages for the timer panel.
func (v TimerView) Update(msg tea.Msg) (TimerView, tea.Cmd) {
	if v.editing {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				return v.stopEditing(), nil
			case "enter":
				text := strings.TrimSpace(v.input.Value())
				v = v.stopEditing()
				return v, func() tea.Msg { return CommentSubmittedMsg{Text: text} }
			}
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "]":
			v.tabbar = v.tabbar.Next()
			v.activeTab = TimerTab(v.tabbar.Active())
		case "[":
			v.tabbar = v.tabbar.Prev()
			v.activeTab = TimerTab(v.tabbar.Active())
		default:
			if v.activeTab == TabReplay {
				v.replay, cmd = v.replay.Update(msg)
			}
		}
	default:
		if v.activeTab == TabReplay {
			v.replay, cmd = v.replay.Update(msg)
		}
	}
	return v, cmd
}

// View renders the timer panel: tab bar + content area.
func (v TimerView) View() string {
	tabRow := v.tabbar.View()
	var content string
	switch v.activeTab {
	case TabReplay:
		content = v.replay.View()
	default:
		content = v.renderTimer()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabRow, content)
}

func (v TimerView) renderTimer() string {
	p := v.props
	contentH := v.height - 1
	if contentH < 1 {
		contentH = 1
	}
	center := lipgloss.NewStyle().Width(v.width).Align(lipgloss.Center)

	var rows []string
	if p.ContextName == "" {
		rows = append(rows, dimStyle.Render("Select a context (enter) to start timing"))
	} else {
		rows = append(rows, titleStyle.Render(p.ContextName))
	}
	if p.Complete {
		rows = append(rows, "", titleStyle.Render("Context complete"))
		rows = append(rows, p.Summary...)
	} else if p.Scramble != "" {
		rows = append(rows, "", lipgloss.NewStyle().Width(max(v.width-4, 10)).Align(lipgloss.Center).Render(p.Scramble))
	}
	rows = append(rows, "", p.Readout)
	if p.Status != "" {
		rows = append(rows, dimStyle.Render(p.Status))
	}
	if len(p.Cards) > 0 {
		rows = append(rows, "", renderCards(p.Cards))
	}

	switch {
	case v.editing:
		rows = append(rows, "", "Comment:", v.input.View(), dimStyle.Render("Enter to save · Esc to cancel"))
	case p.Comment != "":
		rows = append(rows, "", dimStyle.Render("💬 "+p.Comment))
	}
	if p.Notice != "" {
		rows = append(rows, "", noticeStyle.Render("❌ "+p.Notice))
	}

	for i, r := range rows {
		rows[i] = center.Render(r)
	}
	return lipgloss.NewStyle().
		Width(v.width).Height(contentH).
		Render(strings.Join(rows, "\n"))
}

func renderCards(cards []CardProps) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		text := "—"
		if c.Recorded {
			text = c.Text
		}
		label := fmt.Sprintf("%d: %s", i+1, text)
		switch {
		case c.Highlighted:
			parts[i] = highlightCrd.Render(label)
		case c.Active:
			parts[i] = activeCard.Render("▸" + label)
		case c.DNF:
			parts[i] = dnfCard.Render(label)
		default:
			parts[i] = cardStyle.Render(label)
		}
	}
	return strings.Join(parts, " ")
}

package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultFeedLimit is the number of lines a Feed keeps when no limit is given.
const DefaultFeedLimit = 1000

// Feed is a scrolling list of pre-rendered lines. It keeps at most limit
// lines, dropping the oldest. While following, the newest line stays in
// view; otherwise appended lines are counted as unread until the feed is
// scrolled back to the bottom.
type Feed struct {
	vp     viewport.Model
	lines  []string
	limit  int
	follow bool
	unread int
}

// NewFeed creates a following Feed of the given size.
func NewFeed(w, h, limit int) Feed {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	return Feed{vp: viewport.New(w, h), limit: limit, follow: true}
}

// Append adds a line at the bottom.
func (f Feed) Append(line string) Feed {
	lines := append(f.lines, line)
	if over := len(lines) - f.limit; over > 0 {
		lines = append([]string(nil), lines[over:]...)
	}
	f.lines = lines
	if !f.follow {
		f.unread++
	}
	return f.refresh()
}

// Replace swaps in a new set of lines and shows them from the top.
func (f Feed) Replace(lines []string) Feed {
	if len(lines) > f.limit {
		lines = lines[len(lines)-f.limit:]
	}
	f.lines = append([]string(nil), lines...)
	f.unread = 0
	f.vp.SetContent(strings.Join(f.lines, "\n"))
	f.vp.GotoTop()
	return f
}

// ToggleFollow turns follow mode on or off. Turning it on jumps to the
// newest line.
func (f Feed) ToggleFollow() Feed {
	f.follow = !f.follow
	if f.follow {
		f.unread = 0
		f.vp.GotoBottom()
	}
	return f
}

// SetSize resizes the feed.
func (f Feed) SetSize(w, h int) Feed {
	f.vp.Width = w
	f.vp.Height = h
	if f.follow {
		f.vp.GotoBottom()
	}
	return f
}

// Following reports whether follow mode is on.
func (f Feed) Following() bool { return f.follow }

// Unread returns how many lines arrived while not following.
func (f Feed) Unread() int { return f.unread }

// Len returns the number of lines kept.
func (f Feed) Len() int { return len(f.lines) }

// Update scrolls on keys and mouse wheel. Scrolling up leaves follow mode;
// scrolling back to the bottom resumes it.
func (f Feed) Update(msg tea.Msg) (Feed, tea.Cmd) {
	var cmd tea.Cmd
	f.vp, cmd = f.vp.Update(msg)
	switch msg.(type) {
	case tea.KeyMsg, tea.MouseMsg:
		if f.vp.AtBottom() {
			f.follow = true
			f.unread = 0
		} else {
			f.follow = false
		}
	}
	return f, cmd
}

// View renders the visible lines.
func (f Feed) View() string { return f.vp.View() }

func (f Feed) refresh() Feed {
	f.vp.SetContent(strings.Join(f.lines, "\n"))
	if f.follow {
		f.vp.GotoBottom()
	}
	return f
}

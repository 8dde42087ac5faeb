package panels

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func sampleContexts() []ContextItem {
	return []ContextItem{
		{ID: "333", Name: "3x3", Puzzle: "333", Recorded: 5, Attempts: 5},
		{ID: "222", Name: "2x2", Puzzle: "222", Recorded: 2, Attempts: 5},
		{ID: "444", Name: "4x4", Puzzle: "444", Attempts: 5},
	}
}

func TestNewContextsPanel_Empty(t *testing.T) {
	p := NewContextsPanel(nil, 40, 10)
	if !strings.Contains(p.View(), "No contexts") {
		t.Errorf("empty panel should show 'No contexts'; got %q", p.View())
	}
}

func TestNewContextsPanel_WithContexts(t *testing.T) {
	p := NewContextsPanel(sampleContexts(), 40, 10)
	view := p.View()
	for _, want := range []string{"3x3", "2x2", "4x4", "2/5"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q; got %q", want, view)
		}
	}
}

func TestContextItem_Title_Status(t *testing.T) {
	tests := []struct {
		ctx    ContextItem
		symbol string
	}{
		{ContextItem{Name: "a", Recorded: 5, Attempts: 5}, "✅"},
		{ContextItem{Name: "b", Recorded: 1, Attempts: 5}, "🔄"},
		{ContextItem{Name: "c", Attempts: 5}, "⬜"},
	}
	for _, tt := range tests {
		t.Run(tt.ctx.Name, func(t *testing.T) {
			title := contextItem{ctx: tt.ctx}.Title()
			if !strings.Contains(title, tt.symbol) {
				t.Errorf("Title() = %q, want to contain %q", title, tt.symbol)
			}
		})
	}
}

func TestContextsPanel_EnterSelects(t *testing.T) {
	p := NewContextsPanel(sampleContexts(), 40, 10)
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should emit a command")
	}
	msg, ok := cmd().(ContextSelectedMsg)
	if !ok {
		t.Fatalf("expected ContextSelectedMsg, got %T", cmd())
	}
	if msg.ID != "222" {
		t.Errorf("selected %q, want 222", msg.ID)
	}
}

func TestContextsPanel_SetRecorded(t *testing.T) {
	p := NewContextsPanel(sampleContexts(), 40, 10)
	p = p.SetRecorded("444", 3)
	c, ok := p.Find("444")
	if !ok || c.Recorded != 3 {
		t.Errorf("Find(444) = %+v, %v", c, ok)
	}
	if _, ok := p.Find("nope"); ok {
		t.Error("Find(nope) should fail")
	}
}

func TestContextsPanel_SetCurrent(t *testing.T) {
	p := NewContextsPanel(sampleContexts(), 40, 10).SetCurrent("222")
	if !strings.Contains(p.View(), "◀") {
		t.Error("current context should be marked")
	}
}

func TestContextsPanel_SetSize(t *testing.T) {
	p := NewContextsPanel(nil, 40, 10).SetSize(30, 12)
	if p.width != 30 || p.height != 12 {
		t.Errorf("SetSize: got %dx%d, want 30x12", p.width, p.height)
	}
}

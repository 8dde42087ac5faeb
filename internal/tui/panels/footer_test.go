package panels

import (
	"strings"
	"testing"
)

func TestRenderFooter_EachFocusTarget(t *testing.T) {
	tests := []struct {
		focus string
		hints []string
	}{
		{"contexts", []string{"j/k:navigate", "enter:time context"}},
		{"attempts", []string{"j/k:navigate", "enter:replay"}},
		{"timer", []string{"u:undo", "d:DNF", "p:+2", "c:comment"}},
		{"log", []string{"[/]:tab", "f:follow"}},
		{"", []string{"tab:next panel"}},
	}

	for _, tt := range tests {
		t.Run(tt.focus, func(t *testing.T) {
			props := FooterProps{Focus: tt.focus, ActivationKey: "space"}
			rendered := RenderFooter(props, 200)
			for _, hint := range tt.hints {
				if !strings.Contains(rendered, hint) {
					t.Errorf("RenderFooter(focus=%q) missing hint %q; got %q", tt.focus, hint, rendered)
				}
			}
		})
	}
}

func TestRenderFooter_LastResult(t *testing.T) {
	rendered := RenderFooter(FooterProps{LastResult: "7.53+"}, 200)
	if !strings.Contains(rendered, "last: 7.53+") {
		t.Errorf("footer missing last result; got %q", rendered)
	}
	rendered = RenderFooter(FooterProps{}, 200)
	if !strings.Contains(rendered, "last: —") {
		t.Errorf("footer should show placeholder; got %q", rendered)
	}
}

func TestRenderFooter_Modes(t *testing.T) {
	live := RenderFooter(FooterProps{Live: true, ActivationKey: "space", Help: "q quit"}, 200)
	if !strings.Contains(live, "space:stop") || strings.Contains(live, "q quit") {
		t.Errorf("live footer = %q", live)
	}

	editing := RenderFooter(FooterProps{Editing: true, Live: true}, 200)
	if !strings.Contains(editing, "enter:save comment") {
		t.Errorf("editing footer = %q", editing)
	}

	idle := RenderFooter(FooterProps{Focus: "timer", ActivationKey: "space", Help: "? help"}, 200)
	if !strings.Contains(idle, "hold space:time") || !strings.Contains(idle, "? help") {
		t.Errorf("idle footer = %q", idle)
	}
}

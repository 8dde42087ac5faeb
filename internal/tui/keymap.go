package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings the root model handles before dispatching to
// focused panels. The activation and cancel keys come from config and are
// handled separately.
type keyMap struct {
	Quit      key.Binding
	Back      key.Binding
	NextPanel key.Binding
	PrevPanel key.Binding
	Panel     key.Binding
	Undo      key.Binding
	DNF       key.Binding
	PlusTwo   key.Binding
	Comment   key.Binding
	Resubmit  key.Binding
	Help      key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back/abort"),
	),
	NextPanel: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next panel"),
	),
	PrevPanel: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev panel"),
	),
	Panel: key.NewBinding(
		key.WithKeys("1", "2", "3", "4"),
		key.WithHelp("1-4", "panel"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	DNF: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "DNF"),
	),
	PlusTwo: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "+2"),
	),
	Comment: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "comment"),
	),
	Resubmit: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "resubmit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit, k.Back, k.NextPanel}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Back, k.Help},
		{k.NextPanel, k.PrevPanel, k.Panel},
		{k.Undo, k.DNF, k.PlusTwo},
		{k.Comment, k.Resubmit},
	}
}

// GlobalKeyBindings lists the keys that are always handled by the root model
// before dispatching to focused panels.
var GlobalKeyBindings = func() []string {
	var out []string
	for _, b := range []key.Binding{
		keys.Quit, keys.Back, keys.NextPanel, keys.PrevPanel, keys.Panel,
		keys.Undo, keys.DNF, keys.PlusTwo, keys.Comment, keys.Resubmit, keys.Help,
	} {
		out = append(out, b.Keys()...)
	}
	return out
}()

// panelKeys maps each FocusTarget to the keys that panel handles internally.
var panelKeys = map[FocusTarget][]string{
	FocusContexts: {"j", "k", "enter"},
	FocusAttempts: {"j", "k", "enter"},
	FocusTimer:    {"[", "]", "ctrl+u", "ctrl+d", "j", "k"},
	FocusLog:      {"[", "]", "f", "j", "k"},
}

// IsGlobalKey reports whether key is a global keybinding (handled before panel dispatch).
func IsGlobalKey(key string) bool {
	for _, k := range GlobalKeyBindings {
		if k == key {
			return true
		}
	}
	return false
}

// PanelKeys returns the list of keys handled by the given focused panel.
func PanelKeys(focus FocusTarget) []string {
	return panelKeys[focus]
}

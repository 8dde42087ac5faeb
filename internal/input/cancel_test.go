package input

import "testing"

func TestHistory_BackWhileLiveAborts(t *testing.T) {
	var navigated []string
	h := NewHistory("contexts", func(to string) { navigated = append(navigated, to) })
	h.Push("timer")

	aborts := 0
	live := true
	h.Bind(func() bool {
		if !live {
			return false
		}
		aborts++
		return true
	})

	for i := 0; i < 3; i++ {
		if h.Back() {
			t.Fatalf("Back() navigated while live")
		}
		if !h.Guarded() {
			t.Fatalf("guard not re-armed after abort %d", i)
		}
	}
	if aborts != 3 {
		t.Errorf("aborts = %d, want 3", aborts)
	}
	if h.Current() != "timer" {
		t.Errorf("Current() = %q, want timer", h.Current())
	}

	live = false
	if !h.Back() {
		t.Fatal("Back() did not navigate when idle")
	}
	if h.Current() != "contexts" {
		t.Errorf("Current() = %q, want contexts", h.Current())
	}
	if len(navigated) != 1 || navigated[0] != "contexts" {
		t.Errorf("navigated = %v", navigated)
	}
	if !h.Guarded() {
		t.Error("guard not restored after navigation")
	}
}

func TestHistory_BackAtRoot(t *testing.T) {
	h := NewHistory("contexts", nil)
	if h.Back() {
		t.Error("Back() at root navigated")
	}
	if h.Depth() != 1 || !h.Guarded() {
		t.Errorf("Depth() = %d, Guarded() = %v", h.Depth(), h.Guarded())
	}
}

func TestKeyBinding_Unbound(t *testing.T) {
	k := NewKeyBinding("ctrl+x")
	if k.Handle("ctrl+x") {
		t.Error("unbound key binding consumed key")
	}
	if k.Key() != "ctrl+x" {
		t.Errorf("Key() = %q", k.Key())
	}
}

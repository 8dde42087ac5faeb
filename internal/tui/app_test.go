package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/tui/panels"
)

// selectContext loads a context the way pressing enter in the list does.
func selectContext(t *testing.T, m Model, id string) Model {
	t.Helper()
	m = step(t, m, panels.ContextSelectedMsg{ID: id})
	if !m.current.ok || m.current.snap.ContextID != id {
		t.Fatalf("context %q not loaded", id)
	}
	return m
}

// frame advances the fake clock by d and delivers one attempt frame.
func frame(t *testing.T, m Model, h *harness, d time.Duration) Model {
	t.Helper()
	h.fake.Advance(d)
	return step(t, m, frameMsg(h.fake.Now()))
}

// startRun presses and releases the activation key, leaving the clock
// Running.
func startRun(t *testing.T, m Model, h *harness) Model {
	t.Helper()
	m = step(t, m, spaceKey)
	if got := h.clock.State(); got != attempt.StateArmed {
		t.Fatalf("after press: state = %v, want ARMED", got)
	}
	m = frame(t, m, h, 600*time.Millisecond)
	if got := h.clock.State(); got != attempt.StateRunning {
		t.Fatalf("after release: state = %v, want RUNNING", got)
	}
	return m
}

func TestContextSelected_LoadsSnapshot(t *testing.T) {
	m, _ := newTestModel(t)
	m = selectContext(t, m, "333")

	if m.history.Current() != PageTimer {
		t.Errorf("page = %q, want %q", m.history.Current(), PageTimer)
	}
	if m.focus != FocusTimer {
		t.Errorf("focus = %v, want FocusTimer", m.focus)
	}
	props := m.timerView.Props()
	if props.ContextName != "3x3" || props.Scramble != "R U R' U' F2" {
		t.Errorf("timer props = %+v", props)
	}
	if len(props.Cards) != 5 {
		t.Errorf("cards = %d, want 5", len(props.Cards))
	}
	if props.Status != "hold space to arm" {
		t.Errorf("status = %q", props.Status)
	}
	if !strings.Contains(m.View(), "solves: 0/5") {
		t.Error("header should show progress")
	}
}

func TestContextSelected_UnknownIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	m = step(t, m, panels.ContextSelectedMsg{ID: "777"})
	if m.current.ok || m.history.Current() != PageContexts {
		t.Error("unknown context should be ignored")
	}
}

func TestTimedAttempt_EndToEnd(t *testing.T) {
	m, h := newTestModel(t)
	m = selectContext(t, m, "333")
	m = startRun(t, m, h)
	if !m.framing {
		t.Fatal("frames should be scheduled while running")
	}

	m = frame(t, m, h, 5*time.Second)
	if got := m.projector.Readout().Text; got != "5.00" {
		t.Errorf("running readout = %q, want 5.00", got)
	}

	m = step(t, m, spaceKey)

	if len(h.store.saved) != 1 {
		t.Fatalf("saved %d results, want 1", len(h.store.saved))
	}
	res := h.store.saved[0]
	if res.ElapsedCentiseconds != 500 || res.ContextID != "333" || res.ScrambleID != "333-1" {
		t.Errorf("saved result = %+v", res)
	}
	if h.clock.State() != attempt.StateInactive {
		t.Errorf("state = %v, want INACTIVE after refresh", h.clock.State())
	}
	if item, _ := m.contextsPanel.Find("333"); item.Recorded != 1 {
		t.Errorf("recorded = %d, want 1", item.Recorded)
	}
	cards := m.timerView.Props().Cards
	if !cards[0].Recorded || !cards[0].Highlighted || cards[0].Text != "5.00" {
		t.Errorf("first card = %+v", cards[0])
	}
	if m.timerView.Props().Scramble == "" {
		t.Error("next scramble should be shown")
	}

	attempts, err := h.journal.Attempts()
	if err != nil || len(attempts) != 1 {
		t.Fatalf("journal attempts = %v, %v", attempts, err)
	}

	msg := loadSession(h.journal)()
	m = step(t, m, msg)
	if !strings.Contains(m.View(), "#1 333") {
		t.Error("attempts panel should list the finished attempt")
	}
}

func TestArmGuard_BlocksOffTimerPage(t *testing.T) {
	m, h := newTestModel(t)
	m = selectContext(t, m, "333")

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.history.Current() != PageContexts {
		t.Fatalf("esc should navigate back, page = %q", m.history.Current())
	}
	if m.focus != FocusContexts {
		t.Errorf("focus = %v, want FocusContexts", m.focus)
	}

	step(t, m, spaceKey)
	if h.clock.State() != attempt.StateInactive {
		t.Errorf("state = %v, arming should be blocked off the timer page", h.clock.State())
	}
}

func TestArmGuard_BlocksWhileEditingComment(t *testing.T) {
	m, h := newTestModel(t)
	m = selectContext(t, m, "333")

	m = step(t, m, runeKey("c"))
	if !m.timerView.Editing() || !m.ui.editing {
		t.Fatal("c should open the comment editor")
	}
	step(t, m, spaceKey)
	if h.clock.State() != attempt.StateInactive {
		t.Errorf("state = %v, space while editing must not arm", h.clock.State())
	}
}

func TestAbort_OtherKeyWhileRunning(t *testing.T) {
	m, h := newTestModel(t)
	m = selectContext(t, m, "333")
	m = startRun(t, m, h)

	m = step(t, m, runeKey("q"))
	if h.clock.State() != attempt.StateInactive || h.clock.Outcome() != attempt.OutcomeCancelled {
		t.Errorf("state = %v outcome = %v, want cancelled", h.clock.State(), h.clock.Outcome())
	}
	if len(h.store.saved) != 0 {
		t.Error("cancelled attempt must not be saved")
	}
	if m.projector.Readout().Text != "0.00" {
		t.Errorf("readout = %q, want reset", m.projector.Readout().Text)
	}
}

func TestAbort_CancelKey(t *testing.T) {
	m, h := newTestModel(t)
	m = selectContext(t, m, "333")
	m = startRun(t, m, h)

	step(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if h.clock.Outcome() != attempt.OutcomeCancelled {
		t.Errorf("outcome = %v, want cancelled", h.clock.Outcome())
	}
}

func TestAbort_EscKeepsTimerPage(t *testing.T) {
	m, h := newTestModel(t)
	m = selectContext(t, m, "333")
	m = startRun(t, m, h)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if h.clock.Outcome() != attempt.OutcomeCancelled {
		t.Errorf("outcome = %v, want cancelled", h.clock.Outcome())
	}
	if m.history.Current() != PageTimer {
		t.Errorf("esc during a live attempt should stay on %q, got %q", PageTimer, m.history.Current())
	}
}

func TestContextSelected_IgnoredWhileLive(t *testing.T) {
	m, h := newTestModel(t)
	m = selectContext(t, m, "333")
	m = startRun(t, m, h)

	m = step(t, m, panels.ContextSelectedMsg{ID: "222"})
	if m.current.snap.ContextID != "333" {
		t.Error("switching context during a live attempt should be ignored")
	}
}

func TestMouse_TouchActivation(t *testing.T) {
	m, h := newTestModel(t)
	m = selectContext(t, m, "333")

	x, y := m.layout.Timer.X+5, m.layout.Timer.Y+5
	m = step(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if h.clock.State() != attempt.StateArmed {
		t.Fatalf("state = %v, want ARMED", h.clock.State())
	}
	step(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionRelease})
	if h.clock.State() != attempt.StateRunning {
		t.Errorf("state = %v, want RUNNING", h.clock.State())
	}
}

func TestMouse_PressOutsideTimerIgnored(t *testing.T) {
	m, h := newTestModel(t)
	m = selectContext(t, m, "333")

	step(t, m, tea.MouseMsg{X: 1, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if h.clock.State() != attempt.StateInactive {
		t.Errorf("state = %v, press outside the timer should be ignored", h.clock.State())
	}
}

// recordOne times a single attempt and waits out the grace period.
func recordOne(t *testing.T, m Model, h *harness) Model {
	t.Helper()
	m = startRun(t, m, h)
	m = frame(t, m, h, 2*time.Second)
	m = step(t, m, spaceKey)
	m = frame(t, m, h, 600*time.Millisecond)
	return frame(t, m, h, 2*time.Second)
}

func TestPenaltyToggle(t *testing.T) {
	m, h := newTestModel(t)
	m = selectContext(t, m, "333")

	step(t, m, runeKey("d"))
	if len(h.store.penalties) != 0 {
		t.Fatal("penalty keys need a recorded attempt")
	}

	m = recordOne(t, m, h)
	m = step(t, m, runeKey("d"))
	m = step(t, m, runeKey("d"))
	m = step(t, m, runeKey("p"))

	want := []attempt.Penalty{attempt.PenaltyDNF, attempt.PenaltyNone, attempt.PenaltyPlusTwo}
	if len(h.store.penalties) != len(want) {
		t.Fatalf("penalties = %v, want %v", h.store.penalties, want)
	}
	for i := range want {
		if h.store.penalties[i] != want[i] {
			t.Errorf("penalty %d = %v, want %v", i, h.store.penalties[i], want[i])
		}
	}
	if !m.timerView.Props().Cards[0].PlusTwo {
		t.Error("card should show +2")
	}
}

func TestUndo(t *testing.T) {
	m, h := newTestModel(t)
	m = selectContext(t, m, "333")
	m = recordOne(t, m, h)

	m = step(t, m, runeKey("u"))
	if len(h.store.undos) != 1 {
		t.Fatalf("undos = %v, want one", h.store.undos)
	}
	if item, _ := m.contextsPanel.Find("333"); item.Recorded != 0 {
		t.Errorf("recorded = %d, want 0 after undo", item.Recorded)
	}
	if m.current.snap.NextScrambleID != "333-1" {
		t.Errorf("next scramble = %q, want 333-1", m.current.snap.NextScrambleID)
	}
}

func TestComment(t *testing.T) {
	m, h := newTestModel(t)
	m = selectContext(t, m, "333")

	m = step(t, m, runeKey("c"))
	m = step(t, m, panels.CommentSubmittedMsg{Text: "lucky skip"})
	if h.store.comments["333"] != "lucky skip" {
		t.Errorf("comment = %q", h.store.comments["333"])
	}
	if m.timerView.Props().Comment != "lucky skip" {
		t.Errorf("timer should show the comment, got %q", m.timerView.Props().Comment)
	}
}

func TestSyncFailure_Resubmit(t *testing.T) {
	m, h := newTestModel(t)
	m = selectContext(t, m, "333")
	h.store.fail = errors.New("database is locked")

	m = startRun(t, m, h)
	m = frame(t, m, h, time.Second)
	m = step(t, m, spaceKey)

	props := m.timerView.Props()
	if !strings.Contains(props.Notice, "database is locked") || !strings.Contains(props.Notice, "r to resubmit") {
		t.Errorf("notice = %q", props.Notice)
	}
	if h.clock.State() != attempt.StateDone {
		t.Errorf("state = %v, want DONE until the result is saved", h.clock.State())
	}

	h.store.fail = nil
	m = step(t, m, runeKey("r"))
	if len(h.store.saved) != 1 {
		t.Fatalf("saved = %d, want 1 after resubmit", len(h.store.saved))
	}
	if m.timerView.Props().Notice != "" {
		t.Error("notice should clear after a successful resubmit")
	}
}

func TestSyncFailure_EditsBlockedUntilSaved(t *testing.T) {
	m, h := newTestModel(t)
	m = selectContext(t, m, "333")
	h.store.fail = errors.New("database is locked")

	m = startRun(t, m, h)
	m = frame(t, m, h, time.Second)
	m = step(t, m, spaceKey)

	m = step(t, m, runeKey("c"))
	if m.timerView.Editing() {
		t.Error("comment editor should stay closed while a result is unsaved")
	}
	m = step(t, m, panels.CommentSubmittedMsg{Text: "pop"})
	m = step(t, m, runeKey("u"))
	m = step(t, m, runeKey("d"))
	m = step(t, m, panels.ContextSelectedMsg{ID: "222"})

	if h.clock.State() != attempt.StateDone {
		t.Errorf("state = %v, want DONE while the result is unsaved", h.clock.State())
	}
	if m.current.snap.ContextID != "333" {
		t.Errorf("context = %q, want 333", m.current.snap.ContextID)
	}
	if h.store.comments["333"] != "" || len(h.store.undos) != 0 || len(h.store.penalties) != 0 {
		t.Error("no edit may reach the store before the result is saved")
	}
	if !m.notices.Resubmittable() {
		t.Fatal("result should still be resubmittable")
	}

	h.store.fail = nil
	m = step(t, m, runeKey("r"))
	if len(h.store.saved) != 1 {
		t.Fatalf("saved = %d, want 1 after resubmit", len(h.store.saved))
	}
	if h.clock.State() != attempt.StateInactive {
		t.Errorf("state = %v, want INACTIVE after the save", h.clock.State())
	}
}

func TestAttemptSelected_ShowsReplay(t *testing.T) {
	m, h := newTestModel(t)
	m = selectContext(t, m, "333")
	m = recordOne(t, m, h)

	m = step(t, m, loadAttemptLog(h.journal, 1)())
	if m.timerView.ActiveTab() != panels.TabReplay {
		t.Error("loaded attempt log should switch to the replay tab")
	}
	if !strings.Contains(m.View(), "#1 stopped") {
		t.Error("replay should list the attempt's events")
	}
}

func TestAttemptLogLoaded_ErrorIgnored(t *testing.T) {
	m, _ := newTestModel(t)
	m = step(t, m, attemptLogLoadedMsg{Number: 9, Err: errors.New("journal: attempt 9 not found")})
	if m.timerView.ActiveTab() != panels.TabTimer {
		t.Error("failed load should leave the timer tab")
	}
}

package tui

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/display"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/journal"
)

func TestNewTheme_DefaultAccent(t *testing.T) {
	th := NewTheme("")
	_ = th.AccentHeaderStyle().Render("x")
	_ = th.PanelBorderStyle(true)
	_ = th.PanelBorderStyle(false)
}

func TestNewTheme_CustomAccent(t *testing.T) {
	th := NewTheme("#FF0000")
	_ = th.AccentHeaderStyle()
	_ = th.ReadoutStyle(display.Readout{})
}

func TestReadoutStyle_AllPhases(t *testing.T) {
	th := NewTheme("")
	readouts := []display.Readout{
		{Phase: display.PhaseIdle},
		{Phase: display.PhaseArmed, Armed: true},
		{Phase: display.PhaseInspecting},
		{Phase: display.PhaseInspecting, PlusTwo: true},
		{Phase: display.PhaseRunning},
		{Phase: display.PhaseStopped},
		{Phase: display.PhaseStopped, DNF: true},
	}
	for _, r := range readouts {
		// Must not panic for any phase.
		_ = th.ReadoutStyle(r).Render("1.23")
	}
}

func rawPayload(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestRenderEntry(t *testing.T) {
	th := NewTheme("")
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		event    bus.Name
		attempt  int
		payload  any
		contains []string
	}{
		{"armed", attempt.EventArmed, 3, nil, []string{"[12:00:00]", "#3 armed"}},
		{"inspection", attempt.EventInspectionStarted, 1, attempt.InspectionStarted{DurationSeconds: 15}, []string{"15s"}},
		{"tick", attempt.EventInspectionTick, 1, attempt.InspectionTick{Remaining: 4}, []string{"4 left"}},
		{"stopped", attempt.EventStopped, 2, attempt.Stopped{Seconds: "75", Centiseconds: "23"}, []string{"1:15.23"}},
		{"stopped dnf", attempt.EventStopped, 2, attempt.Stopped{Seconds: "3", Centiseconds: "00", IsDNF: true}, []string{"DNF"}},
		{"completed +2", attempt.EventCompleted, 2, attempt.Result{ElapsedCentiseconds: 753, IsPlusTwo: true}, []string{"9.53+"}},
		{"selected", attempt.EventContextSelected, 0, "333", []string{"context-selected", "333"}},
		{"refreshed", attempt.EventContextRefreshed, 0, attempt.Snapshot{ContextName: "3x3", PriorAttempts: make([]attempt.PriorAttempt, 2)}, []string{"3x3", "2 done"}},
		{"sync failed", attempt.EventSyncFailed, 0, attempt.SyncFailure{Message: "disk\nfull"}, []string{"disk full"}},
		{"comment", attempt.EventCommentSubmitted, 0, attempt.CommentRequest{Text: "good"}, []string{`"good"`}},
		{"penalty", attempt.EventPenaltyRequested, 0, attempt.PenaltyRequest{Penalty: attempt.PenaltyDNF}, []string{"DNF"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := journal.Entry{Timestamp: now, Event: tt.event, Attempt: tt.attempt}
			if tt.payload != nil {
				e.Payload = rawPayload(t, tt.payload)
			}
			line := th.RenderEntry(e, 120)
			for _, want := range tt.contains {
				if !strings.Contains(line, want) {
					t.Errorf("RenderEntry() = %q, want to contain %q", line, want)
				}
			}
		})
	}
}

func TestRenderEntry_Truncates(t *testing.T) {
	th := NewTheme("")
	e := journal.Entry{
		Timestamp: time.Now(),
		Event:     attempt.EventSyncFailed,
		Payload:   rawPayload(t, attempt.SyncFailure{Message: strings.Repeat("x", 300)}),
	}
	line := th.RenderEntry(e, 60)
	if !strings.Contains(line, "…") {
		t.Errorf("long line should be truncated: %q", line)
	}
}

func TestResultText(t *testing.T) {
	tests := []struct {
		r    attempt.Result
		want string
	}{
		{attempt.Result{ElapsedCentiseconds: 753}, "7.53"},
		{attempt.Result{ElapsedCentiseconds: 753, IsPlusTwo: true}, "9.53+"},
		{attempt.Result{ElapsedCentiseconds: 753, IsDNF: true}, "DNF"},
		{attempt.Result{ElapsedCentiseconds: 7523}, "1:15.23"},
	}
	for _, tt := range tests {
		if got := resultText(tt.r); got != tt.want {
			t.Errorf("resultText(%+v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

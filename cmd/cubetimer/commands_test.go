package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/config"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/store"
)

func rec(pos int, cs int64, dnf, plusTwo bool) store.AttemptRecord {
	return store.AttemptRecord{
		Position:     pos,
		Centiseconds: cs,
		IsDNF:        dnf,
		IsPlusTwo:    plusTwo,
		Scramble:     "R U R' U'",
	}
}

func summary(id, name string, recorded, attempts int) store.ContextSummary {
	return store.ContextSummary{
		ContextDef: store.ContextDef{ID: id, Name: name, Puzzle: id, Attempts: attempts},
		Recorded:   recorded,
	}
}

func TestFormatContexts(t *testing.T) {
	tests := []struct {
		name     string
		input    []store.ContextSummary
		contains []string
	}{
		{
			name:     "empty",
			input:    nil,
			contains: []string{"No contexts configured"},
		},
		{
			name: "mixed progress",
			input: []store.ContextSummary{
				summary("333", "3x3", 5, 5),
				summary("222", "2x2", 2, 5),
				summary("444", "4x4", 0, 5),
			},
			contains: []string{"Contexts", "✅  333", "🔄  222", "⬜  444", "2/5", "5/5"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatContexts(tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("formatContexts() missing %q in:\n%s", want, got)
				}
			}
		})
	}
}

func TestFormatHistory(t *testing.T) {
	c := summary("333", "3x3", 5, 5)
	c.Comment = "warm hands"
	got := formatHistory(c, []store.AttemptRecord{
		rec(1, 1234, false, false),
		rec(2, 1100, false, true),
		rec(3, 0, true, false),
		rec(4, 1500, false, false),
		rec(5, 1000, false, false),
	})
	for _, want := range []string{
		"3x3 (333)",
		"1. 12.34",
		"2. 13.00+",
		"3. DNF",
		"best:    10.00",
		"average: 13.45",
		"comment: warm hands",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("formatHistory() missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatHistoryEmpty(t *testing.T) {
	got := formatHistory(summary("222", "2x2", 0, 5), nil)
	if !strings.Contains(got, "No attempts recorded") {
		t.Errorf("formatHistory() = %q", got)
	}
	if strings.Contains(got, "best:") {
		t.Errorf("empty history should not show statistics:\n%s", got)
	}
}

func TestAverageOf(t *testing.T) {
	tests := []struct {
		name    string
		records []store.AttemptRecord
		want    int64
	}{
		{
			name: "ao5 drops best and worst",
			records: []store.AttemptRecord{
				rec(1, 1000, false, false), rec(2, 1200, false, false), rec(3, 1100, false, false),
				rec(4, 900, false, false), rec(5, 3000, false, false),
			},
			want: 1100,
		},
		{
			name: "ao5 single DNF counts as worst",
			records: []store.AttemptRecord{
				rec(1, 1000, false, false), rec(2, 0, true, false), rec(3, 1100, false, false),
				rec(4, 900, false, false), rec(5, 1200, false, false),
			},
			want: 1100,
		},
		{
			name: "ao5 two DNFs",
			records: []store.AttemptRecord{
				rec(1, 1000, false, false), rec(2, 0, true, false), rec(3, 0, true, false),
				rec(4, 900, false, false), rec(5, 1200, false, false),
			},
			want: dnfResult,
		},
		{
			name: "mo3 with plus two",
			records: []store.AttemptRecord{
				rec(1, 6000, false, false), rec(2, 5800, false, true), rec(3, 6100, false, false),
			},
			want: 6033,
		},
		{
			name: "mo3 DNF",
			records: []store.AttemptRecord{
				rec(1, 6000, false, false), rec(2, 0, true, false), rec(3, 6100, false, false),
			},
			want: dnfResult,
		},
		{
			name:    "incomplete",
			records: []store.AttemptRecord{rec(1, 1000, false, false), rec(2, 1000, false, false)},
			want:    noResult,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := averageOf(tt.records); got != tt.want {
				t.Errorf("averageOf() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBestOf(t *testing.T) {
	if got := bestOf(nil); got != noResult {
		t.Errorf("bestOf(nil) = %d, want noResult", got)
	}
	if got := bestOf([]store.AttemptRecord{rec(1, 0, true, false)}); got != dnfResult {
		t.Errorf("bestOf(all DNF) = %d, want dnfResult", got)
	}
	got := bestOf([]store.AttemptRecord{
		rec(1, 0, true, false), rec(2, 1000, false, true), rec(3, 1150, false, false),
	})
	if got != 1150 {
		t.Errorf("bestOf() = %d, want 1150", got)
	}
}

func TestFormatStatus(t *testing.T) {
	cfg := config.Defaults()
	cfg.Timer.UseInspection = true
	got := formatStatus(&cfg, []store.ContextSummary{
		summary("333", "3x3", 5, 5),
		summary("222", "2x2", 1, 5),
	}, 3)
	for _, want := range []string{
		"Contexts:    1/2 complete",
		"Attempts:    6/10 recorded",
		"Inspection:  on",
		"Sessions:    3 in " + cfg.Journal.Dir,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("formatStatus() missing %q in:\n%s", want, got)
		}
	}
}

func TestCountSessions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1-1.jsonl", "2-1.jsonl", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	n, err := countSessions(dir)
	if err != nil {
		t.Fatalf("countSessions: %v", err)
	}
	if n != 2 {
		t.Errorf("countSessions() = %d, want 2", n)
	}
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CUBETIMER_USE_INSPECTION", "true")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !cfg.Timer.UseInspection {
		t.Error("environment override not applied to defaults")
	}
	if len(cfg.Contexts) != len(config.Defaults().Contexts) {
		t.Errorf("contexts = %d, want defaults", len(cfg.Contexts))
	}
}

func TestInitThenContextsCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"init"})
	if err := root.Execute(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out.String(), config.FileName) || !strings.Contains(out.String(), "Created ") {
		t.Errorf("init output = %q", out.String())
	}

	out.Reset()
	root = rootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"contexts"})
	if err := root.Execute(); err != nil {
		t.Fatalf("contexts: %v", err)
	}
	if !strings.Contains(out.String(), "⬜  333") {
		t.Errorf("contexts output = %q", out.String())
	}

	out.Reset()
	root = rootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"history", "333"})
	if err := root.Execute(); err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out.String(), "No attempts recorded") {
		t.Errorf("history output = %q", out.String())
	}
}

func TestHistoryUnknownContext(t *testing.T) {
	t.Chdir(t.TempDir())

	root := rootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"history", "nope"})
	if err := root.Execute(); err == nil {
		t.Fatal("expected error for unknown context")
	}
}

func TestTimeUnknownContext(t *testing.T) {
	t.Chdir(t.TempDir())

	root := rootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"time", "nope"})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), `unknown context "nope"`) {
		t.Fatalf("err = %v, want unknown context", err)
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := rootCmd()
	want := map[string]bool{"time": false, "contexts": false, "history": false, "status": false, "init": false}
	for _, c := range root.Commands() {
		want[c.Name()] = true
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
	if root.Version != version {
		t.Errorf("Version = %q, want %q", root.Version, version)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/config"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/scramble"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/store"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/store/sqlite"
)

func timeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "time [context]",
		Short: "Open the timer, optionally on a context",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initial := ""
			if len(args) == 1 {
				initial = args[0]
			}
			return executeTime(cmd.Context(), initial)
		},
	}
}

func contextsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contexts",
		Short: "List timing contexts with progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st *sqlite.Store) error {
				summaries, err := st.Contexts(ctx)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatContexts(summaries))
				return nil
			})
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <context>",
		Short: "Show the recorded attempts of a context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(ctx context.Context, st *sqlite.Store) error {
				summary, err := st.Context(ctx, args[0])
				if err != nil {
					return err
				}
				records, err := st.Attempts(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatHistory(summary, records))
				return nil
			})
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show overall progress and storage locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), func(ctx context.Context, st *sqlite.Store) error {
				summaries, err := st.Contexts(ctx)
				if err != nil {
					return err
				}
				sessions, err := countSessions(cfg.Journal.Dir)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatStatus(cfg, summaries, sessions))
				return nil
			})
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold cubetimer.toml and the .cubetimer data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := workDir()
			if err != nil {
				return err
			}
			created, err := config.Scaffold(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(created) == 0 {
				fmt.Fprintln(out, "All files already exist — nothing to create.")
				return nil
			}
			for _, path := range created {
				fmt.Fprintf(out, "Created %s\n", path)
			}
			return nil
		},
	}
}

// withStore opens the configured store, makes sure every configured context
// exists and runs fn against it.
func withStore(parent context.Context, fn func(context.Context, *sqlite.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext(parent)
	defer cancel()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(ctx, st)
}

// openStore opens the results database and syncs the configured contexts
// into it.
func openStore(ctx context.Context, cfg *config.Config) (*sqlite.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	st, err := sqlite.Open(ctx, cfg.Store.Path, scramble.New())
	if err != nil {
		return nil, err
	}
	if err := st.EnsureContexts(ctx, cfg.ContextDefs()); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

// countSessions returns the number of session journals in dir.
func countSessions(dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.jsonl"))
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}
	return len(matches), nil
}

// formatContexts renders the context list with a status symbol per row.
func formatContexts(summaries []store.ContextSummary) string {
	if len(summaries) == 0 {
		return "No contexts configured in " + config.FileName + "\n"
	}
	var sb strings.Builder
	sb.WriteString("Contexts\n")
	sb.WriteString("────────\n")
	for _, c := range summaries {
		fmt.Fprintf(&sb, "  %s  %-8s %-20s %d/%d\n", progressSymbol(c), c.ID, c.Name, c.Recorded, c.Attempts)
	}
	return sb.String()
}

// formatHistory renders the attempts of one context with best and average.
func formatHistory(c store.ContextSummary, records []store.AttemptRecord) string {
	var sb strings.Builder
	title := fmt.Sprintf("%s (%s)", c.Name, c.ID)
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("─", len([]rune(title))) + "\n")
	if len(records) == 0 {
		sb.WriteString("  No attempts recorded\n")
		return sb.String()
	}
	for _, rec := range records {
		fmt.Fprintf(&sb, "  %d. %-10s %s\n", rec.Position, sqlite.DisplayText(rec), rec.Scramble)
	}
	best, avg := bestOf(records), averageOf(records)
	fmt.Fprintf(&sb, "  %-8s %s\n", "best:", formatResult(best))
	fmt.Fprintf(&sb, "  %-8s %s\n", "average:", formatResult(avg))
	if c.Comment != "" {
		fmt.Fprintf(&sb, "  %-8s %s\n", "comment:", c.Comment)
	}
	return sb.String()
}

// formatStatus renders overall progress.
func formatStatus(cfg *config.Config, summaries []store.ContextSummary, sessions int) string {
	var complete, recorded, total int
	for _, c := range summaries {
		recorded += c.Recorded
		total += c.Attempts
		if c.Complete() {
			complete++
		}
	}
	var sb strings.Builder
	sb.WriteString("cubetimer status\n")
	sb.WriteString("────────────────\n")
	fmt.Fprintf(&sb, "  %-12s %d/%d complete\n", "Contexts:", complete, len(summaries))
	fmt.Fprintf(&sb, "  %-12s %d/%d recorded\n", "Attempts:", recorded, total)
	fmt.Fprintf(&sb, "  %-12s %s\n", "Inspection:", onOff(cfg.Timer.UseInspection))
	fmt.Fprintf(&sb, "  %-12s %s\n", "Store:", cfg.Store.Path)
	fmt.Fprintf(&sb, "  %-12s %d in %s\n", "Sessions:", sessions, cfg.Journal.Dir)
	return sb.String()
}

func progressSymbol(c store.ContextSummary) string {
	switch {
	case c.Complete():
		return "✅"
	case c.Recorded > 0:
		return "🔄"
	default:
		return "⬜"
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// dnfResult marks a DNF in result arithmetic; noResult marks nothing to show.
const (
	dnfResult int64 = -1
	noResult  int64 = -2
)

// resultOf returns the penalized centiseconds of rec, or dnfResult.
func resultOf(rec store.AttemptRecord) int64 {
	switch {
	case rec.IsDNF:
		return dnfResult
	case rec.IsPlusTwo:
		return rec.Centiseconds + 200
	default:
		return rec.Centiseconds
	}
}

// bestOf returns the best single result.
func bestOf(records []store.AttemptRecord) int64 {
	best := noResult
	for _, rec := range records {
		r := resultOf(rec)
		switch {
		case r == dnfResult:
			if best == noResult {
				best = dnfResult
			}
		case best < 0 || r < best:
			best = r
		}
	}
	return best
}

// averageOf returns the trimmed average once five results exist (best and
// worst dropped, a DNF counting as worst) or the mean of three for shorter
// contexts. Two DNFs in an average of five, or any in a mean of three, make
// it a DNF.
func averageOf(records []store.AttemptRecord) int64 {
	n := len(records)
	if n != 3 && n != 5 {
		return noResult
	}
	results := make([]int64, n)
	dnfs := 0
	for i, rec := range records {
		results[i] = resultOf(rec)
		if results[i] == dnfResult {
			dnfs++
		}
	}
	trim := 0
	if n == 5 {
		trim = 1
	}
	if dnfs > trim {
		return dnfResult
	}

	// Order valid results ascending with DNFs last.
	for i := 1; i < n; i++ {
		for j := i; j > 0 && less(results[j], results[j-1]); j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
	var sum int64
	for _, r := range results[trim : n-trim] {
		sum += r
	}
	count := int64(n - 2*trim)
	return (sum + count/2) / count
}

func less(a, b int64) bool {
	if a == dnfResult {
		return false
	}
	if b == dnfResult {
		return true
	}
	return a < b
}

func formatResult(r int64) string {
	switch r {
	case noResult:
		return "-"
	case dnfResult:
		return "DNF"
	default:
		return attempt.FormatCentiseconds(r)
	}
}

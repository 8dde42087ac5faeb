// Package sqlite provides the SQLite-backed persistence collaborator: timing
// contexts, their scrambles and the recorded attempts.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/store"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/store/sqlite/migrations"
)

// Scrambler produces scramble text for a puzzle.
type Scrambler interface {
	Scramble(puzzle string) (string, error)
}

// Store persists timing contexts in SQLite.
type Store struct {
	sqlDB     *sql.DB
	scrambler Scrambler
	now       func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(ctx context.Context, path string, scrambler Scrambler) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite: storage path is required")
	}
	if scrambler == nil {
		return nil, fmt.Errorf("sqlite: scrambler is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite: ping db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite: run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, scrambler: scrambler, now: time.Now}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// EnsureContexts inserts or updates the given context definitions.
func (s *Store) EnsureContexts(ctx context.Context, defs []store.ContextDef) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stamp := toMillis(s.now())
	for _, d := range defs {
		if strings.TrimSpace(d.ID) == "" {
			return fmt.Errorf("sqlite: context id is required")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO contexts (id, name, puzzle, attempts, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET
			   name = excluded.name,
			   puzzle = excluded.puzzle,
			   attempts = excluded.attempts,
			   updated_at = excluded.updated_at`,
			d.ID, d.Name, d.Puzzle, d.Attempts, stamp, stamp,
		); err != nil {
			return fmt.Errorf("sqlite: ensure context %s: %w", d.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit contexts: %w", err)
	}
	return nil
}

// Contexts lists every context with its progress, ordered by id.
func (s *Store) Contexts(ctx context.Context) ([]store.ContextSummary, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT c.id, c.name, c.puzzle, c.attempts, c.comment,
		        (SELECT COUNT(*) FROM attempts a WHERE a.context_id = c.id)
		   FROM contexts c
		  ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list contexts: %w", err)
	}
	defer rows.Close()

	var out []store.ContextSummary
	for rows.Next() {
		var c store.ContextSummary
		if err := rows.Scan(&c.ID, &c.Name, &c.Puzzle, &c.Attempts, &c.Comment, &c.Recorded); err != nil {
			return nil, fmt.Errorf("sqlite: scan context: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list contexts: %w", err)
	}
	return out, nil
}

// Context returns one context with its progress.
func (s *Store) Context(ctx context.Context, contextID string) (store.ContextSummary, error) {
	var c store.ContextSummary
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT c.id, c.name, c.puzzle, c.attempts, c.comment,
		        (SELECT COUNT(*) FROM attempts a WHERE a.context_id = c.id)
		   FROM contexts c
		  WHERE c.id = ?`, contextID,
	).Scan(&c.ID, &c.Name, &c.Puzzle, &c.Attempts, &c.Comment, &c.Recorded)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ContextSummary{}, fmt.Errorf("%w: %s", store.ErrUnknownContext, contextID)
	}
	if err != nil {
		return store.ContextSummary{}, fmt.Errorf("sqlite: get context %s: %w", contextID, err)
	}
	return c, nil
}

// Attempts returns the recorded attempts of a context in slot order.
func (s *Store) Attempts(ctx context.Context, contextID string) ([]store.AttemptRecord, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT a.id, a.context_id, a.scramble_id, sc.text, sc.position,
		        a.centiseconds, a.is_dnf, a.is_plus_two, a.created_at
		   FROM attempts a
		   JOIN scrambles sc ON sc.id = a.scramble_id
		  WHERE a.context_id = ?
		  ORDER BY sc.position`, contextID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list attempts: %w", err)
	}
	defer rows.Close()

	var out []store.AttemptRecord
	for rows.Next() {
		var (
			rec     store.AttemptRecord
			created int64
		)
		if err := rows.Scan(&rec.ID, &rec.ContextID, &rec.ScrambleID, &rec.Scramble, &rec.Position,
			&rec.Centiseconds, &rec.IsDNF, &rec.IsPlusTwo, &created); err != nil {
			return nil, fmt.Errorf("sqlite: scan attempt: %w", err)
		}
		rec.CreatedAt = fromMillis(created)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list attempts: %w", err)
	}
	return out, nil
}

// Snapshot returns the canonical state of a context, generating the next
// scramble when the context still has open slots.
func (s *Store) Snapshot(ctx context.Context, contextID string) (attempt.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return attempt.Snapshot{}, err
	}
	c, err := s.Context(ctx, contextID)
	if err != nil {
		return attempt.Snapshot{}, err
	}
	recs, err := s.Attempts(ctx, contextID)
	if err != nil {
		return attempt.Snapshot{}, err
	}

	snap := attempt.Snapshot{
		ContextID:         c.ID,
		ContextName:       c.Name,
		Comment:           c.Comment,
		IsContextComplete: c.Complete(),
		ControlButtons: attempt.ControlButtons{
			Undo:    len(recs) > 0,
			DNF:     len(recs) > 0,
			PlusTwo: len(recs) > 0,
			Comment: true,
		},
	}
	for _, rec := range recs {
		snap.PriorAttempts = append(snap.PriorAttempts, attempt.PriorAttempt{
			DisplayText:  DisplayText(rec),
			AttemptID:    rec.ID,
			IsDNF:        rec.IsDNF,
			IsPlusTwo:    rec.IsPlusTwo,
			ScrambleText: rec.Scramble,
		})
	}
	if n := len(recs); n > 0 {
		last := recs[n-1]
		snap.LastResultSummary = DisplayText(last)
		snap.LastElapsedSeconds, snap.LastElapsedCentiseconds = attempt.Split(last.Centiseconds * 10)
		snap.HideTimerDot = last.IsDNF
	}
	if snap.IsContextComplete {
		return snap, nil
	}

	id, text, err := s.nextScramble(ctx, c, len(recs))
	if err != nil {
		return attempt.Snapshot{}, err
	}
	snap.NextScrambleID, snap.NextScrambleText = id, text
	return snap, nil
}

// nextScramble returns the scramble for slot position, creating it once.
func (s *Store) nextScramble(ctx context.Context, c store.ContextSummary, position int) (string, string, error) {
	var id, text string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, text FROM scrambles WHERE context_id = ? AND position = ?`,
		c.ID, position,
	).Scan(&id, &text)
	if err == nil {
		return id, text, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", "", fmt.Errorf("sqlite: get scramble: %w", err)
	}

	text, err = s.scrambler.Scramble(c.Puzzle)
	if err != nil {
		return "", "", fmt.Errorf("sqlite: generate scramble for %s: %w", c.ID, err)
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`INSERT OR IGNORE INTO scrambles (id, context_id, position, text, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), c.ID, position, text, toMillis(s.now()),
	); err != nil {
		return "", "", fmt.Errorf("sqlite: create scramble: %w", err)
	}
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, text FROM scrambles WHERE context_id = ? AND position = ?`,
		c.ID, position,
	).Scan(&id, &text); err != nil {
		return "", "", fmt.Errorf("sqlite: get scramble: %w", err)
	}
	return id, text, nil
}

// SaveAttempt records a result and returns the refreshed snapshot. Saving
// the same scramble twice is a no-op, so a resubmit after a lost response
// is safe.
func (s *Store) SaveAttempt(ctx context.Context, res attempt.Result) (attempt.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return attempt.Snapshot{}, err
	}
	c, err := s.Context(ctx, res.ContextID)
	if err != nil {
		return attempt.Snapshot{}, err
	}

	var existing int
	err = s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM scrambles sc WHERE sc.id = ? AND sc.context_id = ?`,
		res.ScrambleID, res.ContextID,
	).Scan(&existing)
	if err != nil {
		return attempt.Snapshot{}, fmt.Errorf("sqlite: check scramble: %w", err)
	}
	if existing == 0 {
		return attempt.Snapshot{}, fmt.Errorf("%w: %s", store.ErrUnknownScramble, res.ScrambleID)
	}

	var saved int
	if err := s.sqlDB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attempts WHERE scramble_id = ?`, res.ScrambleID,
	).Scan(&saved); err != nil {
		return attempt.Snapshot{}, fmt.Errorf("sqlite: check attempt: %w", err)
	}
	if saved > 0 {
		return s.Snapshot(ctx, res.ContextID)
	}
	if c.Complete() {
		return attempt.Snapshot{}, fmt.Errorf("%w: %s", store.ErrContextComplete, res.ContextID)
	}

	if _, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO attempts (id, context_id, scramble_id, centiseconds, is_dnf, is_plus_two, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), res.ContextID, res.ScrambleID, res.ElapsedCentiseconds,
		res.IsDNF, res.IsPlusTwo, toMillis(s.now()),
	); err != nil {
		return attempt.Snapshot{}, fmt.Errorf("sqlite: save attempt: %w", err)
	}
	return s.Snapshot(ctx, res.ContextID)
}

// SetComment replaces the comment of a context.
func (s *Store) SetComment(ctx context.Context, contextID, text string) (attempt.Snapshot, error) {
	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE contexts SET comment = ?, updated_at = ? WHERE id = ?`,
		strings.TrimSpace(text), toMillis(s.now()), contextID,
	)
	if err != nil {
		return attempt.Snapshot{}, fmt.Errorf("sqlite: set comment: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return attempt.Snapshot{}, fmt.Errorf("%w: %s", store.ErrUnknownContext, contextID)
	}
	return s.Snapshot(ctx, contextID)
}

// UndoLast deletes the most recent attempt of a context. Its scramble is
// kept and becomes the next scramble again.
func (s *Store) UndoLast(ctx context.Context, contextID string) (attempt.Snapshot, error) {
	id, err := s.lastAttemptID(ctx, contextID)
	if err != nil {
		return attempt.Snapshot{}, err
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM attempts WHERE id = ?`, id); err != nil {
		return attempt.Snapshot{}, fmt.Errorf("sqlite: undo attempt: %w", err)
	}
	return s.Snapshot(ctx, contextID)
}

// SetPenalty replaces the penalty of the most recent attempt of a context.
func (s *Store) SetPenalty(ctx context.Context, contextID string, p attempt.Penalty) (attempt.Snapshot, error) {
	id, err := s.lastAttemptID(ctx, contextID)
	if err != nil {
		return attempt.Snapshot{}, err
	}
	if _, err := s.sqlDB.ExecContext(ctx,
		`UPDATE attempts SET is_dnf = ?, is_plus_two = ? WHERE id = ?`,
		p == attempt.PenaltyDNF, p == attempt.PenaltyPlusTwo, id,
	); err != nil {
		return attempt.Snapshot{}, fmt.Errorf("sqlite: set penalty: %w", err)
	}
	return s.Snapshot(ctx, contextID)
}

func (s *Store) lastAttemptID(ctx context.Context, contextID string) (string, error) {
	if _, err := s.Context(ctx, contextID); err != nil {
		return "", err
	}
	var id string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT a.id FROM attempts a
		   JOIN scrambles sc ON sc.id = a.scramble_id
		  WHERE a.context_id = ?
		  ORDER BY sc.position DESC
		  LIMIT 1`, contextID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", store.ErrNoAttempts, contextID)
	}
	if err != nil {
		return "", fmt.Errorf("sqlite: last attempt: %w", err)
	}
	return id, nil
}

// DisplayText renders a recorded attempt the way cards show it.
func DisplayText(rec store.AttemptRecord) string {
	switch {
	case rec.IsDNF:
		return "DNF"
	case rec.IsPlusTwo:
		return attempt.FormatCentiseconds(rec.Centiseconds+200) + "+"
	default:
		return attempt.FormatCentiseconds(rec.Centiseconds)
	}
}

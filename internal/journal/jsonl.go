package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
)

// JSONL is a Journal backed by an append-only JSONL file. The file is synced
// when an attempt ends and on Close; intermediate events such as inspection
// ticks are left to the OS. The file is named "<unix-timestamp>-<pid>.jsonl".
type JSONL struct {
	file      *os.File
	mu        sync.Mutex
	idx       *fileIndex
	sessionID string
	startedAt time.Time
	pos       int64
}

// NewJSONL creates (or reopens) the session log in dir, creating dir if
// needed.
func NewJSONL(dir string, clk clockwork.Clock) (*JSONL, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("journal: mkdir %q: %w", dir, err)
	}
	now := clk.Now()
	sessionID := fmt.Sprintf("%d-%d", now.Unix(), os.Getpid())
	path := filepath.Join(dir, sessionID+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("journal: open %q: %w", path, err)
	}
	pos, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("journal: seek: %w", err)
	}
	return &JSONL{
		file:      f,
		idx:       newFileIndex(),
		sessionID: sessionID,
		startedAt: now,
		pos:       pos,
	}, nil
}

// Path returns the file being written.
func (j *JSONL) Path() string { return j.file.Name() }

// Append serializes entry as a JSON line and writes it, syncing when the entry
// ends an attempt. It is safe to call from multiple goroutines.
func (j *JSONL) Append(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("journal: marshal: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	lineOffset := j.pos
	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("journal: write: %w", err)
	}
	if needsSync(entry.Event) {
		if err := j.file.Sync(); err != nil {
			return fmt.Errorf("journal: sync: %w", err)
		}
	}
	lineLen := int64(len(data))
	j.pos += lineLen
	j.idx.onAppend(entry, lineOffset, lineLen)
	return nil
}

// Close syncs and closes the underlying file.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	syncErr := j.file.Sync()
	if err := j.file.Close(); err != nil {
		return fmt.Errorf("journal: close: %w", err)
	}
	if syncErr != nil {
		return fmt.Errorf("journal: sync: %w", syncErr)
	}
	return nil
}

// needsSync reports whether an entry must reach disk before Append returns.
func needsSync(name bus.Name) bool {
	switch name {
	case attempt.EventCompleted, attempt.EventCancelled, attempt.EventSyncFailed:
		return true
	}
	return false
}

// Attempts returns summaries for all finished attempts in this session. The
// returned slice is a copy.
func (j *JSONL) Attempts() ([]AttemptSummary, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	result := make([]AttemptSummary, len(j.idx.summaries))
	copy(result, j.idx.summaries)
	return result, nil
}

// AttemptLog returns every entry of finished attempt n, read back from disk
// through the byte-offset index.
func (j *JSONL) AttemptLog(n int) ([]Entry, error) {
	j.mu.Lock()
	r, ok := j.idx.ranges[n]
	j.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("journal: attempt %d not found", n)
	}
	size := r.end - r.start
	if size <= 0 {
		return nil, nil
	}
	buf := make([]byte, size)
	if _, err := j.file.ReadAt(buf, r.start); err != nil {
		return nil, fmt.Errorf("journal: read attempt %d: %w", n, err)
	}
	var entries []Entry
	for _, line := range bytes.Split(buf, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			log.Warn().Err(err).Int("attempt", n).Msg("journal: skipping malformed line")
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// SessionSummary returns aggregate figures for the session.
func (j *JSONL) SessionSummary() (SessionSummary, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	sum := SessionSummary{
		SessionID: j.sessionID,
		StartedAt: j.startedAt,
		Attempts:  len(j.idx.summaries),
		Failures:  j.idx.failures,
		Best:      -1,
		Mean:      -1,
	}
	var total, valid int64
	for _, s := range j.idx.summaries {
		switch {
		case s.Cancelled:
			sum.Cancelled++
			continue
		case s.DNF:
			sum.DNFs++
		default:
			cs := s.Centiseconds
			if s.PlusTwo {
				cs += 200
			}
			if sum.Best < 0 || cs < sum.Best {
				sum.Best = cs
			}
			total += cs
			valid++
		}
		sum.Completed++
	}
	if valid > 0 {
		sum.Mean = total / valid
	}
	return sum, nil
}

// EnforceRetention removes the oldest session logs in dir, keeping at most
// maxKeep files. maxKeep <= 0 keeps everything.
func EnforceRetention(dir string, maxKeep int) error {
	if maxKeep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("journal: read dir %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for i := 0; i < len(files)-maxKeep; i++ {
		path := filepath.Join(dir, files[i])
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("journal: remove %q: %w", path, err)
		}
	}
	return nil
}

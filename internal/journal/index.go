package journal

import (
	"encoding/json"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
)

// attemptRange is the [start, end) byte range of one attempt in the JSONL
// file. start is the offset of the armed line; end is the first byte after
// the completed or cancelled line.
type attemptRange struct {
	start int64
	end   int64
}

// fileIndex maintains in-memory byte-offset bookmarks per finished attempt.
type fileIndex struct {
	summaries []AttemptSummary
	ranges    map[int]attemptRange
	pending   *pendingAttempt
	failures  int
}

// pendingAttempt accumulates state for the attempt currently being written.
type pendingAttempt struct {
	startOffset int64
	summary     AttemptSummary
}

func newFileIndex() *fileIndex {
	return &fileIndex{ranges: make(map[int]attemptRange)}
}

// onAppend updates the index when an entry line has been appended.
func (idx *fileIndex) onAppend(entry Entry, lineOffset, lineLen int64) {
	switch entry.Event {
	case attempt.EventArmed:
		idx.pending = &pendingAttempt{
			startOffset: lineOffset,
			summary: AttemptSummary{
				Number:     entry.Attempt,
				ContextID:  entry.ContextID,
				ScrambleID: entry.ScrambleID,
				StartAt:    entry.Timestamp,
			},
		}
	case attempt.EventStopped:
		if idx.pending == nil {
			return
		}
		var ev attempt.Stopped
		if json.Unmarshal(entry.Payload, &ev) == nil {
			idx.pending.summary.Text = ev.Seconds + "." + ev.Centiseconds
			if ev.IsDNF {
				idx.pending.summary.Text = "DNF"
			}
		}
	case attempt.EventCompleted:
		if idx.pending == nil {
			return
		}
		var res attempt.Result
		if json.Unmarshal(entry.Payload, &res) == nil {
			idx.pending.summary.Centiseconds = res.ElapsedCentiseconds
			idx.pending.summary.DNF = res.IsDNF
			idx.pending.summary.PlusTwo = res.IsPlusTwo
		}
		idx.close(entry, lineOffset+lineLen)
	case attempt.EventCancelled:
		if idx.pending == nil {
			return
		}
		idx.pending.summary.Cancelled = true
		idx.close(entry, lineOffset+lineLen)
	case attempt.EventSyncFailed:
		idx.failures++
	}
}

func (idx *fileIndex) close(entry Entry, end int64) {
	s := idx.pending.summary
	s.EndAt = entry.Timestamp
	idx.ranges[s.Number] = attemptRange{start: idx.pending.startOffset, end: end}
	idx.summaries = append(idx.summaries, s)
	idx.pending = nil
}

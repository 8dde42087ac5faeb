// Package records keeps the local view of a context in step with the
// persistence collaborator. It is the only component that initiates
// persistence.
package records

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
)

// Persister is the persistence collaborator. Every call returns the
// canonical snapshot of the affected context.
type Persister interface {
	Snapshot(ctx context.Context, contextID string) (attempt.Snapshot, error)
	SaveAttempt(ctx context.Context, res attempt.Result) (attempt.Snapshot, error)
	SetComment(ctx context.Context, contextID, text string) (attempt.Snapshot, error)
	UndoLast(ctx context.Context, contextID string) (attempt.Snapshot, error)
	SetPenalty(ctx context.Context, contextID string, p attempt.Penalty) (attempt.Snapshot, error)
}

// Executor runs blocking work and later invokes its continuation on the
// caller's event loop.
type Executor interface {
	Go(work func() func())
}

// PubSub is the bus surface the Synchronizer needs.
type PubSub interface {
	bus.Publisher
	bus.Subscriber
}

// DefaultTimeout bounds one persistence call.
const DefaultTimeout = 10 * time.Second

// ErrUnsavedResult is the notice published when a request would replace the
// view of a context while a result is still waiting to be saved.
var ErrUnsavedResult = errors.New("records: result not saved yet, resubmit it first")

// Synchronizer sends completed results to the Persister and republishes the
// canonical snapshot. Failures are published verbatim and the unsynced
// result is kept for a user-initiated resubmit; nothing is retried
// automatically.
//
// Continuations may arrive in any order. Each request carries a per-context
// sequence number and a snapshot older than one already delivered for the
// same context is dropped. Snapshots of a context other than the selected
// one only update progress, and while a result is unsaved no snapshot but
// the one from its save may reach the clock.
type Synchronizer struct {
	ctx     context.Context
	store   Persister
	exec    Executor
	bus     bus.Publisher
	timeout time.Duration

	contextID string
	selected  string
	pending   *attempt.Result
	inflight  bool
	issued    map[string]uint64
	applied   map[string]uint64
}

// New creates a Synchronizer and subscribes it to completed, resubmit and
// the context editing requests. ctx bounds
// every request; timeout bounds each one individually.
func New(ctx context.Context, store Persister, exec Executor, b PubSub, timeout time.Duration) *Synchronizer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	s := &Synchronizer{
		ctx:     ctx,
		store:   store,
		exec:    exec,
		bus:     b,
		timeout: timeout,
		issued:  make(map[string]uint64),
		applied: make(map[string]uint64),
	}
	b.Subscribe(attempt.EventCompleted, s.onCompleted)
	b.Subscribe(attempt.EventContextSelected, s.onContextSelected)
	b.Subscribe(attempt.EventResubmitRequested, s.onResubmit)
	b.Subscribe(attempt.EventCommentSubmitted, s.onComment)
	b.Subscribe(attempt.EventUndoRequested, s.onUndo)
	b.Subscribe(attempt.EventPenaltyRequested, s.onPenalty)
	return s
}

// ContextID returns the context of the last snapshot handed to the clock.
func (s *Synchronizer) ContextID() string { return s.contextID }

// Selected returns the context the user selected last.
func (s *Synchronizer) Selected() string { return s.selected }

// Pending returns the result awaiting a successful save, if any.
func (s *Synchronizer) Pending() (attempt.Result, bool) {
	if s.pending == nil {
		return attempt.Result{}, false
	}
	return *s.pending, true
}

// InFlight reports whether a save is outstanding.
func (s *Synchronizer) InFlight() bool { return s.inflight }

func (s *Synchronizer) onCompleted(payload any) {
	res := payload.(attempt.Result)
	if s.pending != nil && s.pending.ScrambleID != res.ScrambleID {
		log.Warn().Str("scramble", s.pending.ScrambleID).Msg("unsaved result replaced by a newer one")
	}
	s.pending = &res
	s.submit()
}

func (s *Synchronizer) onResubmit(any) {
	if s.pending == nil || s.inflight {
		return
	}
	log.Info().Str("scramble", s.pending.ScrambleID).Msg("resubmitting result")
	s.submit()
}

func (s *Synchronizer) submit() {
	res := *s.pending
	seq := s.next(res.ContextID)
	s.inflight = true
	s.exec.Go(func() func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()
		snap, err := s.store.SaveAttempt(ctx, res)
		return func() {
			s.inflight = false
			if err != nil {
				log.Error().Err(err).Str("scramble", res.ScrambleID).Msg("save attempt failed")
				s.bus.Publish(attempt.EventSyncFailed, attempt.SyncFailure{Message: err.Error(), Result: res})
				return
			}
			if s.pending != nil && s.pending.ScrambleID == res.ScrambleID {
				s.pending = nil
			}
			s.deliver(seq, snap, true)
		}
	})
}

// blocked publishes the unsaved-result notice and reports true when a
// result is waiting to be saved.
func (s *Synchronizer) blocked(op string) bool {
	if s.pending == nil {
		return false
	}
	log.Warn().Str("scramble", s.pending.ScrambleID).Msg(op + " refused, result not saved")
	s.bus.Publish(attempt.EventSyncFailed, attempt.SyncFailure{
		Message: ErrUnsavedResult.Error(),
		Result:  *s.pending,
	})
	return true
}

func (s *Synchronizer) onContextSelected(payload any) {
	id := payload.(string)
	if s.blocked("select context") {
		return
	}
	s.selected = id
	s.refresh("load context", id, func(ctx context.Context) (attempt.Snapshot, error) {
		return s.store.Snapshot(ctx, id)
	})
}

func (s *Synchronizer) onComment(payload any) {
	req := payload.(attempt.CommentRequest)
	if s.blocked("save comment") {
		return
	}
	s.refresh("save comment", req.ContextID, func(ctx context.Context) (attempt.Snapshot, error) {
		return s.store.SetComment(ctx, req.ContextID, req.Text)
	})
}

func (s *Synchronizer) onUndo(payload any) {
	id := payload.(string)
	if s.blocked("undo attempt") {
		return
	}
	s.refresh("undo attempt", id, func(ctx context.Context) (attempt.Snapshot, error) {
		return s.store.UndoLast(ctx, id)
	})
}

func (s *Synchronizer) onPenalty(payload any) {
	req := payload.(attempt.PenaltyRequest)
	if s.blocked("set penalty") {
		return
	}
	s.refresh("set penalty", req.ContextID, func(ctx context.Context) (attempt.Snapshot, error) {
		return s.store.SetPenalty(ctx, req.ContextID, req.Penalty)
	})
}

// refresh runs one snapshot-returning request and publishes its outcome.
func (s *Synchronizer) refresh(op, contextID string, call func(context.Context) (attempt.Snapshot, error)) {
	seq := s.next(contextID)
	s.exec.Go(func() func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()
		snap, err := call(ctx)
		return func() {
			if err != nil {
				log.Error().Err(err).Str("context", contextID).Msg(op + " failed")
				s.bus.Publish(attempt.EventSyncFailed, attempt.SyncFailure{Message: err.Error()})
				return
			}
			s.deliver(seq, snap, false)
		}
	})
}

func (s *Synchronizer) next(contextID string) uint64 {
	s.issued[contextID]++
	return s.issued[contextID]
}

// deliver routes the snapshot answering request seq: dropped when stale,
// published as progress when it must not touch the clock, and as the
// context refresh otherwise.
func (s *Synchronizer) deliver(seq uint64, snap attempt.Snapshot, fromSave bool) {
	id := snap.ContextID
	if seq < s.applied[id] {
		log.Debug().Str("context", id).Uint64("seq", seq).Msg("stale snapshot dropped")
		return
	}
	s.applied[id] = seq

	switch {
	case s.selected != "" && id != s.selected:
		log.Debug().Str("context", id).Str("selected", s.selected).Msg("snapshot of unselected context")
		s.bus.Publish(attempt.EventProgressUpdated, snap)
	case s.pending != nil && !fromSave:
		log.Debug().Str("context", id).Msg("snapshot held back, result not saved")
		s.bus.Publish(attempt.EventProgressUpdated, snap)
	default:
		s.publishSnapshot(snap)
	}
}

func (s *Synchronizer) publishSnapshot(snap attempt.Snapshot) {
	s.contextID = snap.ContextID
	log.Debug().
		Str("context", snap.ContextID).
		Str("next_scramble", snap.NextScrambleID).
		Bool("complete", snap.IsContextComplete).
		Msg("context refreshed")
	s.bus.Publish(attempt.EventContextRefreshed, snap)
}

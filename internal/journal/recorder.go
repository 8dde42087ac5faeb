package journal

import (
	"encoding/json"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
)

// Events lists every bus event the Recorder journals. Run ticks are left
// out; they carry nothing the stopped entry does not.
var Events = []bus.Name{
	attempt.EventArmed,
	attempt.EventInspectionStarted,
	attempt.EventInspectionArmed,
	attempt.EventInspectionTick,
	attempt.EventRunStarted,
	attempt.EventStopped,
	attempt.EventCancelled,
	attempt.EventCompleted,
	attempt.EventContextSelected,
	attempt.EventContextRefreshed,
	attempt.EventSyncFailed,
	attempt.EventResubmitRequested,
	attempt.EventCommentSubmitted,
	attempt.EventUndoRequested,
	attempt.EventPenaltyRequested,
}

// Recorder appends bus events to a Writer, stamping each with the attempt
// it belongs to.
type Recorder struct {
	w        Writer
	clock    clockwork.Clock
	attempt  int
	live     bool
	context  string
	scramble string
	onAppend func(Entry)
}

// NewRecorder subscribes a Recorder to Events.
func NewRecorder(sub bus.Subscriber, w Writer, clk clockwork.Clock) *Recorder {
	r := &Recorder{w: w, clock: clk}
	for _, name := range Events {
		name := name
		sub.Subscribe(name, func(payload any) { r.record(name, payload) })
	}
	return r
}

// OnAppend registers fn to be called with every entry written.
func (r *Recorder) OnAppend(fn func(Entry)) { r.onAppend = fn }

func (r *Recorder) record(name bus.Name, payload any) {
	switch name {
	case attempt.EventArmed:
		r.attempt++
		r.live = true
	case attempt.EventContextRefreshed:
		if snap, ok := payload.(attempt.Snapshot); ok {
			r.context, r.scramble = snap.ContextID, snap.NextScrambleID
		}
	}

	e := Entry{Timestamp: r.clock.Now(), Event: name, ContextID: r.context, ScrambleID: r.scramble}
	if r.live {
		e.Attempt = r.attempt
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Warn().Err(err).Str("event", string(name)).Msg("journal: marshal payload")
		} else {
			e.Payload = data
		}
	}
	if err := r.w.Append(e); err != nil {
		log.Error().Err(err).Str("event", string(name)).Msg("journal: append")
		return
	}
	if r.onAppend != nil {
		r.onAppend(e)
	}

	if name == attempt.EventCompleted || name == attempt.EventCancelled {
		r.live = false
	}
}

package attempt

import "github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"

// Timing events. The Clock is the only publisher of these.
const (
	EventArmed             bus.Name = "armed"              // no payload
	EventInspectionStarted bus.Name = "inspection-started" // InspectionStarted
	EventInspectionArmed   bus.Name = "inspection-armed"   // no payload
	EventInspectionTick    bus.Name = "inspection-tick"    // InspectionTick
	EventRunStarted        bus.Name = "run-started"        // no payload
	EventRunTick           bus.Name = "run-tick"           // RunTick
	EventStopped           bus.Name = "stopped"            // Stopped
	EventCancelled         bus.Name = "cancelled"          // no payload
	EventCompleted         bus.Name = "completed"          // Result
)

// Context and synchronization events.
const (
	EventContextSelected   bus.Name = "context-selected"   // string context id
	EventContextRefreshed  bus.Name = "context-refreshed"  // Snapshot
	EventSyncFailed        bus.Name = "sync-failed"        // SyncFailure
	EventResubmitRequested bus.Name = "resubmit-requested" // no payload
	EventCommentSubmitted  bus.Name = "comment-submitted"  // CommentRequest
	EventUndoRequested     bus.Name = "undo-requested"     // string context id
	EventPenaltyRequested  bus.Name = "penalty-requested"  // PenaltyRequest
	EventProgressUpdated   bus.Name = "progress-updated"   // Snapshot of a context not on the clock
)

// TimingEvents lists the events describing one attempt, in lifecycle order.
var TimingEvents = []bus.Name{
	EventArmed,
	EventInspectionStarted,
	EventInspectionArmed,
	EventInspectionTick,
	EventRunStarted,
	EventRunTick,
	EventStopped,
	EventCancelled,
	EventCompleted,
}

// InspectionStarted carries the countdown duration.
type InspectionStarted struct {
	DurationSeconds int `json:"duration_seconds"`
}

// InspectionTick carries the countdown readout. Remaining goes negative once
// the inspection window has lapsed.
type InspectionTick struct {
	Remaining int `json:"remaining"`
}

// RunTick is the live elapsed readout while Running.
type RunTick struct {
	Seconds      string `json:"seconds"`
	Centiseconds string `json:"centiseconds"`
}

// Stopped is the display-oriented summary of a finished attempt. It is
// deliberately separate from Result, which is what gets persisted.
type Stopped struct {
	Seconds      string `json:"seconds"`
	Centiseconds string `json:"centiseconds"`
	IsDNF        bool   `json:"is_dnf"`
}

// Result is the numeric outcome of one completed (not cancelled) attempt.
// It is produced exactly once, at the Running -> Done transition or on an
// inspection auto-DNF.
type Result struct {
	ScrambleID          string `json:"scramble_id"`
	ContextID           string `json:"context_id"`
	IsDNF               bool   `json:"is_dnf"`
	IsPlusTwo           bool   `json:"is_plus_two"`
	ElapsedCentiseconds int64  `json:"elapsed_centiseconds"`
}

// Snapshot is the canonical state of one context as returned by the
// persistence collaborator after every successful synchronization.
type Snapshot struct {
	ContextID               string         `json:"context_id"`
	ContextName             string         `json:"context_name"`
	NextScrambleID          string         `json:"next_scramble_id"`
	NextScrambleText        string         `json:"next_scramble_text"`
	LastResultSummary       string         `json:"last_result_summary"`
	Comment                 string         `json:"comment"`
	IsContextComplete       bool           `json:"is_context_complete"`
	PriorAttempts           []PriorAttempt `json:"prior_attempts"`
	ControlButtons          ControlButtons `json:"control_buttons"`
	LastElapsedSeconds      string         `json:"last_elapsed_seconds"`
	LastElapsedCentiseconds string         `json:"last_elapsed_centiseconds"`
	HideTimerDot            bool           `json:"hide_timer_dot"`
}

// PriorAttempt is one already-recorded attempt of the current context.
type PriorAttempt struct {
	DisplayText  string `json:"display_text"`
	AttemptID    string `json:"attempt_id"`
	IsDNF        bool   `json:"is_dnf"`
	IsPlusTwo    bool   `json:"is_plus_two"`
	ScrambleText string `json:"scramble_text"`
}

// ControlButtons reports which result-editing controls are enabled.
type ControlButtons struct {
	Undo    bool `json:"undo"`
	DNF     bool `json:"dnf"`
	PlusTwo bool `json:"plus_two"`
	Comment bool `json:"comment"`
}

// SyncFailure is published when persisting a result fails.
type SyncFailure struct {
	Message string `json:"message"`
	Result  Result `json:"result"`
}

// CommentRequest asks for the comment of a context to be replaced.
type CommentRequest struct {
	ContextID string `json:"context_id"`
	Text      string `json:"text"`
}

// Penalty is a manually assigned result penalty.
type Penalty int

const (
	PenaltyNone Penalty = iota
	PenaltyPlusTwo
	PenaltyDNF
)

func (p Penalty) String() string {
	switch p {
	case PenaltyPlusTwo:
		return "+2"
	case PenaltyDNF:
		return "DNF"
	default:
		return "none"
	}
}

// PenaltyRequest asks for the penalty of the latest attempt in a context to
// be replaced.
type PenaltyRequest struct {
	ContextID string  `json:"context_id"`
	Penalty   Penalty `json:"penalty"`
}

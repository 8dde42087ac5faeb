// Package attempt implements the attempt clock: the finite-state timer that
// drives one timed solve through arming, optional inspection, running and
// completion or cancellation, publishing every transition on the event bus.
package attempt

// State is the lifecycle position of the current attempt.
type State int

const (
	StateInactive        State = iota // Waiting for an activation press
	StateArmed                        // Next release starts inspection or the run
	StateInspecting                   // Countdown running
	StateInspectionArmed              // Countdown running, activation held
	StateRunning                      // Solve being timed
	StateDone                         // Finished; waiting for re-arm
)

// validTransitions defines the allowed State transitions.
var validTransitions = map[State][]State{
	StateInactive:        {StateArmed},
	StateArmed:           {StateInspecting, StateRunning, StateInactive},
	StateInspecting:      {StateInspectionArmed, StateDone},
	StateInspectionArmed: {StateRunning, StateDone},
	StateRunning:         {StateDone},
	StateDone:            {StateInactive},
}

// CanTransitionTo reports whether transitioning from s to next is valid.
func (s State) CanTransitionTo(next State) bool {
	for _, valid := range validTransitions[s] {
		if valid == next {
			return true
		}
	}
	return false
}

// Live reports whether an attempt is in progress and can be aborted.
func (s State) Live() bool {
	return s == StateInspecting || s == StateInspectionArmed || s == StateRunning
}

// String returns a short uppercase label for the state.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "INACTIVE"
	case StateArmed:
		return "ARMED"
	case StateInspecting:
		return "INSPECTING"
	case StateInspectionArmed:
		return "INSPECTION ARMED"
	case StateRunning:
		return "RUNNING"
	case StateDone:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

// Outcome records how the most recent attempt ended.
type Outcome int

const (
	OutcomeNone      Outcome = iota // No attempt finished since the last re-arm
	OutcomeCompleted                // Done with a Result
	OutcomeCancelled                // Done without a Result
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

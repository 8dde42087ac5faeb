// Package observe holds the UI-side observers: small state holders that
// follow bus events and expose what the screen should show. They never
// mutate attempt state.
package observe

import (
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
)

// Screen is the layout the timer view uses.
type Screen int

const (
	ScreenTimer   Screen = iota // Scramble, cards and timer
	ScreenFocus                 // Timer only, while an attempt is live
	ScreenSummary               // Context complete
)

func (s Screen) String() string {
	switch s {
	case ScreenFocus:
		return "focus"
	case ScreenSummary:
		return "summary"
	default:
		return "timer"
	}
}

// Screens tracks which Screen to show.
type Screens struct {
	current Screen
}

// NewScreens subscribes a Screens observer.
func NewScreens(sub bus.Subscriber) *Screens {
	s := &Screens{}
	focus := func(any) { s.current = ScreenFocus }
	back := func(any) {
		if s.current == ScreenFocus {
			s.current = ScreenTimer
		}
	}
	sub.Subscribe(attempt.EventInspectionStarted, focus)
	sub.Subscribe(attempt.EventRunStarted, focus)
	sub.Subscribe(attempt.EventStopped, back)
	sub.Subscribe(attempt.EventCancelled, back)
	sub.Subscribe(attempt.EventContextRefreshed, s.onRefreshed)
	return s
}

// Current returns the Screen to show.
func (s *Screens) Current() Screen { return s.current }

func (s *Screens) onRefreshed(payload any) {
	snap := payload.(attempt.Snapshot)
	if snap.IsContextComplete {
		s.current = ScreenSummary
		return
	}
	s.current = ScreenTimer
}

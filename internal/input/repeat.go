package input

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// RepeatDetector turns a stream of key-down events into press and release
// edges. Terminals report auto-repeat but never a key-up, so the key counts
// as released once no repeat has arrived for the hold window.
type RepeatDetector struct {
	clock  clockwork.Clock
	window time.Duration
	down   bool
	last   time.Time
}

// NewRepeatDetector returns a detector with the given hold window. The
// window must exceed the terminal's initial auto-repeat delay.
func NewRepeatDetector(clk clockwork.Clock, window time.Duration) *RepeatDetector {
	return &RepeatDetector{clock: clk, window: window}
}

// KeyDown records a key event and reports whether it starts a new press.
func (r *RepeatDetector) KeyDown() bool {
	r.last = r.clock.Now()
	if r.down {
		return false
	}
	r.down = true
	return true
}

// Expired reports, once, that the key has been released.
func (r *RepeatDetector) Expired() bool {
	if !r.down || r.clock.Since(r.last) < r.window {
		return false
	}
	r.down = false
	return true
}

// Held reports whether the key is currently considered down.
func (r *RepeatDetector) Held() bool { return r.down }

package attempt

import (
	"fmt"
	"time"
)

// maxPlausibleCentiseconds is roughly 47 years. A DNF result above it can
// only come from finalizing a clock that never started.
const maxPlausibleCentiseconds int64 = 47 * 365 * 24 * 60 * 60 * 100

// Split decomposes a millisecond count into whole seconds and a two-digit
// centisecond remainder, both as display strings: 7536 -> "7", "53".
func Split(ms int64) (seconds, centiseconds string) {
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%d", ms/1000), fmt.Sprintf("%02d", (ms%1000)/10)
}

// Centiseconds converts a duration to whole centiseconds using integer
// millisecond arithmetic, matching Split.
func Centiseconds(d time.Duration) int64 {
	ms := d.Milliseconds()
	return (ms/1000)*100 + (ms%1000)/10
}

// FormatCentiseconds renders a centisecond count the way results are shown
// to users: "7.53", or "1:15.23" from one minute upward.
func FormatCentiseconds(cs int64) string {
	if cs < 0 {
		cs = 0
	}
	secs := cs / 100
	frac := cs % 100
	if secs < 60 {
		return fmt.Sprintf("%d.%02d", secs, frac)
	}
	return fmt.Sprintf("%d:%02d.%02d", secs/60, secs%60, frac)
}

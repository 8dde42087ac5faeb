package observe

import (
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
)

// Notices holds the blocking error notice shown after a failed sync.
type Notices struct {
	message       string
	resubmittable bool
}

// NewNotices subscribes a Notices observer.
func NewNotices(sub bus.Subscriber) *Notices {
	n := &Notices{}
	sub.Subscribe(attempt.EventSyncFailed, func(payload any) {
		f := payload.(attempt.SyncFailure)
		n.message = f.Message
		n.resubmittable = f.Result.ScrambleID != ""
	})
	sub.Subscribe(attempt.EventContextRefreshed, func(any) { n.Dismiss() })
	return n
}

// Message returns the current notice, or "" when there is none.
func (n *Notices) Message() string { return n.message }

// Resubmittable reports whether the notice concerns an unsaved result.
func (n *Notices) Resubmittable() bool { return n.resubmittable }

// Dismiss clears the notice.
func (n *Notices) Dismiss() {
	n.message = ""
	n.resubmittable = false
}

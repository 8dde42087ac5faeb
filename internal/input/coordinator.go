// Package input normalizes the physical activation sources (keyboard and
// pointer) into one logical press/release pair, turns stray keys and
// navigation-back into aborts, and synthesizes key releases for terminals
// that never report them.
package input

import "github.com/rs/zerolog/log"

// Source identifies a physical activation source.
type Source int

const (
	SourceKey Source = iota
	SourceTouch
	sourceCount
)

func (s Source) String() string {
	switch s {
	case SourceKey:
		return "key"
	case SourceTouch:
		return "touch"
	default:
		return "unknown"
	}
}

// Target receives logical activation signals. *attempt.Clock satisfies it.
type Target interface {
	ActivatePress()
	ActivateRelease()
	Abort()
	Live() bool
}

// Coordinator tracks a held flag per source, always, and forwards a logical
// press when the first source goes down and a logical release when the last
// one comes up. Signals are only forwarded while enabled.
type Coordinator struct {
	activationKey string
	target        Target
	held          [sourceCount]bool
	enabled       bool
	active        bool
	cancelBound   bool
}

// NewCoordinator returns a disabled Coordinator. activationKey is the key
// name that never counts as an abort.
func NewCoordinator(activationKey string) *Coordinator {
	return &Coordinator{activationKey: activationKey}
}

// Bind sets the receiver of logical signals.
func (c *Coordinator) Bind(t Target) { c.target = t }

// ActivationKey returns the key name bound to activation.
func (c *Coordinator) ActivationKey() string { return c.activationKey }

// Enable starts forwarding activation signals.
func (c *Coordinator) Enable() {
	c.enabled = true
}

// Disable stops forwarding and forgets any logical press in progress.
// Physical held flags are kept.
func (c *Coordinator) Disable() {
	c.enabled = false
	c.active = false
}

// Enabled reports whether signals are being forwarded.
func (c *Coordinator) Enabled() bool { return c.enabled }

// ActivationHeld reports whether any source is physically down.
func (c *Coordinator) ActivationHeld() bool {
	for _, h := range c.held {
		if h {
			return true
		}
	}
	return false
}

// Press records src going down.
func (c *Coordinator) Press(src Source) {
	if c.held[src] {
		return
	}
	idle := !c.ActivationHeld()
	c.held[src] = true
	if !c.enabled || !idle || c.active || c.target == nil {
		return
	}
	c.active = true
	log.Debug().Stringer("source", src).Msg("activation press")
	c.target.ActivatePress()
}

// Release records src coming up.
func (c *Coordinator) Release(src Source) {
	if !c.held[src] {
		return
	}
	c.held[src] = false
	if !c.active || c.ActivationHeld() || c.target == nil {
		return
	}
	c.active = false
	log.Debug().Stringer("source", src).Msg("activation release")
	c.target.ActivateRelease()
}

// OtherKey handles a key that is not necessarily the activation key. Any key
// other than the activation key aborts a live attempt. It reports whether
// the key was consumed as an abort.
func (c *Coordinator) OtherKey(name string) bool {
	if name == c.activationKey || c.target == nil || !c.target.Live() {
		return false
	}
	log.Debug().Str("key", name).Msg("abort key")
	c.target.Abort()
	return true
}

// BindCancel hooks ch up as an abort source. Only the first call has an
// effect.
func (c *Coordinator) BindCancel(ch CancelChannel) {
	if c.cancelBound {
		return
	}
	c.cancelBound = true
	ch.Bind(func() bool {
		if c.target == nil || !c.target.Live() {
			return false
		}
		c.target.Abort()
		return true
	})
}

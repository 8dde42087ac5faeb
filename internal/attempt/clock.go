package attempt

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
)

// Inputs is the input layer as seen by the Clock.
type Inputs interface {
	// Enable starts delivering activation signals.
	Enable()
	// Disable stops delivering activation signals.
	Disable()
	// ActivationHeld reports whether any activation source is physically
	// down right now, enabled or not.
	ActivationHeld() bool
}

// PubSub is the bus surface the Clock needs.
type PubSub interface {
	bus.Publisher
	bus.Subscriber
}

// Session identifies the attempt to be recorded next.
type Session struct {
	ScrambleID string
	ContextID  string
}

// Penalties are the automatic penalties accrued during inspection.
type Penalties struct {
	AutoDNF     bool
	AutoPlusTwo bool
}

// Clock is the attempt state machine. It owns no goroutines: time only
// advances when the host calls Tick, and every method must be called from
// the host's single event loop.
type Clock struct {
	settings Settings
	bus      PubSub
	clock    clockwork.Clock
	inputs   Inputs
	canArm   func() bool

	state     State
	outcome   Outcome
	session   Session
	complete  bool
	countdown bool
	penalties Penalties

	inspectionStart time.Time
	lastRemaining   int
	runStart        time.Time

	graceUntil    time.Time
	enablePending bool
	nextPoll      time.Time

	lastResult *Result
}

// New creates a Clock and subscribes it to context-refreshed. Inputs stay
// disabled until the first snapshot arrives.
func New(settings Settings, b PubSub, clk clockwork.Clock, inputs Inputs) *Clock {
	c := &Clock{
		settings: settings,
		bus:      b,
		clock:    clk,
		inputs:   inputs,
	}
	b.Subscribe(EventContextRefreshed, c.onContextRefreshed)
	return c
}

// SetArmGuard installs a predicate consulted before arming. While it returns
// false, activation presses in Inactive are ignored.
func (c *Clock) SetArmGuard(fn func() bool) { c.canArm = fn }

// State returns the current state.
func (c *Clock) State() State { return c.state }

// Outcome returns how the last attempt ended.
func (c *Clock) Outcome() Outcome { return c.outcome }

// Session returns the identifiers of the attempt to be recorded next.
func (c *Clock) Session() Session { return c.session }

// Penalties returns the penalties accrued so far in the current attempt.
func (c *Clock) Penalties() Penalties { return c.penalties }

// UsesInspection reports whether the current session uses inspection.
func (c *Clock) UsesInspection() bool { return c.countdown }

// LastResult returns the most recent Result, if any.
func (c *Clock) LastResult() (Result, bool) {
	if c.lastResult == nil {
		return Result{}, false
	}
	return *c.lastResult, true
}

// Live reports whether an attempt is in progress.
func (c *Clock) Live() bool { return c.state.Live() }

// NeedsTicks reports whether the host should keep calling Tick.
func (c *Clock) NeedsTicks() bool { return c.state.Live() || c.enablePending }

// ActivatePress handles a logical activation press.
func (c *Clock) ActivatePress() {
	switch c.state {
	case StateInactive:
		if c.session.ScrambleID == "" || c.complete {
			return
		}
		if c.canArm != nil && !c.canArm() {
			return
		}
		c.transition(StateArmed)
		c.bus.Publish(EventArmed, nil)
	case StateInspecting:
		c.transition(StateInspectionArmed)
		c.bus.Publish(EventInspectionArmed, nil)
	case StateRunning:
		c.finalize(false)
	}
}

// ActivateRelease handles a logical activation release.
func (c *Clock) ActivateRelease() {
	switch c.state {
	case StateArmed:
		if c.countdown {
			c.startInspection()
			return
		}
		c.startRun()
	case StateInspectionArmed:
		c.sampleInspection(c.clock.Now())
		if c.state != StateInspectionArmed {
			return
		}
		c.startRun()
	}
}

// Abort cancels the attempt in progress. It is a no-op unless Live.
func (c *Clock) Abort() {
	if !c.state.Live() {
		return
	}
	c.finalize(true)
}

// Tick advances time-driven behaviour: deferred enables, the inspection
// countdown and the running readout.
func (c *Clock) Tick() {
	now := c.clock.Now()
	if c.enablePending && !now.Before(c.nextPoll) {
		c.enable(now)
	}
	switch c.state {
	case StateInspecting, StateInspectionArmed:
		c.sampleInspection(now)
	case StateRunning:
		sec, cs := Split(now.Sub(c.runStart).Milliseconds())
		c.bus.Publish(EventRunTick, RunTick{Seconds: sec, Centiseconds: cs})
	}
}

func (c *Clock) startInspection() {
	c.inspectionStart = c.clock.Now()
	c.lastRemaining = c.settings.inspectionSeconds()
	c.transition(StateInspecting)
	log.Debug().Str("context", c.session.ContextID).Msg("inspection started")
	c.bus.Publish(EventInspectionStarted, InspectionStarted{DurationSeconds: c.lastRemaining})
}

func (c *Clock) startRun() {
	c.inspectionStart = time.Time{}
	c.runStart = c.clock.Now()
	c.transition(StateRunning)
	log.Debug().Str("context", c.session.ContextID).Msg("run started")
	c.bus.Publish(EventRunStarted, nil)
}

// sampleInspection evaluates the countdown at now. The elapsed time is read
// in whole seconds rounded up: the readout drops from 1 to 0 as soon as the
// last second has begun, and the +2 window opens with it, one second before
// the configured duration has fully elapsed.
func (c *Clock) sampleInspection(now time.Time) {
	elapsed := now.Sub(c.inspectionStart)
	read := int((elapsed + time.Second - 1) / time.Second)
	if elapsed <= 0 {
		read = 0
	}
	remaining := c.settings.inspectionSeconds() - read

	if remaining <= -2 {
		c.penalties = Penalties{AutoDNF: true}
		log.Debug().Int("remaining", remaining).Msg("inspection overrun, DNF")
		c.finalize(false)
		return
	}
	if remaining <= 0 {
		c.penalties.AutoPlusTwo = true
	}
	if remaining != c.lastRemaining {
		c.lastRemaining = remaining
		c.bus.Publish(EventInspectionTick, InspectionTick{Remaining: remaining})
	}
}

// finalize ends the attempt. Inputs are disabled first so no activation can
// interleave with publication.
func (c *Clock) finalize(cancelled bool) {
	c.inputs.Disable()
	c.enablePending = false
	now := c.clock.Now()

	if cancelled {
		c.inspectionStart, c.runStart = time.Time{}, time.Time{}
		c.transition(StateDone)
		c.outcome = OutcomeCancelled
		log.Debug().Str("context", c.session.ContextID).Msg("attempt cancelled")
		c.bus.Publish(EventCancelled, nil)
		c.penalties = Penalties{}
		c.transition(StateInactive)
		c.enable(now)
		return
	}

	// A zero runStart means the run never began (inspection DNF); the
	// saturated duration is caught by the plausibility clamp.
	ms := now.Sub(c.runStart).Milliseconds()
	res := Result{
		ScrambleID:          c.session.ScrambleID,
		ContextID:           c.session.ContextID,
		IsDNF:               c.penalties.AutoDNF,
		IsPlusTwo:           c.penalties.AutoPlusTwo && !c.penalties.AutoDNF,
		ElapsedCentiseconds: (ms/1000)*100 + (ms%1000)/10,
	}
	if res.IsDNF && res.ElapsedCentiseconds > maxPlausibleCentiseconds {
		res.ElapsedCentiseconds = 1
		ms = 10
	}

	c.inspectionStart, c.runStart = time.Time{}, time.Time{}
	c.transition(StateDone)
	c.outcome = OutcomeCompleted
	c.graceUntil = now.Add(c.settings.GracePeriod)
	c.lastResult = &res

	log.Info().
		Str("context", res.ContextID).
		Str("scramble", res.ScrambleID).
		Int64("centiseconds", res.ElapsedCentiseconds).
		Bool("dnf", res.IsDNF).
		Bool("plus_two", res.IsPlusTwo).
		Msg("attempt completed")

	sec, cs := Split(ms)
	c.bus.Publish(EventStopped, Stopped{Seconds: sec, Centiseconds: cs, IsDNF: res.IsDNF})
	c.bus.Publish(EventCompleted, res)
}

// enable turns inputs on, or defers while the activation source is still
// held or the post-attempt grace period has not elapsed.
func (c *Clock) enable(now time.Time) {
	if now.Before(c.graceUntil) || c.inputs.ActivationHeld() {
		c.enablePending = true
		c.nextPoll = now.Add(c.settings.enablePoll())
		return
	}
	c.enablePending = false
	c.inputs.Enable()
}

func (c *Clock) onContextRefreshed(payload any) {
	snap, ok := payload.(Snapshot)
	if !ok {
		panic(fmt.Sprintf("attempt: context-refreshed payload %T", payload))
	}
	if c.state.Live() {
		log.Warn().Str("state", c.state.String()).Msg("context refreshed during live attempt, ignored")
		return
	}
	if c.state != StateInactive {
		c.transition(StateInactive)
	}
	c.outcome = OutcomeNone
	c.penalties = Penalties{}
	c.session = Session{ScrambleID: snap.NextScrambleID, ContextID: snap.ContextID}
	c.complete = snap.IsContextComplete
	c.countdown = c.settings.inspects(snap.ContextID)

	if c.complete || c.session.ScrambleID == "" {
		c.inputs.Disable()
		c.enablePending = false
		return
	}
	c.enable(c.clock.Now())
}

func (c *Clock) transition(next State) {
	if !c.state.CanTransitionTo(next) {
		panic(fmt.Sprintf("attempt: invalid transition %s -> %s", c.state, next))
	}
	c.state = next
}

// Package display projects timing events onto the timer readout.
package display

import (
	"strconv"

	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
)

// Phase is the visual phase of the readout.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseArmed
	PhaseInspecting
	PhaseRunning
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseArmed:
		return "armed"
	case PhaseInspecting:
		return "inspecting"
	case PhaseRunning:
		return "running"
	case PhaseStopped:
		return "stopped"
	default:
		return "idle"
	}
}

const (
	zeroText   = "0.00"
	hiddenText = "..."
)

// Readout is everything needed to draw the timer face.
type Readout struct {
	Text    string
	Phase   Phase
	Armed   bool
	Hidden  bool
	DNF     bool
	PlusTwo bool
}

// Options are the display preferences.
type Options struct {
	HideRunningTimer   bool
	HideInspectionTime bool
}

// Projector keeps the current Readout up to date from bus events. It holds
// nothing about the attempt beyond what the readout shows.
type Projector struct {
	opts    Options
	readout Readout
	subs    []bus.Subscription
}

// NewProjector subscribes a Projector to the timing events.
func NewProjector(sub bus.Subscriber, opts Options) *Projector {
	p := &Projector{opts: opts, readout: idle()}
	handlers := map[bus.Name]bus.Handler{
		attempt.EventArmed:             p.onArmed,
		attempt.EventInspectionStarted: p.onInspectionStarted,
		attempt.EventInspectionArmed:   p.onInspectionArmed,
		attempt.EventInspectionTick:    p.onInspectionTick,
		attempt.EventRunStarted:        p.onRunStarted,
		attempt.EventRunTick:           p.onRunTick,
		attempt.EventStopped:           p.onStopped,
		attempt.EventCancelled:         p.onCancelled,
	}
	for _, name := range attempt.TimingEvents {
		if h, ok := handlers[name]; ok {
			p.subs = append(p.subs, sub.Subscribe(name, h))
		}
	}
	return p
}

// Subscriptions returns the handles registered by NewProjector.
func (p *Projector) Subscriptions() []bus.Subscription { return p.subs }

// Readout returns the current readout.
func (p *Projector) Readout() Readout { return p.readout }

func idle() Readout { return Readout{Text: zeroText, Phase: PhaseIdle} }

func (p *Projector) onArmed(any) {
	p.readout = Readout{Text: zeroText, Phase: PhaseArmed, Armed: true}
}

func (p *Projector) onInspectionStarted(payload any) {
	ev := payload.(attempt.InspectionStarted)
	p.readout = Readout{Phase: PhaseInspecting}
	p.setRemaining(ev.DurationSeconds)
}

func (p *Projector) onInspectionArmed(any) {
	p.readout.Armed = true
}

func (p *Projector) onInspectionTick(payload any) {
	ev := payload.(attempt.InspectionTick)
	p.setRemaining(ev.Remaining)
}

func (p *Projector) setRemaining(remaining int) {
	if remaining <= 0 {
		p.readout.PlusTwo = true
	}
	if p.opts.HideInspectionTime {
		p.readout.Text, p.readout.Hidden = hiddenText, true
		return
	}
	p.readout.Hidden = false
	if remaining <= 0 {
		p.readout.Text = "+2"
		return
	}
	p.readout.Text = strconv.Itoa(remaining)
}

func (p *Projector) onRunStarted(any) {
	p.readout = Readout{Text: zeroText, Phase: PhaseRunning, PlusTwo: p.readout.PlusTwo}
	if p.opts.HideRunningTimer {
		p.readout.Text, p.readout.Hidden = hiddenText, true
	}
}

func (p *Projector) onRunTick(payload any) {
	if p.opts.HideRunningTimer {
		return
	}
	ev := payload.(attempt.RunTick)
	p.readout.Text = Elapsed(ev.Seconds, ev.Centiseconds)
}

func (p *Projector) onStopped(payload any) {
	ev := payload.(attempt.Stopped)
	p.readout.Phase = PhaseStopped
	p.readout.Armed = false
	p.readout.Hidden = false
	p.readout.DNF = ev.IsDNF
	if ev.IsDNF {
		p.readout.Text = "DNF"
		p.readout.PlusTwo = false
		return
	}
	p.readout.Text = Elapsed(ev.Seconds, ev.Centiseconds)
	if p.readout.PlusTwo {
		p.readout.Text += "+"
	}
}

func (p *Projector) onCancelled(any) {
	p.readout = idle()
}

// Elapsed joins a seconds/centiseconds pair for display, switching to
// m:ss.cc from one minute upward.
func Elapsed(seconds, centiseconds string) string {
	secs, err := strconv.Atoi(seconds)
	if err != nil || secs < 60 {
		return seconds + "." + centiseconds
	}
	m, s := secs/60, secs%60
	pad := ""
	if s < 10 {
		pad = "0"
	}
	return strconv.Itoa(m) + ":" + pad + strconv.Itoa(s) + "." + centiseconds
}

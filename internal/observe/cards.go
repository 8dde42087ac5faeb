package observe

import (
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/attempt"
	"github.com/LISSConsulting/LISSTech.CubeTimer/internal/bus"
)

// Card is one attempt slot of the current context.
type Card struct {
	Index       int
	Text        string
	AttemptID   string
	Scramble    string
	DNF         bool
	PlusTwo     bool
	Recorded    bool
	Highlighted bool
	Active      bool
}

// Cards maintains the attempt cards for the current context. Card content
// comes only from context-refreshed payloads.
type Cards struct {
	slots       int
	prior       []attempt.PriorAttempt
	highlighted int
	complete    bool
}

// NewCards subscribes a Cards observer. slots is the number of attempts a
// context holds; zero means as many as have been recorded plus one.
func NewCards(sub bus.Subscriber, slots int) *Cards {
	c := &Cards{slots: slots, highlighted: -1}
	sub.Subscribe(attempt.EventContextRefreshed, c.onRefreshed)
	sub.Subscribe(attempt.EventArmed, func(any) { c.highlighted = -1 })
	return c
}

// SetSlots changes the number of slots shown, for a newly selected context.
func (c *Cards) SetSlots(n int) { c.slots = n }

// Highlighted returns the index of the highlighted card, or -1.
func (c *Cards) Highlighted() int { return c.highlighted }

// Active returns the index of the slot the next attempt fills, or -1 when
// the context is complete.
func (c *Cards) Active() int {
	if c.complete {
		return -1
	}
	if c.slots > 0 && len(c.prior) >= c.slots {
		return -1
	}
	return len(c.prior)
}

// Cards returns every slot in order.
func (c *Cards) Cards() []Card {
	n := c.slots
	if n <= 0 {
		n = len(c.prior) + 1
	}
	if n < len(c.prior) {
		n = len(c.prior)
	}
	active := c.Active()
	out := make([]Card, n)
	for i := range out {
		card := Card{Index: i, Highlighted: i == c.highlighted, Active: i == active}
		if i < len(c.prior) {
			p := c.prior[i]
			card.Text = p.DisplayText
			card.AttemptID = p.AttemptID
			card.Scramble = p.ScrambleText
			card.DNF = p.IsDNF
			card.PlusTwo = p.IsPlusTwo
			card.Recorded = true
		}
		out[i] = card
	}
	return out
}

func (c *Cards) onRefreshed(payload any) {
	snap := payload.(attempt.Snapshot)
	grew := len(snap.PriorAttempts) > len(c.prior)
	c.prior = snap.PriorAttempts
	c.complete = snap.IsContextComplete
	c.highlighted = -1
	if grew {
		c.highlighted = len(c.prior) - 1
	}
}

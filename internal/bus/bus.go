// Package bus is the in-process publish/subscribe primitive every timer
// component talks through. Delivery is synchronous: Publish returns only after
// every handler registered for the name has run, in registration order.
package bus

import "sync"

// Name identifies an event.
type Name string

// Handler receives the payload passed to Publish, unchanged.
type Handler func(payload any)

// Publisher is the publishing half of a Bus.
type Publisher interface {
	Publish(name Name, payload any)
}

// Subscriber is the subscribing half of a Bus.
type Subscriber interface {
	Subscribe(name Name, h Handler) Subscription
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	name Name
	id   uint64
}

// Name returns the event name the subscription listens on.
func (s Subscription) Name() Name { return s.name }

type entry struct {
	id uint64
	h  Handler
}

// Bus is a synchronous, ordered event bus. Handler panics are not recovered;
// they propagate to whoever called Publish.
type Bus struct {
	mu     sync.Mutex
	subs   map[Name][]entry
	nextID uint64
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[Name][]entry)}
}

// Subscribe registers h for name. Handlers for the same name are invoked in
// the order they were subscribed.
func (b *Bus) Subscribe(name Name, h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs[name] = append(b.subs[name], entry{id: b.nextID, h: h})
	return Subscription{name: name, id: b.nextID}
}

// Unsubscribe removes a single subscription. Unknown handles are ignored.
func (b *Bus) Unsubscribe(s Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[s.name]
	for i, e := range list {
		if e.id == s.id {
			b.subs[s.name] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

// UnsubscribeAll drops every handler registered for name.
func (b *Bus) UnsubscribeAll(name Name) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, name)
}

// Subscribers reports how many handlers are registered for name.
func (b *Bus) Subscribers(name Name) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[name])
}

// Publish invokes every handler registered for name with payload. The
// handler list is snapshotted first, so a handler that subscribes during
// delivery is only called on the next Publish.
func (b *Bus) Publish(name Name, payload any) {
	b.mu.Lock()
	list := make([]entry, len(b.subs[name]))
	copy(list, b.subs[name])
	b.mu.Unlock()

	for _, e := range list {
		e.h(payload)
	}
}

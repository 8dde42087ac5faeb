package input

// CancelChannel is a host-level cancellation source. The bound handler
// returns true when it consumed the cancellation.
type CancelChannel interface {
	Bind(handler func() bool)
}

// History is a page stack with a no-op guard entry on top. Going back
// while the handler consumes the event re-arms the guard so cancellation
// keeps working; otherwise real navigation happens.
type History struct {
	pages    []string
	guarded  bool
	handler  func() bool
	navigate func(to string)
}

// NewHistory returns a History positioned at root with the guard pushed.
// navigate is called with the destination when back performs real
// navigation.
func NewHistory(root string, navigate func(to string)) *History {
	return &History{pages: []string{root}, guarded: true, navigate: navigate}
}

// Bind implements CancelChannel.
func (h *History) Bind(handler func() bool) { h.handler = handler }

// Push navigates forward to page and guards it.
func (h *History) Push(page string) {
	h.pages = append(h.pages, page)
	h.guarded = true
}

// Current returns the page being shown.
func (h *History) Current() string { return h.pages[len(h.pages)-1] }

// Depth returns the number of pages on the stack.
func (h *History) Depth() int { return len(h.pages) }

// Guarded reports whether the guard entry is in place.
func (h *History) Guarded() bool { return h.guarded }

// Back handles one back-navigation and reports whether a page was left.
func (h *History) Back() bool {
	if h.guarded {
		h.guarded = false
		if h.handler != nil && h.handler() {
			h.guarded = true
			return false
		}
	}
	defer func() { h.guarded = true }()
	if len(h.pages) <= 1 {
		return false
	}
	h.pages = h.pages[:len(h.pages)-1]
	if h.navigate != nil {
		h.navigate(h.Current())
	}
	return true
}

// KeyBinding is a CancelChannel driven by a single dedicated key.
type KeyBinding struct {
	key     string
	handler func() bool
}

// NewKeyBinding returns a KeyBinding listening for key.
func NewKeyBinding(key string) *KeyBinding { return &KeyBinding{key: key} }

// Bind implements CancelChannel.
func (k *KeyBinding) Bind(handler func() bool) { k.handler = handler }

// Key returns the bound key name.
func (k *KeyBinding) Key() string { return k.key }

// Handle offers a key to the binding and reports whether it was consumed.
func (k *KeyBinding) Handle(name string) bool {
	if name != k.key || k.handler == nil {
		return false
	}
	return k.handler()
}

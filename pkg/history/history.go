// Package history is an in-memory session history with the semantics of a
// browser's: push truncates forward entries, replace rewrites the current
// entry, and moving back or forward fires pop listeners.
package history

// PopListener is called with the newly current address after Back, Forward or Go.
type PopListener func(address string)

// History is not safe for concurrent use.
type History struct {
	entries   []string
	index     int
	listeners []PopListener
}

// New starts a history whose only entry is initial.
func New(initial string) *History {
	return &History{entries: []string{initial}}
}

// Current returns the current address.
func (h *History) Current() string {
	return h.entries[h.index]
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Index returns the position of the current entry.
func (h *History) Index() int {
	return h.index
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Push appends address after the current entry, dropping any forward entries.
// Pushing the current address again is a no-op.
func (h *History) Push(address string) {
	if address == h.Current() {
		return
	}
	h.entries = append(h.entries[:h.index+1], address)
	h.index++
}

// Replace rewrites the current entry.
func (h *History) Replace(address string) {
	h.entries[h.index] = address
}

// ReplaceCollapsing rewrites the current entry like Replace. If the previous
// entry already holds address, the current entry is removed instead, so that
// Back never lands on an identical address. Forward entries are kept.
func (h *History) ReplaceCollapsing(address string) {
	if h.index > 0 && h.entries[h.index-1] == address {
		h.entries = append(h.entries[:h.index], h.entries[h.index+1:]...)
		h.index--
		return
	}
	h.Replace(address)
}

// CanGoBack reports whether there is an earlier entry.
func (h *History) CanGoBack() bool {
	return h.index > 0
}

// CanGoForward reports whether there is a later entry.
func (h *History) CanGoForward() bool {
	return h.index < len(h.entries)-1
}

// Back moves one entry back. It reports false at the start of history.
func (h *History) Back() bool {
	return h.Go(-1)
}

// Forward moves one entry forward. It reports false at the end of history.
func (h *History) Forward() bool {
	return h.Go(1)
}

// Go moves delta entries and fires pop listeners. Out-of-range moves do nothing.
func (h *History) Go(delta int) bool {
	next := h.index + delta
	if delta == 0 || next < 0 || next >= len(h.entries) {
		return false
	}
	h.index = next
	addr := h.Current()
	for _, fn := range h.listeners {
		fn(addr)
	}
	return true
}

// OnPop registers a listener for Back, Forward and Go.
func (h *History) OnPop(fn PopListener) {
	h.listeners = append(h.listeners, fn)
}

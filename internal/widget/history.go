package widget

import "sync"

// History is the append-only conversation store. Messages are never
// reordered or deleted once appended; Clear resets the whole session.
type History struct {
	mu       sync.RWMutex
	messages []Message
	revision uint64
}

// NewHistory creates an empty conversation store.
func NewHistory() *History {
	return &History{messages: make([]Message, 0, 16)}
}

// Append adds a message to the end of the conversation. The timestamp is
// stamped here, at append time. Returns the stored message.
func (h *History) Append(m Message) Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m.Timestamp == "" {
		m.Timestamp = stampNow()
	}
	h.messages = append(h.messages, m)
	h.revision++
	return m
}

// Messages returns a copy of the conversation in insertion order.
func (h *History) Messages() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	copied := make([]Message, len(h.messages))
	copy(copied, h.messages)
	return copied
}

// Len returns the number of messages exchanged so far.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// Empty reports whether the conversation has started. The empty state is
// a distinct condition: it drives the quick-start suggestions view and
// gates the widget's idle auto-close.
func (h *History) Empty() bool {
	return h.Len() == 0
}

// Last returns the most recent message, if any.
func (h *History) Last() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1], true
}

// Revision increases by one on every append, letting a consumer detect
// that the last message changed without diffing the whole list.
func (h *History) Revision() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.revision
}

// Clear discards the conversation. Only a full session reset uses this.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = h.messages[:0]
	h.revision++
}

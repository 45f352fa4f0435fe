package chat

import (
	"sync"

	"github.com/xonecas/tilawa/internal/constants"
)

// History is an ordered, bounded log of recent messages.
// Appending past the limit evicts the oldest entries first.
type History struct {
	mu       sync.RWMutex
	limit    int
	messages []Message
}

// NewHistory creates a history retaining at most limit messages.
// A non-positive limit falls back to the default.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}
	return &History{
		limit:    limit,
		messages: make([]Message, 0, limit),
	}
}

// Append adds a message to the end and returns any evicted messages.
func (h *History) Append(m Message) []Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = append(h.messages, m.clone())
	if len(h.messages) <= h.limit {
		return nil
	}

	over := len(h.messages) - h.limit
	evicted := make([]Message, over)
	copy(evicted, h.messages[:over])

	// Shift in place so the backing array doesn't grow unbounded
	n := copy(h.messages, h.messages[over:])
	h.messages = h.messages[:n]
	return evicted
}

// Messages returns a copy of the retained messages in arrival order.
func (h *History) Messages() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Message, len(h.messages))
	for i, m := range h.messages {
		out[i] = m.clone()
	}
	return out
}

// Last returns the most recent message.
func (h *History) Last() (Message, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.messages) == 0 {
		return Message{}, false
	}
	return h.messages[len(h.messages)-1].clone(), true
}

// Len returns the number of retained messages.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// Limit returns the retention bound.
func (h *History) Limit() int {
	return h.limit
}

// Clear drops all messages.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = h.messages[:0]
}

package chat

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/xonecas/tilawa/internal/constants"
)

// EventBus distributes controller events to subscribers, usually the TUI.
// Publishing never blocks the controller: a full subscriber loses the event,
// which is counted and logged.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan Event
	bufferSize  int
	closed      bool
	dropped     atomic.Uint64
}

// NewEventBus creates a new event bus.
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize < constants.MinEventBusBufferSize {
		bufferSize = constants.MinEventBusBufferSize
	}
	return &EventBus{
		bufferSize: bufferSize,
	}
}

// Subscribe returns a channel that receives events.
// The caller is responsible for reading from the channel to avoid blocking.
func (b *EventBus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Unsubscribe removes a subscriber channel.
func (b *EventBus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subscribers {
		if sub == ch {
			close(sub)
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers. Publishing on a closed bus is
// a no-op.
func (b *EventBus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.drop(event)
		}
	}
}

// Dropped returns how many deliveries were lost to full subscribers.
func (b *EventBus) Dropped() uint64 {
	return b.dropped.Load()
}

func (b *EventBus) drop(event Event) {
	n := b.dropped.Add(1)
	// A lost message leaves a gap in the transcript.
	if event.Type == EventMessageAppended {
		ev := log.Warn().Uint64("dropped", n).Str("event", string(event.Type))
		if data, ok := event.Data.(MessageData); ok {
			ev = ev.Str("message_id", data.Message.ID).Str("sender", string(data.Message.Sender))
		}
		ev.Msg("Event bus full, message not delivered")
		return
	}
	log.Debug().Uint64("dropped", n).Str("event", string(event.Type)).Msg("Event bus full, event dropped")
}

// Close closes all subscriber channels.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
	b.closed = true
}

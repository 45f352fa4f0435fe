// Package chat provides the conversation core: the bounded message store,
// the interaction controller and the event bus that feeds the terminal UI.
package chat

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Kind classifies a message for styling.
type Kind string

const (
	KindNormal Kind = "normal"
	KindFact   Kind = "fact"
	KindError  Kind = "error"
)

// State is the interaction state of a session.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
)

// Message is a single chat message. Messages are treated as immutable once
// created; the store hands out copies.
type Message struct {
	ID          string
	Text        string
	Sender      Sender
	Kind        Kind
	Suggestions []string
	// ReplyTo is the ID of the user message a bot message answers.
	ReplyTo   string
	CreatedAt time.Time
}

// NewMessage creates a message with a fresh ID.
func NewMessage(sender Sender, kind Kind, text string) Message {
	return Message{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    sender,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
}

func (m Message) clone() Message {
	if m.Suggestions != nil {
		m.Suggestions = append([]string(nil), m.Suggestions...)
	}
	return m
}

// Placeholder is the transient indicator shown while awaiting a reply.
type Placeholder string

const (
	PlaceholderNone     Placeholder = ""
	PlaceholderThinking Placeholder = "thinking"
	PlaceholderTyping   Placeholder = "typing"
)

// EventType identifies the type of event.
type EventType string

const (
	EventMessageAppended     EventType = "message_appended"
	EventStateChanged        EventType = "state_changed"
	EventPlaceholderChanged  EventType = "placeholder_changed"
	EventConversationEnded   EventType = "conversation_ended"
	EventConversationRestart EventType = "conversation_restart"
)

// Event represents something that happened in the session.
type Event struct {
	Type      EventType
	Data      interface{}
	Timestamp time.Time
}

// MessageData contains data for message events.
type MessageData struct {
	Message Message
}

// StateChangeData contains data for state change events.
type StateChangeData struct {
	OldState State
	NewState State
}

// PlaceholderData contains data for placeholder events.
type PlaceholderData struct {
	Placeholder Placeholder
}

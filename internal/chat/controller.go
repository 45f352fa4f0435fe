package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xonecas/tilawa/internal/constants"
)

var (
	// ErrEmptyInput is returned when a submission has no text.
	ErrEmptyInput = errors.New("empty input")
	// ErrBusy is returned when a submission arrives while another is in flight.
	ErrBusy = errors.New("question already in flight")
	// ErrConversationEnded is returned after the backend signaled farewell.
	ErrConversationEnded = errors.New("conversation ended")
	// ErrEmptyReply is logged when an answerer returns no answer text.
	ErrEmptyReply = errors.New("empty reply")
	// ErrAskerPanic wraps a panic raised inside an Asker.
	ErrAskerPanic = errors.New("asker panicked")
)

// Reply is an answer produced by an Asker.
type Reply struct {
	Answer      string
	Fact        string
	Suggestions []string
	Farewell    bool
}

// Asker answers a single question. recent holds the retained history
// before the question was asked, oldest first.
type Asker interface {
	Ask(ctx context.Context, question string, recent []Message) (Reply, error)
}

// Options configures a Controller.
type Options struct {
	HistoryLimit int
	TypingDelay  time.Duration
	ErrorText    string
}

// Controller owns the request lifecycle of a chat session.
// At most one question is in flight at a time.
type Controller struct {
	asker       Asker
	bus         *EventBus
	history     *History
	typingDelay time.Duration
	errorText   string

	mu       sync.Mutex
	state    State
	farewell bool
	seq      uint64
	inflight uint64 // seq of the submission awaiting a reply, 0 if none
}

// NewController creates a controller publishing to bus.
func NewController(asker Asker, bus *EventBus, opts Options) *Controller {
	if opts.TypingDelay <= 0 {
		opts.TypingDelay = constants.DefaultTypingDelay
	}
	if opts.ErrorText == "" {
		opts.ErrorText = constants.ErrorReply
	}
	return &Controller{
		asker:       asker,
		bus:         bus,
		history:     NewHistory(opts.HistoryLimit),
		typingDelay: opts.TypingDelay,
		errorText:   opts.ErrorText,
		state:       StateIdle,
	}
}

// Submit sends a question and blocks until the reply (or the error message
// replacing it) has been appended. Network and decoding failures are not
// returned; they become a single error message in the conversation.
func (c *Controller) Submit(ctx context.Context, text string) error {
	question := strings.TrimSpace(text)
	if question == "" {
		return ErrEmptyInput
	}

	c.mu.Lock()
	if c.farewell {
		c.mu.Unlock()
		return ErrConversationEnded
	}
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = StateSubmitting
	c.seq++
	seq := c.seq
	c.inflight = seq
	c.mu.Unlock()

	recent := c.history.Messages()
	userMsg := NewMessage(SenderUser, KindNormal, question)
	c.appendMessage(userMsg)
	c.publish(EventStateChanged, StateChangeData{OldState: StateIdle, NewState: StateSubmitting})
	c.setPlaceholder(seq, PlaceholderThinking)

	timer := time.AfterFunc(c.typingDelay, func() {
		c.setPlaceholder(seq, PlaceholderTyping)
	})

	start := time.Now()
	reply, err := c.ask(ctx, question, recent)
	timer.Stop()
	if err == nil && strings.TrimSpace(reply.Answer) == "" {
		err = ErrEmptyReply
	}

	c.mu.Lock()
	c.inflight = 0
	c.bus.Publish(Event{Type: EventPlaceholderChanged, Data: PlaceholderData{Placeholder: PlaceholderNone}, Timestamp: time.Now()})
	c.mu.Unlock()

	if err != nil {
		log.Warn().
			Err(err).
			Dur("elapsed", time.Since(start)).
			Msg("question failed")
		errMsg := NewMessage(SenderBot, KindError, c.errorText)
		errMsg.ReplyTo = userMsg.ID
		c.appendMessage(errMsg)
	} else {
		log.Debug().
			Dur("elapsed", time.Since(start)).
			Bool("farewell", reply.Farewell).
			Int("suggestions", len(reply.Suggestions)).
			Msg("question answered")

		answer := NewMessage(SenderBot, KindNormal, strings.TrimSpace(reply.Answer))
		answer.ReplyTo = userMsg.ID
		answer.Suggestions = cleanSuggestions(reply.Suggestions)
		c.appendMessage(answer)

		if fact := strings.TrimSpace(reply.Fact); fact != "" {
			factMsg := NewMessage(SenderBot, KindFact, fact)
			factMsg.ReplyTo = userMsg.ID
			c.appendMessage(factMsg)
		}
	}

	c.mu.Lock()
	c.state = StateIdle
	ended := err == nil && reply.Farewell
	if ended {
		c.farewell = true
	}
	c.mu.Unlock()

	if ended {
		c.publish(EventConversationEnded, nil)
	}
	c.publish(EventStateChanged, StateChangeData{OldState: StateSubmitting, NewState: StateIdle})

	return nil
}

// ask calls the asker, turning a panic into an error so the session
// returns to Idle.
func (c *Controller) ask(ctx context.Context, question string, recent []Message) (reply Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			reply = Reply{}
			err = fmt.Errorf("%w: %v", ErrAskerPanic, r)
		}
	}()
	return c.asker.Ask(ctx, question, recent)
}

// Greet appends a bot message that is not a reply to anything.
func (c *Controller) Greet(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	c.appendMessage(NewMessage(SenderBot, KindNormal, text))
}

// Restart clears the conversation and lifts a farewell.
func (c *Controller) Restart() error {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return ErrBusy
	}
	c.farewell = false
	c.history.Clear()
	c.mu.Unlock()

	log.Info().Msg("conversation restarted")
	c.publish(EventConversationRestart, nil)
	return nil
}

// State returns the current interaction state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Ended reports whether the backend ended the conversation.
func (c *Controller) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.farewell
}

// History returns the controller's message store.
func (c *Controller) History() *History {
	return c.history
}

func (c *Controller) appendMessage(m Message) {
	c.history.Append(m)
	c.publish(EventMessageAppended, MessageData{Message: m.clone()})
}

// setPlaceholder publishes a placeholder change if seq is still in flight.
func (c *Controller) setPlaceholder(seq uint64, p Placeholder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight != seq {
		return
	}
	c.bus.Publish(Event{Type: EventPlaceholderChanged, Data: PlaceholderData{Placeholder: p}, Timestamp: time.Now()})
}

func (c *Controller) publish(t EventType, data interface{}) {
	c.bus.Publish(Event{Type: t, Data: data, Timestamp: time.Now()})
}

func cleanSuggestions(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == constants.MaxSuggestions {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rivo/uniseg"
)

// revealTickMsg advances the reveal with the matching generation.
type revealTickMsg struct {
	gen uint64
}

// Reveal shows a bot message one grapheme cluster at a time. Every Start
// bumps the generation so ticks scheduled for an earlier reveal are ignored.
type Reveal struct {
	delay     time.Duration
	gen       uint64
	active    bool
	messageID string
	replyTo   string
	clusters  []string
	shown     int
}

// NewReveal creates a reveal stepping every delay.
func NewReveal(delay time.Duration) Reveal {
	if delay <= 0 {
		delay = time.Millisecond
	}
	return Reveal{delay: delay}
}

// Start begins revealing text and returns the first tick.
func (r *Reveal) Start(messageID, replyTo, text string) tea.Cmd {
	r.gen++
	r.active = true
	r.messageID = messageID
	r.replyTo = replyTo
	r.clusters = graphemes(text)
	r.shown = 0
	return r.tick()
}

// Step advances one cluster if msg belongs to the current reveal. It reports
// whether msg was accepted and returns the next tick while text remains.
func (r *Reveal) Step(msg revealTickMsg) (bool, tea.Cmd) {
	if !r.active || msg.gen != r.gen {
		return false, nil
	}
	if r.shown < len(r.clusters) {
		r.shown++
	}
	if r.shown >= len(r.clusters) {
		return true, nil
	}
	return true, r.tick()
}

// Done reports whether every cluster of the current reveal is shown.
func (r Reveal) Done() bool {
	return r.shown >= len(r.clusters)
}

// Cancel stops the reveal. Outstanding ticks become stale.
func (r *Reveal) Cancel() {
	r.gen++
	r.active = false
	r.messageID = ""
	r.replyTo = ""
	r.clusters = nil
	r.shown = 0
}

// Active reports whether a reveal is running.
func (r Reveal) Active() bool {
	return r.active
}

// MessageID returns the message being revealed.
func (r Reveal) MessageID() string {
	return r.messageID
}

// ReplyTo returns the exchange the revealed message belongs to.
func (r Reveal) ReplyTo() string {
	return r.replyTo
}

// Generation returns the current generation.
func (r Reveal) Generation() uint64 {
	return r.gen
}

// Visible returns the revealed prefix.
func (r Reveal) Visible() string {
	var b strings.Builder
	for _, c := range r.clusters[:r.shown] {
		b.WriteString(c)
	}
	return b.String()
}

func (r Reveal) tick() tea.Cmd {
	gen := r.gen
	return tea.Tick(r.delay, func(time.Time) tea.Msg {
		return revealTickMsg{gen: gen}
	})
}

// graphemes splits text into user-perceived characters so combining marks
// and ligatures are never shown half-drawn.
func graphemes(text string) []string {
	var out []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

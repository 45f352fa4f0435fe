package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xonecas/tilawa/internal/chat"
)

const maxTranscriptEntries = 500

// entry is a rendered message. text is what is currently visible, which
// trails msg.Text while the message is being revealed.
type entry struct {
	msg       chat.Message
	text      string
	revealing bool
}

// Transcript is the ordered list of entries shown in the viewport.
type Transcript struct {
	entries []entry
	latest  string // ID of the newest fully revealed bot answer
}

// Add appends a message. When revealing is set its text starts empty.
func (t *Transcript) Add(msg chat.Message, revealing bool) {
	e := entry{msg: msg, text: msg.Text, revealing: revealing}
	if revealing {
		e.text = ""
	}
	t.entries = append(t.entries, e)
	if len(t.entries) > maxTranscriptEntries {
		t.entries = t.entries[len(t.entries)-maxTranscriptEntries:]
	}
	if !revealing {
		t.markLatest(msg)
	}
}

// SetVisible updates the visible text of a revealing entry.
func (t *Transcript) SetVisible(id, text string) {
	if i := t.index(id); i >= 0 {
		t.entries[i].text = text
	}
}

// Finish shows the full text of id and ends its reveal.
func (t *Transcript) Finish(id string) {
	i := t.index(id)
	if i < 0 {
		return
	}
	t.entries[i].text = t.entries[i].msg.Text
	t.entries[i].revealing = false
	t.markLatest(t.entries[i].msg)
}

// Clear removes every entry.
func (t *Transcript) Clear() {
	t.entries = nil
	t.latest = ""
}

// Len returns the number of entries.
func (t Transcript) Len() int {
	return len(t.entries)
}

// Messages returns the messages in display order.
func (t Transcript) Messages() []chat.Message {
	out := make([]chat.Message, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.msg
	}
	return out
}

// Latest returns the newest fully revealed bot answer.
func (t Transcript) Latest() (chat.Message, bool) {
	if i := t.index(t.latest); i >= 0 {
		return t.entries[i].msg, true
	}
	return chat.Message{}, false
}

func (t *Transcript) markLatest(msg chat.Message) {
	if msg.Sender == chat.SenderBot && msg.Kind == chat.KindNormal {
		t.latest = msg.ID
	}
}

func (t Transcript) index(id string) int {
	if id == "" {
		return -1
	}
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].msg.ID == id {
			return i
		}
	}
	return -1
}

// Render lays the entries out at width and returns the content with the
// first line of each message, keyed by message ID.
func (t Transcript) Render(width int) (string, map[string]int) {
	offsets := make(map[string]int, len(t.entries))
	var lines []string

	for i, e := range t.entries {
		if i > 0 {
			lines = append(lines, "")
		}
		offsets[e.msg.ID] = len(lines)
		lines = append(lines, renderEntry(e, e.msg.ID == t.latest, width)...)
	}
	return strings.Join(lines, "\n"), offsets
}

func renderEntry(e entry, latest bool, width int) []string {
	labelStyle, bodyStyle := MessageStyles(e.msg)

	header := labelStyle.Render(messageLabel(e.msg)) + " " +
		dimmedStyle.Render(e.msg.CreatedAt.Local().Format("15:04"))
	if latest {
		header += " " + latestMarkerStyle.Render("★")
	}

	const indent = "  "
	contentWidth := width - lipgloss.Width(indent)
	if contentWidth < 10 {
		contentWidth = 10
	}

	text := e.text
	if e.revealing {
		text += "▌"
	}

	lines := []string{header}
	for _, line := range wrapText(text, contentWidth) {
		lines = append(lines, indent+bodyStyle.Render(line))
	}
	return lines
}

package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xonecas/tilawa/internal/constants"
)

// shakeDoneMsg ends the shake with the matching generation.
type shakeDoneMsg struct {
	gen uint64
}

// InputModel is the question box with recall history.
type InputModel struct {
	textInput    textinput.Model
	history      []string // Previous questions, oldest first
	historyIndex int      // Current position in history (-1 = not browsing)
	draft        string   // Saved draft when browsing history
	disabled     bool

	shaking  bool
	shakeGen uint64
}

// NewInputModel creates a focused input seeded with history.
func NewInputModel(history []string) InputModel {
	ti := textinput.New()
	ti.Placeholder = "اپنا سوال یہاں لکھیں..."
	ti.Prompt = inputPromptStyle.Render("❯ ")
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	m := InputModel{
		textInput:    ti,
		history:      make([]string, 0, constants.MaxInputHistory),
		historyIndex: -1,
	}
	for _, h := range history {
		m.AddToHistory(h)
	}
	return m
}

// History key bindings
var historyKeys = struct {
	Up   key.Binding
	Down key.Binding
}{
	Up:   key.NewBinding(key.WithKeys("up")),
	Down: key.NewBinding(key.WithKeys("down")),
}

// Update handles input updates.
func (m InputModel) Update(msg tea.Msg) (InputModel, tea.Cmd) {
	if m.disabled {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, historyKeys.Up):
			m.navigateHistory(1)
			return m, nil
		case key.Matches(keyMsg, historyKeys.Down):
			m.navigateHistory(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// navigateHistory moves through the history.
// direction: 1 = older (up), -1 = newer (down)
func (m *InputModel) navigateHistory(direction int) {
	if len(m.history) == 0 {
		return
	}

	// Save current input as draft when starting to browse
	if m.historyIndex == -1 && direction == 1 {
		m.draft = m.textInput.Value()
	}

	newIndex := m.historyIndex + direction
	if newIndex < -1 {
		newIndex = -1
	}
	if newIndex >= len(m.history) {
		newIndex = len(m.history) - 1
	}
	m.historyIndex = newIndex

	if m.historyIndex == -1 {
		m.textInput.SetValue(m.draft)
	} else {
		m.textInput.SetValue(m.history[len(m.history)-1-m.historyIndex])
	}
	m.textInput.CursorEnd()
}

// Value returns the current input value.
func (m InputModel) Value() string {
	return m.textInput.Value()
}

// SetValue replaces the input text.
func (m *InputModel) SetValue(s string) {
	m.textInput.SetValue(s)
	m.textInput.CursorEnd()
}

// Reset clears the input after a submission.
func (m *InputModel) Reset() {
	m.textInput.Reset()
	m.historyIndex = -1
	m.draft = ""
}

// AddToHistory records a submitted question.
func (m *InputModel) AddToHistory(question string) {
	if question == "" {
		return
	}

	// Avoid duplicate consecutive entries
	if len(m.history) > 0 && m.history[len(m.history)-1] == question {
		return
	}

	m.history = append(m.history, question)
	if len(m.history) > constants.MaxInputHistory {
		m.history = m.history[len(m.history)-constants.MaxInputHistory:]
	}
}

// SetDisabled blocks typing once the conversation has ended.
func (m *InputModel) SetDisabled(disabled bool) {
	m.disabled = disabled
	if disabled {
		m.textInput.Blur()
		m.textInput.Placeholder = "گفتگو ختم ہو گئی"
	} else {
		m.textInput.Focus()
		m.textInput.Placeholder = "اپنا سوال یہاں لکھیں..."
	}
}

// Disabled reports whether typing is blocked.
func (m InputModel) Disabled() bool {
	return m.disabled
}

// Shake flags a rejected submission for d.
func (m *InputModel) Shake(d time.Duration) tea.Cmd {
	m.shaking = true
	m.shakeGen++
	gen := m.shakeGen
	return tea.Tick(d, func(time.Time) tea.Msg {
		return shakeDoneMsg{gen: gen}
	})
}

// EndShake clears the shake if msg belongs to the latest one.
func (m *InputModel) EndShake(msg shakeDoneMsg) {
	if msg.gen == m.shakeGen {
		m.shaking = false
	}
}

// Shaking reports whether the input is currently flagged.
func (m InputModel) Shaking() bool {
	return m.shaking
}

// SetWidth sets the input width.
func (m *InputModel) SetWidth(width int) {
	m.textInput.Width = width - 6 // Account for border, padding and prompt
}

// View renders the input box at width.
func (m InputModel) View(width int) string {
	style := inputStyle
	switch {
	case m.shaking:
		style = inputShakeStyle
	case m.disabled:
		style = inputDisabledStyle
	}
	return style.Width(width - 2).Render(m.textInput.View())
}

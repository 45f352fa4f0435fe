package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/xonecas/tilawa/internal/api"
)

// pickerChoice is one row of the picker.
type pickerChoice struct {
	text     string
	detail   string
	category int
	question bool
}

// PickerModel browses categories and their questions. Typing filters
// every question across all categories.
type PickerModel struct {
	categories []api.Category
	filter     textinput.Model
	category   int // -1 while listing categories
	cursor     int
}

var pickerKeys = struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Back  key.Binding
}{
	Up:    key.NewBinding(key.WithKeys("up", "ctrl+p")),
	Down:  key.NewBinding(key.WithKeys("down", "ctrl+n")),
	Enter: key.NewBinding(key.WithKeys("enter")),
	Back:  key.NewBinding(key.WithKeys("left")),
}

// NewPickerModel creates a picker over categories.
func NewPickerModel(categories []api.Category) PickerModel {
	ti := textinput.New()
	ti.Placeholder = "تلاش کے لیے لکھیں..."
	ti.Prompt = inputPromptStyle.Render("⌕ ")
	ti.Focus()

	return PickerModel{
		categories: categories,
		filter:     ti,
		category:   -1,
	}
}

// choices returns the rows for the current level and filter.
func (p PickerModel) choices() []pickerChoice {
	if pattern := strings.TrimSpace(p.filter.Value()); pattern != "" {
		var all []pickerChoice
		var texts []string
		for ci, c := range p.categories {
			for _, q := range c.Questions {
				all = append(all, pickerChoice{text: q, detail: c.Title, category: ci, question: true})
				texts = append(texts, q)
			}
		}
		matches := fuzzy.Find(pattern, texts)
		out := make([]pickerChoice, len(matches))
		for i, match := range matches {
			out[i] = all[match.Index]
		}
		return out
	}

	if p.category < 0 {
		out := make([]pickerChoice, len(p.categories))
		for i, c := range p.categories {
			out[i] = pickerChoice{
				text:     categoryIcon(c.Icon) + " " + c.Title,
				detail:   fmt.Sprintf("%d", len(c.Questions)),
				category: i,
			}
		}
		return out
	}

	c := p.categories[p.category]
	out := make([]pickerChoice, len(c.Questions))
	for i, q := range c.Questions {
		out[i] = pickerChoice{text: q, category: p.category, question: true}
	}
	return out
}

// Update handles picker keys. Choosing a question emits questionChosenMsg.
func (p PickerModel) Update(msg tea.Msg) (PickerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		p.filter, cmd = p.filter.Update(msg)
		return p, cmd
	}

	choices := p.choices()
	switch {
	case key.Matches(keyMsg, pickerKeys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
		return p, nil

	case key.Matches(keyMsg, pickerKeys.Down):
		if p.cursor < len(choices)-1 {
			p.cursor++
		}
		return p, nil

	case key.Matches(keyMsg, pickerKeys.Enter):
		if p.cursor >= len(choices) {
			return p, nil
		}
		choice := choices[p.cursor]
		if !choice.question {
			p.category = choice.category
			p.cursor = 0
			return p, nil
		}
		text := choice.text
		return p, func() tea.Msg { return questionChosenMsg{text: text} }

	case key.Matches(keyMsg, pickerKeys.Back):
		if p.filter.Value() == "" && p.category >= 0 {
			p.category = -1
			p.cursor = 0
			return p, nil
		}

	case keyMsg.Type == tea.KeyBackspace && p.filter.Value() == "" && p.category >= 0:
		p.category = -1
		p.cursor = 0
		return p, nil
	}

	before := p.filter.Value()
	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	if p.filter.Value() != before {
		p.cursor = 0
	}
	return p, cmd
}

// View renders the picker box sized to width x height.
func (p PickerModel) View(width, height int) string {
	title := "زمرے"
	if p.category >= 0 && p.filter.Value() == "" {
		title = p.categories[p.category].Title
	}

	inner := width - 8
	if inner < 20 {
		inner = 20
	}
	rows := height - 8
	if rows < 3 {
		rows = 3
	}

	lines := []string{titleStyle.Render(title), p.filter.View(), ""}

	choices := p.choices()
	if len(choices) == 0 {
		lines = append(lines, dimmedStyle.Render("کوئی سوال نہیں ملا"))
	}

	// Keep the cursor visible
	start := 0
	if p.cursor >= rows {
		start = p.cursor - rows + 1
	}
	for i := start; i < len(choices) && i < start+rows; i++ {
		c := choices[i]
		detail := ""
		if c.detail != "" {
			detail = "  " + dimmedStyle.Render(c.detail)
		}
		text := truncateWithEllipsis(c.text, inner-lipgloss.Width(detail)-2)
		if i == p.cursor {
			lines = append(lines, listItemSelectedStyle.Render(text)+detail)
		} else {
			lines = append(lines, listItemStyle.Render(text)+detail)
		}
	}

	lines = append(lines, "", dimmedStyle.Render("[ ↑↓ ] MOVE  ·  [ ENTER ] CHOOSE  ·  [ ← ] BACK  ·  [ ESC ] CLOSE"))
	box := overlayStyle.Width(width - 4).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// categoryIcon maps the backend's icon names to terminal glyphs.
func categoryIcon(name string) string {
	switch name {
	case "fa-book-open":
		return "📖"
	case "fa-moon":
		return "☾"
	case "fa-user":
		return "👤"
	case "fa-star":
		return "★"
	case "fa-list":
		return "☰"
	case "fa-history":
		return "⌛"
	default:
		return "•"
	}
}

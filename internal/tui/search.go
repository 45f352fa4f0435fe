package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/tilawa/internal/api"
	"github.com/xonecas/tilawa/internal/constants"
)

const searchDebounce = 250 * time.Millisecond

// Searcher finds questions matching a query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]api.SearchResult, error)
}

// searchDebounceMsg fires after typing pauses.
type searchDebounceMsg struct {
	gen   uint64
	query string
}

// searchResultsMsg carries results for the query sent with gen.
type searchResultsMsg struct {
	gen     uint64
	results []api.SearchResult
	err     error
}

// SearchModel is the search overlay. Only the results of the latest query
// are kept; responses to older queries are dropped.
type SearchModel struct {
	input   textinput.Model
	gen     uint64
	results []api.SearchResult
	cursor  int
	pending bool
	failed  bool
}

var searchKeys = struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
}{
	Up:    key.NewBinding(key.WithKeys("up")),
	Down:  key.NewBinding(key.WithKeys("down")),
	Enter: key.NewBinding(key.WithKeys("enter")),
}

// NewSearchModel creates an empty search overlay.
func NewSearchModel() SearchModel {
	ti := textinput.New()
	ti.Placeholder = "کم از کم دو حروف لکھیں..."
	ti.Prompt = inputPromptStyle.Render("⌕ ")
	ti.CharLimit = 100
	ti.Focus()
	return SearchModel{input: ti}
}

// Update handles keys and search responses.
func (s SearchModel) Update(ctx context.Context, msg tea.Msg, searcher Searcher) (SearchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case searchDebounceMsg:
		if msg.gen != s.gen || searcher == nil {
			return s, nil
		}
		if len([]rune(msg.query)) < constants.MinSearchQueryLen {
			s.results = nil
			s.pending = false
			return s, nil
		}
		gen := msg.gen
		query := msg.query
		return s, func() tea.Msg {
			results, err := searcher.Search(ctx, query)
			return searchResultsMsg{gen: gen, results: results, err: err}
		}

	case searchResultsMsg:
		if msg.gen != s.gen {
			return s, nil
		}
		s.pending = false
		s.cursor = 0
		s.failed = msg.err != nil
		if msg.err != nil {
			log.Warn().Err(msg.err).Msg("search failed")
			s.results = nil
			return s, nil
		}
		s.results = msg.results
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, searchKeys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
			return s, nil
		case key.Matches(msg, searchKeys.Down):
			if s.cursor < len(s.results)-1 {
				s.cursor++
			}
			return s, nil
		case key.Matches(msg, searchKeys.Enter):
			if s.cursor < len(s.results) {
				text := s.results[s.cursor].Question
				return s, func() tea.Msg { return questionChosenMsg{text: text} }
			}
			return s, nil
		}
	}

	before := s.input.Value()
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() == before {
		return s, cmd
	}

	s.gen++
	s.pending = true
	gen := s.gen
	query := strings.TrimSpace(s.input.Value())
	debounce := tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{gen: gen, query: query}
	})
	return s, tea.Batch(cmd, debounce)
}

// Pending reports whether a query is waiting for results.
func (s SearchModel) Pending() bool {
	return s.pending
}

// View renders the overlay sized to width x height.
func (s SearchModel) View(width, height int) string {
	inner := width - 10
	if inner < 20 {
		inner = 20
	}

	lines := []string{titleStyle.Render("سوالات تلاش کریں"), s.input.View(), ""}
	switch {
	case s.failed:
		lines = append(lines, errorTextStyle.Render("تلاش ناکام رہی"))
	case len(s.results) == 0 && !s.pending && len([]rune(strings.TrimSpace(s.input.Value()))) >= constants.MinSearchQueryLen:
		lines = append(lines, dimmedStyle.Render("کوئی نتیجہ نہیں ملا"))
	}

	for i, r := range s.results {
		question := truncateWithEllipsis(r.Question, inner)
		if i == s.cursor {
			lines = append(lines, listItemSelectedStyle.Render(question))
		} else {
			lines = append(lines, listItemStyle.Render(question))
		}
		if r.Preview != "" {
			lines = append(lines, "   "+dimmedStyle.Render(truncateWithEllipsis(r.Preview, inner-3)))
		}
	}

	lines = append(lines, "", dimmedStyle.Render("[ ↑↓ ] MOVE  ·  [ ENTER ] ASK  ·  [ ESC ] CLOSE"))
	box := overlayStyle.Width(width - 4).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// Package tui provides the terminal user interface for Tilawa.
package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/tilawa/internal/catalog"
	"github.com/xonecas/tilawa/internal/chat"
	"github.com/xonecas/tilawa/internal/constants"
)

// overlay is the panel drawn over the transcript, if any.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlayPicker
	overlaySearch
)

// CatalogLoader fetches categories, facts and popular questions.
type CatalogLoader interface {
	Load(ctx context.Context) catalog.Catalog
	RefreshFact(ctx context.Context, current catalog.Catalog) string
}

// InputStore persists submitted questions.
type InputStore interface {
	AddInput(text string) error
}

// Options configures the TUI.
type Options struct {
	Context    context.Context
	Controller *chat.Controller
	Events     <-chan chat.Event
	Loader     CatalogLoader
	Searcher   Searcher
	Inputs     InputStore
	// InputHistory seeds up/down recall, oldest first.
	InputHistory []string
	// Catalog is shown until Loader delivers. Empty groups use the defaults.
	Catalog catalog.Catalog

	Animate         bool
	CharDelay       time.Duration
	ShakeDuration   time.Duration
	ScrollThreshold int

	// Copy writes to the clipboard. Nil uses the system clipboard when supported.
	Copy func(string) error
}

// Model is the main TUI model.
type Model struct {
	ctx        context.Context
	controller *chat.Controller
	events     <-chan chat.Event
	loader     CatalogLoader
	searcher   Searcher
	inputs     InputStore
	copy       func(string) error

	animate       bool
	shakeDuration time.Duration

	width   int
	height  int
	overlay overlay

	input      InputModel
	viewport   viewport.Model
	scroll     ScrollController
	transcript Transcript
	offsets    map[string]int
	reveal     Reveal
	queue      []chat.Message // Bot messages waiting for the current reveal
	spinner    spinner.Model
	net        NetIndicator
	picker     PickerModel
	search     SearchModel

	catalog     catalog.Catalog
	fact        string
	suggestions []string
	chip        int // Highlighted suggestion, -1 if none
	placeholder chat.Placeholder
	submitting  bool
	ended       bool
	status      string
}

// EventMsg wraps a chat event for the TUI.
type EventMsg struct {
	Event chat.Event
}

type (
	submitDoneMsg struct {
		err error
	}
	catalogLoadedMsg struct {
		catalog catalog.Catalog
	}
	factMsg struct {
		fact string
	}
	// questionChosenMsg submits a question picked from a list.
	questionChosenMsg struct {
		text string
	}
	copiedMsg struct {
		err error
	}
)

// New creates a new TUI model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.ShakeDuration <= 0 {
		opts.ShakeDuration = 400 * time.Millisecond
	}

	copyFn := opts.Copy
	if copyFn == nil && !clipboard.Unsupported {
		copyFn = clipboard.WriteAll
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = placeholderStyle

	cat := withDefaults(opts.Catalog)

	m := Model{
		ctx:           ctx,
		controller:    opts.Controller,
		events:        opts.Events,
		loader:        opts.Loader,
		searcher:      opts.Searcher,
		inputs:        opts.Inputs,
		copy:          copyFn,
		animate:       opts.Animate,
		shakeDuration: opts.ShakeDuration,
		input:         NewInputModel(opts.InputHistory),
		viewport:      viewport.New(0, 0),
		scroll:        NewScrollController(opts.ScrollThreshold),
		reveal:        NewReveal(opts.CharDelay),
		spinner:       sp,
		net:           NewNetIndicator(),
		catalog:       cat,
		fact:          cat.Fact(),
		chip:          -1,
	}
	if m.loader != nil {
		m.net.Begin(NetActivityCatalog)
	}
	m.refreshSuggestions()
	return m
}

func withDefaults(c catalog.Catalog) catalog.Catalog {
	if len(c.Categories) == 0 {
		c.Categories, c.CategoriesFrom = catalog.DefaultCategories(), catalog.OriginBuiltin
	}
	if len(c.Facts) == 0 {
		c.Facts, c.FactsFrom = catalog.DefaultFacts(), catalog.OriginBuiltin
	}
	if len(c.Popular) == 0 {
		c.Popular, c.PopularFrom = catalog.DefaultPopular(), catalog.OriginBuiltin
	}
	return c
}

// Init greets the user and starts loading the catalog.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.listenForEvents(),
		m.greet(),
		textinput.Blink,
	}
	if m.loader != nil {
		loader, ctx := m.loader, m.ctx
		cmds = append(cmds, m.net.tick(), func() tea.Msg {
			return catalogLoadedMsg{catalog: loader.Load(ctx)}
		})
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.overlay == overlayNone && msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				m.scrollBy(-3)
			case tea.MouseButtonWheelDown:
				m.scrollBy(3)
			}
		}
		return m, nil

	case EventMsg:
		var cmd tea.Cmd
		m, cmd = m.handleEvent(msg.Event)
		return m, tea.Batch(cmd, m.listenForEvents())

	case revealTickMsg:
		ok, next := m.reveal.Step(msg)
		if !ok {
			return m, nil
		}
		m.transcript.SetVisible(m.reveal.MessageID(), m.reveal.Visible())
		if m.reveal.Done() {
			cmd := m.finishReveal()
			return m, cmd
		}
		m.refreshViewport()
		return m, next

	case submitDoneMsg:
		m.net.End(NetActivityAsk)
		m.submitting = false
		switch {
		case isRejection(msg.err):
			cmd := m.input.Shake(m.shakeDuration)
			return m, cmd
		case msg.err != nil:
			log.Debug().Err(msg.err).Msg("submission failed")
		}
		return m, nil

	case catalogLoadedMsg:
		m.net.End(NetActivityCatalog)
		m.catalog = withDefaults(msg.catalog)
		m.fact = m.catalog.Fact()
		m.refreshSuggestions()
		m.layout()
		return m, nil

	case factMsg:
		m.net.End(NetActivityCatalog)
		if msg.fact != "" {
			m.fact = msg.fact
			m.layout()
		}
		return m, nil

	case questionChosenMsg:
		m.overlay = overlayNone
		return m.submit(msg.text)

	case copiedMsg:
		if msg.err != nil {
			log.Debug().Err(msg.err).Msg("clipboard write failed")
			return m, nil
		}
		m.status = "جواب کاپی ہو گیا"
		return m, nil

	case searchDebounceMsg:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(m.ctx, msg, m.searcher)
		if cmd != nil {
			cmd = tea.Batch(cmd, m.net.Begin(NetActivitySearch))
		}
		return m, cmd

	case searchResultsMsg:
		m.net.End(NetActivitySearch)
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(m.ctx, msg, m.searcher)
		return m, cmd

	case shakeDoneMsg:
		m.input.EndShake(msg)
		return m, nil

	case spinner.TickMsg:
		if m.placeholder == chat.PlaceholderNone {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case netTickMsg:
		var cmd tea.Cmd
		m.net, cmd = m.net.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}
	m.status = ""

	switch m.overlay {
	case overlayHelp:
		m.overlay = overlayNone
		return m, nil

	case overlayPicker:
		if key.Matches(msg, keys.Escape) {
			m.overlay = overlayNone
			return m, nil
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case overlaySearch:
		if key.Matches(msg, keys.Escape) {
			m.overlay = overlayNone
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(m.ctx, msg, m.searcher)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Help):
		m.overlay = overlayHelp
		return m, nil

	case key.Matches(msg, keys.Categories):
		m.picker = NewPickerModel(m.catalog.Categories)
		m.overlay = overlayPicker
		return m, nil

	case key.Matches(msg, keys.Search):
		if m.searcher == nil {
			return m, nil
		}
		m.search = NewSearchModel()
		m.overlay = overlaySearch
		return m, nil

	case key.Matches(msg, keys.NewFact):
		if m.loader == nil {
			m.fact = m.catalog.Fact()
			m.layout()
			return m, nil
		}
		loader, ctx, current := m.loader, m.ctx, m.catalog
		tick := m.net.Begin(NetActivityCatalog)
		return m, tea.Batch(tick, func() tea.Msg {
			return factMsg{fact: loader.RefreshFact(ctx, current)}
		})

	case key.Matches(msg, keys.Copy):
		latest, ok := m.transcript.Latest()
		if !ok || m.copy == nil {
			return m, nil
		}
		copyFn, text := m.copy, latest.Text
		return m, func() tea.Msg { return copiedMsg{err: copyFn(text)} }

	case key.Matches(msg, keys.Latest):
		if latest, ok := m.transcript.Latest(); ok {
			m.scroll.ScrollToMessage(&m.viewport, m.offsets, latest.ID)
		}
		return m, nil

	case key.Matches(msg, keys.Bottom):
		m.scroll.ScrollToBottom(&m.viewport)
		return m, nil

	case key.Matches(msg, keys.PageUp):
		m.scrollBy(-m.viewport.Height)
		return m, nil

	case key.Matches(msg, keys.PageDown):
		m.scrollBy(m.viewport.Height)
		return m, nil

	case key.Matches(msg, keys.Restart):
		if err := m.controller.Restart(); err != nil {
			cmd := m.input.Shake(m.shakeDuration)
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, keys.NextChip):
		if len(m.suggestions) > 0 {
			m.chip = (m.chip + 1) % len(m.suggestions)
		}
		return m, nil

	case key.Matches(msg, keys.PrevChip):
		if len(m.suggestions) > 0 {
			m.chip--
			if m.chip < 0 {
				m.chip = len(m.suggestions) - 1
			}
		}
		return m, nil

	case key.Matches(msg, keys.Escape):
		m.chip = -1
		return m, nil

	case key.Matches(msg, keys.Enter):
		text := m.input.Value()
		if strings.TrimSpace(text) == "" && m.chip >= 0 && m.chip < len(m.suggestions) {
			text = m.suggestions[m.chip]
		}
		return m.submit(text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit hands a question to the controller. Empty input, a question in
// flight or an ended conversation shake the input instead.
func (m Model) submit(text string) (Model, tea.Cmd) {
	question := strings.TrimSpace(text)
	if question == "" || m.submitting || m.ended || m.input.Disabled() {
		cmd := m.input.Shake(m.shakeDuration)
		return m, cmd
	}

	m.submitting = true
	m.input.AddToHistory(question)
	m.input.Reset()
	m.chip = -1
	m.scroll.Reset()
	if m.inputs != nil {
		if err := m.inputs.AddInput(question); err != nil {
			log.Warn().Err(err).Msg("failed to save input history")
		}
	}

	controller, ctx := m.controller, m.ctx
	tick := m.net.Begin(NetActivityAsk)
	return m, tea.Batch(tick, func() tea.Msg {
		return submitDoneMsg{err: controller.Submit(ctx, question)}
	})
}

func (m Model) handleEvent(event chat.Event) (Model, tea.Cmd) {
	switch event.Type {
	case chat.EventMessageAppended:
		if data, ok := event.Data.(chat.MessageData); ok {
			return m.appendMessage(data.Message)
		}

	case chat.EventPlaceholderChanged:
		if data, ok := event.Data.(chat.PlaceholderData); ok {
			prev := m.placeholder
			m.placeholder = data.Placeholder
			if prev == chat.PlaceholderNone && m.placeholder != chat.PlaceholderNone {
				return m, m.spinner.Tick
			}
		}

	case chat.EventStateChanged:
		if data, ok := event.Data.(chat.StateChangeData); ok {
			m.submitting = data.NewState == chat.StateSubmitting
		}

	case chat.EventConversationEnded:
		m.ended = true
		m.input.SetDisabled(true)

	case chat.EventConversationRestart:
		m.reveal.Cancel()
		m.queue = nil
		m.transcript.Clear()
		m.ended = false
		m.placeholder = chat.PlaceholderNone
		m.input.SetDisabled(false)
		m.scroll.Reset()
		m.refreshSuggestions()
		m.refreshViewport()
		cmd := m.greet()
		return m, cmd
	}
	return m, nil
}

// appendMessage renders a new message. Bot messages of the exchange being
// revealed wait their turn; anything else completes the running reveal first.
func (m Model) appendMessage(msg chat.Message) (Model, tea.Cmd) {
	animated := m.animate && msg.Sender == chat.SenderBot
	if m.reveal.Active() {
		if animated && msg.ReplyTo != "" && msg.ReplyTo == m.reveal.ReplyTo() {
			m.queue = append(m.queue, msg)
			return m, nil
		}
		m.completeReveal()
	}

	if !animated {
		m.transcript.Add(msg, false)
		m.refreshSuggestions()
		m.refreshViewport()
		return m, nil
	}
	cmd := m.startReveal(msg)
	return m, cmd
}

func (m *Model) startReveal(msg chat.Message) tea.Cmd {
	m.transcript.Add(msg, true)
	cmd := m.reveal.Start(msg.ID, msg.ReplyTo, msg.Text)
	m.refreshViewport()
	return cmd
}

// finishReveal completes the current reveal and starts the next queued one.
func (m *Model) finishReveal() tea.Cmd {
	id := m.reveal.MessageID()
	m.reveal.Cancel()
	m.transcript.Finish(id)
	m.refreshSuggestions()

	if len(m.queue) > 0 {
		next := m.queue[0]
		m.queue = m.queue[1:]
		return m.startReveal(next)
	}
	m.refreshViewport()
	return nil
}

// completeReveal shows the running reveal and everything queued behind it
// in full.
func (m *Model) completeReveal() {
	if id := m.reveal.MessageID(); id != "" {
		m.reveal.Cancel()
		m.transcript.Finish(id)
	}
	for _, queued := range m.queue {
		m.transcript.Add(queued, false)
	}
	m.queue = nil
	m.refreshSuggestions()
	m.refreshViewport()
}

// refreshSuggestions shows the latest answer's suggestions, or the popular
// questions when it has none.
func (m *Model) refreshSuggestions() {
	var next []string
	if latest, ok := m.transcript.Latest(); ok && len(latest.Suggestions) > 0 {
		next = latest.Suggestions
	} else {
		next = m.catalog.Popular
	}
	if len(next) > constants.MaxSuggestions {
		next = next[:constants.MaxSuggestions]
	}
	if !equalStrings(next, m.suggestions) {
		m.chip = -1
	}
	m.suggestions = next
}

func (m *Model) refreshViewport() {
	content, offsets := m.transcript.Render(m.viewport.Width)
	m.offsets = offsets
	m.viewport.SetContent(content)
	m.scroll.Follow(&m.viewport)
}

func (m *Model) scrollBy(lines int) {
	m.viewport.SetYOffset(m.viewport.YOffset + lines)
	m.scroll.OnUserScroll(m.viewport.YOffset, m.viewport.Height, m.viewport.TotalLineCount())
}

// layout sizes the viewport to whatever the fixed sections leave over.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	factLines := len(wrapText("✦ "+m.fact, m.width-4))

	// title + fact panel + transcript border + status + suggestions + input + footer
	fixed := 1 + (factLines + 2) + 2 + 1 + 1 + 3 + 1
	height := m.height - fixed
	if height < 3 {
		height = 3
	}

	m.viewport.Width = m.width - 4 // border + scrollbar column
	m.viewport.Height = height
	m.input.SetWidth(m.width)
	m.refreshViewport()
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	bodyHeight := m.viewport.Height + 2
	var body string
	switch m.overlay {
	case overlayHelp:
		body = RenderHelp(m.width, bodyHeight)
	case overlayPicker:
		body = m.picker.View(m.width, bodyHeight)
	case overlaySearch:
		body = m.search.View(m.width, bodyHeight)
	default:
		body = m.renderTranscript()
	}

	sections := []string{
		renderSectionTitle("تلاوت · قرآن سوال و جواب", m.scrollSuffix(), m.width),
		factPanelStyle.Width(m.width - 2).Render("✦ " + m.fact),
		body,
		m.renderStatus(),
		m.renderSuggestions(),
		m.input.View(m.width),
		m.renderFooter(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTranscript() string {
	scrollbar := strings.Split(renderScrollbar(m.viewport.Height, m.viewport.TotalLineCount(), m.viewport.YOffset), "\n")
	content := strings.Split(m.viewport.View(), "\n")

	lines := make([]string, m.viewport.Height)
	for i := range lines {
		var line, bar string
		if i < len(content) {
			line = content[i]
		}
		if pad := m.viewport.Width - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		if i < len(scrollbar) {
			bar = scrollbar[i]
		}
		lines[i] = line + " " + bar
	}
	return transcriptStyle.Width(m.width - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) scrollSuffix() string {
	if !m.scroll.UserScrolledAway() {
		return ""
	}
	return dimmedStyle.Render(" ↓ End")
}

func (m Model) renderStatus() string {
	switch {
	case m.placeholder == chat.PlaceholderThinking:
		return m.spinner.View() + " " + placeholderStyle.Render("سوچ رہا ہوں...")
	case m.placeholder == chat.PlaceholderTyping:
		return m.spinner.View() + " " + placeholderStyle.Render("لکھ رہا ہوں...")
	case m.ended:
		return noticeStyle.Render(constants.FarewellNotice)
	case m.status != "":
		return dimmedStyle.Render(m.status)
	}
	return ""
}

func (m Model) renderSuggestions() string {
	if len(m.suggestions) == 0 || m.ended {
		return ""
	}
	chips := make([]string, len(m.suggestions))
	for i, s := range m.suggestions {
		text := truncateWithEllipsis(s, 32)
		if i == m.chip {
			chips[i] = chipSelectedStyle.Render(text)
		} else {
			chips[i] = chipStyle.Render(text)
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, chips...)
	return lipgloss.NewStyle().MaxWidth(m.width).MaxHeight(1).Render(bar)
}

func (m Model) renderFooter() string {
	hint := "[ F1 ] HELP  ·  [ ^O ] CATEGORIES  ·  [ ^F ] SEARCH  ·  [ TAB ] SUGGESTIONS"
	if m.catalog.CategoriesFrom != catalog.OriginBackend {
		hint += "  ·  OFFLINE CATALOG"
	}
	return m.net.View() + "  " + dimmedStyle.Render(hint)
}

func (m Model) greet() tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		controller.Greet(constants.WelcomeReply)
		return nil
	}
}

func (m Model) listenForEvents() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-m.events
		if !ok {
			return nil
		}
		return EventMsg{Event: event}
	}
}

// Submitting reports whether a question is awaiting its answer.
func (m Model) Submitting() bool {
	return m.submitting
}

// Ended reports whether the conversation was closed by the backend.
func (m Model) Ended() bool {
	return m.ended
}

// Transcript returns the rendered conversation.
func (m Model) Transcript() Transcript {
	return m.transcript
}

// Fact returns the fact currently shown.
func (m Model) Fact() string {
	return m.fact
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// errSubmissionRejected groups the controller errors that shake the input.
var errSubmissionRejected = []error{chat.ErrEmptyInput, chat.ErrBusy, chat.ErrConversationEnded}

func isRejection(err error) bool {
	for _, target := range errSubmissionRejected {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Key bindings
var keys = struct {
	Quit       key.Binding
	Help       key.Binding
	Escape     key.Binding
	Enter      key.Binding
	Categories key.Binding
	Search     key.Binding
	NewFact    key.Binding
	Copy       key.Binding
	Latest     key.Binding
	Bottom     key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Restart    key.Binding
	NextChip   key.Binding
	PrevChip   key.Binding
}{
	Quit:       key.NewBinding(key.WithKeys("ctrl+c")),
	Help:       key.NewBinding(key.WithKeys("f1")),
	Escape:     key.NewBinding(key.WithKeys("esc")),
	Enter:      key.NewBinding(key.WithKeys("enter")),
	Categories: key.NewBinding(key.WithKeys("ctrl+o")),
	Search:     key.NewBinding(key.WithKeys("ctrl+f")),
	NewFact:    key.NewBinding(key.WithKeys("ctrl+n")),
	Copy:       key.NewBinding(key.WithKeys("ctrl+y")),
	Latest:     key.NewBinding(key.WithKeys("ctrl+l")),
	Bottom:     key.NewBinding(key.WithKeys("end")),
	PageUp:     key.NewBinding(key.WithKeys("pgup")),
	PageDown:   key.NewBinding(key.WithKeys("pgdown")),
	Restart:    key.NewBinding(key.WithKeys("ctrl+r")),
	NextChip:   key.NewBinding(key.WithKeys("tab")),
	PrevChip:   key.NewBinding(key.WithKeys("shift+tab")),
}

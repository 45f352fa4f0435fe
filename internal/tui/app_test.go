package tui

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-chi/chi/v5"

	"github.com/xonecas/tilawa/internal/api"
	"github.com/xonecas/tilawa/internal/catalog"
	"github.com/xonecas/tilawa/internal/chat"
	"github.com/xonecas/tilawa/internal/constants"
)

func TestModelAnswersQuestion(t *testing.T) {
	asker := &fakeAsker{reply: chat.Reply{Answer: "114"}}
	m, events := setupTestModel(t, asker, false)
	m = settle(t, m, events, m.greet())

	m = ask(t, m, events, "قرآن میں کتنی سورتیں ہیں")

	msgs := m.Transcript().Messages()
	if len(msgs) != 3 {
		t.Fatalf("transcript has %d messages, want 3", len(msgs))
	}
	if msgs[0].Text != constants.WelcomeReply {
		t.Errorf("first message = %q, want greeting", msgs[0].Text)
	}
	if msgs[1].Sender != chat.SenderUser || msgs[1].Text != "قرآن میں کتنی سورتیں ہیں" {
		t.Errorf("second message = %+v, want the question", msgs[1])
	}
	if msgs[2].Sender != chat.SenderBot || msgs[2].Text != "114" {
		t.Errorf("third message = %+v, want the answer", msgs[2])
	}
	if m.Submitting() {
		t.Error("model still submitting after the answer arrived")
	}
	if m.controller.State() != chat.StateIdle {
		t.Errorf("controller state = %s, want idle", m.controller.State())
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}
	if latest, ok := m.Transcript().Latest(); !ok || latest.Text != "114" {
		t.Errorf("latest = %q, %v; want 114", latest.Text, ok)
	}
}

func TestModelRevealsAnswerAnimated(t *testing.T) {
	asker := &fakeAsker{reply: chat.Reply{
		Answer: "قرآن میں 114 سورتیں ہیں",
		Fact:   "سب سے طویل سورۃ البقرہ ہے",
	}}
	m, events := setupTestModel(t, asker, true)
	m = settle(t, m, events, m.greet())
	m = ask(t, m, events, "سورتیں")

	if m.reveal.Active() {
		t.Fatal("reveal still active after settling")
	}
	if len(m.queue) != 0 {
		t.Fatalf("queue has %d messages left", len(m.queue))
	}

	msgs := m.Transcript().Messages()
	if len(msgs) != 4 {
		t.Fatalf("transcript has %d messages, want 4", len(msgs))
	}
	if msgs[3].Kind != chat.KindFact {
		t.Errorf("last message kind = %s, want fact", msgs[3].Kind)
	}
	for _, e := range m.transcript.entries {
		if e.revealing || e.text != e.msg.Text {
			t.Errorf("entry %q not fully revealed: %q", e.msg.Text, e.text)
		}
	}
}

func TestModelNewExchangeCompletesReveal(t *testing.T) {
	m, _ := setupTestModel(t, &fakeAsker{}, true)

	greeting := chat.NewMessage(chat.SenderBot, chat.KindNormal, "السلام علیکم")
	m, _ = m.appendMessage(greeting)
	if !m.reveal.Active() {
		t.Fatal("greeting reveal did not start")
	}

	user := chat.NewMessage(chat.SenderUser, chat.KindNormal, "سوال")
	m, _ = m.appendMessage(user)
	if m.reveal.Active() {
		t.Error("user message did not complete the running reveal")
	}
	if e := m.transcript.entries[0]; e.revealing || e.text != greeting.Text {
		t.Errorf("greeting entry = %+v, want fully shown", e)
	}

	answer := chat.NewMessage(chat.SenderBot, chat.KindNormal, "جواب")
	answer.ReplyTo = user.ID
	fact := chat.NewMessage(chat.SenderBot, chat.KindFact, "حقیقت")
	fact.ReplyTo = user.ID

	m, _ = m.appendMessage(answer)
	m, _ = m.appendMessage(fact)
	if m.reveal.MessageID() != answer.ID {
		t.Errorf("revealing %q, want the answer", m.reveal.MessageID())
	}
	if len(m.queue) != 1 || m.queue[0].ID != fact.ID {
		t.Errorf("queue = %+v, want the fact waiting", m.queue)
	}
}

func TestModelShowsApologyOnError(t *testing.T) {
	asker := &fakeAsker{err: api.ErrNetwork}
	m, events := setupTestModel(t, asker, false)

	m = ask(t, m, events, "کیا حال ہے")

	var errorsShown int
	for _, msg := range m.Transcript().Messages() {
		if msg.Kind == chat.KindError {
			errorsShown++
			if msg.Text != constants.ErrorReply {
				t.Errorf("error text = %q, want %q", msg.Text, constants.ErrorReply)
			}
		}
	}
	if errorsShown != 1 {
		t.Errorf("error messages = %d, want 1", errorsShown)
	}
	if m.Submitting() || m.controller.State() != chat.StateIdle {
		t.Error("model should be idle after a failed request")
	}
}

func TestModelEmptyInputShakes(t *testing.T) {
	asker := &fakeAsker{reply: chat.Reply{Answer: "x"}}
	m, events := setupTestModel(t, asker, false)

	m = ask(t, m, events, "   ")

	if !m.input.Shaking() {
		t.Error("input did not shake on empty submission")
	}
	if got := asker.asked(); len(got) != 0 {
		t.Errorf("asker called with %v", got)
	}
	if m.Transcript().Len() != 0 {
		t.Errorf("transcript has %d messages, want 0", m.Transcript().Len())
	}
}

func TestModelBusyInputShakes(t *testing.T) {
	m, _ := setupTestModel(t, &fakeAsker{}, false)
	m.submitting = true

	m, cmd := m.submit("دوسرا سوال")
	if cmd == nil || !m.input.Shaking() {
		t.Error("submission while busy should shake the input")
	}
}

func TestModelFarewellDisablesInput(t *testing.T) {
	asker := &fakeAsker{reply: chat.Reply{Answer: constants.FarewellReply, Farewell: true}}
	m, events := setupTestModel(t, asker, false)

	m = ask(t, m, events, "خدا حافظ")
	if !m.Ended() {
		t.Fatal("conversation not ended after farewell")
	}
	if !m.input.Disabled() {
		t.Error("input still enabled after farewell")
	}
	if !strings.Contains(m.View(), "Ctrl+R") {
		t.Error("farewell notice not shown")
	}

	m = ask(t, m, events, "ایک اور سوال")
	if got := asker.asked(); len(got) != 1 {
		t.Errorf("asker called %d times, want 1", len(got))
	}
	if !m.input.Shaking() {
		t.Error("submission after farewell should shake")
	}
}

func TestModelRestartClearsConversation(t *testing.T) {
	asker := &fakeAsker{reply: chat.Reply{Answer: constants.FarewellReply, Farewell: true}}
	m, events := setupTestModel(t, asker, false)
	m = settle(t, m, events, m.greet())
	m = ask(t, m, events, "اللہ حافظ")

	m = press(t, m, events, tea.KeyMsg{Type: tea.KeyCtrlR})

	if m.Ended() || m.input.Disabled() {
		t.Error("restart did not lift the farewell")
	}
	msgs := m.Transcript().Messages()
	if len(msgs) != 1 || msgs[0].Text != constants.WelcomeReply {
		t.Errorf("transcript after restart = %+v, want only the greeting", msgs)
	}
}

func TestModelSuggestionChips(t *testing.T) {
	asker := &fakeAsker{reply: chat.Reply{Answer: "جواب", Suggestions: []string{"پہلا", "دوسرا"}}}
	m, events := setupTestModel(t, asker, false)

	if len(m.suggestions) == 0 || m.suggestions[0] != catalog.DefaultPopular()[0] {
		t.Errorf("initial suggestions = %v, want popular questions", m.suggestions)
	}

	m = ask(t, m, events, "سوال")
	if len(m.suggestions) != 2 {
		t.Fatalf("suggestions = %v, want the answer's", m.suggestions)
	}

	m = press(t, m, events, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, events, tea.KeyMsg{Type: tea.KeyTab})
	if m.chip != 1 {
		t.Fatalf("chip = %d, want 1", m.chip)
	}
	m = press(t, m, events, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.chip != 0 {
		t.Fatalf("chip = %d, want 0", m.chip)
	}

	m = press(t, m, events, tea.KeyMsg{Type: tea.KeyEnter})
	got := asker.asked()
	if len(got) != 2 || got[1] != "پہلا" {
		t.Errorf("asked = %v, want the chosen suggestion", got)
	}
}

func TestModelEmptyFactsFallsBack(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/daily-fact", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string][]string{"facts": {}})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL)
	loader := catalog.NewLoader(client, nil)

	m, events := setupTestModel(t, &fakeAsker{}, false)
	m.loader = loader

	m = settle(t, m, events, func() tea.Msg {
		return catalogLoadedMsg{catalog: loader.Load(m.ctx)}
	})

	if m.Fact() != constants.FallbackFact {
		t.Errorf("fact = %q, want %q", m.Fact(), constants.FallbackFact)
	}
	if m.catalog.FactsFrom != catalog.OriginBuiltin {
		t.Errorf("facts origin = %s, want builtin", m.catalog.FactsFrom)
	}
	if len(m.catalog.Categories) == 0 {
		t.Error("categories should fall back to the defaults")
	}
}

func TestModelPickerSubmitsQuestion(t *testing.T) {
	asker := &fakeAsker{reply: chat.Reply{Answer: "جواب"}}
	m, events := setupTestModel(t, asker, false)

	m = press(t, m, events, tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.overlay != overlayPicker {
		t.Fatalf("overlay = %d, want picker", m.overlay)
	}

	m = press(t, m, events, tea.KeyMsg{Type: tea.KeyEnter}) // open first category
	m = press(t, m, events, tea.KeyMsg{Type: tea.KeyEnter}) // choose first question

	want := catalog.DefaultCategories()[0].Questions[0]
	if got := asker.asked(); len(got) != 1 || got[0] != want {
		t.Errorf("asked = %v, want [%s]", got, want)
	}
	if m.overlay != overlayNone {
		t.Error("picker should close after choosing")
	}
}

func TestModelEscapeClosesOverlay(t *testing.T) {
	m, events := setupTestModel(t, &fakeAsker{}, false)

	m = press(t, m, events, tea.KeyMsg{Type: tea.KeyF1})
	if m.overlay != overlayHelp {
		t.Fatalf("overlay = %d, want help", m.overlay)
	}
	m = press(t, m, events, tea.KeyMsg{Type: tea.KeyEsc})
	if m.overlay != overlayNone {
		t.Errorf("overlay = %d, want none", m.overlay)
	}

	m = press(t, m, events, tea.KeyMsg{Type: tea.KeyCtrlO})
	m = press(t, m, events, tea.KeyMsg{Type: tea.KeyEsc})
	if m.overlay != overlayNone {
		t.Errorf("overlay = %d after esc, want none", m.overlay)
	}
}

func TestModelCopiesLatestAnswer(t *testing.T) {
	asker := &fakeAsker{reply: chat.Reply{Answer: "114"}}
	m, events := setupTestModel(t, asker, false)

	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}
	m = ask(t, m, events, "سورتیں")
	m = press(t, m, events, tea.KeyMsg{Type: tea.KeyCtrlY})

	if copied != "114" {
		t.Errorf("copied %q, want 114", copied)
	}
	if m.status == "" {
		t.Error("no confirmation after copying")
	}
}

func TestModelCopyFailureIsQuiet(t *testing.T) {
	asker := &fakeAsker{reply: chat.Reply{Answer: "114"}}
	m, events := setupTestModel(t, asker, false)
	m.copy = func(string) error { return errors.New("no clipboard") }

	m = ask(t, m, events, "سورتیں")
	m = press(t, m, events, tea.KeyMsg{Type: tea.KeyCtrlY})
	if m.status != "" {
		t.Errorf("status = %q, want empty", m.status)
	}
}

func TestModelScrollAwayStopsFollowing(t *testing.T) {
	asker := &fakeAsker{reply: chat.Reply{Answer: strings.Repeat("لمبا جواب ", 600)}}
	m, events := setupTestModel(t, asker, false)
	m = ask(t, m, events, "سوال")

	if !m.viewport.AtBottom() {
		t.Fatal("viewport should follow new content")
	}

	m = press(t, m, events, tea.KeyMsg{Type: tea.KeyPgUp})
	if !m.scroll.UserScrolledAway() {
		t.Fatal("page up should mark the user as scrolled away")
	}
	offset := m.viewport.YOffset

	m, _ = m.appendMessage(chat.NewMessage(chat.SenderBot, chat.KindFact, strings.Repeat("حقیقت ", 100)))
	if m.viewport.YOffset != offset {
		t.Errorf("offset moved from %d to %d while scrolled away", offset, m.viewport.YOffset)
	}

	m = press(t, m, events, tea.KeyMsg{Type: tea.KeyEnd})
	if !m.viewport.AtBottom() || m.scroll.UserScrolledAway() {
		t.Error("end should return to the bottom and resume following")
	}
}

func TestModelViewRendersSections(t *testing.T) {
	m, events := setupTestModel(t, &fakeAsker{}, false)
	m = settle(t, m, events, m.greet())

	view := m.View()
	for _, want := range []string{"تلاوت", testCatalog().Facts[0], "F1", catalog.DefaultPopular()[0]} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/xonecas/tilawa/internal/chat"
	"github.com/xonecas/tilawa/internal/constants"
)

var farewellPhrases = []string{
	"اللہ حافظ", "خدا حافظ", "فی امان اللہ", "الوداع", "بائے",
	"bye", "goodbye", "see you",
}

// IsFarewell reports whether text is a goodbye.
func IsFarewell(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range farewellPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// Answerer adapts a Provider to chat.Asker.
type Answerer struct {
	provider     Provider
	systemPrompt string
}

// NewAnswerer creates an answerer. An empty systemPrompt uses the default.
func NewAnswerer(p Provider, systemPrompt string) *Answerer {
	if systemPrompt == "" {
		systemPrompt = constants.LLMSystemPrompt
	}
	return &Answerer{provider: p, systemPrompt: systemPrompt}
}

// Ask sends the question with the retained conversation as context.
// Goodbyes are answered locally and end the conversation.
func (a *Answerer) Ask(ctx context.Context, question string, recent []chat.Message) (chat.Reply, error) {
	if IsFarewell(question) {
		return chat.Reply{Answer: constants.FarewellReply, Farewell: true}, nil
	}

	answer, err := a.provider.Chat(ctx, buildMessages(a.systemPrompt, question, recent))
	if err != nil {
		return chat.Reply{}, fmt.Errorf("%s: %w", a.provider.Name(), err)
	}
	return chat.Reply{Answer: strings.TrimSpace(answer)}, nil
}

// buildMessages maps the conversation to chat roles. Error and fact
// messages are UI artifacts and are left out.
func buildMessages(systemPrompt, question string, recent []chat.Message) []Message {
	messages := make([]Message, 0, len(recent)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: systemPrompt})
	for _, m := range recent {
		if m.Kind != chat.KindNormal {
			continue
		}
		role := RoleUser
		if m.Sender == chat.SenderBot {
			role = RoleAssistant
		}
		messages = append(messages, Message{Role: role, Content: m.Text})
	}
	return append(messages, Message{Role: RoleUser, Content: question})
}

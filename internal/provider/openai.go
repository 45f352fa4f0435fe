package provider

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// OpenAIProvider talks to any endpoint implementing the OpenAI Chat
// Completions API (OpenAI, Ollama's /v1, llama.cpp server, ...).
type OpenAIProvider struct {
	name        string
	client      *openai.Client
	model       string
	temperature float64
	limiter     *rate.Limiter
}

// NewOpenAI creates a provider for endpoint. apiKey may be empty for local servers.
func NewOpenAI(name, endpoint, model, apiKey string, temperature float64, limiter *rate.Limiter) *OpenAIProvider {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimRight(endpoint, "/")

	return &OpenAIProvider{
		name:        name,
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
		limiter:     limiter,
	}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string {
	return p.name
}

// Chat sends messages and returns the complete response.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    mergeSystemMessages(toOpenAIMessages(messages)),
		Temperature: float32(p.temperature),
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		result[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}
	return result
}

// mergeSystemMessages collects every system message into a single one at
// the start. Chat Completions servers reject system messages elsewhere.
func mergeSystemMessages(messages []openai.ChatCompletionMessage) []openai.ChatCompletionMessage {
	if len(messages) == 0 {
		return messages
	}

	var systemBuffer strings.Builder
	rest := make([]openai.ChatCompletionMessage, 0, len(messages))

	for _, msg := range messages {
		if msg.Role == openai.ChatMessageRoleSystem {
			if systemBuffer.Len() > 0 {
				systemBuffer.WriteString("\n\n")
			}
			systemBuffer.WriteString(msg.Content)
		} else {
			rest = append(rest, msg)
		}
	}

	if systemBuffer.Len() == 0 {
		return rest
	}

	result := make([]openai.ChatCompletionMessage, 0, len(rest)+1)
	result = append(result, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemBuffer.String(),
	})
	result = append(result, rest...)

	log.Debug().
		Int("original_count", len(messages)).
		Int("merged_count", len(result)).
		Msg("merged system messages")

	return result
}

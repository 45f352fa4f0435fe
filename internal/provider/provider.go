// Package provider answers questions with an OpenAI-compatible chat model.
package provider

import (
	"context"
	"errors"
	"sort"
)

var (
	// ErrProviderNotFound is returned when a requested provider doesn't exist.
	ErrProviderNotFound = errors.New("provider not found")
	// ErrNoChoices is returned when the model produced no completion.
	ErrNoChoices = errors.New("no response choices")
)

// Message represents a chat message.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider defines the interface for LLM providers.
type Provider interface {
	// Name returns the provider's identifier.
	Name() string

	// Chat sends messages and returns the complete response.
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Factory creates providers bound to a model.
type Factory interface {
	Name() string
	Create(model string, temperature float64) Provider
}

// Registry holds available provider factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// RegisterFactory adds a factory under name.
func (r *Registry) RegisterFactory(name string, f Factory) {
	r.factories[name] = f
}

// Create builds a provider from the named factory.
func (r *Registry) Create(name, model string, temperature float64) (Provider, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, ErrProviderNotFound
	}
	return f.Create(model, temperature), nil
}

// List returns all registered factory names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

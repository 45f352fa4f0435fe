package provider

import (
	"context"
	"errors"
	"testing"
)

type mockFactory struct {
	name     string
	response string
}

func (f mockFactory) Name() string { return f.name }

func (f mockFactory) Create(model string, temperature float64) Provider {
	return NewMock(f.name+"/"+model, f.response)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterFactory("llm", mockFactory{name: "llm", response: "114"})
	reg.RegisterFactory("alt", mockFactory{name: "alt"})

	p, err := reg.Create("llm", "llama3", 0.3)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if p.Name() != "llm/llama3" {
		t.Errorf("expected name=llm/llama3, got %s", p.Name())
	}

	_, err = reg.Create("nonexistent", "m", 0)
	if !errors.Is(err, ErrProviderNotFound) {
		t.Errorf("expected ErrProviderNotFound, got %v", err)
	}

	names := reg.List()
	if len(names) != 2 || names[0] != "alt" || names[1] != "llm" {
		t.Errorf("expected sorted [alt llm], got %v", names)
	}
}

func TestMockProviderChat(t *testing.T) {
	mock := NewMock("test", "Hello, World!")

	messages := []Message{{Role: RoleUser, Content: "Hi"}}
	response, err := mock.Chat(context.Background(), messages)
	if err != nil {
		t.Fatalf("Chat() error: %v", err)
	}
	if response != "Hello, World!" {
		t.Errorf("expected 'Hello, World!', got %s", response)
	}
	if got := mock.LastMessages(); len(got) != 1 || got[0].Content != "Hi" {
		t.Errorf("unexpected recorded messages %+v", got)
	}
}

func TestMockProviderChatError(t *testing.T) {
	expectedErr := errors.New("chat error")
	mock := NewMock("test", "").WithChatError(expectedErr)

	_, err := mock.Chat(context.Background(), nil)
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected chat error, got %v", err)
	}
}

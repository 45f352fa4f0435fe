package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/xonecas/tilawa/internal/api"
	"github.com/xonecas/tilawa/internal/catalog"
	"github.com/xonecas/tilawa/internal/chat"
	"github.com/xonecas/tilawa/internal/config"
	"github.com/xonecas/tilawa/internal/provider"
	"github.com/xonecas/tilawa/internal/store"
)

const (
	answererBackend = "backend"
	answererLLM     = "llm"
)

func newClient(sc config.ServerConfig) *api.Client {
	return api.NewClient(sc.BaseURL,
		api.WithTimeout(sc.RequestTimeout.Duration),
		api.WithRateLimit(sc.RateLimit, sc.RateBurst),
	)
}

// newAsker picks the answer source named by the configuration.
func newAsker(cfg *config.Config, client *api.Client) (chat.Asker, error) {
	switch cfg.Answerer.Kind {
	case "", answererBackend:
		return backendAsker{client: client}, nil

	case answererLLM:
		registry := provider.NewRegistry()
		registry.RegisterFactory(answererLLM, provider.NewOpenAIFactory(
			answererLLM,
			cfg.Answerer.Endpoint,
			cfg.Answerer.APIKey(),
			cfg.Server.RateLimit,
			cfg.Server.RateBurst,
		))
		p, err := registry.Create(answererLLM, cfg.Answerer.Model, cfg.Answerer.Temperature)
		if err != nil {
			return nil, fmt.Errorf("create llm provider: %w", err)
		}
		log.Info().Str("endpoint", cfg.Answerer.Endpoint).Str("model", cfg.Answerer.Model).Msg("Using LLM answerer")
		return provider.NewAnswerer(p, ""), nil

	default:
		return nil, fmt.Errorf("unknown answerer %q (want %q or %q)", cfg.Answerer.Kind, answererBackend, answererLLM)
	}
}

// backendAsker answers through POST /ask. The backend keeps no conversation,
// so recent messages are not sent.
type backendAsker struct {
	client *api.Client
}

func (b backendAsker) Ask(ctx context.Context, question string, recent []chat.Message) (chat.Reply, error) {
	resp, err := b.client.Ask(ctx, question)
	if err != nil {
		return chat.Reply{}, err
	}
	return chat.Reply{
		Answer:      resp.Answer,
		Fact:        resp.Fact,
		Suggestions: resp.Suggestions,
		Farewell:    resp.Farewell,
	}, nil
}

// openStore opens the local store. Failures are logged and the client runs
// without persistence.
func openStore(sc config.StoreConfig) *store.Store {
	if !sc.Enabled {
		return nil
	}

	var (
		s   *store.Store
		err error
	)
	if sc.Path != "" {
		s, err = store.Open(sc.Path)
	} else {
		s, err = store.New()
	}
	if err != nil {
		log.Warn().Err(err).Msg("Failed to open store, running without persistence")
		return nil
	}
	log.Debug().Msg("Store initialized")
	return s
}

func newLoader(client *api.Client, s *store.Store) *catalog.Loader {
	var cache catalog.Cache
	if s != nil {
		cache = s
	}
	return catalog.NewLoader(client, cache)
}

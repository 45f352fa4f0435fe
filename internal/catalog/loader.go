// Package catalog loads the browsable content around the chat: question
// categories, daily facts and popular questions.
package catalog

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/xonecas/tilawa/internal/api"
	"github.com/xonecas/tilawa/internal/store"
)

// Origin records where a catalog group came from.
type Origin string

const (
	OriginBackend Origin = "backend"
	OriginCache   Origin = "cache"
	OriginBuiltin Origin = "builtin"
)

// Source fetches catalog groups from the backend.
type Source interface {
	Categories(ctx context.Context) ([]api.Category, error)
	DailyFacts(ctx context.Context) ([]string, error)
	PopularQuestions(ctx context.Context) ([]string, error)
}

// Cache keeps the last good payload of each group.
type Cache interface {
	SaveSnapshot(kind store.SnapshotKind, v interface{}) error
	LoadSnapshot(kind store.SnapshotKind, out interface{}) (bool, time.Time, error)
}

// Catalog is the loaded content. Every group is non-empty.
type Catalog struct {
	Categories     []api.Category
	Facts          []string
	Popular        []string
	CategoriesFrom Origin
	FactsFrom      Origin
	PopularFrom    Origin
}

// Fact returns one of the loaded facts at random.
func (c Catalog) Fact() string {
	if len(c.Facts) == 0 {
		return DefaultFacts()[0]
	}
	return c.Facts[rand.Intn(len(c.Facts))]
}

// Loader fetches the catalog with per-group fallbacks.
type Loader struct {
	source Source
	cache  Cache
}

// NewLoader creates a loader. cache may be nil.
func NewLoader(source Source, cache Cache) *Loader {
	return &Loader{source: source, cache: cache}
}

// Load fetches all groups concurrently. It never fails: a group whose fetch
// errors falls back to the cached snapshot and then to the built-in defaults.
// An empty backend result goes straight to the defaults.
func (l *Loader) Load(ctx context.Context) Catalog {
	var cat Catalog
	var g errgroup.Group

	g.Go(func() error {
		cat.Categories, cat.CategoriesFrom = loadGroup(ctx, l, store.SnapshotCategories,
			l.source.Categories, DefaultCategories)
		return nil
	})
	g.Go(func() error {
		cat.Facts, cat.FactsFrom = loadGroup(ctx, l, store.SnapshotFacts,
			l.source.DailyFacts, DefaultFacts)
		return nil
	})
	g.Go(func() error {
		cat.Popular, cat.PopularFrom = loadGroup(ctx, l, store.SnapshotPopular,
			l.source.PopularQuestions, DefaultPopular)
		return nil
	})
	_ = g.Wait()

	log.Info().
		Str("categories", string(cat.CategoriesFrom)).
		Str("facts", string(cat.FactsFrom)).
		Str("popular", string(cat.PopularFrom)).
		Msg("catalog loaded")

	return cat
}

// RefreshFact fetches a new fact, falling back to the current catalog.
func (l *Loader) RefreshFact(ctx context.Context, current Catalog) string {
	facts, err := l.source.DailyFacts(ctx)
	if err != nil || len(facts) == 0 {
		if err != nil {
			log.Debug().Err(err).Msg("daily fact refresh failed")
		}
		return current.Fact()
	}
	return facts[rand.Intn(len(facts))]
}

func loadGroup[T any](
	ctx context.Context,
	l *Loader,
	kind store.SnapshotKind,
	fetch func(context.Context) ([]T, error),
	defaults func() []T,
) ([]T, Origin) {
	items, err := fetch(ctx)
	if err == nil && len(items) > 0 {
		if l.cache != nil {
			if err := l.cache.SaveSnapshot(kind, items); err != nil {
				log.Warn().Err(err).Str("kind", string(kind)).Msg("failed to save catalog snapshot")
			}
		}
		return items, OriginBackend
	}

	if err == nil {
		log.Warn().Str("kind", string(kind)).Msg("catalog fetch returned nothing, using defaults")
		return defaults(), OriginBuiltin
	}

	log.Warn().Err(err).Str("kind", string(kind)).Msg("catalog fetch failed, falling back")
	if l.cache != nil {
		var cached []T
		found, updated, err := l.cache.LoadSnapshot(kind, &cached)
		if err != nil {
			log.Warn().Err(err).Str("kind", string(kind)).Msg("failed to load catalog snapshot")
		} else if found && len(cached) > 0 {
			log.Debug().Str("kind", string(kind)).Time("updated", updated).Msg("using cached catalog")
			return cached, OriginCache
		}
	}

	return defaults(), OriginBuiltin
}

// Package searcher assembles dynamic searchers from a config.Config.
package searcher

import (
	"github.com/gcbaptista/go-fuzzy-search/config"
	"github.com/gcbaptista/go-fuzzy-search/internal/dynamic"
	"github.com/gcbaptista/go-fuzzy-search/internal/entity"
	"github.com/gcbaptista/go-fuzzy-search/internal/stringsearch"
	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

// Create validates cfg and builds a timed dynamic searcher with a main and a
// secondary entity searcher of identical configuration.
func Create[E any, ID comparable](cfg *config.Config) (services.DynamicSearcher[E, ID], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	main, err := newEntitySearcher[E, ID](cfg)
	if err != nil {
		return nil, err
	}
	secondary, err := newEntitySearcher[E, ID](cfg)
	if err != nil {
		return nil, err
	}
	return dynamic.NewTimingSearcher[E, ID](dynamic.NewDefaultSearcher[E, ID](cfg.MaxQueryLength, main, secondary)), nil
}

// CreateDefault builds a searcher from config.BuildDefaultConfig.
func CreateDefault[E any, ID comparable]() services.DynamicSearcher[E, ID] {
	s, err := Create[E, ID](config.BuildDefaultConfig())
	if err != nil {
		// the default configuration always validates
		panic(err)
	}
	return s
}

func newEntitySearcher[E any, ID comparable](cfg *config.Config) (services.EntitySearcher[E, ID], error) {
	stringSearcher, err := stringsearch.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return entity.NewSortingSearcher[E, ID](cfg.SortOrder, entity.NewDefaultSearcher[E, ID](stringSearcher, cfg.SearcherTypes)), nil
}

// BuildSnapshot indexes entities into a fresh searcher and returns its snapshot
// together with the indexing diagnostics. It shares no state with any other
// searcher, so it can run on any goroutine; Load the snapshot into a searcher
// created from the same cfg to use the result.
func BuildSnapshot[E any, ID comparable](cfg *config.Config, entities []E, getID func(E) ID, getTerms func(E) []string) (*model.Snapshot, *model.Meta, error) {
	s, err := Create[E, ID](cfg)
	if err != nil {
		return nil, nil, err
	}
	meta, err := s.IndexEntities(entities, getID, getTerms)
	if err != nil {
		return nil, nil, err
	}
	snapshot := model.NewSnapshot()
	if err := s.Save(snapshot); err != nil {
		return nil, nil, err
	}
	return snapshot, meta, nil
}

package dynamic

import (
	"time"

	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

// TimingSearcher adds the duration of every write and query, in milliseconds,
// to the returned diagnostics.
type TimingSearcher[E any, ID comparable] struct {
	services.DynamicSearcher[E, ID]
}

func NewTimingSearcher[E any, ID comparable](searcher services.DynamicSearcher[E, ID]) *TimingSearcher[E, ID] {
	return &TimingSearcher[E, ID]{DynamicSearcher: searcher}
}

func (s *TimingSearcher[E, ID]) IndexEntities(entities []E, getID func(E) ID, getTerms func(E) []string) (*model.Meta, error) {
	start := time.Now()
	meta, err := s.DynamicSearcher.IndexEntities(entities, getID, getTerms)
	if err != nil {
		return nil, err
	}
	return meta, meta.Add("indexingDuration", time.Since(start).Milliseconds())
}

func (s *TimingSearcher[E, ID]) UpsertEntities(entities []E, getID func(E) ID, getTerms func(E) []string) (*model.Meta, error) {
	start := time.Now()
	meta, err := s.DynamicSearcher.UpsertEntities(entities, getID, getTerms)
	if err != nil {
		return nil, err
	}
	return meta, meta.Add("upsertDuration", time.Since(start).Milliseconds())
}

func (s *TimingSearcher[E, ID]) RemoveEntities(ids []ID) model.RemovalResult[ID] {
	start := time.Now()
	result := s.DynamicSearcher.RemoveEntities(ids)
	if result.Meta == nil {
		result.Meta = model.NewMeta()
	}
	_ = result.Meta.Add("removalDuration", time.Since(start).Milliseconds())
	return result
}

func (s *TimingSearcher[E, ID]) GetMatches(query model.Query) (model.EntityResult[E], error) {
	start := time.Now()
	result, err := s.DynamicSearcher.GetMatches(query)
	if err != nil {
		return result, err
	}
	return result, result.Meta.Add("queryDuration", time.Since(start).Milliseconds())
}

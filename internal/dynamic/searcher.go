// Package dynamic makes entity searchers writable. Entities are indexed into a
// large main searcher; upserts that change searchable terms go to a small
// secondary searcher which is rebuilt on every upsert.
package dynamic

import (
	"github.com/gcbaptista/go-fuzzy-search/internal/errors"
	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

type DefaultSearcher[E any, ID comparable] struct {
	maxQueryLength int
	main           services.EntitySearcher[E, ID]
	secondary      services.EntitySearcher[E, ID]
}

func NewDefaultSearcher[E any, ID comparable](maxQueryLength int, main, secondary services.EntitySearcher[E, ID]) *DefaultSearcher[E, ID] {
	return &DefaultSearcher[E, ID]{maxQueryLength: maxQueryLength, main: main, secondary: secondary}
}

// IndexEntities replaces all content: the main searcher gets entities and the secondary is emptied.
func (s *DefaultSearcher[E, ID]) IndexEntities(entities []E, getID func(E) ID, getTerms func(E) []string) (*model.Meta, error) {
	if _, err := s.secondary.IndexEntities(nil, getID, getTerms); err != nil {
		return nil, err
	}
	return s.main.IndexEntities(entities, getID, getTerms)
}

// GetMatches returns an empty result for an empty query string and truncates
// queries longer than the configured maximum.
func (s *DefaultSearcher[E, ID]) GetMatches(query model.Query) (model.EntityResult[E], error) {
	if query.String == "" {
		return model.NewEntityResult[E](nil, query, nil), nil
	}
	if runes := []rune(query.String); len(runes) > s.maxQueryLength {
		query = query.WithString(string(runes[:s.maxQueryLength]))
	}

	mainResult, err := s.main.GetMatches(query)
	if err != nil {
		return model.EntityResult[E]{}, err
	}
	secondaryResult, err := s.secondary.GetMatches(query)
	if err != nil {
		return model.EntityResult[E]{}, err
	}
	return MergeResults(mainResult, secondaryResult), nil
}

func (s *DefaultSearcher[E, ID]) TryGetEntity(id ID) (E, bool) {
	if entity, ok := s.main.TryGetEntity(id); ok {
		return entity, true
	}
	return s.secondary.TryGetEntity(id)
}

func (s *DefaultSearcher[E, ID]) GetEntities() []E {
	return append(s.main.GetEntities(), s.secondary.GetEntities()...)
}

func (s *DefaultSearcher[E, ID]) TryGetTerms(id ID) ([]string, bool) {
	if terms, ok := s.main.TryGetTerms(id); ok {
		return terms, true
	}
	return s.secondary.TryGetTerms(id)
}

func (s *DefaultSearcher[E, ID]) GetTerms() []string {
	return append(s.main.GetTerms(), s.secondary.GetTerms()...)
}

func (s *DefaultSearcher[E, ID]) RemoveEntity(id ID) bool {
	return s.main.RemoveEntity(id) || s.secondary.RemoveEntity(id)
}

func (s *DefaultSearcher[E, ID]) ReplaceEntity(id ID, entity E, newID ID) bool {
	return s.main.ReplaceEntity(id, entity, newID) || s.secondary.ReplaceEntity(id, entity, newID)
}

// RemoveEntities reports the ids that were present, in request order.
func (s *DefaultSearcher[E, ID]) RemoveEntities(ids []ID) model.RemovalResult[ID] {
	removed := make([]ID, 0, len(ids))
	for _, id := range ids {
		if s.RemoveEntity(id) {
			removed = append(removed, id)
		}
	}
	return model.RemovalResult[ID]{RemovedIDs: removed, Meta: model.NewMeta()}
}

// UpsertEntities replaces entities in place when their terms are unchanged.
// All other entities are removed and the secondary searcher is rebuilt from its
// remaining entities plus the new versions.
func (s *DefaultSearcher[E, ID]) UpsertEntities(entities []E, getID func(E) ID, getTerms func(E) []string) (*model.Meta, error) {
	var (
		idsToRemove      []ID
		entitiesToInsert []E
	)
	for _, entity := range entities {
		id := getID(entity)
		replaced, err := s.tryReplace(entity, id, getTerms)
		if err != nil {
			return nil, err
		}
		if !replaced {
			idsToRemove = append(idsToRemove, id)
			entitiesToInsert = append(entitiesToInsert, entity)
		}
	}
	s.RemoveEntities(idsToRemove)

	if len(entitiesToInsert) == 0 {
		return model.NewMeta(), nil
	}
	return s.secondary.IndexEntities(append(s.secondary.GetEntities(), entitiesToInsert...), getID, getTerms)
}

func (s *DefaultSearcher[E, ID]) tryReplace(entity E, id ID, getTerms func(E) []string) (bool, error) {
	for _, searcher := range []services.EntitySearcher[E, ID]{s.main, s.secondary} {
		present, ok := searcher.TryGetTerms(id)
		if !ok {
			continue
		}
		if !termsEqual(present, getTerms(entity)) {
			return false, nil
		}
		if !searcher.ReplaceEntity(id, entity, id) {
			return false, errors.NewInvariantViolationError("entity with id %v was not present", id)
		}
		return true, nil
	}
	return false, nil
}

func termsEqual(a, b []string) bool {
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

// Save writes the main searcher, then the secondary one.
func (s *DefaultSearcher[E, ID]) Save(snapshot *model.Snapshot) error {
	if err := s.main.Save(snapshot); err != nil {
		return err
	}
	return s.secondary.Save(snapshot)
}

func (s *DefaultSearcher[E, ID]) Load(snapshot *model.Snapshot) error {
	if err := s.main.Load(snapshot); err != nil {
		return err
	}
	return s.secondary.Load(snapshot)
}

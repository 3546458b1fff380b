// Package entity maps string matches back to the entities owning the matched terms.
package entity

import (
	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/services"
	"github.com/gcbaptista/go-fuzzy-search/store"
)

// qualityOffsets lists the strategies in query order. The offset is added to the
// string match quality so that prefix matches rank above substring matches and
// those above fuzzy matches.
var qualityOffsets = []struct {
	searcherType model.SearcherType
	offset       float64
}{
	{model.SearcherTypePrefix, 2},
	{model.SearcherTypeSubstring, 1},
	{model.SearcherTypeFuzzy, 0},
}

// DefaultSearcher indexes the terms of all entities in one string searcher.
type DefaultSearcher[E any, ID comparable] struct {
	searcher      services.StringSearcher
	searcherTypes []model.SearcherType
	store         *store.EntityStore[E, ID]
}

// NewDefaultSearcher creates a searcher that only issues sub-queries for searcherTypes.
func NewDefaultSearcher[E any, ID comparable](searcher services.StringSearcher, searcherTypes []model.SearcherType) *DefaultSearcher[E, ID] {
	return &DefaultSearcher[E, ID]{
		searcher:      searcher,
		searcherTypes: searcherTypes,
		store:         store.NewEntityStore[E, ID](),
	}
}

func (s *DefaultSearcher[E, ID]) IndexEntities(entities []E, getID func(E) ID, getTerms func(E) []string) (*model.Meta, error) {
	s.store.Fill(entities, getID, getTerms)
	meta, err := s.searcher.Index(s.store.Terms())
	if err != nil {
		return nil, err
	}
	if err := meta.Add("numberOfEntities", s.store.NumberOfEntities()); err != nil {
		return nil, err
	}
	if err := meta.Add("numberOfTerms", len(s.store.Terms())); err != nil {
		return nil, err
	}
	return meta, nil
}

// GetMatches queries prefix, substring and fuzzy search in that order and keeps
// the first match of every entity until TopN entities are found.
func (s *DefaultSearcher[E, ID]) GetMatches(query model.Query) (model.EntityResult[E], error) {
	matches := make([]model.EntityMatch[E], 0)
	matched := make(map[int32]struct{})
	var metas []*model.Meta
	usable := query
	usable.Searchers = model.UsableSearchers(query.Searchers, s.searcherTypes)

	for _, strategy := range qualityOffsets {
		if len(matches) == query.TopN {
			break
		}
		spec, ok := usable.Spec(strategy.searcherType)
		if !ok {
			continue
		}

		result, err := s.searcher.GetMatches(model.NewStringSearchQuery(query.String, spec.MinQuality, strategy.searcherType))
		if err != nil {
			return model.EntityResult[E]{}, err
		}
		metas = append(metas, result.Meta)

		for _, m := range result.Matches {
			slot := s.store.SlotOfTerm(m.Index)
			if _, seen := matched[slot]; seen || !s.store.Live(slot) {
				continue
			}
			matched[slot] = struct{}{}
			matches = append(matches, model.EntityMatch[E]{
				Entity:        s.store.Entity(slot),
				Quality:       m.Quality + strategy.offset,
				MatchedString: s.store.Term(m.Index),
			})
			if len(matches) == query.TopN {
				break
			}
		}
	}

	return model.NewEntityResult(matches, query, model.MergeMeta(metas...)), nil
}

func (s *DefaultSearcher[E, ID]) TryGetEntity(id ID) (E, bool) {
	return s.store.Get(id)
}

func (s *DefaultSearcher[E, ID]) GetEntities() []E {
	return s.store.Entities()
}

func (s *DefaultSearcher[E, ID]) TryGetTerms(id ID) ([]string, bool) {
	return s.store.TermsOf(id)
}

func (s *DefaultSearcher[E, ID]) GetTerms() []string {
	return s.store.LiveTerms()
}

func (s *DefaultSearcher[E, ID]) RemoveEntity(id ID) bool {
	return s.store.Remove(id)
}

func (s *DefaultSearcher[E, ID]) ReplaceEntity(id ID, entity E, newID ID) bool {
	return s.store.Replace(id, entity, newID)
}

func (s *DefaultSearcher[E, ID]) Save(snapshot *model.Snapshot) error {
	if err := s.store.Save(snapshot); err != nil {
		return err
	}
	return s.searcher.Save(snapshot)
}

func (s *DefaultSearcher[E, ID]) Load(snapshot *model.Snapshot) error {
	if err := s.store.Load(snapshot); err != nil {
		return err
	}
	return s.searcher.Load(snapshot)
}

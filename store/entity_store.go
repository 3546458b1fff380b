// Package store keeps the entities of an entity searcher together with the
// terms they are indexed by. All relations are flat int32 arrays: term i belongs
// to entity slot termToEntity[i], and slot s owns terms
// [firstTerm[s], firstTerm[s+1]).
package store

import (
	"fmt"

	"github.com/gcbaptista/go-fuzzy-search/internal/errors"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

type EntityStore[E any, ID comparable] struct {
	entities []E
	ids      []ID
	live     []bool
	slots    map[ID]int32

	terms        []string
	termToEntity []int32
	firstTerm    []int32
	numberLive   int
}

// NewEntityStore creates an empty store.
func NewEntityStore[E any, ID comparable]() *EntityStore[E, ID] {
	return &EntityStore[E, ID]{
		slots:     make(map[ID]int32),
		firstTerm: []int32{0},
	}
}

// Fill replaces the content of the store. When two entities share an id the
// later one wins and the earlier slot is tombstoned.
func (s *EntityStore[E, ID]) Fill(entities []E, getID func(E) ID, getTerms func(E) []string) {
	s.entities = make([]E, len(entities))
	copy(s.entities, entities)
	s.ids = make([]ID, len(entities))
	s.live = make([]bool, len(entities))
	s.slots = make(map[ID]int32, len(entities))
	s.terms = make([]string, 0, len(entities))
	s.termToEntity = make([]int32, 0, len(entities))
	s.firstTerm = make([]int32, 0, len(entities)+1)
	s.numberLive = 0

	for i, entity := range entities {
		slot := int32(i)
		id := getID(entity)
		if previous, ok := s.slots[id]; ok {
			s.live[previous] = false
			s.numberLive--
		}
		s.ids[i] = id
		s.live[i] = true
		s.slots[id] = slot
		s.numberLive++

		s.firstTerm = append(s.firstTerm, int32(len(s.terms)))
		for _, term := range getTerms(entity) {
			s.terms = append(s.terms, term)
			s.termToEntity = append(s.termToEntity, slot)
		}
	}
	s.firstTerm = append(s.firstTerm, int32(len(s.terms)))
}

// Terms returns every indexed term, including those of removed entities.
// Match indices of the string searcher refer to this array.
func (s *EntityStore[E, ID]) Terms() []string {
	return s.terms
}

// NumberOfEntities returns the number of slots, removed ones included.
func (s *EntityStore[E, ID]) NumberOfEntities() int {
	return len(s.entities)
}

// Len returns the number of live entities.
func (s *EntityStore[E, ID]) Len() int {
	return s.numberLive
}

// Term returns the indexed term at termIndex.
func (s *EntityStore[E, ID]) Term(termIndex int) string {
	return s.terms[termIndex]
}

// SlotOfTerm returns the slot of the entity owning termIndex.
func (s *EntityStore[E, ID]) SlotOfTerm(termIndex int) int32 {
	return s.termToEntity[termIndex]
}

// Live reports whether slot holds an entity that was not removed.
func (s *EntityStore[E, ID]) Live(slot int32) bool {
	return s.live[slot]
}

func (s *EntityStore[E, ID]) Entity(slot int32) E {
	return s.entities[slot]
}

// Get returns the live entity stored under id.
func (s *EntityStore[E, ID]) Get(id ID) (E, bool) {
	slot, ok := s.slots[id]
	if !ok {
		var zero E
		return zero, false
	}
	return s.entities[slot], true
}

// TermsOf returns a copy of the terms id was indexed by.
func (s *EntityStore[E, ID]) TermsOf(id ID) ([]string, bool) {
	slot, ok := s.slots[id]
	if !ok {
		return nil, false
	}
	owned := s.terms[s.firstTerm[slot]:s.firstTerm[slot+1]]
	terms := make([]string, len(owned))
	copy(terms, owned)
	return terms, true
}

// Entities returns the live entities in slot order.
func (s *EntityStore[E, ID]) Entities() []E {
	entities := make([]E, 0, s.numberLive)
	for slot, entity := range s.entities {
		if s.live[slot] {
			entities = append(entities, entity)
		}
	}
	return entities
}

// LiveTerms returns the terms of live entities in slot order.
func (s *EntityStore[E, ID]) LiveTerms() []string {
	terms := make([]string, 0, len(s.terms))
	for i, term := range s.terms {
		if s.live[s.termToEntity[i]] {
			terms = append(terms, term)
		}
	}
	return terms
}

// Remove tombstones the entity stored under id. Its terms stay in place.
func (s *EntityStore[E, ID]) Remove(id ID) bool {
	slot, ok := s.slots[id]
	if !ok {
		return false
	}
	var zero E
	s.entities[slot] = zero
	s.live[slot] = false
	delete(s.slots, id)
	s.numberLive--
	return true
}

// Replace stores entity under newID in the slot of id, keeping its terms.
// It fails if id is absent or newID belongs to another live entity.
func (s *EntityStore[E, ID]) Replace(id ID, entity E, newID ID) bool {
	slot, ok := s.slots[id]
	if !ok {
		return false
	}
	if other, taken := s.slots[newID]; taken && other != slot {
		return false
	}
	s.entities[slot] = entity
	s.ids[slot] = newID
	delete(s.slots, id)
	s.slots[newID] = slot
	return true
}

// Save appends entities, ids, liveness, terms and both mappings to the snapshot.
func (s *EntityStore[E, ID]) Save(snapshot *model.Snapshot) error {
	for _, value := range []interface{}{s.entities, s.ids, s.live, s.terms, s.termToEntity, s.firstTerm} {
		if err := snapshot.Add(value); err != nil {
			return err
		}
	}
	return nil
}

// Load restores what Save wrote and rebuilds the id lookup.
func (s *EntityStore[E, ID]) Load(snapshot *model.Snapshot) error {
	var (
		entities     []E
		ids          []ID
		live         []bool
		terms        []string
		termToEntity []int32
		firstTerm    []int32
	)
	targets := []struct {
		name   string
		target interface{}
	}{
		{"entities", &entities},
		{"ids", &ids},
		{"liveness", &live},
		{"terms", &terms},
		{"term mapping", &termToEntity},
		{"entity mapping", &firstTerm},
	}
	for _, t := range targets {
		if err := snapshot.Next(t.target); err != nil {
			return fmt.Errorf("failed to load %s: %w", t.name, err)
		}
	}

	if len(ids) != len(entities) || len(live) != len(entities) ||
		len(termToEntity) != len(terms) || len(firstTerm) != len(entities)+1 {
		return fmt.Errorf("entity store arrays have inconsistent lengths: %w", errors.ErrSnapshotMismatch)
	}

	s.entities = entities
	s.ids = ids
	s.live = live
	s.terms = terms
	s.termToEntity = termToEntity
	s.firstTerm = firstTerm
	s.slots = make(map[ID]int32, len(entities))
	s.numberLive = 0
	for slot, alive := range live {
		if alive {
			s.slots[ids[slot]] = int32(slot)
			s.numberLive++
		}
	}
	return nil
}

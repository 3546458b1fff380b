package index

import (
	"fmt"
	"sort"

	"github.com/gcbaptista/go-fuzzy-search/internal/errors"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

// InvertedIndex maps an n-gram to the terms containing it.
// It is filled once with Add, then sealed; a sealed index is read-only.
type InvertedIndex struct {
	postings map[string]*PostingList
	sealed   bool
}

// NewInvertedIndex creates an empty, unsealed index.
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{postings: make(map[string]*PostingList)}
}

// Add records that ngram occurs frequency times in the term with termID.
func (ii *InvertedIndex) Add(ngram string, termID, frequency int32) error {
	if ii.sealed {
		return errors.NewUsageError("InvertedIndex.Add", "index is sealed")
	}
	list, ok := ii.postings[ngram]
	if !ok {
		list = &PostingList{}
		ii.postings[ngram] = list
	}
	list.Add(termID, frequency)
	return nil
}

// Seal compacts every posting list and makes the index read-only.
func (ii *InvertedIndex) Seal() {
	for _, list := range ii.postings {
		list.seal()
	}
	ii.sealed = true
}

// Sealed reports whether Seal has been called.
func (ii *InvertedIndex) Sealed() bool {
	return ii.sealed
}

// Get returns the posting list of ngram.
func (ii *InvertedIndex) Get(ngram string) (*PostingList, bool) {
	list, ok := ii.postings[ngram]
	return list, ok
}

// Size returns the number of distinct n-grams.
func (ii *InvertedIndex) Size() int {
	return len(ii.postings)
}

// Save writes the number of n-grams followed by ngram, term ids and frequencies
// for every n-gram in lexical order.
func (ii *InvertedIndex) Save(s *model.Snapshot) error {
	ngrams := make([]string, 0, len(ii.postings))
	for ngram := range ii.postings {
		ngrams = append(ngrams, ngram)
	}
	sort.Strings(ngrams)

	if err := s.Add(len(ngrams)); err != nil {
		return err
	}
	for _, ngram := range ngrams {
		list := ii.postings[ngram]
		if err := s.Add(ngram); err != nil {
			return err
		}
		if err := s.Add(list.TermIDs); err != nil {
			return err
		}
		if err := s.Add(list.Frequencies); err != nil {
			return err
		}
	}
	return nil
}

// Load replaces the content with what Save wrote. The loaded index is sealed.
func (ii *InvertedIndex) Load(s *model.Snapshot) error {
	var count int
	if err := s.Next(&count); err != nil {
		return fmt.Errorf("failed to load inverted index size: %w", err)
	}

	postings := make(map[string]*PostingList, count)
	for i := 0; i < count; i++ {
		var ngram string
		list := &PostingList{}
		if err := s.Next(&ngram); err != nil {
			return fmt.Errorf("failed to load n-gram %d: %w", i, err)
		}
		if err := s.Next(&list.TermIDs); err != nil {
			return fmt.Errorf("failed to load term ids of '%s': %w", ngram, err)
		}
		if err := s.Next(&list.Frequencies); err != nil {
			return fmt.Errorf("failed to load frequencies of '%s': %w", ngram, err)
		}
		if len(list.TermIDs) != len(list.Frequencies) {
			return fmt.Errorf("posting list of '%s' has %d ids but %d frequencies: %w",
				ngram, len(list.TermIDs), len(list.Frequencies), errors.ErrSnapshotMismatch)
		}
		postings[ngram] = list
	}

	ii.postings = postings
	ii.sealed = true
	return nil
}

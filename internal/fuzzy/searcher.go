package fuzzy

import (
	"fmt"
	"strings"
	"time"

	"github.com/gcbaptista/go-fuzzy-search/index"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

// Searcher finds terms sharing n-grams with the query.
// Matches are returned in term order; sorting is left to a decorator.
type Searcher struct {
	computer    *NgramComputer
	coefficient Coefficient

	index          *index.InvertedIndex
	numberOfNgrams []int32
	// commonCounts is reused by every query and reset at its start.
	commonCounts []int32
}

// NewSearcher creates an empty searcher.
func NewSearcher(computer *NgramComputer, coefficient Coefficient) *Searcher {
	if coefficient == "" {
		coefficient = OverlapMax
	}
	s := &Searcher{computer: computer, coefficient: coefficient}
	s.reset(0)
	return s
}

func (s *Searcher) reset(numberOfTerms int) {
	s.index = index.NewInvertedIndex()
	s.numberOfNgrams = make([]int32, numberOfTerms)
	s.commonCounts = make([]int32, numberOfTerms)
}

// Index builds the inverted index over terms. Blank terms get no n-grams.
func (s *Searcher) Index(terms []string) (*model.Meta, error) {
	start := time.Now()
	s.reset(len(terms))
	invalidTerms := 0

	for i, term := range terms {
		if strings.TrimSpace(term) == "" {
			invalidTerms++
			continue
		}

		ngrams := s.computer.Compute(term)
		s.numberOfNgrams[i] = int32(len(ngrams))
		for _, entry := range frequencies(ngrams) {
			if err := s.index.Add(entry.ngram, int32(i), entry.count); err != nil {
				return nil, err
			}
		}
	}
	s.index.Seal()

	return model.NewMetaFromEntries(
		model.MetaEntry{Key: "numberOfInvalidTerms", Value: invalidTerms},
		model.MetaEntry{Key: "indexingDurationFuzzySearcher", Value: time.Since(start).Milliseconds()},
	)
}

// GetMatches returns every term whose quality is strictly above query.MinQuality.
func (s *Searcher) GetMatches(query model.StringSearchQuery) (model.Result, error) {
	if s.index.Size() == 0 {
		return model.NewResult(nil, query, nil), nil
	}

	ngrams := s.computer.Compute(query.String)
	queryCount := int32(len(ngrams))

	for i := range s.commonCounts {
		s.commonCounts[i] = 0
	}
	for _, entry := range frequencies(ngrams) {
		list, ok := s.index.Get(entry.ngram)
		if !ok {
			continue
		}
		for j, termID := range list.TermIDs {
			s.commonCounts[termID] += min(entry.count, list.Frequencies[j])
		}
	}

	var matches []model.Match
	for i, termCount := range s.numberOfNgrams {
		quality := s.coefficient.compute(queryCount, termCount, s.commonCounts[i])
		if quality > query.MinQuality {
			matches = append(matches, model.Match{Index: i, Quality: quality})
		}
	}
	return model.NewResult(matches, query, nil), nil
}

// Save writes the inverted index followed by the n-gram count of every term.
func (s *Searcher) Save(snapshot *model.Snapshot) error {
	if err := s.index.Save(snapshot); err != nil {
		return err
	}
	return snapshot.Add(s.numberOfNgrams)
}

// Load restores the state written by Save.
func (s *Searcher) Load(snapshot *model.Snapshot) error {
	ii := index.NewInvertedIndex()
	if err := ii.Load(snapshot); err != nil {
		return err
	}
	var numberOfNgrams []int32
	if err := snapshot.Next(&numberOfNgrams); err != nil {
		return fmt.Errorf("failed to load n-gram counts: %w", err)
	}
	s.index = ii
	s.numberOfNgrams = numberOfNgrams
	s.commonCounts = make([]int32, len(numberOfNgrams))
	return nil
}

type ngramCount struct {
	ngram string
	count int32
}

// frequencies counts the n-grams, keeping the order of first occurrence.
func frequencies(ngrams []string) []ngramCount {
	positions := make(map[string]int, len(ngrams))
	counts := make([]ngramCount, 0, len(ngrams))
	for _, ngram := range ngrams {
		if pos, ok := positions[ngram]; ok {
			counts[pos].count++
			continue
		}
		positions[ngram] = len(counts)
		counts = append(counts, ngramCount{ngram: ngram, count: 1})
	}
	return counts
}

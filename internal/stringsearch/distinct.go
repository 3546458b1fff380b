package stringsearch

import (
	"fmt"
	"sort"

	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

// Distinct indexes every distinct term once and expands matches back to all
// original positions of that term.
type Distinct struct {
	searcher services.StringSearcher

	// distinctMapping[d] is the first position in sortMapping holding distinct
	// term d; the last entry is the number of terms. For [foo foo foo bar bar baz baz]
	// it is [0 3 5 7].
	distinctMapping []int32
	// sortMapping maps positions in sorted order to original term indices.
	sortMapping []int32
}

func NewDistinct(searcher services.StringSearcher) *Distinct {
	return &Distinct{searcher: searcher}
}

func (d *Distinct) Index(terms []string) (*model.Meta, error) {
	order := make([]int32, len(terms))
	for i := range order {
		order[i] = int32(i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return terms[order[i]] < terms[order[j]]
	})

	distinctTerms := make([]string, 0, len(terms))
	distinctMapping := make([]int32, 0, len(terms)+1)
	for i, original := range order {
		term := terms[original]
		if i == 0 || term != terms[order[i-1]] {
			distinctTerms = append(distinctTerms, term)
			distinctMapping = append(distinctMapping, int32(i))
		}
	}
	distinctMapping = append(distinctMapping, int32(len(order)))

	meta, err := d.searcher.Index(distinctTerms)
	if err != nil {
		return nil, err
	}
	if err := meta.Add("numberOfDistinctTerms", len(distinctTerms)); err != nil {
		return nil, err
	}

	d.sortMapping = order
	d.distinctMapping = distinctMapping
	return meta, nil
}

func (d *Distinct) GetMatches(query model.StringSearchQuery) (model.Result, error) {
	result, err := d.searcher.GetMatches(query)
	if err != nil {
		return model.Result{}, err
	}

	matches := make([]model.Match, 0, len(result.Matches))
	for _, m := range result.Matches {
		start, end := d.distinctMapping[m.Index], d.distinctMapping[m.Index+1]
		for i := start; i < end; i++ {
			matches = append(matches, model.Match{Index: int(d.sortMapping[i]), Quality: m.Quality})
		}
	}
	return model.NewResult(matches, query, result.Meta), nil
}

func (d *Distinct) Save(s *model.Snapshot) error {
	if err := s.Add(d.distinctMapping); err != nil {
		return err
	}
	if err := s.Add(d.sortMapping); err != nil {
		return err
	}
	return d.searcher.Save(s)
}

func (d *Distinct) Load(s *model.Snapshot) error {
	var distinctMapping, sortMapping []int32
	if err := s.Next(&distinctMapping); err != nil {
		return fmt.Errorf("failed to load distinct mapping: %w", err)
	}
	if err := s.Next(&sortMapping); err != nil {
		return fmt.Errorf("failed to load sort mapping: %w", err)
	}
	if err := d.searcher.Load(s); err != nil {
		return err
	}
	d.distinctMapping = distinctMapping
	d.sortMapping = sortMapping
	return nil
}

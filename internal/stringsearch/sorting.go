package stringsearch

import (
	"sort"

	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

// Sorting orders matches by quality descending, then by term index ascending.
type Sorting struct {
	searcher services.StringSearcher
}

func NewSorting(searcher services.StringSearcher) *Sorting {
	return &Sorting{searcher: searcher}
}

func (s *Sorting) Index(terms []string) (*model.Meta, error) {
	return s.searcher.Index(terms)
}

func (s *Sorting) GetMatches(query model.StringSearchQuery) (model.Result, error) {
	result, err := s.searcher.GetMatches(query)
	if err != nil {
		return model.Result{}, err
	}
	SortMatches(result.Matches)
	return result, nil
}

func (s *Sorting) Save(snapshot *model.Snapshot) error {
	return s.searcher.Save(snapshot)
}

func (s *Sorting) Load(snapshot *model.Snapshot) error {
	return s.searcher.Load(snapshot)
}

// SortMatches sorts in place by quality descending and index ascending.
func SortMatches(matches []model.Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Quality != matches[j].Quality {
			return matches[i].Quality > matches[j].Quality
		}
		return matches[i].Index < matches[j].Index
	})
}

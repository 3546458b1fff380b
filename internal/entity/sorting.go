package entity

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

// SortingSearcher reorders the matches of the wrapped searcher according to a SortOrder.
type SortingSearcher[E any, ID comparable] struct {
	services.EntitySearcher[E, ID]
	sortOrder model.SortOrder
}

func NewSortingSearcher[E any, ID comparable](sortOrder model.SortOrder, searcher services.EntitySearcher[E, ID]) *SortingSearcher[E, ID] {
	return &SortingSearcher[E, ID]{EntitySearcher: searcher, sortOrder: sortOrder}
}

func (s *SortingSearcher[E, ID]) GetMatches(query model.Query) (model.EntityResult[E], error) {
	result, err := s.EntitySearcher.GetMatches(query)
	if err != nil {
		return result, err
	}
	if s.sortOrder == model.SortOrderQualityAndMatchedString {
		SortByQualityAndMatchedString(result.Matches)
	}
	return result, nil
}

// SortByQualityAndMatchedString sorts by quality descending and breaks ties by
// comparing matched strings with numeric runs ordered by value ("item2" < "item10").
func SortByQualityAndMatchedString[E any](matches []model.EntityMatch[E]) {
	collator := collate.New(language.Und, collate.Numeric)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Quality != matches[j].Quality {
			return matches[i].Quality > matches[j].Quality
		}
		return collator.CompareString(matches[i].MatchedString, matches[j].MatchedString) < 0
	})
}

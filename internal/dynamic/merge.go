package dynamic

import (
	"sort"

	"github.com/gcbaptista/go-fuzzy-search/model"
)

// MergeResults concatenates the matches of both results, sorts them by quality
// descending (stable) and keeps the first TopN of the first query. Diagnostics
// are merged with model.MergeMeta.
func MergeResults[E any](first, second model.EntityResult[E]) model.EntityResult[E] {
	meta := model.MergeMeta(first.Meta, second.Meta)

	var matches []model.EntityMatch[E]
	switch {
	case len(second.Matches) == 0:
		matches = first.Matches
	case len(first.Matches) == 0:
		matches = second.Matches
	default:
		matches = make([]model.EntityMatch[E], 0, len(first.Matches)+len(second.Matches))
		matches = append(matches, first.Matches...)
		matches = append(matches, second.Matches...)
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Quality > matches[j].Quality
		})
		if len(matches) > first.Query.TopN {
			matches = matches[:first.Query.TopN]
		}
	}
	return model.NewEntityResult(matches, first.Query, meta)
}

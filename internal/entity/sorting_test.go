package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-fuzzy-search/internal/stringsearch"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

func TestSortByQualityAndMatchedString(t *testing.T) {
	matches := []model.EntityMatch[int]{
		{Entity: 1, Quality: 1, MatchedString: "item10"},
		{Entity: 2, Quality: 2, MatchedString: "zeta"},
		{Entity: 3, Quality: 1, MatchedString: "item2"},
		{Entity: 4, Quality: 1, MatchedString: "alpha"},
	}
	SortByQualityAndMatchedString(matches)

	order := make([]int, len(matches))
	for i, m := range matches {
		order[i] = m.Entity
	}
	assert.Equal(t, []int{2, 4, 3, 1}, order)
}

func TestSortingSearcher(t *testing.T) {
	entities := []person{{1, "b", ""}, {2, "a", ""}}
	getTerms := func(p person) []string { return []string{p.Name, "same"} }

	t.Run("quality and index keeps engine order", func(t *testing.T) {
		s := NewSortingSearcher[person, int](model.SortOrderQualityAndIndex,
			NewDefaultSearcher[person, int](stringsearch.NewLiteral(), model.AllSearcherTypes))
		_, err := s.IndexEntities(entities, personID, getTerms)
		require.NoError(t, err)

		result, err := s.GetMatches(model.DefaultQuery("same"))
		require.NoError(t, err)
		require.Len(t, result.Matches, 2)
		assert.Equal(t, 1, result.Matches[0].Entity.ID)
	})

	t.Run("delegates reads", func(t *testing.T) {
		s := NewSortingSearcher[person, int](model.SortOrderQualityAndMatchedString,
			NewDefaultSearcher[person, int](stringsearch.NewLiteral(), model.AllSearcherTypes))
		_, err := s.IndexEntities(entities, personID, getTerms)
		require.NoError(t, err)

		p, ok := s.TryGetEntity(2)
		require.True(t, ok)
		assert.Equal(t, "a", p.Name)
		assert.Equal(t, []string{"b", "same", "a", "same"}, s.GetTerms())
	})
}

package suffixarray

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-fuzzy-search/model"
)

func indexedSearcher(t *testing.T, separator rune, terms ...string) *Searcher {
	t.Helper()
	s := NewSearcher(separator)
	meta, err := s.Index(terms)
	require.NoError(t, err)
	_, ok := meta.Get("indexingDurationSuffixArraySearcher")
	require.True(t, ok)
	return s
}

func sortedByIndex(matches []model.Match) []model.Match {
	sort.Slice(matches, func(i, j int) bool { return matches[i].Index < matches[j].Index })
	return matches
}

func TestSearcher_Prefix(t *testing.T) {
	s := indexedSearcher(t, '$', "Alice", "Bob", "Carlos", "Carol", "Charlie")

	result, err := s.GetMatches(model.NewStringSearchQuery("Car", 0, model.SearcherTypePrefix))
	require.NoError(t, err)

	assert.Equal(t, []model.Match{
		{Index: 2, Quality: 3.0 / 6.0},
		{Index: 3, Quality: 3.0 / 5.0},
	}, sortedByIndex(result.Matches))
	assert.Equal(t, "Car", result.Query.String)
}

func TestSearcher_Substring(t *testing.T) {
	s := indexedSearcher(t, '$', "Alice", "Bob", "Carlos", "Carol", "Charlie")

	result, err := s.GetMatches(model.NewStringSearchQuery("ar", 0, model.SearcherTypeSubstring))
	require.NoError(t, err)
	assert.Equal(t, []model.Match{
		{Index: 2, Quality: 2.0 / 6.0},
		{Index: 3, Quality: 2.0 / 5.0},
		{Index: 4, Quality: 2.0 / 7.0},
	}, sortedByIndex(result.Matches))

	// "ar" is not a prefix of any term
	result, err = s.GetMatches(model.NewStringSearchQuery("ar", 0, model.SearcherTypePrefix))
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
}

func TestSearcher_TermMatchedOnce(t *testing.T) {
	s := indexedSearcher(t, '$', "banana", "ban")

	result, err := s.GetMatches(model.NewStringSearchQuery("an", 0, model.SearcherTypeSubstring))
	require.NoError(t, err)
	assert.Equal(t, []model.Match{
		{Index: 0, Quality: 2.0 / 6.0},
		{Index: 1, Quality: 2.0 / 3.0},
	}, sortedByIndex(result.Matches))
}

func TestSearcher_MinQualityIsExclusive(t *testing.T) {
	s := indexedSearcher(t, '$', "bob", "bobby")

	result, err := s.GetMatches(model.NewStringSearchQuery("bob", 0.6, model.SearcherTypePrefix))
	require.NoError(t, err)
	// bobby has quality exactly 0.6
	assert.Equal(t, []model.Match{{Index: 0, Quality: 1}}, result.Matches)
}

func TestSearcher_EmptyQueryAndEmptyIndex(t *testing.T) {
	s := indexedSearcher(t, '$', "alice")
	result, err := s.GetMatches(model.NewStringSearchQuery("", 0, model.SearcherTypeSubstring))
	require.NoError(t, err)
	assert.Empty(t, result.Matches)

	empty := indexedSearcher(t, '$')
	result, err = empty.GetMatches(model.NewStringSearchQuery("a", 0, model.SearcherTypeSubstring))
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
}

func TestSearcher_SeparatorQueryMatchesNoPhantomTerm(t *testing.T) {
	s := indexedSearcher(t, '$', "ab", "", "cd")

	result, err := s.GetMatches(model.NewStringSearchQuery("$", 0, model.SearcherTypeSubstring))
	require.NoError(t, err)
	for _, m := range result.Matches {
		assert.NotEqual(t, 1, m.Index, "empty terms must not match")
	}
}

func TestSearcher_UsesCharacterLengths(t *testing.T) {
	s := indexedSearcher(t, 'μ', "jörg", "joachim")

	result, err := s.GetMatches(model.NewStringSearchQuery("jö", 0, model.SearcherTypePrefix))
	require.NoError(t, err)
	assert.Equal(t, []model.Match{{Index: 0, Quality: 2.0 / 4.0}}, result.Matches)

	result, err = s.GetMatches(model.NewStringSearchQuery("rg", 0, model.SearcherTypeSubstring))
	require.NoError(t, err)
	assert.Equal(t, []model.Match{{Index: 0, Quality: 2.0 / 4.0}}, result.Matches)
}

func TestSearcher_SaveLoad(t *testing.T) {
	original := indexedSearcher(t, '$', "Alice", "Bob", "Carlos", "Carol", "Charlie")

	snapshot := model.NewSnapshot()
	require.NoError(t, original.Save(snapshot))
	assert.Equal(t, 4, snapshot.Len())

	loaded := NewSearcher('$')
	require.NoError(t, loaded.Load(snapshot))

	for _, query := range []model.StringSearchQuery{
		model.NewStringSearchQuery("Car", 0, model.SearcherTypePrefix),
		model.NewStringSearchQuery("li", 0, model.SearcherTypeSubstring),
		model.NewStringSearchQuery("xyz", 0, model.SearcherTypeSubstring),
	} {
		want, err := original.GetMatches(query)
		require.NoError(t, err)
		got, err := loaded.GetMatches(query)
		require.NoError(t, err)
		assert.Equal(t, want.Matches, got.Matches)
	}
}

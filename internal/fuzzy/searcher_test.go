package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-fuzzy-search/model"
)

func newDefaultSearcher() *Searcher {
	return NewSearcher(NewNgramComputer(3, DefaultTransform('$')), OverlapMax)
}

func TestSearcher_FindsApproximateMatch(t *testing.T) {
	s := newDefaultSearcher()
	meta, err := s.Index([]string{"Alice", "Bob", "Carol", "Charlie"})
	require.NoError(t, err)

	invalid, _ := meta.Get("numberOfInvalidTerms")
	assert.Equal(t, 0, invalid)
	_, ok := meta.Get("indexingDurationFuzzySearcher")
	assert.True(t, ok)

	result, err := s.GetMatches(model.NewStringSearchQuery("Alic", 0.3, model.SearcherTypeFuzzy))
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, 0, result.Matches[0].Index)
	assert.Greater(t, result.Matches[0].Quality, 0.3)
	assert.Less(t, result.Matches[0].Quality, 1.0)
	assert.InDelta(t, 2.0/3.0, result.Matches[0].Quality, 1e-9)
}

func TestSearcher_IdenticalTermHasFullQuality(t *testing.T) {
	s := newDefaultSearcher()
	_, err := s.Index([]string{"$$sarah!", "$$sauer!"})
	require.NoError(t, err)

	result, err := s.GetMatches(model.NewStringSearchQuery("$$sarah!", 0, model.SearcherTypeFuzzy))
	require.NoError(t, err)
	require.NotEmpty(t, result.Matches)
	assert.Equal(t, 0, result.Matches[0].Index)
	assert.Equal(t, 1.0, result.Matches[0].Quality)
}

func TestSearcher_InvalidTermsNeverMatch(t *testing.T) {
	s := newDefaultSearcher()
	meta, err := s.Index([]string{"", "   ", "bob"})
	require.NoError(t, err)

	invalid, _ := meta.Get("numberOfInvalidTerms")
	assert.Equal(t, 2, invalid)

	result, err := s.GetMatches(model.NewStringSearchQuery("bob", 0, model.SearcherTypeFuzzy))
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, 2, result.Matches[0].Index)
}

func TestSearcher_EmptyIndex(t *testing.T) {
	s := newDefaultSearcher()
	_, err := s.Index([]string{})
	require.NoError(t, err)

	result, err := s.GetMatches(model.NewStringSearchQuery("bob", 0, model.SearcherTypeFuzzy))
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
}

func TestSearcher_AccumulatorIsResetBetweenQueries(t *testing.T) {
	s := newDefaultSearcher()
	_, err := s.Index([]string{"alice", "alicia"})
	require.NoError(t, err)

	query := model.NewStringSearchQuery("alice", 0, model.SearcherTypeFuzzy)
	first, err := s.GetMatches(query)
	require.NoError(t, err)
	second, err := s.GetMatches(query)
	require.NoError(t, err)
	assert.Equal(t, first.Matches, second.Matches)
}

func TestSearcher_Jaccard(t *testing.T) {
	s := NewSearcher(NewNgramComputer(3, nil), Jaccard)
	_, err := s.Index([]string{"alice"})
	require.NoError(t, err)

	// ali, lic vs ali, lic, ice: 2 / (2 + 3 - 2)
	result, err := s.GetMatches(model.NewStringSearchQuery("alic", 0, model.SearcherTypeFuzzy))
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.InDelta(t, 2.0/3.0, result.Matches[0].Quality, 1e-9)

	result, err = s.GetMatches(model.NewStringSearchQuery("alicexx", 0, model.SearcherTypeFuzzy))
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	// ali, lic, ice, cex, exx vs ali, lic, ice: 3 / (5 + 3 - 3)
	assert.InDelta(t, 3.0/5.0, result.Matches[0].Quality, 1e-9)
}

func TestSearcher_SaveLoad(t *testing.T) {
	terms := []string{"$$alice!$$king!", "$$bob!", "$$carol!", "$$charlie!"}
	original := newDefaultSearcher()
	_, err := original.Index(terms)
	require.NoError(t, err)

	snapshot := model.NewSnapshot()
	require.NoError(t, original.Save(snapshot))

	loaded := newDefaultSearcher()
	require.NoError(t, loaded.Load(snapshot))
	assert.Equal(t, 0, snapshot.Remaining())

	for _, q := range []string{"$$alice!", "$$carl!", "$$bob!", "$$x!"} {
		query := model.NewStringSearchQuery(q, 0.1, model.SearcherTypeFuzzy)
		want, err := original.GetMatches(query)
		require.NoError(t, err)
		got, err := loaded.GetMatches(query)
		require.NoError(t, err)
		assert.Equal(t, want.Matches, got.Matches, "query %s", q)
	}
}

package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	searcherrors "github.com/gcbaptista/go-fuzzy-search/internal/errors"
)

func TestMeta_Add(t *testing.T) {
	m := NewMeta()
	require.NoError(t, m.Add("numberOfTerms", 4))
	require.NoError(t, m.Add("indexingDuration", int64(3)))

	err := m.Add("numberOfTerms", 5)
	if !errors.Is(err, searcherrors.ErrDuplicateMetaKey) {
		t.Fatalf("Expected duplicate key error, got %v", err)
	}

	value, ok := m.Get("numberOfTerms")
	assert.True(t, ok)
	assert.Equal(t, 4, value)
	assert.Equal(t, []string{"numberOfTerms", "indexingDuration"}, m.Keys())
	assert.Equal(t, 2, m.Len())
}

func TestMergeMeta(t *testing.T) {
	t.Run("no bags", func(t *testing.T) {
		assert.Equal(t, 0, MergeMeta().Len())
	})

	t.Run("single bag is returned as is", func(t *testing.T) {
		m := NewMeta()
		require.NoError(t, m.Add("key", "value"))
		assert.Same(t, m, MergeMeta(m))
	})

	t.Run("numbers are summed and strings are suffixed", func(t *testing.T) {
		m1, err := NewMetaFromEntries(
			MetaEntry{Key: "key1", Value: "meta1Value"},
			MetaEntry{Key: "key2", Value: 10},
			MetaEntry{Key: "key3", Value: "someOtherValue"},
		)
		require.NoError(t, err)
		m2, err := NewMetaFromEntries(
			MetaEntry{Key: "key1", Value: "meta2Value"},
			MetaEntry{Key: "key2", Value: 10},
		)
		require.NoError(t, err)

		merged := MergeMeta(m1, m2)

		assert.Equal(t, []string{"key1_0", "key1_1", "key2", "key3"}, merged.Keys())
		v, _ := merged.Get("key1_0")
		assert.Equal(t, "meta1Value", v)
		v, _ = merged.Get("key1_1")
		assert.Equal(t, "meta2Value", v)
		v, _ = merged.Get("key2")
		assert.Equal(t, int64(20), v)
		v, _ = merged.Get("key3")
		assert.Equal(t, "someOtherValue", v)
	})

	t.Run("mixed integer and float values become a float sum", func(t *testing.T) {
		m1, _ := NewMetaFromEntries(MetaEntry{Key: "d", Value: 1})
		m2, _ := NewMetaFromEntries(MetaEntry{Key: "d", Value: 0.5})
		v, _ := MergeMeta(m1, m2).Get("d")
		assert.Equal(t, 1.5, v)
	})
}

func TestMeta_MarshalJSON(t *testing.T) {
	m, err := NewMetaFromEntries(
		MetaEntry{Key: "zeta", Value: 1},
		MetaEntry{Key: "alpha", Value: "x"},
	)
	require.NoError(t, err)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":"x"}`, string(data))
}

package dynamic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-fuzzy-search/model"
)

func entityResult(t *testing.T, topN int, meta map[string]interface{}, matches ...model.EntityMatch[string]) model.EntityResult[string] {
	t.Helper()
	m := model.NewMeta()
	for _, key := range []string{"count", "name", "duration"} {
		if value, ok := meta[key]; ok {
			require.NoError(t, m.Add(key, value))
		}
	}
	return model.NewEntityResult(matches, model.NewQuery("q", topN), m)
}

func TestMergeResults(t *testing.T) {
	a := model.EntityMatch[string]{Entity: "a", Quality: 2.5}
	b := model.EntityMatch[string]{Entity: "b", Quality: 1.2}
	c := model.EntityMatch[string]{Entity: "c", Quality: 2.5}
	d := model.EntityMatch[string]{Entity: "d", Quality: 0.4}

	t.Run("sorted and capped", func(t *testing.T) {
		merged := MergeResults(
			entityResult(t, 3, nil, a, b, d),
			entityResult(t, 3, nil, c),
		)
		assert.Equal(t, []model.EntityMatch[string]{a, c, b}, merged.Matches)
	})

	t.Run("one side empty", func(t *testing.T) {
		merged := MergeResults(entityResult(t, 10, nil), entityResult(t, 10, nil, b, a))
		assert.Equal(t, []model.EntityMatch[string]{b, a}, merged.Matches)

		merged = MergeResults(entityResult(t, 10, nil, d), entityResult(t, 10, nil))
		assert.Equal(t, []model.EntityMatch[string]{d}, merged.Matches)
	})

	t.Run("meta", func(t *testing.T) {
		merged := MergeResults(
			entityResult(t, 10, map[string]interface{}{"count": 3, "name": "main"}),
			entityResult(t, 10, map[string]interface{}{"count": 4, "name": "secondary", "duration": int64(2)}),
		)
		count, _ := merged.Meta.Get("count")
		assert.Equal(t, int64(7), count)
		first, _ := merged.Meta.Get("name_0")
		second, _ := merged.Meta.Get("name_1")
		assert.Equal(t, "main", first)
		assert.Equal(t, "secondary", second)
		duration, _ := merged.Meta.Get("duration")
		assert.Equal(t, int64(2), duration)
	})
}

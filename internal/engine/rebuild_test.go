package engine_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/go-fuzzy-search/internal/errors"
	testutil "github.com/gcbaptista/go-fuzzy-search/internal/testing"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

func TestEngine_RebuildAsync(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	collection := testutil.CreatePeopleCollection(t, eng)

	_, err := collection.Upsert([]model.Document{
		{"id": "99234", "first_name": "Bob", "last_name": "Knight"},
		{"id": "7", "first_name": "Dana", "last_name": "Scully"},
	})
	require.NoError(t, err)

	jobID, err := eng.RebuildAsync("people")
	require.NoError(t, err)
	require.NotEmpty(t, jobID)

	job := testutil.WaitForJobCompletion(t, eng, jobID, testutil.DefaultJobPollingOptions())
	testutil.AssertJobCompleted(t, job, model.JobTypeRebuild, "people")
	require.NotNil(t, job.Progress)
	assert.Equal(t, 3, job.Progress.Total)

	stats := collection.Stats()
	assert.Equal(t, 7, stats.NumberOfEntries)
	assert.Equal(t, 14, stats.NumberOfTerms)
	assert.False(t, stats.PendingRebuild)

	for query, id := range map[string]string{"Knight": "99234", "Scully": "7", "Queen": "5823"} {
		result, err := collection.Search(model.DefaultQuery(query))
		require.NoError(t, err)
		require.NotEmpty(t, result.Matches, query)
		assert.Equal(t, id, testutil.MatchedIDs(t, result)[0], query)
		assert.Equal(t, 3.0, result.Matches[0].Quality, query)
	}

	_, err = eng.RebuildAsync("unknown")
	assert.ErrorIs(t, err, internalErrors.ErrCollectionNotFound)
}

func TestEngine_ConcurrentRebuilds(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	collection := testutil.CreatePeopleCollection(t, eng)

	var wg sync.WaitGroup
	jobIDs := make([]string, 5)
	for i := range jobIDs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			jobID, err := eng.RebuildAsync("people")
			assert.NoError(t, err)
			jobIDs[i] = jobID
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := collection.Upsert([]model.Document{{"id": "7", "first_name": "Dana", "last_name": "Scully"}})
		assert.NoError(t, err)
	}()
	wg.Wait()

	for _, jobID := range jobIDs {
		require.NotEmpty(t, jobID)
		testutil.WaitForJobCompletion(t, eng, jobID, testutil.DefaultJobPollingOptions())
	}

	assert.Equal(t, 7, collection.Stats().NumberOfEntries)
	doc, ok := collection.Get("7")
	require.True(t, ok)
	assert.Equal(t, "Scully", doc["last_name"])
	assert.Len(t, eng.ListJobs("people", nil), 5)
}

func TestEngine_UpdateSettingsAsync(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	collection := testutil.CreatePeopleCollection(t, eng)

	settings := testutil.PeopleSettings()
	settings.IndexedFields = append(settings.IndexedFields, "job")
	settings.SearcherTypes = []string{"prefix", "substring"}

	jobID, err := eng.UpdateSettingsAsync("people", settings)
	require.NoError(t, err)
	testutil.WaitForJobCompletion(t, eng, jobID, testutil.DefaultJobPollingOptions())

	assert.Equal(t, []string{"first_name", "last_name", "job"}, collection.Settings().IndexedFields)
	assert.Equal(t, 18, collection.Stats().NumberOfTerms)

	stats := eng.GetJobMetrics().Collections["people"]
	assert.Equal(t, map[string]int64{"settings": 1}, stats.ByTrigger)
	assert.NotNil(t, stats.LastRebuildAt)

	result, err := collection.Search(model.DefaultQuery("Plumber"))
	require.NoError(t, err)
	assert.Equal(t, []string{"5823"}, testutil.MatchedIDs(t, result))
	assert.Equal(t, 3.0, result.Matches[0].Quality)

	result, err = collection.Search(model.NewQuery("Plumbr", 10, model.NewSearcherSpec(model.SearcherTypeFuzzy, 0)))
	require.NoError(t, err)
	assert.Empty(t, result.Matches, "fuzzy search is no longer configured")

	t.Run("rename is rejected", func(t *testing.T) {
		renamed := testutil.PeopleSettings()
		renamed.Name = "persons"
		_, err := eng.UpdateSettingsAsync("people", renamed)
		assert.ErrorIs(t, err, internalErrors.ErrInvalidInput)
	})

	t.Run("invalid settings are rejected before a job starts", func(t *testing.T) {
		invalid := testutil.PeopleSettings()
		invalid.SortOrder = "random"
		_, err := eng.UpdateSettingsAsync("people", invalid)
		assert.ErrorIs(t, err, internalErrors.ErrInvalidInput)
	})
}

func TestEngine_SnapshotAsync(t *testing.T) {
	eng := testutil.CreateTestEngine(t)
	testutil.CreatePeopleCollection(t, eng)

	jobID, err := eng.SnapshotAsync("people")
	require.NoError(t, err)
	job := testutil.WaitForJobCompletion(t, eng, jobID, testutil.DefaultJobPollingOptions())
	testutil.AssertJobCompleted(t, job, model.JobTypeSnapshot, "people")

	info, err := os.Stat(job.Metadata["path"])
	require.NoError(t, err)
	assert.Equal(t, "snapshot.gob", filepath.Base(job.Metadata["path"]))
	assert.Positive(t, info.Size())

	metrics := eng.GetJobMetrics()
	assert.Equal(t, int64(1), metrics.JobsCompleted)
}

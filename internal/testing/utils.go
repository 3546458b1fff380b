// Package testing provides fixtures and helpers shared by the engine and API tests.
package testing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-fuzzy-search/config"
	"github.com/gcbaptista/go-fuzzy-search/internal/engine"
	"github.com/gcbaptista/go-fuzzy-search/internal/metrics"
	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

// PeopleCollection is the name used for the person fixture collection.
const PeopleCollection = "people"

// Person is the fixture entity used across searcher tests.
type Person struct {
	ID        int
	FirstName string
	LastName  string
	Job       string
}

// PersonID returns the id of p.
func PersonID(p Person) int { return p.ID }

// PersonTerms indexes the first and the last name.
func PersonTerms(p Person) []string { return []string{p.FirstName, p.LastName} }

// Persons returns the person fixture set.
func Persons() []Person {
	return []Person{
		{23501, "Alice", "King", "Programmer"},
		{99234, "Bob", "Bishop", "Teacher"},
		{5823, "Carol", "Queen", "Plumber"},
		{11923, "Charlie", "Rook", "Waiter"},
		{10, "Sarah", "Connor", "Pilot"},
		{42, "Mikael", "Håkansson", "Goalkeeper"},
	}
}

// IndexPersons indexes the fixture set into s.
func IndexPersons(t *testing.T, s services.EntitySearcher[Person, int]) *model.Meta {
	t.Helper()
	meta, err := s.IndexEntities(Persons(), PersonID, PersonTerms)
	require.NoError(t, err, "Failed to index persons")
	return meta
}

// PersonDocuments returns the fixture set as collection documents.
func PersonDocuments() []model.Document {
	persons := Persons()
	docs := make([]model.Document, len(persons))
	for i, p := range persons {
		docs[i] = model.Document{
			"id":         p.ID,
			"first_name": p.FirstName,
			"last_name":  p.LastName,
			"job":        p.Job,
		}
	}
	return docs
}

// PeopleSettings returns collection settings indexing first and last name.
func PeopleSettings() config.CollectionSettings {
	return config.CollectionSettings{
		Name:          PeopleCollection,
		IndexedFields: []string{"first_name", "last_name"},
	}
}

// CreateTestEngine creates an engine over a temporary data directory and
// closes it when the test ends.
func CreateTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng := engine.NewEngine(t.TempDir(), 2, metrics.New())
	t.Cleanup(eng.Close)
	return eng
}

// CreatePeopleCollection creates the people collection and indexes the fixture documents.
func CreatePeopleCollection(t *testing.T, eng *engine.Engine) services.CollectionAccessor {
	t.Helper()
	require.NoError(t, eng.CreateCollection(PeopleSettings()), "Failed to create test collection")

	collection, err := eng.GetCollection(PeopleCollection)
	require.NoError(t, err, "Failed to get test collection")
	_, err = collection.Index(PersonDocuments())
	require.NoError(t, err, "Failed to index test documents")
	return collection
}

// MatchedIDs returns the document ids of a result, in result order.
func MatchedIDs(t *testing.T, result model.EntityResult[model.Document]) []string {
	t.Helper()
	ids := make([]string, len(result.Matches))
	for i, match := range result.Matches {
		id, ok := match.Entity.GetID()
		require.True(t, ok, "Matched document has no id")
		ids[i] = id
	}
	return ids
}

// JobPollingOptions configures job polling behavior
type JobPollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	LogProgress  bool
}

// DefaultJobPollingOptions returns sensible defaults for job polling
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{
		Timeout:      10 * time.Second,
		PollInterval: 10 * time.Millisecond,
		LogProgress:  false,
	}
}

// WaitForJobCompletion polls a job until it completes or times out
func WaitForJobCompletion(t *testing.T, jobManager services.JobManager, jobID string, opts JobPollingOptions) *model.Job {
	t.Helper()
	timeout := time.After(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			t.Fatalf("Job %s did not complete within %v timeout", jobID, opts.Timeout)
		case <-ticker.C:
			job, err := jobManager.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")

			switch job.Status {
			case model.JobStatusCompleted:
				if opts.LogProgress {
					t.Logf("Job %s completed in %v", jobID, job.CompletedAt.Sub(job.CreatedAt))
				}
				return job
			case model.JobStatusFailed, model.JobStatusCancelled:
				t.Fatalf("Job %s ended with status %s: %s", jobID, job.Status, job.Error)
			case model.JobStatusRunning:
				if opts.LogProgress && job.Progress != nil {
					t.Logf("Job %s progress: %d/%d - %s", jobID, job.Progress.Current, job.Progress.Total, job.Progress.Message)
				}
			}
		}
	}
}

// AssertJobCompleted verifies that a job completed successfully
func AssertJobCompleted(t *testing.T, job *model.Job, expectedType model.JobType, expectedCollection string) {
	t.Helper()
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, expectedType, job.Type, "Job type should match")
	assert.Equal(t, expectedCollection, job.CollectionName, "Job collection name should match")
	assert.NotNil(t, job.CompletedAt, "Job should have completion timestamp")
	assert.Empty(t, job.Error, "Job should not have error")
}

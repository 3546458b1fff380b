package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-fuzzy-search/internal/errors"
	"github.com/gcbaptista/go-fuzzy-search/internal/metrics"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

func waitForStatus(t *testing.T, manager *Manager, jobID string, status model.JobStatus) *model.Job {
	t.Helper()
	var job *model.Job
	require.Eventually(t, func() bool {
		var err error
		job, err = manager.GetJob(jobID)
		return err == nil && job.Status == status
	}, 2*time.Second, 5*time.Millisecond, "job %s never reached status %s", jobID, status)
	return job
}

func TestManager_CreateJob(t *testing.T) {
	manager := NewManager(2, nil)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeRebuild, "people", map[string]string{"trigger": "test"})
	require.NotEmpty(t, jobID)

	job, err := manager.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.JobTypeRebuild, job.Type)
	assert.Equal(t, model.JobStatusPending, job.Status)
	assert.Equal(t, "people", job.CollectionName)
	assert.Equal(t, "test", job.Metadata["trigger"])
}

func TestManager_GetJobUnknown(t *testing.T) {
	manager := NewManager(1, nil)
	defer manager.Stop()

	_, err := manager.GetJob("missing")
	assert.ErrorIs(t, err, errors.ErrJobNotFound)
	assert.ErrorIs(t, manager.ExecuteJob("missing", func(context.Context, *model.Job) error { return nil }), errors.ErrJobNotFound)
}

func TestManager_ExecuteJob(t *testing.T) {
	t.Run("completes and records progress", func(t *testing.T) {
		manager := NewManager(2, nil)
		manager.Start()
		defer manager.Stop()

		jobID := manager.CreateJob(model.JobTypeRebuild, "people", nil)
		err := manager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
			assert.Equal(t, jobID, job.ID)
			manager.UpdateJobProgress(jobID, 1, 2, "terms indexed")
			manager.UpdateJobProgress(jobID, 2, 2, "swapped")
			return nil
		})
		require.NoError(t, err)

		job := waitForStatus(t, manager, jobID, model.JobStatusCompleted)
		require.NotNil(t, job.Progress)
		assert.Equal(t, 100.0, job.Progress.GetProgressPercentage())
		assert.Equal(t, "swapped", job.Progress.Message)
		assert.NotNil(t, job.StartedAt)
		assert.NotNil(t, job.CompletedAt)
		assert.Empty(t, job.Error)
	})

	t.Run("failure keeps the error message", func(t *testing.T) {
		manager := NewManager(1, nil)
		defer manager.Stop()

		jobID := manager.CreateJob(model.JobTypeSnapshot, "people", nil)
		require.NoError(t, manager.ExecuteJob(jobID, func(context.Context, *model.Job) error {
			return fmt.Errorf("disk full")
		}))

		job := waitForStatus(t, manager, jobID, model.JobStatusFailed)
		assert.Equal(t, "disk full", job.Error)
	})

	t.Run("a job runs only once", func(t *testing.T) {
		manager := NewManager(1, nil)
		defer manager.Stop()

		jobID := manager.CreateJob(model.JobTypeRebuild, "people", nil)
		require.NoError(t, manager.ExecuteJob(jobID, func(context.Context, *model.Job) error { return nil }))
		err := manager.ExecuteJob(jobID, func(context.Context, *model.Job) error { return nil })
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "already scheduled"))
	})
}

func TestManager_WorkerLimit(t *testing.T) {
	manager := NewManager(2, nil)
	defer manager.Stop()

	var running, peak int32
	release := make(chan struct{})
	var ids []string
	for i := 0; i < 4; i++ {
		ids = append(ids, manager.CreateJob(model.JobTypeRebuild, "people", nil))
	}

	for _, id := range ids {
		id := id
		go func() {
			_ = manager.ExecuteJob(id, func(context.Context, *model.Job) error {
				n := atomic.AddInt32(&running, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				<-release
				atomic.AddInt32(&running, -1)
				return nil
			})
		}()
	}

	require.Eventually(t, func() bool { return atomic.LoadInt32(&running) == 2 }, 2*time.Second, 5*time.Millisecond)
	close(release)
	for _, id := range ids {
		waitForStatus(t, manager, id, model.JobStatusCompleted)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&peak))
}

func TestManager_ListJobs(t *testing.T) {
	manager := NewManager(1, nil)
	defer manager.Stop()

	first := manager.CreateJob(model.JobTypeRebuild, "people", nil)
	manager.CreateJob(model.JobTypeSnapshot, "people", nil)
	manager.CreateJob(model.JobTypeRebuild, "cities", nil)

	assert.Len(t, manager.ListJobs("people", nil), 2)
	assert.Len(t, manager.ListJobs("cities", nil), 1)
	assert.Empty(t, manager.ListJobs("unknown", nil))

	require.NoError(t, manager.ExecuteJob(first, func(context.Context, *model.Job) error { return nil }))
	waitForStatus(t, manager, first, model.JobStatusCompleted)

	completed := model.JobStatusCompleted
	jobs := manager.ListJobs("people", &completed)
	require.Len(t, jobs, 1)
	assert.Equal(t, first, jobs[0].ID)
}

func TestManager_CleanupOldJobs(t *testing.T) {
	manager := NewManager(1, nil)
	defer manager.Stop()

	done := manager.CreateJob(model.JobTypeRebuild, "people", nil)
	pending := manager.CreateJob(model.JobTypeRebuild, "people", nil)
	require.NoError(t, manager.ExecuteJob(done, func(context.Context, *model.Job) error { return nil }))
	waitForStatus(t, manager, done, model.JobStatusCompleted)

	assert.Equal(t, 1, manager.CleanupOldJobs(0))
	_, err := manager.GetJob(done)
	assert.ErrorIs(t, err, errors.ErrJobNotFound)
	_, err = manager.GetJob(pending)
	assert.NoError(t, err)
}

func TestManager_Metrics(t *testing.T) {
	prom := metrics.New()
	manager := NewManager(2, prom)
	defer manager.Stop()

	ok := manager.CreateJob(model.JobTypeRebuild, "people", map[string]string{TriggerMetadataKey: "settings"})
	failed := manager.CreateJob(model.JobTypeSnapshot, "people", nil)
	manager.CreateJob(model.JobTypeRebuild, "cities", map[string]string{TriggerMetadataKey: "rebuild"})

	require.NoError(t, manager.ExecuteJob(ok, func(context.Context, *model.Job) error { return nil }))
	require.NoError(t, manager.ExecuteJob(failed, func(context.Context, *model.Job) error { return fmt.Errorf("boom") }))
	waitForStatus(t, manager, ok, model.JobStatusCompleted)
	waitForStatus(t, manager, failed, model.JobStatusFailed)

	data := manager.GetMetrics()
	assert.Equal(t, int64(3), data.JobsCreated)
	assert.Equal(t, int64(1), data.JobsCompleted)
	assert.Equal(t, int64(1), data.JobsFailed)
	assert.Equal(t, int64(1), data.JobsPending)
	assert.Zero(t, data.JobsRunning)
	assert.Equal(t, int64(1), data.CurrentWorkload())
	assert.InDelta(t, 0.5, data.SuccessRate, 1e-9)

	people := data.Collections["people"]
	assert.Equal(t, int64(2), people.Created)
	assert.Equal(t, int64(1), people.ByType[model.JobTypeRebuild])
	assert.Equal(t, int64(1), people.ByType[model.JobTypeSnapshot])
	assert.Equal(t, map[string]int64{"settings": 1}, people.ByTrigger)
	assert.NotNil(t, people.LastRebuildAt)

	cities := data.Collections["cities"]
	assert.Equal(t, map[string]int64{"rebuild": 1}, cities.ByTrigger)
	assert.Nil(t, cities.LastRebuildAt)

	// the copy is detached from the live counters
	people.ByType[model.JobTypeRebuild] = 99
	assert.Equal(t, int64(1), manager.GetMetrics().Collections["people"].ByType[model.JobTypeRebuild])

	families, err := prom.Registry().Gather()
	require.NoError(t, err)
	found := false
	for _, family := range families {
		if strings.HasSuffix(family.GetName(), "jobs_total") {
			found = true
			assert.Len(t, family.GetMetric(), 2)
		}
	}
	assert.True(t, found, "jobs_total is not registered")
}

func TestJobMetrics_SuccessRateWithoutFinishedJobs(t *testing.T) {
	m := NewJobMetrics()
	m.RecordJobCreated(&model.Job{Type: model.JobTypeRebuild, CollectionName: "people"})
	data := m.GetMetrics()
	assert.Equal(t, 1.0, data.SuccessRate)
	assert.Equal(t, int64(1), data.CurrentWorkload())
	assert.Zero(t, data.AverageDuration)
}

func TestManager_StopWhileScheduling(t *testing.T) {
	for round := 0; round < 20; round++ {
		manager := NewManager(1, nil)
		manager.Start()

		ids := make([]string, 10)
		for i := range ids {
			ids[i] = manager.CreateJob(model.JobTypeSnapshot, "people", nil)
		}

		accepted := make([]bool, len(ids))
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, id := range ids {
				err := manager.ExecuteJob(id, func(context.Context, *model.Job) error { return nil })
				if err == nil {
					accepted[i] = true
					continue
				}
				assert.Contains(t, err.Error(), "shutting down")
			}
		}()
		manager.Stop()
		wg.Wait()

		for i, id := range ids {
			job, err := manager.GetJob(id)
			require.NoError(t, err)
			if accepted[i] {
				assert.Contains(t, []model.JobStatus{model.JobStatusCompleted, model.JobStatusCancelled}, job.Status)
			} else {
				assert.Equal(t, model.JobStatusPending, job.Status)
			}
		}

		data := manager.GetMetrics()
		assert.Zero(t, data.JobsRunning)
		assert.Equal(t, data.JobsCreated, data.JobsPending+data.JobsCompleted+data.JobsCancelled)
	}
}

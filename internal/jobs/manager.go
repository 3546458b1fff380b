package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gcbaptista/go-fuzzy-search/internal/errors"
	"github.com/gcbaptista/go-fuzzy-search/internal/logger"
	"github.com/gcbaptista/go-fuzzy-search/internal/metrics"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

// Manager runs background jobs (collection rebuilds and snapshots) on a bounded
// number of workers and keeps their status for polling.
type Manager struct {
	mu        sync.RWMutex
	jobs      map[string]*model.Job
	scheduled map[string]struct{}
	workers   chan struct{}
	stopChan  chan struct{}
	stopOnce  sync.Once
	stopped   bool
	wg        sync.WaitGroup
	stats     *JobMetrics
	prom      *metrics.Metrics
	log       *log.Logger
}

// NewManager creates a manager running at most maxWorkers jobs at once.
// prom may be nil.
func NewManager(maxWorkers int, prom *metrics.Metrics) *Manager {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Manager{
		jobs:      make(map[string]*model.Job),
		scheduled: make(map[string]struct{}),
		workers:   make(chan struct{}, maxWorkers),
		stopChan:  make(chan struct{}),
		stats:     NewJobMetrics(),
		prom:      prom,
		log:       logger.New("jobs"),
	}
}

// Start launches the periodic cleanup of finished jobs.
func (m *Manager) Start() {
	m.log.Info("job manager started", "workers", cap(m.workers))
	go m.cleanupRoutine()
}

// Stop refuses new jobs, cancels the queued ones and waits for running jobs.
// It is safe to call more than once.
func (m *Manager) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()

	m.stopOnce.Do(func() {
		close(m.stopChan)
		m.wg.Wait()
		m.log.Info("job manager stopped")
	})
}

// CreateJob registers a pending job and returns its id.
func (m *Manager) CreateJob(jobType model.JobType, collectionName string, metadata map[string]string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &model.Job{
		ID:             uuid.New().String(),
		Type:           jobType,
		Status:         model.JobStatusPending,
		CollectionName: collectionName,
		CreatedAt:      time.Now(),
		Metadata:       metadata,
	}

	m.jobs[job.ID] = job
	m.stats.RecordJobCreated(job)
	m.log.Debug("job created", "id", job.ID, "type", job.Type, "collection", collectionName)
	return job.ID
}

// GetJob returns a copy of the job.
func (m *Manager) GetJob(jobID string) (*model.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, errors.NewJobNotFoundError(jobID)
	}
	return copyJob(job), nil
}

// ListJobs returns copies of the jobs of a collection, optionally filtered by status.
func (m *Manager) ListJobs(collectionName string, status *model.JobStatus) []*model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*model.Job
	for _, job := range m.jobs {
		if job.CollectionName != collectionName {
			continue
		}
		if status == nil || job.Status == *status {
			result = append(result, copyJob(job))
		}
	}
	return result
}

func copyJob(job *model.Job) *model.Job {
	jobCopy := *job
	if job.Progress != nil {
		progressCopy := *job.Progress
		jobCopy.Progress = &progressCopy
	}
	return &jobCopy
}

// ExecuteJob schedules jobFunc and returns immediately. The job turns running
// once a worker slot is free. The context passed to jobFunc is cancelled when
// the manager stops.
func (m *Manager) ExecuteJob(jobID string, jobFunc func(ctx context.Context, job *model.Job) error) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return fmt.Errorf("job manager is shutting down")
	}
	job, exists := m.jobs[jobID]
	if !exists {
		m.mu.Unlock()
		return errors.NewJobNotFoundError(jobID)
	}
	if _, scheduled := m.scheduled[jobID]; scheduled || job.Status != model.JobStatusPending {
		m.mu.Unlock()
		return fmt.Errorf("job with ID '%s' is already scheduled (status: %s)", jobID, job.Status)
	}
	m.scheduled[jobID] = struct{}{}
	jobType := job.Type
	// registered under mu so that Stop, which sets stopped under mu, waits for it
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()

		select {
		case m.workers <- struct{}{}:
		case <-m.stopChan:
			m.finish(jobID, model.JobStatusCancelled, "job manager shutting down", 0)
			return
		}
		defer func() { <-m.workers }()

		jobView, ok := m.start(jobID)
		if !ok {
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-m.stopChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		start := time.Now()
		err := jobFunc(ctx, jobView)
		elapsed := time.Since(start)

		if m.prom != nil {
			m.prom.JobDuration.WithLabelValues(string(jobType)).Observe(elapsed.Seconds())
		}
		if err != nil {
			m.finish(jobID, model.JobStatusFailed, err.Error(), elapsed)
			m.log.Error("job failed", "id", jobID, "type", jobType, "elapsed", elapsed, "err", err)
		} else {
			m.finish(jobID, model.JobStatusCompleted, "", elapsed)
			m.log.Info("job completed", "id", jobID, "type", jobType, "elapsed", elapsed)
		}
	}()

	return nil
}

// start marks a scheduled job as running. It fails if the job was cleaned up meanwhile.
func (m *Manager) start(jobID string) (*model.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return nil, false
	}
	job.Status = model.JobStatusRunning
	now := time.Now()
	job.StartedAt = &now
	m.stats.RecordJobStarted(job)
	return copyJob(job), true
}

// UpdateJobProgress records progress of a running job.
func (m *Manager) UpdateJobProgress(jobID string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	if job.Progress == nil {
		job.Progress = &model.JobProgress{}
	}
	job.Progress.Current = current
	job.Progress.Total = total
	job.Progress.Message = message
}

// finish sets the final status. Counters are updated under mu so that a caller
// observing the status also observes them.
func (m *Manager) finish(jobID string, status model.JobStatus, errorMsg string, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, exists := m.jobs[jobID]
	if !exists {
		return
	}
	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}
	now := time.Now()
	job.CompletedAt = &now

	m.stats.RecordJobFinished(job, elapsed)
	if m.prom != nil {
		m.prom.JobsTotal.WithLabelValues(string(job.Type), string(status)).Inc()
	}
}

func (m *Manager) cleanupRoutine() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CleanupOldJobs(24 * time.Hour)
		case <-m.stopChan:
			return
		}
	}
}

// CleanupOldJobs forgets finished jobs older than maxAge.
func (m *Manager) CleanupOldJobs(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	cleaned := 0
	for jobID, job := range m.jobs {
		if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(m.jobs, jobID)
			delete(m.scheduled, jobID)
			cleaned++
		}
	}
	if cleaned > 0 {
		m.log.Info("cleaned up old jobs", "count", cleaned)
	}
	return cleaned
}

// GetMetrics returns a snapshot of the job counters.
func (m *Manager) GetMetrics() JobMetricsData {
	return m.stats.GetMetrics()
}

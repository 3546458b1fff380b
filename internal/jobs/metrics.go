package jobs

import (
	"sync"
	"time"

	"github.com/gcbaptista/go-fuzzy-search/model"
)

// TriggerMetadataKey is the job metadata key naming what started a rebuild
// ("rebuild" for an explicit request, "settings" for a settings update).
const TriggerMetadataKey = "trigger"

// CollectionJobStats counts the jobs of one collection.
type CollectionJobStats struct {
	Created   int64                   `json:"created"`
	Completed int64                   `json:"completed"`
	Failed    int64                   `json:"failed"`
	Cancelled int64                   `json:"cancelled"`
	ByType    map[model.JobType]int64 `json:"by_type"`
	ByTrigger map[string]int64        `json:"by_trigger,omitempty"`
	// Last successful rebuild, whatever its trigger.
	LastRebuildAt       *time.Time `json:"last_rebuild_at,omitempty"`
	LastRebuildDuration int64      `json:"last_rebuild_duration_ms"`
}

// JobMetricsData is a copy of the job counters, served by the jobs metrics route.
type JobMetricsData struct {
	JobsCreated     int64                         `json:"jobs_created"`
	JobsCompleted   int64                         `json:"jobs_completed"`
	JobsFailed      int64                         `json:"jobs_failed"`
	JobsCancelled   int64                         `json:"jobs_cancelled"`
	JobsPending     int64                         `json:"jobs_pending"`
	JobsRunning     int64                         `json:"jobs_running"`
	AverageDuration time.Duration                 `json:"average_duration_ns"`
	SuccessRate     float64                       `json:"success_rate"`
	Collections     map[string]CollectionJobStats `json:"collections"`
	LastUpdated     time.Time                     `json:"last_updated"`
}

// CurrentWorkload is the number of jobs waiting for or holding a worker.
func (d JobMetricsData) CurrentWorkload() int64 {
	return d.JobsPending + d.JobsRunning
}

// JobMetrics aggregates job outcomes per collection. Counters change with the
// job lifecycle: created, started, then exactly one final status.
type JobMetrics struct {
	mu            sync.Mutex
	collections   map[string]*CollectionJobStats
	pending       int64
	running       int64
	totalDuration time.Duration
	lastUpdated   time.Time
}

// NewJobMetrics creates empty counters.
func NewJobMetrics() *JobMetrics {
	return &JobMetrics{
		collections: make(map[string]*CollectionJobStats),
		lastUpdated: time.Now(),
	}
}

func (m *JobMetrics) collection(name string) *CollectionJobStats {
	stats, ok := m.collections[name]
	if !ok {
		stats = &CollectionJobStats{ByType: make(map[model.JobType]int64)}
		m.collections[name] = stats
	}
	return stats
}

// RecordJobCreated counts a new pending job.
func (m *JobMetrics) RecordJobCreated(job *model.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := m.collection(job.CollectionName)
	stats.Created++
	stats.ByType[job.Type]++
	if trigger := job.Metadata[TriggerMetadataKey]; trigger != "" {
		if stats.ByTrigger == nil {
			stats.ByTrigger = make(map[string]int64)
		}
		stats.ByTrigger[trigger]++
	}
	m.pending++
	m.lastUpdated = time.Now()
}

// RecordJobStarted moves a job from pending to running.
func (m *JobMetrics) RecordJobStarted(*model.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending--
	m.running++
	m.lastUpdated = time.Now()
}

// RecordJobFinished counts the final status of job. Jobs without StartedAt are
// cancelled before they ran.
func (m *JobMetrics) RecordJobFinished(job *model.Job, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if job.StartedAt != nil {
		m.running--
	} else {
		m.pending--
	}

	stats := m.collection(job.CollectionName)
	switch job.Status {
	case model.JobStatusCompleted:
		stats.Completed++
		m.totalDuration += elapsed
		if job.Type == model.JobTypeRebuild && job.CompletedAt != nil {
			completedAt := *job.CompletedAt
			stats.LastRebuildAt = &completedAt
			stats.LastRebuildDuration = elapsed.Milliseconds()
		}
	case model.JobStatusFailed:
		stats.Failed++
	case model.JobStatusCancelled:
		stats.Cancelled++
	}
	m.lastUpdated = time.Now()
}

// GetMetrics returns a deep copy of the counters with totals over all collections.
func (m *JobMetrics) GetMetrics() JobMetricsData {
	m.mu.Lock()
	defer m.mu.Unlock()

	data := JobMetricsData{
		JobsPending: m.pending,
		JobsRunning: m.running,
		Collections: make(map[string]CollectionJobStats, len(m.collections)),
		LastUpdated: m.lastUpdated,
	}
	for name, stats := range m.collections {
		data.JobsCreated += stats.Created
		data.JobsCompleted += stats.Completed
		data.JobsFailed += stats.Failed
		data.JobsCancelled += stats.Cancelled

		statsCopy := *stats
		statsCopy.ByType = make(map[model.JobType]int64, len(stats.ByType))
		for jobType, count := range stats.ByType {
			statsCopy.ByType[jobType] = count
		}
		if stats.ByTrigger != nil {
			statsCopy.ByTrigger = make(map[string]int64, len(stats.ByTrigger))
			for trigger, count := range stats.ByTrigger {
				statsCopy.ByTrigger[trigger] = count
			}
		}
		if stats.LastRebuildAt != nil {
			at := *stats.LastRebuildAt
			statsCopy.LastRebuildAt = &at
		}
		data.Collections[name] = statsCopy
	}

	if data.JobsCompleted > 0 {
		data.AverageDuration = m.totalDuration / time.Duration(data.JobsCompleted)
	}
	data.SuccessRate = 1.0
	if finished := data.JobsCompleted + data.JobsFailed; finished > 0 {
		data.SuccessRate = float64(data.JobsCompleted) / float64(finished)
	}
	return data
}

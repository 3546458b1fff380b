// Package engine hosts named collections of documents, each backed by a
// dynamic fuzzy searcher, with snapshot persistence and background rebuilds.
package engine

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/gcbaptista/go-fuzzy-search/config"
	internalErrors "github.com/gcbaptista/go-fuzzy-search/internal/errors"
	"github.com/gcbaptista/go-fuzzy-search/internal/jobs"
	"github.com/gcbaptista/go-fuzzy-search/internal/logger"
	"github.com/gcbaptista/go-fuzzy-search/internal/metrics"
	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

const dataDirPerm = 0755

// Engine manages multiple collections.
// It implements services.CollectionManager, services.RebuildManager and services.JobManager.
type Engine struct {
	mu          sync.RWMutex
	collections map[string]*Collection
	dataDir     string
	jobManager  *jobs.Manager
	rebuilds    singleflight.Group
	metrics     *metrics.Metrics
	log         *log.Logger
}

// NewEngine creates an engine persisting into dataDir and restores the
// collections found there. m may be nil.
func NewEngine(dataDir string, maxWorkers int, m *metrics.Metrics) *Engine {
	if m == nil {
		m = metrics.New()
	}
	eng := &Engine{
		collections: make(map[string]*Collection),
		dataDir:     dataDir,
		jobManager:  jobs.NewManager(maxWorkers, m),
		metrics:     m,
		log:         logger.New("engine"),
	}
	eng.jobManager.Start()

	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		eng.log.Warn("could not create data directory, snapshots will fail", "dir", dataDir, "err", err)
	}
	if err := eng.restore(context.Background(), maxWorkers); err != nil {
		eng.log.Warn("restoring collections failed", "dir", dataDir, "err", err)
	}
	return eng
}

// Close saves every collection and stops the job manager.
func (e *Engine) Close() {
	e.jobManager.Stop()
	for _, name := range e.ListCollections() {
		if err := e.SaveSnapshot(name); err != nil {
			e.log.Error("failed to save collection on shutdown", "collection", name, "err", err)
		}
	}
}

// Metrics returns the collectors the engine reports to.
func (e *Engine) Metrics() *metrics.Metrics {
	return e.metrics
}

// CreateCollection creates an empty collection and persists its settings.
func (e *Engine) CreateCollection(settings config.CollectionSettings) error {
	collection, err := newCollection(settings, e.metrics, e.log)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if _, exists := e.collections[settings.Name]; exists {
		e.mu.Unlock()
		return internalErrors.NewCollectionAlreadyExistsError(settings.Name)
	}
	e.collections[settings.Name] = collection
	e.mu.Unlock()

	if err := e.SaveSnapshot(settings.Name); err != nil {
		e.log.Warn("collection created but not persisted", "collection", settings.Name, "err", err)
	}
	e.log.Info("collection created", "collection", settings.Name, "searchers", collection.settings.SearcherTypes)
	return nil
}

// GetCollection returns the collection called name.
func (e *Engine) GetCollection(name string) (services.CollectionAccessor, error) {
	return e.collection(name)
}

func (e *Engine) collection(name string) (*Collection, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	collection, exists := e.collections[name]
	if !exists {
		return nil, internalErrors.NewCollectionNotFoundError(name)
	}
	return collection, nil
}

// DeleteCollection removes a collection from memory and disk.
func (e *Engine) DeleteCollection(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.collections[name]; !exists {
		return internalErrors.NewCollectionNotFoundError(name)
	}
	delete(e.collections, name)
	e.metrics.CollectionEntities.DeleteLabelValues(name)

	path := filepath.Join(e.dataDir, name)
	if err := os.RemoveAll(path); err != nil {
		e.log.Warn("collection deleted but its data directory remains", "collection", name, "dir", path, "err", err)
	}
	e.log.Info("collection deleted", "collection", name)
	return nil
}

// ListCollections returns the collection names in lexical order.
func (e *Engine) ListCollections() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.collections))
	for name := range e.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetJob returns the job with the given id.
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// ListJobs returns the jobs of a collection.
func (e *Engine) ListJobs(collectionName string, status *model.JobStatus) []*model.Job {
	return e.jobManager.ListJobs(collectionName, status)
}

// GetJobMetrics returns the job counters.
func (e *Engine) GetJobMetrics() jobs.JobMetricsData {
	return e.jobManager.GetMetrics()
}

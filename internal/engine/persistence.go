package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-fuzzy-search/config"
	"github.com/gcbaptista/go-fuzzy-search/internal/persistence"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

const snapshotFile = "snapshot.gob"

// collectionFile is the on-disk form of a collection: the settings needed to
// recreate its searcher and the searcher snapshot itself.
type collectionFile struct {
	Settings config.CollectionSettings
	Snapshot *model.Snapshot
}

func (e *Engine) snapshotPath(name string) string {
	return filepath.Join(e.dataDir, name, snapshotFile)
}

// SaveSnapshot writes the collection to the data directory. Queries keep
// running while the snapshot is taken; writes wait for it.
func (e *Engine) SaveSnapshot(name string) error {
	collection, err := e.collection(name)
	if err != nil {
		return err
	}

	collection.mu.RLock()
	snapshot := model.NewSnapshot()
	err = collection.searcher.Save(snapshot)
	file := collectionFile{Settings: collection.settings, Snapshot: snapshot}
	collection.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to snapshot collection '%s': %w", name, err)
	}

	if err := persistence.SaveGob(e.snapshotPath(name), file); err != nil {
		return fmt.Errorf("failed to persist collection '%s': %w", name, err)
	}
	e.log.Debug("collection persisted", "collection", name, "items", snapshot.Len())
	return nil
}

// restore loads every collection directory of the data directory, at most
// workers at a time. Unreadable collections are skipped with a warning.
func (e *Engine) restore(ctx context.Context, workers int) error {
	items, err := os.ReadDir(e.dataDir)
	if err != nil {
		return fmt.Errorf("failed to read data directory %s: %w", e.dataDir, err)
	}

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		name := item.Name()
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			collection, err := e.loadCollection(name)
			if err != nil {
				e.log.Warn("skipping collection", "collection", name, "err", err)
				return nil
			}

			e.mu.Lock()
			e.collections[name] = collection
			e.mu.Unlock()

			collection.mu.Lock()
			collection.updateGauge()
			collection.mu.Unlock()
			e.log.Info("collection restored", "collection", name)
			return nil
		})
	}
	return g.Wait()
}

func (e *Engine) loadCollection(name string) (*Collection, error) {
	var file collectionFile
	if err := persistence.LoadGob(e.snapshotPath(name), &file); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no %s in collection directory", snapshotFile)
		}
		return nil, err
	}
	if file.Settings.Name != name {
		return nil, fmt.Errorf("settings name '%s' does not match directory name", file.Settings.Name)
	}
	if file.Snapshot == nil {
		return nil, fmt.Errorf("snapshot is missing")
	}

	collection, err := newCollection(file.Settings, e.metrics, e.log)
	if err != nil {
		return nil, err
	}
	if err := collection.searcher.Load(file.Snapshot); err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return collection, nil
}

// SnapshotAsync saves the collection on a job worker and returns the job id.
func (e *Engine) SnapshotAsync(name string) (string, error) {
	if _, err := e.collection(name); err != nil {
		return "", err
	}

	jobID := e.jobManager.CreateJob(model.JobTypeSnapshot, name, map[string]string{
		"path": e.snapshotPath(name),
	})
	err := e.jobManager.ExecuteJob(jobID, func(_ context.Context, _ *model.Job) error {
		return e.SaveSnapshot(name)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start snapshot job: %w", err)
	}
	return jobID, nil
}

// ExportSnapshot returns the encoded searcher snapshot of a collection. Decode it
// with model.Snapshot.UnmarshalBinary and Load it into a searcher created from
// the same settings.
func (e *Engine) ExportSnapshot(name string) ([]byte, error) {
	collection, err := e.collection(name)
	if err != nil {
		return nil, err
	}
	collection.mu.RLock()
	defer collection.mu.RUnlock()

	snapshot := model.NewSnapshot()
	if err := collection.searcher.Save(snapshot); err != nil {
		return nil, err
	}
	return snapshot.MarshalBinary()
}

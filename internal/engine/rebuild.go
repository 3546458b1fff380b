package engine

import (
	"context"
	"fmt"

	"github.com/gcbaptista/go-fuzzy-search/config"
	internalErrors "github.com/gcbaptista/go-fuzzy-search/internal/errors"
	"github.com/gcbaptista/go-fuzzy-search/internal/jobs"
	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/searcher"
)

// RebuildAsync reindexes all documents of a collection into a fresh searcher on
// a job worker and swaps it in. This folds the secondary index back into the
// main one and clears a pending-rebuild flag. Requests arriving while a rebuild
// of the same collection runs share its outcome.
func (e *Engine) RebuildAsync(name string) (string, error) {
	if _, err := e.collection(name); err != nil {
		return "", err
	}

	jobID := e.jobManager.CreateJob(model.JobTypeRebuild, name, map[string]string{
		jobs.TriggerMetadataKey: "rebuild",
	})
	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, _ *model.Job) error {
		leader, err, _ := e.rebuilds.Do(name, func() (interface{}, error) {
			return jobID, e.rebuild(ctx, name, jobID, nil)
		})
		if leader != jobID {
			e.jobManager.UpdateJobProgress(jobID, 1, 1, fmt.Sprintf("coalesced with job %v", leader))
		}
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to start rebuild job: %w", err)
	}
	return jobID, nil
}

// UpdateSettingsAsync validates new settings, then rebuilds the collection with
// them on a job worker and persists the result.
func (e *Engine) UpdateSettingsAsync(name string, settings config.CollectionSettings) (string, error) {
	if _, err := e.collection(name); err != nil {
		return "", err
	}
	if settings.Name != "" && settings.Name != name {
		return "", internalErrors.NewValidationError("name", fmt.Sprintf("cannot rename collection '%s' to '%s'", name, settings.Name))
	}
	settings.Name = name
	if conflicts := settings.ValidateFieldNames(); len(conflicts) > 0 {
		return "", internalErrors.NewValidationError("settings", conflicts[0])
	}
	settings.ApplyDefaults()
	if _, err := settings.ToConfig(); err != nil {
		return "", err
	}

	jobID := e.jobManager.CreateJob(model.JobTypeRebuild, name, map[string]string{
		jobs.TriggerMetadataKey: "settings",
	})
	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, _ *model.Job) error {
		if err := e.rebuild(ctx, name, jobID, &settings); err != nil {
			return err
		}
		return e.SaveSnapshot(name)
	})
	if err != nil {
		return "", fmt.Errorf("failed to start settings update job: %w", err)
	}
	return jobID, nil
}

// rebuild builds a snapshot from a copy of the entities without holding the
// collection lock, loads it into a new searcher, replays the writes made in the
// meantime and swaps the new searcher in. With newSettings nil the current
// settings are kept.
func (e *Engine) rebuild(ctx context.Context, name, jobID string, newSettings *config.CollectionSettings) error {
	collection, err := e.collection(name)
	if err != nil {
		return err
	}
	collection.rebuildMu.Lock()
	defer collection.rebuildMu.Unlock()

	collection.mu.Lock()
	settings := collection.settings
	if newSettings != nil {
		settings = *newSettings
	}
	entities := collection.searcher.GetEntities()
	collection.rebuilding = true
	collection.journal = nil
	collection.mu.Unlock()

	abort := func(err error) error {
		collection.mu.Lock()
		collection.rebuilding = false
		collection.journal = nil
		collection.mu.Unlock()
		return err
	}

	cfg, err := settings.ToConfig()
	if err != nil {
		return abort(err)
	}

	e.jobManager.UpdateJobProgress(jobID, 0, 3, fmt.Sprintf("indexing %d documents", len(entities)))
	snapshot, meta, err := searcher.BuildSnapshot(cfg, entities, documentID, termsOf(settings))
	if err != nil {
		return abort(fmt.Errorf("failed to build snapshot: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return abort(err)
	}

	e.jobManager.UpdateJobProgress(jobID, 1, 3, "loading snapshot")
	fresh, err := searcher.Create[model.Document, string](cfg)
	if err != nil {
		return abort(err)
	}
	if err := fresh.Load(snapshot); err != nil {
		return abort(fmt.Errorf("failed to load snapshot: %w", err))
	}

	e.jobManager.UpdateJobProgress(jobID, 2, 3, "swapping searcher")
	collection.mu.Lock()
	defer collection.mu.Unlock()
	replayed := len(collection.journal)
	if err := replay(fresh, settings, collection.journal); err != nil {
		collection.rebuilding = false
		collection.journal = nil
		return fmt.Errorf("failed to replay writes made during rebuild: %w", err)
	}
	collection.searcher = fresh
	collection.settings = settings
	collection.pendingRebuild = false
	collection.rebuilding = false
	collection.journal = nil
	collection.updateGauge()

	e.jobManager.UpdateJobProgress(jobID, 3, 3, "done")
	e.log.Info("collection rebuilt", "collection", name, "documents", len(entities), "replayed_writes", replayed, "meta", meta.Keys())
	return nil
}

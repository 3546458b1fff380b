package services

import (
	"github.com/gcbaptista/go-fuzzy-search/config"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

// Normalizer turns raw strings into their searchable form.
type Normalizer interface {
	Normalize(input string) string
	NormalizeBulk(inputs []string) ([]string, *model.Meta)
}

// StringSearcher matches a query string against an array of indexed terms.
// Match indices refer to positions in the array passed to Index.
type StringSearcher interface {
	Index(terms []string) (*model.Meta, error)
	GetMatches(query model.StringSearchQuery) (model.Result, error)
	Save(s *model.Snapshot) error
	Load(s *model.Snapshot) error
}

// EntitySearcher indexes entities by one or more terms each and returns matching entities.
type EntitySearcher[E any, ID comparable] interface {
	IndexEntities(entities []E, getID func(E) ID, getTerms func(E) []string) (*model.Meta, error)
	GetMatches(query model.Query) (model.EntityResult[E], error)
	TryGetEntity(id ID) (E, bool)
	GetEntities() []E
	TryGetTerms(id ID) ([]string, bool)
	GetTerms() []string
	// RemoveEntity tombstones the entity. Its terms stay indexed but are never surfaced again.
	RemoveEntity(id ID) bool
	// ReplaceEntity swaps the entity stored under id without touching the index.
	// Callers must only use it when the searchable terms are unchanged.
	ReplaceEntity(id ID, entity E, newID ID) bool
	Save(s *model.Snapshot) error
	Load(s *model.Snapshot) error
}

// DynamicSearcher is an EntitySearcher that accepts writes after the initial build.
type DynamicSearcher[E any, ID comparable] interface {
	EntitySearcher[E, ID]
	UpsertEntities(entities []E, getID func(E) ID, getTerms func(E) []string) (*model.Meta, error)
	RemoveEntities(ids []ID) model.RemovalResult[ID]
}

// CollectionStats summarizes the content of a collection.
type CollectionStats struct {
	Name            string `json:"name"`
	NumberOfEntries int    `json:"number_of_entries"`
	NumberOfTerms   int    `json:"number_of_terms"`
	PendingRebuild  bool   `json:"pending_rebuild"`
}

// CollectionAccessor is the host view of a single searchable collection of documents.
type CollectionAccessor interface {
	Index(docs []model.Document) (*model.Meta, error)
	Upsert(docs []model.Document) (*model.Meta, error)
	Remove(ids []string) model.RemovalResult[string]
	Search(query model.Query) (model.EntityResult[model.Document], error)
	Get(id string) (model.Document, bool)
	Stats() CollectionStats
	Settings() config.CollectionSettings
}

// CollectionManager manages the lifecycle of collections
type CollectionManager interface {
	CreateCollection(settings config.CollectionSettings) error
	GetCollection(name string) (CollectionAccessor, error)
	DeleteCollection(name string) error
	ListCollections() []string
	SaveSnapshot(name string) error
}

// RebuildManager runs collection rebuilds in the background.
type RebuildManager interface {
	RebuildAsync(name string) (string, error) // Returns job ID
}

// JobManager defines operations for managing background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(collectionName string, status *model.JobStatus) []*model.Job
}

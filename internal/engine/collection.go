package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gcbaptista/go-fuzzy-search/config"
	internalErrors "github.com/gcbaptista/go-fuzzy-search/internal/errors"
	"github.com/gcbaptista/go-fuzzy-search/internal/metrics"
	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/searcher"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

type writeKind int

const (
	writeIndex writeKind = iota
	writeUpsert
	writeRemove
)

// write is a mutation recorded while a rebuild runs, replayed onto the rebuilt
// searcher before it is swapped in.
type write struct {
	kind writeKind
	docs []model.Document
	ids  []string
}

// Collection is a named set of documents backed by a dynamic searcher.
// It implements services.CollectionAccessor. All access to the searcher goes
// through mu: queries share it, writes and swaps hold it exclusively.
type Collection struct {
	mu       sync.RWMutex
	settings config.CollectionSettings
	searcher services.DynamicSearcher[model.Document, string]

	// rebuilding is set while a rebuild works on a copy of the entities; writes
	// made in the meantime are kept in journal.
	rebuilding     bool
	journal        []write
	pendingRebuild bool

	rebuildMu sync.Mutex // one rebuild per collection at a time

	metrics *metrics.Metrics
	log     *log.Logger
}

func newCollection(settings config.CollectionSettings, m *metrics.Metrics, logger *log.Logger) (*Collection, error) {
	if conflicts := settings.ValidateFieldNames(); len(conflicts) > 0 {
		return nil, internalErrors.NewValidationError("settings", conflicts[0])
	}
	settings.ApplyDefaults()
	cfg, err := settings.ToConfig()
	if err != nil {
		return nil, err
	}
	s, err := searcher.Create[model.Document, string](cfg)
	if err != nil {
		return nil, err
	}
	return &Collection{
		settings: settings,
		searcher: s,
		metrics:  m,
		log:      logger.With("collection", settings.Name),
	}, nil
}

func documentID(doc model.Document) string {
	id, _ := doc.GetID()
	return id
}

func termsOf(settings config.CollectionSettings) func(model.Document) []string {
	fields := settings.IndexedFields
	return func(doc model.Document) []string {
		return doc.Terms(fields)
	}
}

func validateDocuments(docs []model.Document) error {
	for i, doc := range docs {
		if _, ok := doc.GetID(); !ok {
			return internalErrors.NewValidationError(model.DocumentIDField, fmt.Sprintf("document at position %d has no usable id", i))
		}
	}
	return nil
}

// Index replaces the whole content of the collection with docs.
func (c *Collection) Index(docs []model.Document) (*model.Meta, error) {
	if err := validateDocuments(docs); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	meta, err := c.searcher.IndexEntities(docs, documentID, termsOf(c.settings))
	if err != nil {
		return nil, c.fail("index", err)
	}
	c.record(write{kind: writeIndex, docs: docs})
	c.metrics.EntitiesIndexed.WithLabelValues(c.settings.Name, "index").Add(float64(len(docs)))
	c.updateGauge()
	return meta, nil
}

// Upsert inserts new documents and updates existing ones by id.
func (c *Collection) Upsert(docs []model.Document) (*model.Meta, error) {
	if err := validateDocuments(docs); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	meta, err := c.searcher.UpsertEntities(docs, documentID, termsOf(c.settings))
	if err != nil {
		return nil, c.fail("upsert", err)
	}
	c.record(write{kind: writeUpsert, docs: docs})
	c.metrics.EntitiesIndexed.WithLabelValues(c.settings.Name, "upsert").Add(float64(len(docs)))
	c.updateGauge()
	return meta, nil
}

// Remove deletes documents by id and reports the ids that were present.
func (c *Collection) Remove(ids []string) model.RemovalResult[string] {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := c.searcher.RemoveEntities(ids)
	c.record(write{kind: writeRemove, ids: ids})
	c.metrics.EntitiesRemoved.WithLabelValues(c.settings.Name).Add(float64(len(result.RemovedIDs)))
	c.updateGauge()
	return result
}

// Search runs query against the collection. Queries take the write lock: the
// fuzzy matcher accumulates n-gram counts in a buffer shared by all queries.
func (c *Collection) Search(query model.Query) (model.EntityResult[model.Document], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	result, err := c.searcher.GetMatches(query)
	c.metrics.ObserveSearch(c.settings.Name, time.Since(start).Seconds(), len(result.Matches), err)
	if err != nil {
		return model.EntityResult[model.Document]{}, err
	}
	return result, nil
}

// Get returns the document stored under id.
func (c *Collection) Get(id string) (model.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.searcher.TryGetEntity(id)
}

// Stats summarizes the collection.
func (c *Collection) Stats() services.CollectionStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return services.CollectionStats{
		Name:            c.settings.Name,
		NumberOfEntries: len(c.searcher.GetEntities()),
		NumberOfTerms:   len(c.searcher.GetTerms()),
		PendingRebuild:  c.pendingRebuild,
	}
}

// Settings returns a copy of the collection settings.
func (c *Collection) Settings() config.CollectionSettings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	settings := c.settings
	settings.IndexedFields = append([]string(nil), c.settings.IndexedFields...)
	settings.SearcherTypes = append([]string(nil), c.settings.SearcherTypes...)
	return settings
}

// fail logs a failed write. An invariant violation leaves the searcher in an
// unknown state, so the collection is flagged until a rebuild replaces it.
// Callers hold mu.
func (c *Collection) fail(operation string, err error) error {
	if errors.Is(err, internalErrors.ErrInvariantViolation) {
		c.pendingRebuild = true
		c.log.Error("searcher state is inconsistent, collection needs a rebuild", "operation", operation, "err", err)
	} else {
		c.log.Warn("write failed", "operation", operation, "err", err)
	}
	return fmt.Errorf("%s on collection '%s' failed: %w", operation, c.settings.Name, err)
}

// record keeps w for replay when a rebuild is running. Callers hold mu.
func (c *Collection) record(w write) {
	if c.rebuilding {
		c.journal = append(c.journal, w)
	}
}

// updateGauge is called with mu held.
func (c *Collection) updateGauge() {
	c.metrics.CollectionEntities.WithLabelValues(c.settings.Name).Set(float64(len(c.searcher.GetEntities())))
}

// replay applies journaled writes to a searcher built from settings.
func replay(s services.DynamicSearcher[model.Document, string], settings config.CollectionSettings, journal []write) error {
	getTerms := termsOf(settings)
	for _, w := range journal {
		var err error
		switch w.kind {
		case writeIndex:
			_, err = s.IndexEntities(w.docs, documentID, getTerms)
		case writeUpsert:
			_, err = s.UpsertEntities(w.docs, documentID, getTerms)
		case writeRemove:
			s.RemoveEntities(w.ids)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

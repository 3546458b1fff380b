package stringsearch

import (
	"github.com/gcbaptista/go-fuzzy-search/internal/errors"
	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

// Arm binds a searcher type to the searcher answering it. Several arms may share
// one searcher; it is then indexed, saved and loaded only once.
type Arm struct {
	Type     model.SearcherType
	Searcher services.StringSearcher
}

// Switch dispatches each query to the searcher configured for its type.
type Switch struct {
	arms     map[model.SearcherType]services.StringSearcher
	searcher []services.StringSearcher
}

// NewSwitch creates a Switch. Distinct searchers are indexed in the order of their first arm.
func NewSwitch(arms ...Arm) *Switch {
	s := &Switch{arms: make(map[model.SearcherType]services.StringSearcher, len(arms))}
	for _, arm := range arms {
		s.arms[arm.Type] = arm.Searcher
		if !s.contains(arm.Searcher) {
			s.searcher = append(s.searcher, arm.Searcher)
		}
	}
	return s
}

func (s *Switch) contains(searcher services.StringSearcher) bool {
	for _, existing := range s.searcher {
		if existing == searcher {
			return true
		}
	}
	return false
}

// Types returns the configured searcher types in canonical order.
func (s *Switch) Types() []model.SearcherType {
	var types []model.SearcherType
	for _, t := range model.AllSearcherTypes {
		if _, ok := s.arms[t]; ok {
			types = append(types, t)
		}
	}
	return types
}

func (s *Switch) Index(terms []string) (*model.Meta, error) {
	metas := make([]*model.Meta, 0, len(s.searcher))
	for _, searcher := range s.searcher {
		meta, err := searcher.Index(terms)
		if err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}
	return model.MergeMeta(metas...), nil
}

// GetMatches fails with a usage error if the query names no searcher type or one
// that is not configured.
func (s *Switch) GetMatches(query model.StringSearchQuery) (model.Result, error) {
	if query.SearcherType == "" {
		return model.Result{}, errors.NewUsageError("Switch.GetMatches", "query must name exactly one searcher type")
	}
	searcher, ok := s.arms[query.SearcherType]
	if !ok {
		return model.Result{}, errors.NewSearcherNotConfiguredError(string(query.SearcherType))
	}
	return searcher.GetMatches(query)
}

func (s *Switch) Save(snapshot *model.Snapshot) error {
	for _, searcher := range s.searcher {
		if err := searcher.Save(snapshot); err != nil {
			return err
		}
	}
	return nil
}

func (s *Switch) Load(snapshot *model.Snapshot) error {
	for _, searcher := range s.searcher {
		if err := searcher.Load(snapshot); err != nil {
			return err
		}
	}
	return nil
}

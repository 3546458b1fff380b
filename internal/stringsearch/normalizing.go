package stringsearch

import (
	"github.com/gcbaptista/go-fuzzy-search/internal/normalization"
	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

// Normalizing normalizes terms before indexing and queries before searching.
// Results carry the query as the caller passed it.
type Normalizing struct {
	searcher   services.StringSearcher
	normalizer services.Normalizer
}

func NewNormalizing(searcher services.StringSearcher, normalizer services.Normalizer) *Normalizing {
	return &Normalizing{searcher: searcher, normalizer: normalizer}
}

// Index adds normalizationDuration and the normalizer diagnostics to the meta of the wrapped searcher.
func (n *Normalizing) Index(terms []string) (*model.Meta, error) {
	normalized, normalizerMeta := normalization.NewTimed(n.normalizer).NormalizeBulk(terms)

	meta, err := n.searcher.Index(normalized)
	if err != nil {
		return nil, err
	}
	if err := meta.AddAll(normalizerMeta); err != nil {
		return nil, err
	}
	return meta, nil
}

func (n *Normalizing) GetMatches(query model.StringSearchQuery) (model.Result, error) {
	result, err := n.searcher.GetMatches(query.WithString(n.normalizer.Normalize(query.String)))
	if err != nil {
		return model.Result{}, err
	}
	return model.NewResult(result.Matches, query, result.Meta), nil
}

func (n *Normalizing) Save(s *model.Snapshot) error {
	return n.searcher.Save(s)
}

func (n *Normalizing) Load(s *model.Snapshot) error {
	return n.searcher.Load(s)
}

package model

import "math"

// DefaultTopN is the number of matches a query returns when nothing else is requested.
const DefaultTopN = 10

// Unlimited is used as TopN when every match should be returned.
const Unlimited = math.MaxInt

// SearcherSpec selects a strategy for a query together with its minimum quality.
// Only matches with a quality strictly greater than MinQuality are returned.
type SearcherSpec struct {
	Type       SearcherType `json:"type"`
	MinQuality float64      `json:"min_quality"`
}

// NewSearcherSpec creates a SearcherSpec, clamping negative qualities to zero.
func NewSearcherSpec(t SearcherType, minQuality float64) SearcherSpec {
	return SearcherSpec{Type: t, MinQuality: math.Max(0, minQuality)}
}

// DefaultSearcherSpecs is the strategy selection used by NewQuery when none is given.
func DefaultSearcherSpecs() []SearcherSpec {
	return []SearcherSpec{
		NewSearcherSpec(SearcherTypeFuzzy, 0.3),
		NewSearcherSpec(SearcherTypeSubstring, 0),
		NewSearcherSpec(SearcherTypePrefix, 0),
	}
}

// Query is an immutable entity search request.
type Query struct {
	String    string         `json:"string"`
	TopN      int            `json:"top_n"`
	Searchers []SearcherSpec `json:"searchers"`
}

// NewQuery creates a query. A negative topN is clamped to zero and an empty
// searcher list falls back to DefaultSearcherSpecs.
func NewQuery(s string, topN int, searchers ...SearcherSpec) Query {
	if topN < 0 {
		topN = 0
	}
	if len(searchers) == 0 {
		searchers = DefaultSearcherSpecs()
	}
	specs := make([]SearcherSpec, len(searchers))
	for i, spec := range searchers {
		specs[i] = NewSearcherSpec(spec.Type, spec.MinQuality)
	}
	return Query{String: s, TopN: topN, Searchers: specs}
}

// DefaultQuery creates a query with DefaultTopN and the default strategies.
func DefaultQuery(s string) Query {
	return NewQuery(s, DefaultTopN)
}

// WithString returns a copy of the query with a different query string.
func (q Query) WithString(s string) Query {
	q.String = s
	return q
}

// Spec returns the SearcherSpec for t if the query requests that strategy.
func (q Query) Spec(t SearcherType) (SearcherSpec, bool) {
	for _, spec := range q.Searchers {
		if spec.Type == t {
			return spec, true
		}
	}
	return SearcherSpec{}, false
}

// UsableSearchers returns the requested specs whose strategy is available, in request order.
func UsableSearchers(requested []SearcherSpec, available []SearcherType) []SearcherSpec {
	usable := make([]SearcherSpec, 0, len(requested))
	for _, spec := range requested {
		if ContainsSearcherType(available, spec.Type) {
			usable = append(usable, spec)
		}
	}
	return usable
}

// StringSearchQuery is the single-strategy query handled by string searchers.
type StringSearchQuery struct {
	String       string       `json:"string"`
	MinQuality   float64      `json:"min_quality"`
	SearcherType SearcherType `json:"searcher_type"`
}

// NewStringSearchQuery creates a StringSearchQuery with minQuality clamped into [0, 1].
func NewStringSearchQuery(s string, minQuality float64, searcherType SearcherType) StringSearchQuery {
	return StringSearchQuery{
		String:       s,
		MinQuality:   math.Min(1, math.Max(0, minQuality)),
		SearcherType: searcherType,
	}
}

// WithString returns a copy of the query with a different query string.
func (q StringSearchQuery) WithString(s string) StringSearchQuery {
	q.String = s
	return q
}

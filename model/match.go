package model

// Match is a raw term match produced by a string searcher.
// Index is the position of the term in the array passed to Index.
type Match struct {
	Index   int     `json:"index"`
	Quality float64 `json:"quality"`
}

// Result holds the matches of a string searcher for one query.
type Result struct {
	Matches []Match           `json:"matches"`
	Query   StringSearchQuery `json:"query"`
	Meta    *Meta             `json:"meta"`
}

// NewResult creates a Result, substituting an empty Meta for nil.
func NewResult(matches []Match, query StringSearchQuery, meta *Meta) Result {
	if meta == nil {
		meta = NewMeta()
	}
	if matches == nil {
		matches = []Match{}
	}
	return Result{Matches: matches, Query: query, Meta: meta}
}

// EntityMatch is an entity found by a query. Quality includes the strategy offset
// (prefix 2, substring 1, fuzzy 0), so it is only comparable within one result.
type EntityMatch[E any] struct {
	Entity        E       `json:"entity"`
	Quality       float64 `json:"quality"`
	MatchedString string  `json:"matched_string"`
}

// EntityResult holds the entity matches for a query.
type EntityResult[E any] struct {
	Matches []EntityMatch[E] `json:"matches"`
	Query   Query            `json:"query"`
	Meta    *Meta            `json:"meta"`
}

// NewEntityResult creates an EntityResult, substituting empty values for nil.
func NewEntityResult[E any](matches []EntityMatch[E], query Query, meta *Meta) EntityResult[E] {
	if meta == nil {
		meta = NewMeta()
	}
	if matches == nil {
		matches = []EntityMatch[E]{}
	}
	return EntityResult[E]{Matches: matches, Query: query, Meta: meta}
}

// RemovalResult lists the ids that were actually removed.
type RemovalResult[ID comparable] struct {
	RemovedIDs []ID  `json:"removed_ids"`
	Meta       *Meta `json:"meta"`
}

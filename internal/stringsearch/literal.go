// Package stringsearch holds the string searchers that are composed around the
// fuzzy and suffix array matchers: deduplication, sorting, normalization,
// inequality penalties and dispatch by searcher type.
package stringsearch

import (
	"fmt"

	"github.com/gcbaptista/go-fuzzy-search/model"
)

// Literal matches terms equal to the query with quality 1.
type Literal struct {
	terms []string
}

func NewLiteral() *Literal {
	return &Literal{}
}

func (l *Literal) Index(terms []string) (*model.Meta, error) {
	l.terms = terms
	return model.NewMeta(), nil
}

func (l *Literal) GetMatches(query model.StringSearchQuery) (model.Result, error) {
	var matches []model.Match
	for i, term := range l.terms {
		if term == query.String {
			matches = append(matches, model.Match{Index: i, Quality: 1})
		}
	}
	return model.NewResult(matches, query, nil), nil
}

func (l *Literal) Save(s *model.Snapshot) error {
	return s.Add(l.terms)
}

func (l *Literal) Load(s *model.Snapshot) error {
	var terms []string
	if err := s.Next(&terms); err != nil {
		return fmt.Errorf("failed to load literal terms: %w", err)
	}
	l.terms = terms
	return nil
}

package stringsearch

import (
	"fmt"

	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

// InequalityPenalizing lowers the quality of matches whose content differs from
// the query. N-gram bags are not injective ("aabaaa" and "aaabaa" share all
// trigrams), so equality is checked on precomputed hashes.
type InequalityPenalizing struct {
	searcher      services.StringSearcher
	penaltyFactor float64
	hashCodes     []int32
}

// NewInequalityPenalizing multiplies the quality of unequal matches by 1 - penalty.
func NewInequalityPenalizing(searcher services.StringSearcher, penalty float64) *InequalityPenalizing {
	return &InequalityPenalizing{searcher: searcher, penaltyFactor: 1 - penalty}
}

func (p *InequalityPenalizing) Index(terms []string) (*model.Meta, error) {
	hashCodes := make([]int32, len(terms))
	for i, term := range terms {
		hashCodes[i] = HashCode(term)
	}
	p.hashCodes = hashCodes
	return p.searcher.Index(terms)
}

func (p *InequalityPenalizing) GetMatches(query model.StringSearchQuery) (model.Result, error) {
	queryHash := HashCode(query.String)
	result, err := p.searcher.GetMatches(query)
	if err != nil {
		return model.Result{}, err
	}

	matches := make([]model.Match, 0, len(result.Matches))
	for _, m := range result.Matches {
		if p.hashCodes[m.Index] != queryHash {
			m.Quality *= p.penaltyFactor
		}
		if m.Quality >= query.MinQuality {
			matches = append(matches, m)
		}
	}
	return model.NewResult(matches, result.Query, result.Meta), nil
}

func (p *InequalityPenalizing) Save(s *model.Snapshot) error {
	if err := s.Add(p.hashCodes); err != nil {
		return err
	}
	return p.searcher.Save(s)
}

func (p *InequalityPenalizing) Load(s *model.Snapshot) error {
	var hashCodes []int32
	if err := s.Next(&hashCodes); err != nil {
		return fmt.Errorf("failed to load hash codes: %w", err)
	}
	if err := p.searcher.Load(s); err != nil {
		return err
	}
	p.hashCodes = hashCodes
	return nil
}

// HashCode is a 32 bit, order dependent hash mixing even and odd characters
// separately, seeded with 5381. Hashing stops at the first NUL character.
func HashCode(input string) int32 {
	chars := []rune(input)
	hash1 := int32(5381)
	hash2 := hash1

	for i := 0; i < len(chars) && chars[i] != 0; i += 2 {
		hash1 = ((hash1 << 5) + hash1) ^ chars[i]
		if i == len(chars)-1 || chars[i+1] == 0 {
			break
		}
		hash2 = ((hash2 << 5) + hash2) ^ chars[i+1]
	}
	return hash1 + hash2*1566083941
}

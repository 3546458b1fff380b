package suffixarray

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gcbaptista/go-fuzzy-search/model"
)

// Searcher serves substring and prefix queries from one suffix array built over
// sep + term_0 + sep + term_1 + ... + sep. Prefix queries are answered by
// searching for sep + query, which only matches at term starts.
type Searcher struct {
	separator string

	text             []byte
	suffixArray      []int32
	indexToTermIndex []int32
	termLengths      []int32
}

// NewSearcher creates an empty searcher. The separator must not occur in any term.
func NewSearcher(separator rune) *Searcher {
	return &Searcher{separator: string(separator)}
}

// Separator returns the separator placed between terms.
func (s *Searcher) Separator() string {
	return s.separator
}

// Index rebuilds the suffix array over terms.
func (s *Searcher) Index(terms []string) (*model.Meta, error) {
	start := time.Now()

	var sb strings.Builder
	sb.WriteString(s.separator)
	for _, term := range terms {
		sb.WriteString(term)
		sb.WriteString(s.separator)
	}
	text := []byte(sb.String())

	sa, err := Create(text)
	if err != nil {
		return nil, err
	}

	sepLen := len(s.separator)
	indexToTermIndex := make([]int32, len(text))
	termLengths := make([]int32, len(terms))
	i := 0
	for j, term := range terms {
		termLengths[j] = int32(utf8.RuneCountInString(term))
		for k := 0; k < sepLen+len(term); k++ {
			indexToTermIndex[i] = int32(j)
			i++
		}
	}
	for ; i < len(indexToTermIndex); i++ {
		indexToTermIndex[i] = -1
	}

	s.text = text
	s.suffixArray = sa
	s.indexToTermIndex = indexToTermIndex
	s.termLengths = termLengths

	meta := model.NewMeta()
	if err := meta.Add("indexingDurationSuffixArraySearcher", time.Since(start).Milliseconds()); err != nil {
		return nil, err
	}
	return meta, nil
}

// GetMatches returns the terms containing the query (or starting with it for
// prefix queries). Quality is the query length divided by the term length.
func (s *Searcher) GetMatches(query model.StringSearchQuery) (model.Result, error) {
	if query.String == "" {
		return model.NewResult(nil, query, nil), nil
	}

	pattern := query.String
	if query.SearcherType == model.SearcherTypePrefix {
		pattern = s.separator + query.String
	}
	queryLength := float64(utf8.RuneCountInString(query.String))

	start, end := s.positions(pattern)
	seen := make(map[int32]struct{}, end-start)
	var matches []model.Match
	for j := start; j < end; j++ {
		termIndex := s.indexToTermIndex[s.suffixArray[j]]
		if termIndex < 0 {
			continue
		}
		if _, ok := seen[termIndex]; ok {
			continue
		}
		seen[termIndex] = struct{}{}

		termLength := s.termLengths[termIndex]
		if termLength == 0 {
			continue
		}
		quality := queryLength / float64(termLength)
		if quality > query.MinQuality {
			matches = append(matches, model.Match{Index: int(termIndex), Quality: quality})
		}
	}
	return model.NewResult(matches, query, nil), nil
}

// positions returns the range [start, end) of suffixes starting with pattern.
func (s *Searcher) positions(pattern string) (int, int) {
	p := []byte(pattern)

	l, r := 0, len(s.suffixArray)
	for l < r {
		mid := (l + r) / 2
		if CompareOrdinal(p, 0, s.text, int(s.suffixArray[mid]), len(p)) > 0 {
			l = mid + 1
		} else {
			r = mid
		}
	}
	start := l

	r = len(s.suffixArray)
	for l < r {
		mid := (l + r) / 2
		if CompareOrdinal(p, 0, s.text, int(s.suffixArray[mid]), len(p)) == 0 {
			l = mid + 1
		} else {
			r = mid
		}
	}
	return start, r
}

// Save writes the concatenated string, the suffix array, the position to term map
// and the term lengths.
func (s *Searcher) Save(snapshot *model.Snapshot) error {
	for _, item := range []interface{}{s.text, s.suffixArray, s.indexToTermIndex, s.termLengths} {
		if err := snapshot.Add(item); err != nil {
			return err
		}
	}
	return nil
}

// Load restores the state written by Save.
func (s *Searcher) Load(snapshot *model.Snapshot) error {
	var text []byte
	var sa, indexToTermIndex, termLengths []int32
	for _, target := range []interface{}{&text, &sa, &indexToTermIndex, &termLengths} {
		if err := snapshot.Next(target); err != nil {
			return fmt.Errorf("failed to load suffix array searcher: %w", err)
		}
	}
	s.text = text
	s.suffixArray = sa
	s.indexToTermIndex = indexToTermIndex
	s.termLengths = termLengths
	return nil
}

package stringsearch

import (
	"github.com/gcbaptista/go-fuzzy-search/config"
	"github.com/gcbaptista/go-fuzzy-search/internal/fuzzy"
	"github.com/gcbaptista/go-fuzzy-search/internal/normalization"
	"github.com/gcbaptista/go-fuzzy-search/internal/suffixarray"
	"github.com/gcbaptista/go-fuzzy-search/model"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

// NewFromConfig composes the string searcher for cfg. Fuzzy search runs on padded
// terms behind an inequality penalty; substring and prefix search share one
// suffix array. Every stack deduplicates and sorts its matches.
func NewFromConfig(cfg *config.Config) (*Switch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reserved := cfg.ReservedCharacters()
	var arms []Arm

	if cfg.UsesSuffixArray() {
		var stack services.StringSearcher = suffixarray.NewSearcher(cfg.SubstringSearchConfig.SuffixArraySeparator)
		stack = NewSorting(NewDistinct(stack))
		stack = NewNormalizing(stack, normalization.NewDefault(cfg.NormalizerConfig, reserved))
		for _, t := range []model.SearcherType{model.SearcherTypeSubstring, model.SearcherTypePrefix} {
			if cfg.Uses(t) {
				arms = append(arms, Arm{Type: t, Searcher: stack})
			}
		}
	}

	if cfg.Uses(model.SearcherTypeFuzzy) {
		fc := cfg.FuzzySearchConfig
		computer := fuzzy.NewNgramComputer(fc.NgramN, fc.TransformNgram)
		var stack services.StringSearcher = fuzzy.NewSearcher(computer, fc.QualityFunction)
		stack = NewInequalityPenalizing(stack, fc.InequalityPenalty)
		stack = NewSorting(NewDistinct(stack))
		normalizer := normalization.NewMulti(
			normalization.NewDefault(cfg.NormalizerConfig, reserved),
			normalization.NewNgram(fc.PaddingLeft, fc.PaddingRight, fc.PaddingMiddle),
		)
		arms = append(arms, Arm{Type: model.SearcherTypeFuzzy, Searcher: NewNormalizing(stack, normalizer)})
	}

	return NewSwitch(arms...), nil
}

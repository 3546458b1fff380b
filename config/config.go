package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/gcbaptista/go-fuzzy-search/internal/errors"
	"github.com/gcbaptista/go-fuzzy-search/internal/fuzzy"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

const (
	DefaultMaxQueryLength       = 150
	DefaultNgramN               = 3
	DefaultInequalityPenalty    = 0.05
	DefaultPaddingLeft          = "$$"
	DefaultPaddingRight         = "!"
	DefaultPaddingMiddle        = "!$$"
	DefaultSuffixArraySeparator = '$'
)

// defaultSpaceEquivalents are folded into a single space by the character filter.
var defaultSpaceEquivalents = map[rune]bool{
	'_': true, '-': true, '–': true, '/': true, ',': true, '\t': true,
}

// NormalizerConfig configures the default normalizer pipeline.
type NormalizerConfig struct {
	// Replacements are priority-ordered tables, each mapping a base string to its variations.
	Replacements []map[string][]string
	// TreatCharacterAsSpace reports characters that are folded into a space.
	TreatCharacterAsSpace func(c rune) bool
	// AllowCharacter reports characters that survive the character filter.
	AllowCharacter func(c rune) bool
	// StripCombiningMarks removes nonspacing marks left over by the decomposition step.
	StripCombiningMarks bool
}

// FuzzySearchConfig configures the n-gram searcher.
type FuzzySearchConfig struct {
	PaddingLeft       string
	PaddingRight      string
	PaddingMiddle     string
	NgramN            int
	TransformNgram    fuzzy.Transform
	InequalityPenalty float64
	QualityFunction   fuzzy.Coefficient
}

// SubstringSearchConfig configures the suffix array searcher used for substring and prefix search.
type SubstringSearchConfig struct {
	SuffixArraySeparator rune
}

// Config holds everything needed to build a searcher.
type Config struct {
	NormalizerConfig      NormalizerConfig
	MaxQueryLength        int
	SortOrder             model.SortOrder
	SearcherTypes         []model.SearcherType
	FuzzySearchConfig     *FuzzySearchConfig
	SubstringSearchConfig *SubstringSearchConfig
}

// DefaultNormalizerConfig folds latin variations and keeps ASCII letters and digits only.
func DefaultNormalizerConfig() NormalizerConfig {
	return NormalizerConfig{
		Replacements: []map[string][]string{LatinReplacements},
		TreatCharacterAsSpace: func(c rune) bool {
			return defaultSpaceEquivalents[c]
		},
		AllowCharacter: IsASCIIAlphanumeric,
	}
}

// DefaultFuzzySearchConfig pads with "$$", "!" and "!$$", uses trigrams and the default transform.
func DefaultFuzzySearchConfig() *FuzzySearchConfig {
	return &FuzzySearchConfig{
		PaddingLeft:       DefaultPaddingLeft,
		PaddingRight:      DefaultPaddingRight,
		PaddingMiddle:     DefaultPaddingMiddle,
		NgramN:            DefaultNgramN,
		TransformNgram:    fuzzy.DefaultTransform('$'),
		InequalityPenalty: DefaultInequalityPenalty,
		QualityFunction:   fuzzy.OverlapMax,
	}
}

// DefaultSubstringSearchConfig uses '$' as separator.
func DefaultSubstringSearchConfig() *SubstringSearchConfig {
	return &SubstringSearchConfig{SuffixArraySeparator: DefaultSuffixArraySeparator}
}

// BuildDefaultConfig returns the configuration used by searcher.CreateDefault.
func BuildDefaultConfig() *Config {
	types := make([]model.SearcherType, len(model.AllSearcherTypes))
	copy(types, model.AllSearcherTypes)
	return &Config{
		NormalizerConfig:      DefaultNormalizerConfig(),
		MaxQueryLength:        DefaultMaxQueryLength,
		SortOrder:             model.SortOrderQualityAndIndex,
		SearcherTypes:         types,
		FuzzySearchConfig:     DefaultFuzzySearchConfig(),
		SubstringSearchConfig: DefaultSubstringSearchConfig(),
	}
}

// BuildConfig starts from the default configuration and applies opts in order.
func BuildConfig(opts ...Option) *Config {
	cfg := BuildDefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Uses reports whether t is one of the configured searcher types.
func (c *Config) Uses(t model.SearcherType) bool {
	return model.ContainsSearcherType(c.SearcherTypes, t)
}

// UsesSuffixArray reports whether substring or prefix search is configured.
func (c *Config) UsesSuffixArray() bool {
	return c.Uses(model.SearcherTypeSubstring) || c.Uses(model.SearcherTypePrefix)
}

// ReservedCharacters returns the padding and separator characters the character
// filter must drop so they can never appear inside normalized terms.
func (c *Config) ReservedCharacters() map[rune]bool {
	reserved := make(map[rune]bool)
	if c.FuzzySearchConfig != nil && c.Uses(model.SearcherTypeFuzzy) {
		for _, padding := range []string{c.FuzzySearchConfig.PaddingLeft, c.FuzzySearchConfig.PaddingRight, c.FuzzySearchConfig.PaddingMiddle} {
			for _, r := range padding {
				reserved[r] = true
			}
		}
	}
	if c.SubstringSearchConfig != nil && c.UsesSuffixArray() {
		reserved[c.SubstringSearchConfig.SuffixArraySeparator] = true
	}
	return reserved
}

// Validate checks that every requested strategy has its sub-configuration and that
// all tunables are in range.
func (c *Config) Validate() error {
	if len(c.SearcherTypes) == 0 {
		return errors.NewConfigurationError("searcher_types", "at least one searcher type is required")
	}
	seen := make(map[model.SearcherType]bool)
	for _, t := range c.SearcherTypes {
		if _, err := model.ParseSearcherType(string(t)); err != nil {
			return errors.NewConfigurationError("searcher_types", err.Error())
		}
		if seen[t] {
			return errors.NewConfigurationError("searcher_types", fmt.Sprintf("searcher type '%s' is listed twice", t))
		}
		seen[t] = true
	}

	if c.MaxQueryLength < 1 {
		return errors.NewConfigurationError("max_query_length", "must be at least 1")
	}
	if _, err := model.ParseSortOrder(string(c.SortOrder)); err != nil {
		return errors.NewConfigurationError("sort_order", err.Error())
	}
	if c.NormalizerConfig.AllowCharacter == nil || c.NormalizerConfig.TreatCharacterAsSpace == nil {
		return errors.NewConfigurationError("normalizer_config", "allow and space predicates are required")
	}

	if c.Uses(model.SearcherTypeFuzzy) {
		if err := c.validateFuzzy(); err != nil {
			return err
		}
	}
	if c.UsesSuffixArray() {
		if c.SubstringSearchConfig == nil {
			return errors.NewConfigurationError("substring_search_config", "substring or prefix searcher requested without substring parameters")
		}
		sep := c.SubstringSearchConfig.SuffixArraySeparator
		if sep == 0 || sep == ' ' || !utf8.ValidRune(sep) {
			return errors.NewConfigurationError("substring_search_config", fmt.Sprintf("invalid suffix array separator %q", sep))
		}
	}
	return nil
}

func (c *Config) validateFuzzy() error {
	fc := c.FuzzySearchConfig
	if fc == nil {
		return errors.NewConfigurationError("fuzzy_search_config", "fuzzy searcher requested without fuzzy parameters")
	}
	if fc.NgramN < 1 {
		return errors.NewConfigurationError("fuzzy_search_config", "ngram size must be at least 1")
	}
	if fc.InequalityPenalty < 0 || fc.InequalityPenalty >= 1 {
		return errors.NewConfigurationError("fuzzy_search_config", "inequality penalty must be in [0, 1)")
	}
	if fc.PaddingLeft == "" || fc.PaddingRight == "" || fc.PaddingMiddle == "" {
		return errors.NewConfigurationError("fuzzy_search_config", "padding strings must not be empty")
	}
	switch fc.QualityFunction {
	case fuzzy.OverlapMax, fuzzy.Jaccard:
	default:
		return errors.NewConfigurationError("fuzzy_search_config", fmt.Sprintf("unknown quality function '%s'", fc.QualityFunction))
	}
	return nil
}

// IsASCIIAlphanumeric reports whether c is in [0-9A-Za-z].
func IsASCIIAlphanumeric(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// AllowAllCharacters admits every character; used for non-latin data.
func AllowAllCharacters(rune) bool {
	return true
}

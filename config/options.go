package config

import (
	"github.com/gcbaptista/go-fuzzy-search/internal/fuzzy"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

// Option adjusts a Config built by BuildConfig.
type Option func(*Config)

// WithReplacements replaces the variation tables of the normalizer.
func WithReplacements(tables ...map[string][]string) Option {
	return func(c *Config) {
		c.NormalizerConfig.Replacements = tables
	}
}

// WithSpaceEquivalent sets the predicate for characters folded into a space.
func WithSpaceEquivalent(isSpace func(rune) bool) Option {
	return func(c *Config) {
		c.NormalizerConfig.TreatCharacterAsSpace = isSpace
	}
}

// WithAllowCharacter sets the predicate for characters kept by the character filter.
func WithAllowCharacter(allow func(rune) bool) Option {
	return func(c *Config) {
		c.NormalizerConfig.AllowCharacter = allow
	}
}

// WithStripCombiningMarks enables removal of nonspacing marks after decomposition.
func WithStripCombiningMarks(strip bool) Option {
	return func(c *Config) {
		c.NormalizerConfig.StripCombiningMarks = strip
	}
}

func WithMaxQueryLength(n int) Option {
	return func(c *Config) {
		c.MaxQueryLength = n
	}
}

func WithSortOrder(order model.SortOrder) Option {
	return func(c *Config) {
		c.SortOrder = order
	}
}

// WithSearcherTypes restricts the enabled strategies.
func WithSearcherTypes(types ...model.SearcherType) Option {
	return func(c *Config) {
		c.SearcherTypes = types
	}
}

// WithFuzzySearchConfig replaces the fuzzy configuration; nil removes it.
func WithFuzzySearchConfig(fc *FuzzySearchConfig) Option {
	return func(c *Config) {
		c.FuzzySearchConfig = fc
	}
}

// WithSubstringSearchConfig replaces the substring configuration; nil removes it.
func WithSubstringSearchConfig(sc *SubstringSearchConfig) Option {
	return func(c *Config) {
		c.SubstringSearchConfig = sc
	}
}

func WithNgramN(n int) Option {
	return func(c *Config) {
		c.fuzzyConfig().NgramN = n
	}
}

func WithNgramTransform(transform fuzzy.Transform) Option {
	return func(c *Config) {
		c.fuzzyConfig().TransformNgram = transform
	}
}

func WithInequalityPenalty(penalty float64) Option {
	return func(c *Config) {
		c.fuzzyConfig().InequalityPenalty = penalty
	}
}

func WithQualityFunction(coefficient fuzzy.Coefficient) Option {
	return func(c *Config) {
		c.fuzzyConfig().QualityFunction = coefficient
	}
}

// WithPadding sets the n-gram padding strings.
func WithPadding(left, right, middle string) Option {
	return func(c *Config) {
		fc := c.fuzzyConfig()
		fc.PaddingLeft = left
		fc.PaddingRight = right
		fc.PaddingMiddle = middle
	}
}

func WithSuffixArraySeparator(sep rune) Option {
	return func(c *Config) {
		if c.SubstringSearchConfig == nil {
			c.SubstringSearchConfig = DefaultSubstringSearchConfig()
		}
		c.SubstringSearchConfig.SuffixArraySeparator = sep
	}
}

func (c *Config) fuzzyConfig() *FuzzySearchConfig {
	if c.FuzzySearchConfig == nil {
		c.FuzzySearchConfig = DefaultFuzzySearchConfig()
	}
	return c.FuzzySearchConfig
}

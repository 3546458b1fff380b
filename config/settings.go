// Package config provides configuration structures for the fuzzy search engine.
// It defines searcher configuration, collection settings, and server settings.
package config

import (
	"strings"

	"github.com/gcbaptista/go-fuzzy-search/internal/fuzzy"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

// CollectionSettings contains all configuration options for a hosted collection.
// Documents are reduced to terms by reading IndexedFields in order; a field named
// "first_name+last_name" indexes the two values joined by a space.
type CollectionSettings struct {
	Name               string   `json:"name" toml:"name" yaml:"name"`                                                 // Unique name for the collection
	IndexedFields      []string `json:"indexed_fields" toml:"indexed_fields" yaml:"indexed_fields"`                   // Fields whose values become search terms (e.g., ["first_name", "last_name"])
	SearcherTypes      []string `json:"searcher_types" toml:"searcher_types" yaml:"searcher_types"`                   // Subset of "fuzzy", "substring", "prefix"
	SortOrder          string   `json:"sort_order" toml:"sort_order" yaml:"sort_order"`                               // "qualityAndIndex" or "qualityAndMatchedString"
	MaxQueryLength     int      `json:"max_query_length" toml:"max_query_length" yaml:"max_query_length"`             // Longer queries are truncated
	NgramN             int      `json:"ngram_n" toml:"ngram_n" yaml:"ngram_n"`                                        // Size of the fuzzy n-grams
	InequalityPenalty  float64  `json:"inequality_penalty" toml:"inequality_penalty" yaml:"inequality_penalty"`       // Penalty for fuzzy matches that are not identical
	QualityFunction    string   `json:"quality_function" toml:"quality_function" yaml:"quality_function"`             // "overlapMax" or "jaccard"
	AllowAllCharacters bool     `json:"allow_all_characters" toml:"allow_all_characters" yaml:"allow_all_characters"` // Keep non-latin characters (uses μ/ν padding)
	StripAccents       bool     `json:"strip_accents" toml:"strip_accents" yaml:"strip_accents"`                      // Remove combining marks kept by allow_all_characters
}

// ValidateFieldNames validates field names and enumerations for basic requirements.
func (settings *CollectionSettings) ValidateFieldNames() []string {
	var conflicts []string

	if strings.TrimSpace(settings.Name) == "" {
		conflicts = append(conflicts, "Collection name cannot be empty or whitespace-only")
	}

	conflicts = append(conflicts, checkDuplicates("indexed_fields", settings.IndexedFields)...)
	conflicts = append(conflicts, checkDuplicates("searcher_types", settings.SearcherTypes)...)

	for _, field := range settings.IndexedFields {
		if strings.TrimSpace(field) == "" {
			conflicts = append(conflicts, "Field name cannot be empty or whitespace-only")
			continue
		}
		for _, part := range strings.Split(field, "+") {
			if strings.TrimSpace(part) == "" {
				conflicts = append(conflicts, "Composite field '"+field+"' has an empty part")
				break
			}
		}
	}

	for _, t := range settings.SearcherTypes {
		if _, err := model.ParseSearcherType(t); err != nil {
			conflicts = append(conflicts, "Invalid searcher type '"+t+"' in searcher_types (must be 'fuzzy', 'substring' or 'prefix')")
		}
	}

	if settings.SortOrder != "" {
		if _, err := model.ParseSortOrder(settings.SortOrder); err != nil {
			conflicts = append(conflicts, "Invalid sort order '"+settings.SortOrder+"' (must be 'qualityAndIndex' or 'qualityAndMatchedString')")
		}
	}

	if settings.QualityFunction != "" {
		switch fuzzy.Coefficient(settings.QualityFunction) {
		case fuzzy.OverlapMax, fuzzy.Jaccard:
		default:
			conflicts = append(conflicts, "Invalid quality function '"+settings.QualityFunction+"' (must be 'overlapMax' or 'jaccard')")
		}
	}

	return conflicts
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, fields []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, field := range fields {
		if seen[field] {
			errors = append(errors, "Duplicate value '"+field+"' found in "+fieldName)
		}
		seen[field] = true
	}

	return errors
}

// ApplyDefaults applies default values to the collection settings
func (settings *CollectionSettings) ApplyDefaults() {
	if len(settings.SearcherTypes) == 0 {
		for _, t := range model.AllSearcherTypes {
			settings.SearcherTypes = append(settings.SearcherTypes, string(t))
		}
	}
	if settings.SortOrder == "" {
		settings.SortOrder = string(model.SortOrderQualityAndIndex)
	}
	if settings.MaxQueryLength == 0 {
		settings.MaxQueryLength = DefaultMaxQueryLength
	}
	if settings.NgramN == 0 {
		settings.NgramN = DefaultNgramN
	}
	if settings.InequalityPenalty == 0 {
		settings.InequalityPenalty = DefaultInequalityPenalty
	}
	if settings.QualityFunction == "" {
		settings.QualityFunction = string(fuzzy.OverlapMax)
	}

	// Initialize empty slices if nil to prevent nil pointer issues
	if settings.IndexedFields == nil {
		settings.IndexedFields = []string{}
	}
}

// ToConfig maps the settings onto a searcher Config. Call ApplyDefaults first.
func (settings *CollectionSettings) ToConfig() (*Config, error) {
	opts := []Option{
		WithMaxQueryLength(settings.MaxQueryLength),
		WithNgramN(settings.NgramN),
		WithInequalityPenalty(settings.InequalityPenalty),
		WithQualityFunction(fuzzy.Coefficient(settings.QualityFunction)),
	}

	types := make([]model.SearcherType, 0, len(settings.SearcherTypes))
	for _, raw := range settings.SearcherTypes {
		t, err := model.ParseSearcherType(raw)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	opts = append(opts, WithSearcherTypes(types...))

	order, err := model.ParseSortOrder(settings.SortOrder)
	if err != nil {
		return nil, err
	}
	opts = append(opts, WithSortOrder(order))

	if settings.AllowAllCharacters {
		opts = append(opts, NonLatinOptions()...)
	}
	if settings.StripAccents {
		opts = append(opts, WithStripCombiningMarks(true))
	}

	cfg := BuildConfig(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NonLatinOptions admits every character and moves padding and separator to the
// Greek letters μ and ν so '$' and '!' stay searchable.
func NonLatinOptions() []Option {
	return []Option{
		WithAllowCharacter(AllowAllCharacters),
		WithPadding("μμ", "ν", "νμμ"),
		WithNgramTransform(fuzzy.DefaultTransform('μ')),
		WithSuffixArraySeparator('μ'),
	}
}

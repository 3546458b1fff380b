package config

import (
	"errors"
	"testing"

	searcherrors "github.com/gcbaptista/go-fuzzy-search/internal/errors"
	"github.com/gcbaptista/go-fuzzy-search/internal/fuzzy"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

func TestCollectionSettings_ValidateFieldNames(t *testing.T) {
	tests := []struct {
		name           string
		settings       CollectionSettings
		expectedErrors int
	}{
		{
			name: "valid settings",
			settings: CollectionSettings{
				Name:          "people",
				IndexedFields: []string{"first_name", "last_name", "first_name+last_name"},
				SearcherTypes: []string{"fuzzy", "prefix"},
				SortOrder:     "qualityAndMatchedString",
			},
			expectedErrors: 0,
		},
		{
			name: "duplicate indexed field",
			settings: CollectionSettings{
				Name:          "people",
				IndexedFields: []string{"first_name", "first_name"},
			},
			expectedErrors: 1,
		},
		{
			name: "empty composite part",
			settings: CollectionSettings{
				Name:          "people",
				IndexedFields: []string{"first_name+"},
			},
			expectedErrors: 1,
		},
		{
			name: "unknown searcher type and sort order",
			settings: CollectionSettings{
				Name:          "people",
				IndexedFields: []string{"first_name"},
				SearcherTypes: []string{"phonetic"},
				SortOrder:     "random",
			},
			expectedErrors: 2,
		},
		{
			name:           "missing name",
			settings:       CollectionSettings{IndexedFields: []string{"first_name"}},
			expectedErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.settings.ValidateFieldNames()
			if len(errs) != tt.expectedErrors {
				t.Errorf("Expected %d errors, got %d: %v", tt.expectedErrors, len(errs), errs)
			}
		})
	}
}

func TestCollectionSettings_ApplyDefaults(t *testing.T) {
	settings := CollectionSettings{Name: "people"}
	settings.ApplyDefaults()

	if len(settings.SearcherTypes) != 3 {
		t.Errorf("Expected all searcher types by default, got %v", settings.SearcherTypes)
	}
	if settings.SortOrder != string(model.SortOrderQualityAndIndex) {
		t.Errorf("Expected default sort order, got %s", settings.SortOrder)
	}
	if settings.MaxQueryLength != DefaultMaxQueryLength {
		t.Errorf("Expected max query length %d, got %d", DefaultMaxQueryLength, settings.MaxQueryLength)
	}
	if settings.NgramN != 3 || settings.InequalityPenalty != 0.05 {
		t.Errorf("Unexpected fuzzy defaults: n=%d penalty=%f", settings.NgramN, settings.InequalityPenalty)
	}
	if settings.IndexedFields == nil {
		t.Error("Expected indexed fields to be initialized")
	}
}

func TestCollectionSettings_ToConfig(t *testing.T) {
	settings := CollectionSettings{
		Name:               "cities",
		IndexedFields:      []string{"name"},
		SearcherTypes:      []string{"substring", "prefix"},
		AllowAllCharacters: true,
		QualityFunction:    "jaccard",
	}
	settings.ApplyDefaults()

	cfg, err := settings.ToConfig()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Uses(model.SearcherTypeFuzzy) {
		t.Error("Fuzzy searcher should not be enabled")
	}
	if cfg.SubstringSearchConfig.SuffixArraySeparator != 'μ' {
		t.Errorf("Expected non-latin separator, got %q", cfg.SubstringSearchConfig.SuffixArraySeparator)
	}
	if !cfg.NormalizerConfig.AllowCharacter('ж') {
		t.Error("Expected non-latin characters to be allowed")
	}
	if cfg.FuzzySearchConfig.QualityFunction != fuzzy.Jaccard {
		t.Errorf("Expected jaccard quality function, got %s", cfg.FuzzySearchConfig.QualityFunction)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"default config", BuildDefaultConfig(), false},
		{"fuzzy without fuzzy parameters", BuildConfig(WithFuzzySearchConfig(nil)), true},
		{"fuzzy disabled without fuzzy parameters", BuildConfig(
			WithSearcherTypes(model.SearcherTypeSubstring),
			WithFuzzySearchConfig(nil),
		), false},
		{"prefix without substring parameters", BuildConfig(
			WithSearcherTypes(model.SearcherTypePrefix),
			WithSubstringSearchConfig(nil),
		), true},
		{"no searcher types", BuildConfig(WithSearcherTypes()), true},
		{"duplicate searcher types", BuildConfig(WithSearcherTypes(model.SearcherTypeFuzzy, model.SearcherTypeFuzzy)), true},
		{"penalty out of range", BuildConfig(WithInequalityPenalty(1)), true},
		{"zero ngram size", BuildConfig(WithNgramN(0)), true},
		{"zero max query length", BuildConfig(WithMaxQueryLength(0)), true},
		{"unknown sort order", BuildConfig(WithSortOrder("byName")), true},
		{"empty padding", BuildConfig(WithPadding("", "!", "!$$")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, searcherrors.ErrConfiguration) {
					t.Errorf("Expected configuration error, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_ReservedCharacters(t *testing.T) {
	reserved := BuildDefaultConfig().ReservedCharacters()
	for _, r := range []rune{'$', '!'} {
		if !reserved[r] {
			t.Errorf("Expected %q to be reserved", r)
		}
	}
	if len(reserved) != 2 {
		t.Errorf("Expected 2 reserved characters, got %d", len(reserved))
	}

	substringOnly := BuildConfig(WithSearcherTypes(model.SearcherTypeSubstring))
	if substringOnly.ReservedCharacters()['!'] {
		t.Error("Padding should not be reserved when fuzzy search is disabled")
	}
}

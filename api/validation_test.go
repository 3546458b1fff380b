package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-fuzzy-search/config"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

func TestValidateCollectionName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple name", "people", false},
		{"name with dashes", "people-2024_v1", false},
		{"empty", "", true},
		{"leading whitespace", " people", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"dot", ".", true},
		{"double dot", "..", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateCollectionName(tt.input)
			assert.Equal(t, tt.wantErr, result.HasErrors(), result.Errors)
			assert.Equal(t, !tt.wantErr, result.Valid)
		})
	}
}

func TestValidateDocumentID(t *testing.T) {
	assert.False(t, ValidateDocumentID("42").HasErrors())
	assert.True(t, ValidateDocumentID("").HasErrors())
	assert.True(t, ValidateDocumentID(" 42").HasErrors())
}

func TestValidateCollectionSettings(t *testing.T) {
	valid := func() *config.CollectionSettings {
		return &config.CollectionSettings{Name: "people", IndexedFields: []string{"first_name"}}
	}

	tests := []struct {
		name      string
		modify    func(s *config.CollectionSettings)
		wantField string
	}{
		{"valid", func(s *config.CollectionSettings) {}, ""},
		{"no indexed fields", func(s *config.CollectionSettings) { s.IndexedFields = nil }, "indexed_fields"},
		{"negative query length", func(s *config.CollectionSettings) { s.MaxQueryLength = -1 }, "max_query_length"},
		{"negative ngram size", func(s *config.CollectionSettings) { s.NgramN = -3 }, "ngram_n"},
		{"penalty of one", func(s *config.CollectionSettings) { s.InequalityPenalty = 1 }, "inequality_penalty"},
		{"duplicate field", func(s *config.CollectionSettings) { s.IndexedFields = []string{"a", "a"} }, "field_validation"},
		{"empty composite part", func(s *config.CollectionSettings) { s.IndexedFields = []string{"first_name+"} }, "field_validation"},
		{"unknown quality function", func(s *config.CollectionSettings) { s.QualityFunction = "cosine" }, "field_validation"},
		{"invalid name", func(s *config.CollectionSettings) { s.Name = ".." }, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := valid()
			tt.modify(settings)
			result := ValidateCollectionSettings(settings)
			if tt.wantField == "" {
				assert.False(t, result.HasErrors(), result.Errors)
				return
			}
			require.True(t, result.HasErrors())
			assert.Equal(t, tt.wantField, result.Errors[0].Field)
		})
	}

	t.Run("nil settings", func(t *testing.T) {
		assert.True(t, ValidateCollectionSettings(nil).HasErrors())
	})
}

func TestValidateDocuments(t *testing.T) {
	t.Run("empty batch", func(t *testing.T) {
		assert.True(t, ValidateDocuments(nil, false).HasErrors())
		assert.False(t, ValidateDocuments(nil, true).HasErrors())
	})

	t.Run("ids", func(t *testing.T) {
		docs := []model.Document{
			{"id": "a"},
			{"id": 12.0},
			{"name": "no id"},
			{"id": "   "},
			{"id": true},
		}
		result := ValidateDocuments(docs, false)
		require.Len(t, result.Errors, 3)
		assert.Equal(t, "documents[2].id", result.Errors[0].Field)
		assert.Equal(t, "documents[3].id", result.Errors[1].Field)
		assert.Equal(t, "documents[4].id", result.Errors[2].Field)
	})
}

func TestValidateSearchRequest(t *testing.T) {
	intPtr := func(i int) *int { return &i }

	t.Run("defaults", func(t *testing.T) {
		query, result := ValidateSearchRequest(&SearchRequest{Query: "alice"})
		require.False(t, result.HasErrors())
		assert.Equal(t, "alice", query.String)
		assert.Equal(t, model.DefaultTopN, query.TopN)
		assert.Equal(t, model.DefaultSearcherSpecs(), query.Searchers)
	})

	t.Run("explicit searchers", func(t *testing.T) {
		query, result := ValidateSearchRequest(&SearchRequest{
			Query:     "alice",
			TopN:      intPtr(0),
			Searchers: []SearcherRequest{{Type: "prefix"}, {Type: "fuzzy", MinQuality: 0.5}},
		})
		require.False(t, result.HasErrors())
		assert.Equal(t, 0, query.TopN)
		assert.Equal(t, []model.SearcherSpec{
			model.NewSearcherSpec(model.SearcherTypePrefix, 0),
			model.NewSearcherSpec(model.SearcherTypeFuzzy, 0.5),
		}, query.Searchers)
	})

	tests := []struct {
		name      string
		req       SearchRequest
		wantField string
	}{
		{"negative top_n", SearchRequest{TopN: intPtr(-1)}, "top_n"},
		{"top_n above cap", SearchRequest{TopN: intPtr(MaxTopN + 1)}, "top_n"},
		{"unknown type", SearchRequest{Searchers: []SearcherRequest{{Type: "exact"}}}, "searchers[0].type"},
		{"duplicate type", SearchRequest{Searchers: []SearcherRequest{{Type: "prefix"}, {Type: "prefix"}}}, "searchers[1].type"},
		{"quality out of range", SearchRequest{Searchers: []SearcherRequest{{Type: "fuzzy", MinQuality: 1.5}}}, "searchers[0].min_quality"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, result := ValidateSearchRequest(&tt.req)
			require.True(t, result.HasErrors())
			assert.Equal(t, tt.wantField, result.Errors[0].Field)
		})
	}
}

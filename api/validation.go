// Package api exposes the fuzzy search engine over HTTP.
package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-fuzzy-search/config"
	"github.com/gcbaptista/go-fuzzy-search/model"
)

// MaxTopN caps the number of matches a single search may request.
const MaxTopN = 1000

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateCollectionName validates a collection name parameter. Names become
// directory names in the data directory.
func ValidateCollectionName(name string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if name == "" {
		result.AddError("name", "Collection name is required")
		return result
	}
	if strings.TrimSpace(name) != name {
		result.AddError("name", "Collection name cannot have leading or trailing whitespace")
		return result
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		result.AddError("name", "Collection name cannot contain path separators or be '.' or '..'")
	}
	return result
}

// ValidateDocumentID validates a document ID
func ValidateDocumentID(documentID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if documentID == "" {
		result.AddError("id", "Document ID is required")
		return result
	}
	if strings.TrimSpace(documentID) != documentID {
		result.AddError("id", "Document ID cannot have leading or trailing whitespace")
	}
	return result
}

// ValidateCollectionSettings validates collection settings for creation or update
func ValidateCollectionSettings(settings *config.CollectionSettings) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if settings == nil {
		result.AddError("settings", "Collection settings are required")
		return result
	}

	if nameResult := ValidateCollectionName(settings.Name); nameResult.HasErrors() {
		result.Errors = append(result.Errors, nameResult.Errors...)
		result.Valid = false
	}
	if len(settings.IndexedFields) == 0 {
		result.AddError("indexed_fields", "At least one indexed field is required")
	}
	if settings.MaxQueryLength < 0 {
		result.AddError("max_query_length", "Max query length cannot be negative")
	}
	if settings.NgramN < 0 {
		result.AddError("ngram_n", "N-gram size cannot be negative")
	}
	if settings.InequalityPenalty < 0 || settings.InequalityPenalty >= 1 {
		result.AddError("inequality_penalty", "Inequality penalty must be in [0, 1)")
	}
	for _, conflict := range settings.ValidateFieldNames() {
		result.AddError("field_validation", conflict)
	}

	return result
}

// ValidateDocuments validates a slice of documents for indexing
func ValidateDocuments(docs []model.Document, allowEmpty bool) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(docs) == 0 && !allowEmpty {
		result.AddError("documents", "No documents provided")
		return result
	}

	for i, doc := range docs {
		field := fmt.Sprintf("documents[%d].%s", i, model.DocumentIDField)
		if _, exists := doc[model.DocumentIDField]; !exists {
			result.AddError(field, "Document must have an 'id' field")
			continue
		}
		id, ok := doc.GetID()
		if !ok {
			result.AddError(field, "Document ID must be a non-empty string or an integer")
			continue
		}
		if strings.TrimSpace(id) == "" {
			result.AddError(field, "Document ID cannot be empty or whitespace-only")
		}
	}

	return result
}

// ValidateSearchRequest validates a search request and converts it into a query.
func ValidateSearchRequest(req *SearchRequest) (model.Query, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	topN := model.DefaultTopN
	if req.TopN != nil {
		topN = *req.TopN
		if topN < 0 {
			result.AddError("top_n", "top_n cannot be negative")
		} else if topN > MaxTopN {
			result.AddError("top_n", fmt.Sprintf("top_n cannot exceed %d", MaxTopN))
		}
	}

	specs := make([]model.SearcherSpec, 0, len(req.Searchers))
	seen := make(map[model.SearcherType]bool)
	for i, s := range req.Searchers {
		field := fmt.Sprintf("searchers[%d]", i)
		t, err := model.ParseSearcherType(s.Type)
		if err != nil {
			result.AddError(field+".type", err.Error())
			continue
		}
		if seen[t] {
			result.AddError(field+".type", fmt.Sprintf("searcher type '%s' requested twice", t))
			continue
		}
		seen[t] = true
		if s.MinQuality < 0 || s.MinQuality > 1 {
			result.AddError(field+".min_quality", "min_quality must be in [0, 1]")
			continue
		}
		specs = append(specs, model.NewSearcherSpec(t, s.MinQuality))
	}

	return model.NewQuery(req.Query, topN, specs...), result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}

// ValidateJSONBinding validates JSON binding and returns a standardized error
func ValidateJSONBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindJSON(target); err != nil {
		result.AddError("request_body", "Invalid request body: "+err.Error())
	}

	return result
}

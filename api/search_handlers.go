package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-fuzzy-search/model"
)

// SearcherRequest selects one strategy of a search.
type SearcherRequest struct {
	Type       string  `json:"type"`
	MinQuality float64 `json:"min_quality"`
}

// SearchRequest defines the structure for search queries. Without searchers
// the default strategies apply; without top_n ten matches are returned.
type SearchRequest struct {
	Query     string            `json:"query"`
	TopN      *int              `json:"top_n,omitempty"`
	Searchers []SearcherRequest `json:"searchers,omitempty"`
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Matches []model.EntityMatch[model.Document] `json:"matches"`
	Total   int                                 `json:"total"`
	Query   model.Query                         `json:"query"`
	Meta    *model.Meta                         `json:"meta"`
	TookMs  int64                               `json:"took_ms"`
}

// SearchHandler handles search requests to a collection.
func (api *API) SearchHandler(c *gin.Context) {
	startTime := time.Now()
	collection, _, ok := api.collection(c)
	if !ok {
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}
	query, result := ValidateSearchRequest(&req)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	found, err := collection.Search(query)
	if err != nil {
		SendEngineError(c, "search", ErrorCodeSearchFailed, err)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Matches: found.Matches,
		Total:   len(found.Matches),
		Query:   found.Query,
		Meta:    found.Meta,
		TookMs:  time.Since(startTime).Milliseconds(),
	})
}

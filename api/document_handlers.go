package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-fuzzy-search/model"
)

// RemoveRequest lists the ids of the documents to remove.
type RemoveRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// bindDocuments accepts a single document object or an array of documents.
func bindDocuments(c *gin.Context, allowEmpty bool) ([]model.Document, bool) {
	var rawData interface{}
	if err := c.ShouldBindJSON(&rawData); err != nil {
		SendInvalidJSONError(c, err)
		return nil, false
	}

	var docs []model.Document
	switch data := rawData.(type) {
	case []interface{}:
		docs = make([]model.Document, len(data))
		for i, item := range data {
			docMap, isMap := item.(map[string]interface{})
			if !isMap {
				SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed,
					fmt.Sprintf("Document at index %d is not a valid object", i))
				return nil, false
			}
			docs[i] = docMap
		}
	case map[string]interface{}:
		docs = []model.Document{data}
	default:
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed,
			"Invalid request body. Expecting a document object or an array of documents")
		return nil, false
	}

	if result := ValidateDocuments(docs, allowEmpty); result.HasErrors() {
		SendValidationError(c, result)
		return nil, false
	}
	return docs, true
}

// UpsertDocumentsHandler inserts or updates documents by id.
func (api *API) UpsertDocumentsHandler(c *gin.Context) {
	collection, name, ok := api.collection(c)
	if !ok {
		return
	}
	docs, ok := bindDocuments(c, false)
	if !ok {
		return
	}

	meta, err := collection.Upsert(docs)
	if err != nil {
		SendEngineError(c, "upsert documents", ErrorCodeIndexingFailed, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"message":        fmt.Sprintf("%d document(s) upserted in collection '%s'", len(docs), name),
		"document_count": len(docs),
		"meta":           meta,
	})
}

// IndexDocumentsHandler replaces the whole content of a collection. An empty
// array empties the collection.
func (api *API) IndexDocumentsHandler(c *gin.Context) {
	collection, name, ok := api.collection(c)
	if !ok {
		return
	}
	docs, ok := bindDocuments(c, true)
	if !ok {
		return
	}

	meta, err := collection.Index(docs)
	if err != nil {
		SendEngineError(c, "index documents", ErrorCodeIndexingFailed, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"message":        fmt.Sprintf("Collection '%s' indexed with %d document(s)", name, len(docs)),
		"document_count": len(docs),
		"meta":           meta,
	})
}

// RemoveDocumentsHandler removes documents by id and reports which ones existed.
func (api *API) RemoveDocumentsHandler(c *gin.Context) {
	collection, _, ok := api.collection(c)
	if !ok {
		return
	}

	var req RemoveRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	removal := collection.Remove(req.IDs)
	c.JSON(http.StatusOK, gin.H{
		"removed_ids": removal.RemovedIDs,
		"removed":     len(removal.RemovedIDs),
		"meta":        removal.Meta,
	})
}

// GetDocumentHandler returns a single document.
func (api *API) GetDocumentHandler(c *gin.Context) {
	collection, name, ok := api.collection(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if result := ValidateDocumentID(id); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	doc, found := collection.Get(id)
	if !found {
		SendDocumentNotFoundError(c, id, name)
		return
	}
	c.JSON(http.StatusOK, doc)
}

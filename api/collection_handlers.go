package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-fuzzy-search/config"
)

// CreateCollectionHandler creates a collection from CollectionSettings.
func (api *API) CreateCollectionHandler(c *gin.Context) {
	var settings config.CollectionSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateCollectionSettings(&settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.CreateCollection(settings); err != nil {
		SendEngineError(c, "create collection", ErrorCodePersistenceFailed, err)
		return
	}

	created, err := api.engine.GetCollection(settings.Name)
	if err != nil {
		SendInternalError(c, "create collection", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":   "created",
		"message":  fmt.Sprintf("Collection '%s' created", settings.Name),
		"settings": created.Settings(),
	})
}

// ListCollectionsHandler lists collections with their stats.
func (api *API) ListCollectionsHandler(c *gin.Context) {
	names := api.engine.ListCollections()
	collections := make([]interface{}, 0, len(names))
	for _, name := range names {
		collection, err := api.engine.GetCollection(name)
		if err != nil {
			// deleted concurrently
			continue
		}
		collections = append(collections, collection.Stats())
	}
	c.JSON(http.StatusOK, gin.H{
		"collections": collections,
		"total":       len(collections),
	})
}

// GetCollectionHandler returns settings and stats of a collection.
func (api *API) GetCollectionHandler(c *gin.Context) {
	collection, _, ok := api.collection(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"settings": collection.Settings(),
		"stats":    collection.Stats(),
	})
}

// DeleteCollectionHandler deletes a collection and its snapshot.
func (api *API) DeleteCollectionHandler(c *gin.Context) {
	name := c.Param("name")
	if result := ValidateCollectionName(name); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if err := api.engine.DeleteCollection(name); err != nil {
		SendEngineError(c, "delete collection", ErrorCodePersistenceFailed, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "deleted",
		"message": fmt.Sprintf("Collection '%s' deleted", name),
	})
}

// UpdateSettingsHandler starts a rebuild of the collection with new settings.
func (api *API) UpdateSettingsHandler(c *gin.Context) {
	_, name, ok := api.collection(c)
	if !ok {
		return
	}

	var settings config.CollectionSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if settings.Name == "" {
		settings.Name = name
	}
	if result := ValidateCollectionSettings(&settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	jobID, err := api.engine.UpdateSettingsAsync(name, settings)
	if err != nil {
		SendEngineError(c, "update settings", ErrorCodeJobExecutionFailed, err)
		return
	}
	sendAccepted(c, jobID, fmt.Sprintf("Settings update started for collection '%s'", name))
}

// RebuildHandler starts a background rebuild.
func (api *API) RebuildHandler(c *gin.Context) {
	_, name, ok := api.collection(c)
	if !ok {
		return
	}
	jobID, err := api.engine.RebuildAsync(name)
	if err != nil {
		SendEngineError(c, "rebuild", ErrorCodeJobExecutionFailed, err)
		return
	}
	sendAccepted(c, jobID, fmt.Sprintf("Rebuild started for collection '%s'", name))
}

// SnapshotHandler starts writing a snapshot of the collection to the data directory.
func (api *API) SnapshotHandler(c *gin.Context) {
	_, name, ok := api.collection(c)
	if !ok {
		return
	}
	jobID, err := api.engine.SnapshotAsync(name)
	if err != nil {
		SendEngineError(c, "snapshot", ErrorCodeJobExecutionFailed, err)
		return
	}
	sendAccepted(c, jobID, fmt.Sprintf("Snapshot started for collection '%s'", name))
}

// ExportSnapshotHandler streams the collection's searcher snapshot. It can be
// loaded into a searcher created with the same settings.
func (api *API) ExportSnapshotHandler(c *gin.Context) {
	_, name, ok := api.collection(c)
	if !ok {
		return
	}
	data, err := api.engine.ExportSnapshot(name)
	if err != nil {
		SendEngineError(c, "export snapshot", ErrorCodePersistenceFailed, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.snapshot"`, name))
	c.Data(http.StatusOK, "application/octet-stream", data)
}

func sendAccepted(c *gin.Context, jobID, message string) {
	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": message,
		"job_id":  jobID,
	})
}

package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-fuzzy-search/config"
	"github.com/gcbaptista/go-fuzzy-search/internal/jobs"
	"github.com/gcbaptista/go-fuzzy-search/internal/logger"
	"github.com/gcbaptista/go-fuzzy-search/internal/metrics"
	"github.com/gcbaptista/go-fuzzy-search/services"
)

// Engine is what the HTTP layer needs from the collection host.
type Engine interface {
	services.CollectionManager
	services.RebuildManager
	services.JobManager
	UpdateSettingsAsync(name string, settings config.CollectionSettings) (string, error)
	SnapshotAsync(name string) (string, error)
	ExportSnapshot(name string) ([]byte, error)
	GetJobMetrics() jobs.JobMetricsData
}

// API holds dependencies for API handlers.
type API struct {
	engine    Engine
	metrics   *metrics.Metrics
	startedAt time.Time
}

// NewAPI creates a new API handler structure.
func NewAPI(engine Engine, m *metrics.Metrics) *API {
	return &API{engine: engine, metrics: m, startedAt: time.Now()}
}

// SetupRoutes installs middleware and all routes on router.
func SetupRoutes(router *gin.Engine, engine Engine, m *metrics.Metrics) {
	apiHandler := NewAPI(engine, m)

	router.Use(RequestIDMiddleware(), MetricsMiddleware(m), LoggingMiddleware(logger.New("api")))

	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler)
	}

	collectionRoutes := router.Group("/collections")
	{
		collectionRoutes.POST("", apiHandler.CreateCollectionHandler)
		collectionRoutes.GET("", apiHandler.ListCollectionsHandler)
		collectionRoutes.GET("/:name", apiHandler.GetCollectionHandler)
		collectionRoutes.DELETE("/:name", apiHandler.DeleteCollectionHandler)
		collectionRoutes.PATCH("/:name/settings", apiHandler.UpdateSettingsHandler)
		collectionRoutes.GET("/:name/jobs", apiHandler.ListJobsHandler)

		collectionRoutes.PUT("/:name/documents", apiHandler.UpsertDocumentsHandler)
		collectionRoutes.POST("/:name/documents/_index", apiHandler.IndexDocumentsHandler)
		collectionRoutes.DELETE("/:name/documents", apiHandler.RemoveDocumentsHandler)
		collectionRoutes.GET("/:name/documents/:id", apiHandler.GetDocumentHandler)

		collectionRoutes.POST("/:name/_search", apiHandler.SearchHandler)
		collectionRoutes.POST("/:name/_rebuild", apiHandler.RebuildHandler)
		collectionRoutes.POST("/:name/_snapshot", apiHandler.SnapshotHandler)
		collectionRoutes.GET("/:name/_snapshot", apiHandler.ExportSnapshotHandler)
	}
}

// HealthCheckHandler reports liveness and the number of collections.
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"collections": len(api.engine.ListCollections()),
		"uptime":      time.Since(api.startedAt).Round(time.Second).String(),
	})
}

// collection resolves the :name parameter, sending the error response itself
// when the name is invalid or unknown.
func (api *API) collection(c *gin.Context) (services.CollectionAccessor, string, bool) {
	name := c.Param("name")
	if result := ValidateCollectionName(name); result.HasErrors() {
		SendValidationError(c, result)
		return nil, name, false
	}
	collection, err := api.engine.GetCollection(name)
	if err != nil {
		SendEngineError(c, "get collection", ErrorCodeInternalError, err)
		return nil, name, false
	}
	return collection, name, true
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-fuzzy-search/model"
)

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.engine.GetJob(jobID)
	if err != nil {
		SendJobNotFoundError(c, jobID)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists the jobs of a collection, optionally filtered by ?status=
func (api *API) ListJobsHandler(c *gin.Context) {
	_, name, ok := api.collection(c)
	if !ok {
		return
	}

	var statusFilter *model.JobStatus
	if statusParam := c.Query("status"); statusParam != "" {
		status := model.JobStatus(statusParam)
		statusFilter = &status
	}

	jobs := api.engine.ListJobs(name, statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":            jobs,
		"collection_name": name,
		"total":           len(jobs),
	})
}

// GetJobMetricsHandler handles requests to get job counters
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"metrics": api.engine.GetJobMetrics()})
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/jobhive/jobhive_backend/internal/core/ports/services"
	"github.com/jobhive/jobhive_backend/internal/dto"
	"github.com/jobhive/jobhive_backend/internal/middleware"
)

// jobHandler handles job postings and applications.
type jobHandler struct {
	jobService portssvc.JobSvcFacade
}

func newJobHandler(js portssvc.JobSvcFacade) *jobHandler {
	return &jobHandler{jobService: js}
}

// registerJobRoutes registers all job-related routes.
func registerJobRoutes(rg *gin.RouterGroup, jobService portssvc.JobSvcFacade) {
	h := newJobHandler(jobService)

	jobs := rg.Group("/jobs")
	{
		jobs.POST("", h.createJob)
		jobs.GET("", h.listJobs)
		jobs.GET("/:jobID", h.getJob)
		jobs.DELETE("/:jobID", h.deleteJob)
		jobs.POST("/:jobID/applications", h.applyToJob)
	}

	applications := rg.Group("/applications")
	{
		applications.POST("/:applicationID/accept", h.acceptApplication)
		applications.POST("/:applicationID/complete", h.completeApplication)
	}
}

// createJob godoc
// @Summary Post a new job
// @Description Creates a job posting. Charges the flat posting fee plus the
// @Description job value to the company wallet and escrows the value; an
// @Description insufficient balance rejects the posting entirely.
// @Tags jobs
// @Accept json
// @Produce json
// @Param job body dto.CreateJobRequest true "Job details"
// @Success 201 {object} dto.JobResponse
// @Failure 400 {object} ErrorResponse "Validation or insufficient funds"
// @Failure 403 {object} ErrorResponse "Caller is not a company"
// @Security BearerAuth
// @Router /jobs [post]
func (h *jobHandler) createJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create job request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), req, companyID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to create job")
		return
	}

	logger.Info("Job created", slog.String("job_id", job.JobID))
	c.JSON(http.StatusCreated, dto.ToJobResponse(job))
}

// listJobs godoc
// @Summary List own job postings
// @Tags jobs
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListJobsResponse
// @Security BearerAuth
// @Router /jobs [get]
func (h *jobHandler) listJobs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListJobsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.jobService.ListJobsByCompany(c.Request.Context(), companyID, params)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list jobs")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getJob godoc
// @Summary Get a job by ID
// @Tags jobs
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} dto.JobResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /jobs/{jobID} [get]
func (h *jobHandler) getJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	job, err := h.jobService.GetJobByID(c.Request.Context(), c.Param("jobID"))
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve job")
		return
	}
	c.JSON(http.StatusOK, dto.ToJobResponse(job))
}

// deleteJob godoc
// @Summary Delete a job posting
// @Description Removes the job and refunds the escrowed funds to the company:
// @Description the full value if work never started, the value minus the flat
// @Description fee otherwise. When the refund fails after the deletion already
// @Description committed, the response reports the deletion with a warning.
// @Tags jobs
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 200 {object} dto.DeleteJobResult
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /jobs/{jobID} [delete]
func (h *jobHandler) deleteJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	result, err := h.jobService.DeleteJob(c.Request.Context(), c.Param("jobID"), actorUserID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to delete job")
		return
	}

	if result.Warning != nil {
		logger.Warn("Job deleted with warning", slog.String("warning", *result.Warning))
	}
	c.JSON(http.StatusOK, result)
}

// applyToJob godoc
// @Summary Apply to a job
// @Tags applications
// @Produce json
// @Param jobID path string true "Job ID"
// @Success 201 {object} dto.ApplicationResponse
// @Failure 400 {object} ErrorResponse "Job not open"
// @Failure 403 {object} ErrorResponse "Caller is not a worker"
// @Failure 409 {object} ErrorResponse "Already applied"
// @Security BearerAuth
// @Router /jobs/{jobID}/applications [post]
func (h *jobHandler) applyToJob(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	app, err := h.jobService.ApplyToJob(c.Request.Context(), c.Param("jobID"), workerID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to apply to job")
		return
	}
	c.JSON(http.StatusCreated, dto.ToApplicationResponse(app))
}

// acceptApplication godoc
// @Summary Accept a job application
// @Description Moves the application to ACTIVE and the job to IN_PROGRESS.
// @Tags applications
// @Produce json
// @Param applicationID path string true "Application ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /applications/{applicationID}/accept [post]
func (h *jobHandler) acceptApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	app, err := h.jobService.AcceptApplication(c.Request.Context(), c.Param("applicationID"), actorUserID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to accept application")
		return
	}
	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

// completeApplication godoc
// @Summary Complete a job application
// @Description Marks the work done, releases the escrowed funds to the
// @Description worker, and marks the job COMPLETED. A second completion for
// @Description the same job returns 409 and pays nothing.
// @Tags applications
// @Produce json
// @Param applicationID path string true "Application ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Hold already resolved"
// @Security BearerAuth
// @Router /applications/{applicationID}/complete [post]
func (h *jobHandler) completeApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	app, err := h.jobService.CompleteApplication(c.Request.Context(), c.Param("applicationID"), actorUserID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to complete application")
		return
	}
	c.JSON(http.StatusOK, dto.ToApplicationResponse(app))
}

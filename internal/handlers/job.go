// internal/handlers/job.go
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/staffhub/staffhub-backend/internal/models"
	"github.com/staffhub/staffhub-backend/internal/services"
	"github.com/staffhub/staffhub-backend/internal/utils"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobService *services.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobService,
	}
}

// POST /jobs
func (h *JobHandler) CreateJob(c *gin.Context) {
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	job, err := h.jobService.CreateJob(a.UserID, a.OrgID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"job": job,
	})
}

// GET /jobs
func (h *JobHandler) GetJobs(c *gin.Context) {
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	searchParams := services.JobSearchParams{
		PaginationParams: params,
	}

	if status := c.Query("status"); status != "" {
		jobStatus := models.JobStatus(status)
		searchParams.Status = &jobStatus
	}
	if remote := c.Query("remote"); remote != "" {
		isRemote := remote == "true"
		searchParams.Remote = &isRemote
	}

	jobs, total, err := h.jobService.SearchJobs(searchParams, a.OrgID, a.IsAdmin)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(jobs, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /jobs/:id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id", "job")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	job, err := h.jobService.GetJob(jobID, a.OrgID, a.IsAdmin)
	if err != nil {
		h.respondJobError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"job": job,
	})
}

// PUT /jobs/:id
func (h *JobHandler) UpdateJob(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id", "job")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	job, err := h.jobService.UpdateJob(jobID, a.OrgID, &req)
	if err != nil {
		h.respondJobError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"job": job,
	})
}

// POST /jobs/:id/publish
func (h *JobHandler) PublishJob(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id", "job")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	job, err := h.jobService.PublishJob(jobID, a.OrgID)
	if err != nil {
		h.respondJobError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"job": job,
	})
}

// POST /jobs/:id/close
func (h *JobHandler) CloseJob(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id", "job")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	job, err := h.jobService.CloseJob(jobID, a.OrgID)
	if err != nil {
		h.respondJobError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"job": job,
	})
}

// POST /jobs/:id/distribute
func (h *JobHandler) DistributeJob(c *gin.Context) {
	jobID, ok := parseIDParam(c, "id", "job")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.DistributeJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	distributions, err := h.jobService.DistributeJob(jobID, a.OrgID, &req)
	if err != nil {
		h.respondJobError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"distributions": distributions,
	})
}

// POST /jobs/candidates/:id/hire
func (h *JobHandler) HireCandidate(c *gin.Context) {
	entryID, ok := parseIDParam(c, "id", "candidate")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	entry, err := h.jobService.HireCandidate(entryID, a.OrgID)
	if err != nil {
		if errors.Is(err, services.ErrMSARequired) {
			utils.MSARequiredResponse(c, nil)
			return
		}
		h.respondJobError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"candidate": entry,
	})
}

func (h *JobHandler) respondJobError(c *gin.Context, err error) {
	if strings.Contains(err.Error(), "not found") {
		utils.NotFoundResponse(c, "Job")
		return
	}
	if strings.Contains(err.Error(), "unauthorized") {
		utils.ForbiddenResponse(c, err.Error())
		return
	}
	utils.BadRequestResponse(c, err.Error(), nil)
}

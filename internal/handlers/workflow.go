// internal/handlers/workflow.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/staffhub/staffhub-backend/internal/services"
	"github.com/staffhub/staffhub-backend/internal/utils"
)

type WorkflowHandler struct {
	workflowService *services.WorkflowService
}

func NewWorkflowHandler(workflowService *services.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{
		workflowService: workflowService,
	}
}

// POST /vms/workflows
func (h *WorkflowHandler) CreateWorkflow(c *gin.Context) {
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.CreateWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	rule, err := h.workflowService.CreateRule(a.UserID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"workflow": rule,
	})
}

// GET /vms/workflows
func (h *WorkflowHandler) GetWorkflows(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	searchParams := services.WorkflowSearchParams{
		PaginationParams: params,
	}

	if event := c.Query("trigger_event"); event != "" {
		searchParams.TriggerEvent = event
	}
	if enabled := c.Query("enabled"); enabled != "" {
		isEnabled := enabled == "true"
		searchParams.Enabled = &isEnabled
	}

	rules, total, err := h.workflowService.SearchRules(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(rules, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /vms/workflows/:id
func (h *WorkflowHandler) GetWorkflow(c *gin.Context) {
	ruleID, ok := parseIDParam(c, "id", "workflow")
	if !ok {
		return
	}

	rule, err := h.workflowService.GetRule(ruleID)
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"workflow": rule,
	})
}

// PUT /vms/workflows/:id/enable
func (h *WorkflowHandler) EnableWorkflow(c *gin.Context) {
	h.setEnabled(c, true)
}

// PUT /vms/workflows/:id/disable
func (h *WorkflowHandler) DisableWorkflow(c *gin.Context) {
	h.setEnabled(c, false)
}

// DELETE /vms/workflows/:id
func (h *WorkflowHandler) DeleteWorkflow(c *gin.Context) {
	ruleID, ok := parseIDParam(c, "id", "workflow")
	if !ok {
		return
	}

	if err := h.workflowService.DeleteRule(ruleID); err != nil {
		h.respondWorkflowError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Workflow deleted",
	})
}

func (h *WorkflowHandler) setEnabled(c *gin.Context, enabled bool) {
	ruleID, ok := parseIDParam(c, "id", "workflow")
	if !ok {
		return
	}

	rule, err := h.workflowService.SetEnabled(ruleID, enabled)
	if err != nil {
		h.respondWorkflowError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"workflow": rule,
	})
}

func (h *WorkflowHandler) respondWorkflowError(c *gin.Context, err error) {
	if strings.Contains(err.Error(), "not found") {
		utils.NotFoundResponse(c, "Workflow")
		return
	}
	utils.BadRequestResponse(c, err.Error(), nil)
}

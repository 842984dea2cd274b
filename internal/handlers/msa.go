// internal/handlers/msa.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/staffhub/staffhub-backend/internal/models"
	"github.com/staffhub/staffhub-backend/internal/services"
	"github.com/staffhub/staffhub-backend/internal/utils"
)

type MSAHandler struct {
	msaService *services.MSAService
}

func NewMSAHandler(msaService *services.MSAService) *MSAHandler {
	return &MSAHandler{
		msaService: msaService,
	}
}

// POST /msa
func (h *MSAHandler) CreateMSA(c *gin.Context) {
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.CreateMSARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	// Non-admins may only open MSAs for their own organization
	if !a.IsAdmin && req.CompanyID != a.OrgID && req.BureauID != a.OrgID {
		utils.ForbiddenResponse(c, "Cannot create an MSA for other organizations")
		return
	}

	msa, err := h.msaService.CreateMSA(a.UserID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") || strings.Contains(err.Error(), "already pending") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"msa": msa,
	})
}

// GET /msa
func (h *MSAHandler) GetMSAs(c *gin.Context) {
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	searchParams := services.MSASearchParams{
		PaginationParams: params,
	}

	if status := c.Query("status"); status != "" {
		msaStatus := models.MSAStatus(status)
		searchParams.Status = &msaStatus
	}
	if companyIDStr := c.Query("company_id"); companyIDStr != "" {
		if companyID, err := uuid.Parse(companyIDStr); err == nil {
			searchParams.CompanyID = &companyID
		}
	}
	if bureauIDStr := c.Query("bureau_id"); bureauIDStr != "" {
		if bureauID, err := uuid.Parse(bureauIDStr); err == nil {
			searchParams.BureauID = &bureauID
		}
	}

	msas, total, err := h.msaService.SearchMSAs(searchParams, a.OrgID, a.IsAdmin)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(msas, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /msa/:id
func (h *MSAHandler) GetMSA(c *gin.Context) {
	msaID, ok := parseIDParam(c, "id", "MSA")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	msa, err := h.msaService.GetMSA(msaID, a.OrgID, a.IsAdmin)
	if err != nil {
		h.respondMSAError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"msa": msa,
	})
}

// POST /msa/:id/approve
func (h *MSAHandler) ApproveMSA(c *gin.Context) {
	msaID, ok := parseIDParam(c, "id", "MSA")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	msa, err := h.msaService.ApproveMSA(msaID, a.OrgID)
	if err != nil {
		h.respondMSAError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"msa": msa,
	})
}

// POST /msa/:id/reject
func (h *MSAHandler) RejectMSA(c *gin.Context) {
	msaID, ok := parseIDParam(c, "id", "MSA")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.RejectMSARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	msa, err := h.msaService.RejectMSA(msaID, a.UserID, a.OrgID, &req)
	if err != nil {
		h.respondMSAError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"msa": msa,
	})
}

// POST /msa/:id/terminate
func (h *MSAHandler) TerminateMSA(c *gin.Context) {
	msaID, ok := parseIDParam(c, "id", "MSA")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	msa, err := h.msaService.TerminateMSA(msaID, a.OrgID, a.IsAdmin)
	if err != nil {
		h.respondMSAError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"msa": msa,
	})
}

// GET /msa/status — the hire affordance check the portals poll before
// exposing hire actions.
func (h *MSAHandler) CheckMSAStatus(c *gin.Context) {
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	companyIDStr := c.Query("company_id")
	bureauIDStr := c.Query("bureau_id")
	companyID, err := uuid.Parse(companyIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid company ID", nil)
		return
	}
	bureauID, err := uuid.Parse(bureauIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid bureau ID", nil)
		return
	}

	if !a.IsAdmin && a.OrgID != companyID && a.OrgID != bureauID {
		utils.ForbiddenResponse(c, "Unauthorized to check this pair")
		return
	}

	msa, err := h.msaService.FindActiveMSA(companyID, bureauID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"has_active_msa": msa != nil,
		"msa":            msa,
	})
}

func (h *MSAHandler) respondMSAError(c *gin.Context, err error) {
	if strings.Contains(err.Error(), "not found") {
		utils.NotFoundResponse(c, "MSA")
		return
	}
	if strings.Contains(err.Error(), "unauthorized") {
		utils.ForbiddenResponse(c, err.Error())
		return
	}
	utils.BadRequestResponse(c, err.Error(), nil)
}

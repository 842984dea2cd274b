// internal/handlers/contract.go
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/staffhub/staffhub-backend/internal/models"
	"github.com/staffhub/staffhub-backend/internal/services"
	"github.com/staffhub/staffhub-backend/internal/utils"
)

type ContractHandler struct {
	contractService *services.ContractService
}

func NewContractHandler(contractService *services.ContractService) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
	}
}

// POST /contracts
func (h *ContractHandler) CreateContract(c *gin.Context) {
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	contract, err := h.contractService.CreateContract(a.UserID, a.OrgID, &req)
	if err != nil {
		if errors.Is(err, services.ErrMSARequired) {
			utils.MSARequiredResponse(c, nil)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"contract": contract,
	})
}

// GET /contracts
func (h *ContractHandler) GetContracts(c *gin.Context) {
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	searchParams := services.ContractSearchParams{
		PaginationParams: params,
	}

	if status := c.Query("status"); status != "" {
		contractStatus := models.ContractStatus(status)
		searchParams.Status = &contractStatus
	}
	if bureauIDStr := c.Query("bureau_id"); bureauIDStr != "" {
		if bureauID, err := uuid.Parse(bureauIDStr); err == nil {
			searchParams.BureauID = &bureauID
		}
	}
	if msaIDStr := c.Query("msa_id"); msaIDStr != "" {
		if msaID, err := uuid.Parse(msaIDStr); err == nil {
			searchParams.MSAID = &msaID
		}
	}

	contracts, total, err := h.contractService.SearchContracts(searchParams, a.OrgID, a.IsAdmin)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(contracts, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /contracts/:id
func (h *ContractHandler) GetContract(c *gin.Context) {
	contractID, ok := parseIDParam(c, "id", "contract")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	detail, err := h.contractService.GetContract(contractID, a.OrgID, a.IsAdmin)
	if err != nil {
		h.respondContractError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"contract": detail,
	})
}

// PUT /contracts/:id
func (h *ContractHandler) UpdateContract(c *gin.Context) {
	contractID, ok := parseIDParam(c, "id", "contract")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	contract, err := h.contractService.UpdateContract(contractID, a.OrgID, &req)
	if err != nil {
		h.respondContractError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"contract": contract,
	})
}

// POST /contracts/:id/submit
func (h *ContractHandler) SubmitForReview(c *gin.Context) {
	h.lifecycleAction(c, func(contractID uuid.UUID, a *actor) (*models.Contract, error) {
		return h.contractService.SubmitForReview(contractID, a.UserID, a.OrgID)
	})
}

// POST /contracts/:id/request-approval
func (h *ContractHandler) RequestApproval(c *gin.Context) {
	h.lifecycleAction(c, func(contractID uuid.UUID, a *actor) (*models.Contract, error) {
		return h.contractService.RequestApproval(contractID, a.UserID, a.OrgID)
	})
}

// POST /contracts/:id/approve
func (h *ContractHandler) DecideApproval(c *gin.Context) {
	contractID, ok := parseIDParam(c, "id", "contract")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.ApprovalDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	contract, err := h.contractService.DecideApproval(contractID, a.UserID, a.OrgID, &req)
	if err != nil {
		h.respondContractError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"contract": contract,
	})
}

// POST /contracts/:id/send-for-signature
func (h *ContractHandler) SendForSignature(c *gin.Context) {
	h.lifecycleAction(c, func(contractID uuid.UUID, a *actor) (*models.Contract, error) {
		return h.contractService.SendForSignature(contractID, a.UserID, a.OrgID)
	})
}

// POST /contracts/:id/sign
func (h *ContractHandler) SignContract(c *gin.Context) {
	contractID, ok := parseIDParam(c, "id", "contract")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.SignContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	contract, err := h.contractService.SignContract(contractID, a.UserID, a.OrgID, &req)
	if err != nil {
		h.respondContractError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"contract": contract,
	})
}

// POST /contracts/:id/activate
func (h *ContractHandler) ActivateContract(c *gin.Context) {
	h.lifecycleAction(c, func(contractID uuid.UUID, a *actor) (*models.Contract, error) {
		return h.contractService.ActivateContract(contractID, a.UserID, a.OrgID)
	})
}

// POST /contracts/:id/terminate
func (h *ContractHandler) TerminateContract(c *gin.Context) {
	contractID, ok := parseIDParam(c, "id", "contract")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.TerminateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	contract, err := h.contractService.TerminateContract(contractID, a.UserID, a.OrgID, &req)
	if err != nil {
		h.respondContractError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"contract": contract,
	})
}

// POST /contracts/:id/complete
func (h *ContractHandler) CompleteContract(c *gin.Context) {
	h.lifecycleAction(c, func(contractID uuid.UUID, a *actor) (*models.Contract, error) {
		return h.contractService.CompleteContract(contractID, a.UserID, a.OrgID)
	})
}

// POST /contracts/:id/cancel
func (h *ContractHandler) CancelContract(c *gin.Context) {
	h.lifecycleAction(c, func(contractID uuid.UUID, a *actor) (*models.Contract, error) {
		return h.contractService.CancelContract(contractID, a.UserID, a.OrgID)
	})
}

// POST /contracts/:id/document
func (h *ContractHandler) UploadDocument(c *gin.Context) {
	contractID, ok := parseIDParam(c, "id", "contract")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "No file provided", err.Error())
		return
	}
	defer file.Close()

	contract, err := h.contractService.UploadDocument(contractID, a.OrgID, file, header)
	if err != nil {
		h.respondContractError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"contract": contract,
	})
}

// GET /contracts/:id/history
func (h *ContractHandler) GetHistory(c *gin.Context) {
	contractID, ok := parseIDParam(c, "id", "contract")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	history, err := h.contractService.GetHistory(contractID, a.OrgID, a.IsAdmin)
	if err != nil {
		h.respondContractError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"history": history,
	})
}

func (h *ContractHandler) lifecycleAction(c *gin.Context, action func(uuid.UUID, *actor) (*models.Contract, error)) {
	contractID, ok := parseIDParam(c, "id", "contract")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	contract, err := action(contractID, a)
	if err != nil {
		h.respondContractError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"contract": contract,
	})
}

func (h *ContractHandler) respondContractError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrMSARequired) {
		utils.MSARequiredResponse(c, nil)
		return
	}
	if strings.Contains(err.Error(), "not found") {
		utils.NotFoundResponse(c, "Contract")
		return
	}
	if strings.Contains(err.Error(), "unauthorized") {
		utils.ForbiddenResponse(c, err.Error())
		return
	}
	utils.BadRequestResponse(c, err.Error(), nil)
}

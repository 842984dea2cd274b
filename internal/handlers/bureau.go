// internal/handlers/bureau.go
package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/staffhub/staffhub-backend/internal/models"
	"github.com/staffhub/staffhub-backend/internal/services"
	"github.com/staffhub/staffhub-backend/internal/utils"
)

type BureauHandler struct {
	bureauService       *services.BureauService
	notificationService *services.NotificationService
}

func NewBureauHandler(bureauService *services.BureauService, notificationService *services.NotificationService) *BureauHandler {
	return &BureauHandler{
		bureauService:       bureauService,
		notificationService: notificationService,
	}
}

// GET /bureau/distributions
func (h *BureauHandler) GetDistributions(c *gin.Context) {
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	searchParams := distributionFiltersFromQuery(c, params)

	distributions, total, err := h.bureauService.ListDistributions(a.OrgID, searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(distributions, total, params)
	utils.PaginatedResponse(c, result)
}

// distributionFiltersFromQuery maps the list query parameters onto search
// params: status, free-text search (via pagination), and a received_after /
// received_before date range.
func distributionFiltersFromQuery(c *gin.Context, params utils.PaginationParams) services.DistributionSearchParams {
	searchParams := services.DistributionSearchParams{PaginationParams: params}

	if status := c.Query("status"); status != "" {
		distStatus := models.DistributionStatus(status)
		searchParams.Status = &distStatus
	}
	if from := c.Query("received_after"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			searchParams.ReceivedAfter = &t
		}
	}
	if to := c.Query("received_before"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			searchParams.ReceivedBefore = &t
		}
	}

	return searchParams
}

// GET /bureau/distributions/:id
func (h *BureauHandler) GetDistribution(c *gin.Context) {
	distributionID, ok := parseIDParam(c, "id", "distribution")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	dist, err := h.bureauService.GetDistribution(distributionID, a.OrgID)
	if err != nil {
		h.respondBureauError(c, err, "Distribution")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"distribution": dist,
	})
}

// POST /bureau/distributions/:id/accept
func (h *BureauHandler) AcceptDistribution(c *gin.Context) {
	distributionID, ok := parseIDParam(c, "id", "distribution")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	dist, err := h.bureauService.AcceptDistribution(distributionID, a.OrgID)
	if err != nil {
		h.respondBureauError(c, err, "Distribution")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"distribution": dist,
	})
}

// POST /bureau/distributions/:id/decline
func (h *BureauHandler) DeclineDistribution(c *gin.Context) {
	distributionID, ok := parseIDParam(c, "id", "distribution")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.DeclineDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	dist, err := h.bureauService.DeclineDistribution(distributionID, a.OrgID, &req)
	if err != nil {
		h.respondBureauError(c, err, "Distribution")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"distribution": dist,
	})
}

// POST /bureau/distributions/:id/candidates
func (h *BureauHandler) ProposeCandidate(c *gin.Context) {
	distributionID, ok := parseIDParam(c, "id", "distribution")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.ProposeCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	entry, err := h.bureauService.ProposeCandidate(distributionID, a.OrgID, a.UserID, &req)
	if err != nil {
		h.respondBureauError(c, err, "Distribution")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"candidate": entry,
	})
}

// PUT /bureau/candidates/:id/status
func (h *BureauHandler) UpdateShortlistStatus(c *gin.Context) {
	entryID, ok := parseIDParam(c, "id", "candidate")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.UpdateShortlistStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	entry, err := h.bureauService.UpdateShortlistStatus(entryID, a.OrgID, &req)
	if err != nil {
		h.respondBureauError(c, err, "Shortlist entry")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"candidate": entry,
	})
}

// POST /bureau/distributions/:id/messages
func (h *BureauHandler) SendMessage(c *gin.Context) {
	distributionID, ok := parseIDParam(c, "id", "distribution")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	message, err := h.bureauService.SendMessage(distributionID, a.UserID, a.OrgID, &req)
	if err != nil {
		h.respondBureauError(c, err, "Distribution")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": message,
	})
}

// GET /bureau/distributions/:id/messages
func (h *BureauHandler) GetMessages(c *gin.Context) {
	distributionID, ok := parseIDParam(c, "id", "distribution")
	if !ok {
		return
	}
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	messages, err := h.bureauService.ListMessages(distributionID, a.OrgID)
	if err != nil {
		h.respondBureauError(c, err, "Distribution")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"messages": messages,
	})
}

// GET /bureau/performance
func (h *BureauHandler) GetPerformance(c *gin.Context) {
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	perf, err := h.bureauService.GetPerformance(a.OrgID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"performance": perf,
	})
}

// GET /bureau/notifications
func (h *BureauHandler) GetNotifications(c *gin.Context) {
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	unreadOnly := c.Query("unread") == "true"
	notifications, err := h.notificationService.ListForOrg(a.OrgID, unreadOnly, 50)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"notifications": notifications,
	})
}

func (h *BureauHandler) respondBureauError(c *gin.Context, err error, resource string) {
	if strings.Contains(err.Error(), "not found") {
		utils.NotFoundResponse(c, resource)
		return
	}
	if strings.Contains(err.Error(), "unauthorized") {
		utils.ForbiddenResponse(c, err.Error())
		return
	}
	utils.BadRequestResponse(c, err.Error(), nil)
}

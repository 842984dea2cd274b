// internal/handlers/subscription.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/staffhub/staffhub-backend/internal/services"
	"github.com/staffhub/staffhub-backend/internal/utils"
)

type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// GET /subscriptions/plans
func (h *SubscriptionHandler) GetPlans(c *gin.Context) {
	plans, err := h.subscriptionService.ListPlans()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"plans": plans,
	})
}

// GET /subscriptions/current
func (h *SubscriptionHandler) GetCurrentSubscription(c *gin.Context) {
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.GetCurrent(a.OrgID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"subscription": sub,
	})
}

// POST /subscriptions
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	resp, err := h.subscriptionService.Subscribe(a.OrgID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Plan")
			return
		}
		if strings.Contains(err.Error(), "already on") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, resp)
}

// POST /subscriptions/confirm
func (h *SubscriptionHandler) ConfirmSubscription(c *gin.Context) {
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	var req services.ConfirmSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	sub, err := h.subscriptionService.ConfirmSubscription(a.OrgID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Subscription")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"subscription": sub,
	})
}

// POST /subscriptions/cancel
func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	a, ok := actorFromContext(c)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.Cancel(a.OrgID)
	if err != nil {
		if strings.Contains(err.Error(), "no active") {
			utils.NotFoundResponse(c, "Subscription")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"subscription": sub,
	})
}

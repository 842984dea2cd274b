// internal/handlers/common.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/staffhub/staffhub-backend/internal/utils"
)

// actor is the authenticated caller as resolved from the JWT claims.
type actor struct {
	UserID  uuid.UUID
	OrgID   uuid.UUID
	IsAdmin bool
}

// actorFromContext extracts the caller identity, writing the error response
// itself when the claims are missing or malformed.
func actorFromContext(c *gin.Context) (*actor, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return nil, false
	}

	a := &actor{UserID: userID}

	if userType, ok := utils.GetUserTypeFromContext(c); ok && userType == "admin" {
		a.IsAdmin = true
	}

	if orgIDStr, ok := utils.GetOrganizationIDFromContext(c); ok && orgIDStr != "" {
		orgID, err := uuid.Parse(orgIDStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid organization ID", nil)
			return nil, false
		}
		a.OrgID = orgID
	}

	return a, true
}

// parseIDParam parses the :id style path parameter, writing the error
// response itself on failure.
func parseIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

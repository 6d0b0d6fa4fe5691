// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/services"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/utils"
)

// respondServiceError maps a workflow failure to its status and message,
// and anything else to the generic 500 envelope with the underlying error
// string for diagnostics.
func respondServiceError(c *gin.Context, err error, fallbackMessage string) {
	var reqErr *services.RequestError
	if errors.As(err, &reqErr) {
		utils.ErrorResponse(c, reqErr.Status, reqErr.Message)
		return
	}
	utils.InternalErrorResponse(c, fallbackMessage, err)
}

// currentUserID parses the authenticated user id set by the auth middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	idStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

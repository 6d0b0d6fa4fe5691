// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Responses follow the storefront contract: a flat envelope with a `success`
// flag, a user-facing `message` on failures, and payload fields merged at
// the top level.

func SuccessResponse(c *gin.Context, payload gin.H) {
	respond(c, http.StatusOK, true, payload)
}

func CreatedResponse(c *gin.Context, payload gin.H) {
	respond(c, http.StatusCreated, true, payload)
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	respond(c, statusCode, false, gin.H{"message": message})
}

func BadRequestResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	ErrorResponse(c, http.StatusUnauthorized, message)
}

func ForbiddenResponse(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	ErrorResponse(c, http.StatusForbidden, message)
}

func NotFoundResponse(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message)
}

func InternalErrorResponse(c *gin.Context, message string, err error) {
	payload := gin.H{"message": message}
	if err != nil {
		payload["error"] = err.Error()
	}
	respond(c, http.StatusInternalServerError, false, payload)
}

func respond(c *gin.Context, statusCode int, success bool, payload gin.H) {
	body := gin.H{"success": success}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, exists := c.Get("user_id"); exists {
		if userIDStr, ok := userID.(string); ok {
			return userIDStr, true
		}
	}
	return "", false
}

func GetUserRoleFromContext(c *gin.Context) (string, bool) {
	if role, exists := c.Get("user_role"); exists {
		if roleStr, ok := role.(string); ok {
			return roleStr, true
		}
	}
	return "", false
}

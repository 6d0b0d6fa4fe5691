// internal/handlers/auth.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/services"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	user, tokens, err := h.authService.Register(&req)
	if err != nil {
		respondServiceError(c, err, "Registration failed")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Account created successfully",
		"user":    user,
		"tokens":  tokens,
	})
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	user, tokens, err := h.authService.Login(&req)
	if err != nil {
		respondServiceError(c, err, "Login failed")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Logged in successfully",
		"user":    user,
		"tokens":  tokens,
	})
}

// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Refresh token is required")
		return
	}

	tokens, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		respondServiceError(c, err, "Token refresh failed")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"tokens": tokens,
	})
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch profile")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user": user,
	})
}

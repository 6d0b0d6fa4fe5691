// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/config"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/models"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/utils"
)

type AuthService struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthService(db *gorm.DB, config *config.Config) *AuthService {
	return &AuthService{db: db, config: config}
}

type RegisterRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,phone"`
	Password  string `json:"password" validate:"required,strong_password"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=customer seller"`
	StoreName string `json:"storeName,omitempty" validate:"omitempty,max=150"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *AuthService) Register(req *RegisterRequest) (*models.User, *AuthTokens, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, nil, fmt.Errorf("validation failed: %w", err)
	}

	role := models.UserRoleCustomer
	if req.Role != "" {
		role = models.UserRole(req.Role)
	}

	user := &models.User{
		Name:      req.Name,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     req.Phone,
		Role:      role,
		Status:    models.UserStatusActive,
		StoreName: req.StoreName,
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, reqErr(http.StatusConflict, "Email is already registered")
		}
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

func (s *AuthService) Login(req *LoginRequest) (*models.User, *AuthTokens, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	err := s.db.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, reqErr(http.StatusUnauthorized, "Invalid email or password")
		}
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, nil, reqErr(http.StatusUnauthorized, "Invalid email or password")
	}

	if user.Status != models.UserStatusActive {
		return nil, nil, reqErr(http.StatusForbidden, "Account is not active")
	}

	now := time.Now()
	s.db.Model(&user).UpdateColumn("last_login_at", now)
	user.LastLoginAt = &now

	tokens, err := s.issueTokens(&user)
	if err != nil {
		return nil, nil, err
	}

	return &user, tokens, nil
}

func (s *AuthService) Refresh(refreshToken string) (*AuthTokens, error) {
	subject, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, reqErr(http.StatusUnauthorized, "Invalid refresh token")
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, reqErr(http.StatusUnauthorized, "Invalid refresh token")
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, reqErr(http.StatusUnauthorized, "Invalid refresh token")
	}

	if user.Status != models.UserStatusActive {
		return nil, reqErr(http.StatusForbidden, "Account is not active")
	}

	return s.issueTokens(&user)
}

func (s *AuthService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reqErr(http.StatusNotFound, "User not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthTokens, error) {
	access, err := utils.GenerateJWT(user.ID, user.Name, string(user.Role), s.config.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := utils.GenerateRefreshToken(user.ID, s.config.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

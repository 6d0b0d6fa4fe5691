// internal/services/coupon_service.go
package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/models"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/pricing"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/utils"
)

type CouponService struct {
	db *gorm.DB
}

func NewCouponService(db *gorm.DB) *CouponService {
	return &CouponService{db: db}
}

type CreateCouponRequest struct {
	Code              string    `json:"code" validate:"required,min=3,max=50"`
	Description       string    `json:"description,omitempty"`
	DiscountType      string    `json:"discountType" validate:"required,oneof=percentage fixed"`
	DiscountValue     float64   `json:"discountValue" validate:"required,gt=0"`
	MinOrderValue     float64   `json:"minOrderValue" validate:"min=0"`
	MaxDiscountAmount *float64  `json:"maxDiscountAmount,omitempty" validate:"omitempty,gt=0"`
	ValidFrom         time.Time `json:"validFrom" validate:"required"`
	ValidUntil        time.Time `json:"validUntil" validate:"required"`
	UsageLimit        int       `json:"usageLimit" validate:"min=0"`
}

type UpdateCouponRequest struct {
	Description       string     `json:"description,omitempty"`
	DiscountValue     *float64   `json:"discountValue,omitempty" validate:"omitempty,gt=0"`
	MinOrderValue     *float64   `json:"minOrderValue,omitempty" validate:"omitempty,min=0"`
	MaxDiscountAmount *float64   `json:"maxDiscountAmount,omitempty" validate:"omitempty,gt=0"`
	ValidFrom         *time.Time `json:"validFrom,omitempty"`
	ValidUntil        *time.Time `json:"validUntil,omitempty"`
	UsageLimit        *int       `json:"usageLimit,omitempty" validate:"omitempty,min=0"`
	IsActive          *bool      `json:"isActive,omitempty"`
}

type ValidateCouponRequest struct {
	Code     string  `json:"code" validate:"required"`
	Subtotal float64 `json:"subtotal" validate:"required,gt=0"`
}

// CouponQuote is what a code would be worth against a subtotal, using the
// same rules the order workflow applies.
type CouponQuote struct {
	Valid    bool    `json:"valid"`
	Code     string  `json:"code,omitempty"`
	Discount float64 `json:"discount"`
	Message  string  `json:"message,omitempty"`
}

func (s *CouponService) CreateCoupon(req *CreateCouponRequest) (*models.Coupon, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !req.ValidUntil.After(req.ValidFrom) {
		return nil, reqErr(http.StatusBadRequest, "Coupon validity window is invalid")
	}

	coupon := &models.Coupon{
		Code:              strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:       req.Description,
		DiscountType:      models.DiscountType(req.DiscountType),
		DiscountValue:     req.DiscountValue,
		MinOrderValue:     req.MinOrderValue,
		MaxDiscountAmount: req.MaxDiscountAmount,
		ValidFrom:         req.ValidFrom,
		ValidUntil:        req.ValidUntil,
		UsageLimit:        req.UsageLimit,
		IsActive:          true,
	}

	if err := s.db.Create(coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, reqErr(http.StatusConflict, "Coupon code already exists")
		}
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	return coupon, nil
}

func (s *CouponService) UpdateCoupon(id uuid.UUID, req *UpdateCouponRequest) (*models.Coupon, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var coupon models.Coupon
	if err := s.db.First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reqErr(http.StatusNotFound, "Coupon not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.DiscountValue != nil {
		updates["discount_value"] = *req.DiscountValue
	}
	if req.MinOrderValue != nil {
		updates["min_order_value"] = *req.MinOrderValue
	}
	if req.MaxDiscountAmount != nil {
		updates["max_discount_amount"] = *req.MaxDiscountAmount
	}
	if req.ValidFrom != nil {
		updates["valid_from"] = *req.ValidFrom
	}
	if req.ValidUntil != nil {
		updates["valid_until"] = *req.ValidUntil
	}
	if req.UsageLimit != nil {
		updates["usage_limit"] = *req.UsageLimit
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := s.db.Model(&coupon).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}

	if err := s.db.First(&coupon, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &coupon, nil
}

func (s *CouponService) DeleteCoupon(id uuid.UUID) error {
	res := s.db.Delete(&models.Coupon{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return reqErr(http.StatusNotFound, "Coupon not found")
	}
	return nil
}

func (s *CouponService) ListCoupons(params utils.PaginationParams) ([]models.Coupon, int64, error) {
	query := s.db.Model(&models.Coupon{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count coupons: %w", err)
	}

	var coupons []models.Coupon
	err := utils.ApplyPagination(query.Order("created_at DESC"), params).Find(&coupons).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch coupons: %w", err)
	}

	return coupons, total, nil
}

// ValidateCoupon is the read-only preview used by the storefront cart page.
// It never burns a use; redemption happens only inside order placement.
func (s *CouponService) ValidateCoupon(req *ValidateCouponRequest) (*CouponQuote, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var coupon models.Coupon
	err := s.db.Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(req.Code))).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CouponQuote{Valid: false, Message: "Coupon not found"}, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	subtotal := pricing.Round2(req.Subtotal)
	discount := pricing.Discount(&coupon, subtotal, time.Now())
	if discount == 0 {
		return &CouponQuote{Valid: false, Code: coupon.Code, Message: "Coupon is not applicable to this order"}, nil
	}

	return &CouponQuote{Valid: true, Code: coupon.Code, Discount: discount}, nil
}

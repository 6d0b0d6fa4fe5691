// internal/handlers/coupon.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/services"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/utils"
)

type CouponHandler struct {
	couponService *services.CouponService
}

func NewCouponHandler(couponService *services.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// POST /coupons/validate
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	var req services.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	quote, err := h.couponService.ValidateCoupon(&req)
	if err != nil {
		respondServiceError(c, err, "Failed to validate coupon")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"coupon": quote,
	})
}

// POST /admin/coupons
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var req services.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	coupon, err := h.couponService.CreateCoupon(&req)
	if err != nil {
		respondServiceError(c, err, "Failed to create coupon")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Coupon created successfully",
		"coupon":  coupon,
	})
}

// GET /admin/coupons
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	coupons, total, err := h.couponService.ListCoupons(params)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch coupons")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"coupons":    coupons,
		"pagination": utils.NewPagination(total, params),
	})
}

// PUT /admin/coupons/:id
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid coupon ID")
		return
	}

	var req services.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	coupon, err := h.couponService.UpdateCoupon(id, &req)
	if err != nil {
		respondServiceError(c, err, "Failed to update coupon")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Coupon updated successfully",
		"coupon":  coupon,
	})
}

// DELETE /admin/coupons/:id
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid coupon ID")
		return
	}

	if err := h.couponService.DeleteCoupon(id); err != nil {
		respondServiceError(c, err, "Failed to delete coupon")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Coupon deleted successfully",
	})
}

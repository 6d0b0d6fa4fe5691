// internal/handlers/payment.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/services"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// POST /payments/order
func (h *PaymentHandler) CreatePaymentOrder(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreatePaymentOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	paymentOrder, err := h.paymentService.CreatePaymentOrder(customerID, &req)
	if err != nil {
		respondServiceError(c, err, "Failed to create payment order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"paymentOrder": paymentOrder,
	})
}

// POST /payments/confirm
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	order, err := h.paymentService.ConfirmPayment(customerID, &req)
	if err != nil {
		respondServiceError(c, err, "Failed to confirm payment")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Payment confirmed",
		"order":   order,
	})
}

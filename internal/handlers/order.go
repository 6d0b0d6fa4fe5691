// internal/handlers/order.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/models"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/services"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/utils"
)

type OrderHandler struct {
	orderService *services.OrderService
}

func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// POST /orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	// Identity comes from the bearer token first, then the explicit
	// customerId in the body (checkout flows for logged-out sessions).
	customerID, ok := currentUserID(c)
	if !ok {
		parsed, err := uuid.Parse(req.CustomerID)
		if req.CustomerID == "" || err != nil {
			utils.UnauthorizedResponse(c, "Unauthorized")
			return
		}
		customerID = parsed
	}

	order, err := h.orderService.PlaceOrder(customerID, &req)
	if err != nil {
		respondServiceError(c, err, "Failed to place order")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":         "Order placed successfully",
		"order":           order,
		"orderNumber":     order.OrderNumber,
		"orderId":         order.ID,
		"paymentRequired": order.PaymentRequired(),
	})
}

// GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := services.OrderListParams{
		PaginationParams: utils.GetPaginationParams(c),
		Status:           models.OrderStatus(c.Query("status")),
	}

	orders, total, err := h.orderService.ListOrders(customerID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch orders")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"orders":     orders,
		"pagination": utils.NewPagination(total, params.PaginationParams),
	})
}

// GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(orderID, customerID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"order": order,
	})
}

// POST /orders/:id/cancel
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID")
		return
	}

	order, err := h.orderService.CancelOrder(orderID, customerID)
	if err != nil {
		respondServiceError(c, err, "Failed to cancel order")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Order cancelled successfully",
		"order":   order,
	})
}

// GET /seller/orders
func (h *OrderHandler) ListSellerOrders(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	orders, total, err := h.orderService.ListSellerOrders(sellerID, params)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch orders")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"orders":     orders,
		"pagination": utils.NewPagination(total, params),
	})
}

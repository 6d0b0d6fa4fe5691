// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/services"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	cart, err := h.cartService.GetCart(customerID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch cart")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"cart": cart,
	})
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.AddItem(customerID, &req)
	if err != nil {
		respondServiceError(c, err, "Failed to add item to cart")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Item added to cart",
		"cart":    cart,
	})
}

// PUT /cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid cart item ID")
		return
	}

	var req services.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	cart, err := h.cartService.UpdateItem(customerID, itemID, &req)
	if err != nil {
		respondServiceError(c, err, "Failed to update cart item")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Cart updated",
		"cart":    cart,
	})
}

// DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid cart item ID")
		return
	}

	cart, err := h.cartService.RemoveItem(customerID, itemID)
	if err != nil {
		respondServiceError(c, err, "Failed to remove cart item")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Item removed from cart",
		"cart":    cart,
	})
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if err := h.cartService.Clear(customerID); err != nil {
		respondServiceError(c, err, "Failed to clear cart")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Cart cleared",
	})
}

// internal/handlers/product.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/services"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GET /products
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	params := services.ProductSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if raw := c.Query("sellerId"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			params.SellerID = &id
		}
	}
	if raw := c.Query("priceMin"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.PriceMin = &v
		}
	}
	if raw := c.Query("priceMax"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			params.PriceMax = &v
		}
	}
	if raw := c.Query("inStock"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			params.InStock = &v
		}
	}

	products, total, err := h.productService.SearchProducts(params)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch products")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"products":   products,
		"pagination": utils.NewPagination(total, params.PaginationParams),
	})
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID")
		return
	}

	product, err := h.productService.GetProduct(id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}

// POST /seller/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	product, err := h.productService.CreateProduct(sellerID, &req)
	if err != nil {
		respondServiceError(c, err, "Failed to create product")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Product created successfully",
		"product": product,
	})
}

// GET /seller/products
func (h *ProductHandler) ListSellerProducts(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := services.ProductSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
		SellerID:         &sellerID,
		All:              true,
	}

	products, total, err := h.productService.SearchProducts(params)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch products")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"products":   products,
		"pagination": utils.NewPagination(total, params.PaginationParams),
	})
}

// PUT /seller/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID")
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	product, err := h.productService.UpdateProduct(id, sellerID, &req)
	if err != nil {
		respondServiceError(c, err, "Failed to update product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Product updated successfully",
		"product": product,
	})
}

// DELETE /seller/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID")
		return
	}

	if err := h.productService.DeleteProduct(id, sellerID); err != nil {
		respondServiceError(c, err, "Failed to delete product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Product deleted successfully",
	})
}

// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/models"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=3,max=255"`
	Description string   `json:"description" validate:"required,min=10"`
	Category    string   `json:"category" validate:"required"`
	BasePrice   float64  `json:"basePrice" validate:"required,min=0.01"`
	SalePrice   *float64 `json:"salePrice,omitempty" validate:"omitempty,min=0.01"`
	Stock       int      `json:"stock" validate:"min=0"`
	SKU         string   `json:"sku,omitempty" validate:"omitempty,max=64"`
	Images      []string `json:"images,omitempty"`
}

type UpdateProductRequest struct {
	Name        string   `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Description string   `json:"description,omitempty" validate:"omitempty,min=10"`
	Category    string   `json:"category,omitempty"`
	BasePrice   *float64 `json:"basePrice,omitempty" validate:"omitempty,min=0.01"`
	SalePrice   *float64 `json:"salePrice,omitempty" validate:"omitempty,min=0.01"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,min=0"`
	SKU         string   `json:"sku,omitempty" validate:"omitempty,max=64"`
	Images      []string `json:"images,omitempty"`
	IsActive    *bool    `json:"isActive,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	SellerID *uuid.UUID `json:"sellerId,omitempty"`
	PriceMin *float64   `json:"priceMin,omitempty"`
	PriceMax *float64   `json:"priceMax,omitempty"`
	InStock  *bool      `json:"inStock,omitempty"`
	All      bool       `json:"-"` // include inactive products (seller/admin views)
}

func (s *ProductService) CreateProduct(sellerID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var seller models.User
	if err := s.db.First(&seller, "id = ?", sellerID).Error; err != nil {
		return nil, fmt.Errorf("seller not found: %w", err)
	}

	if seller.Status != models.UserStatusActive {
		return nil, errors.New("seller account is not active")
	}

	product := &models.Product{
		SellerID:    sellerID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Pricing: models.ProductPricing{
			BasePrice: req.BasePrice,
			SalePrice: req.SalePrice,
		},
		Inventory: models.ProductInventory{
			Stock: req.Stock,
			SKU:   req.SKU,
		},
		Images:   req.Images,
		IsActive: req.Stock > 0,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Seller").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reqErr(http.StatusNotFound, "Product not found: %s", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &product, nil
}

func (s *ProductService) UpdateProduct(id, sellerID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reqErr(http.StatusNotFound, "Product not found: %s", id)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if product.SellerID != sellerID {
		return nil, reqErr(http.StatusForbidden, "Unauthorized to update this product")
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.BasePrice != nil {
		updates["base_price"] = *req.BasePrice
	}
	if req.SalePrice != nil {
		updates["sale_price"] = *req.SalePrice
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.SKU != "" {
		updates["sku"] = req.SKU
	}
	if req.Images != nil {
		updates["images"] = models.StringList(req.Images)
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) DeleteProduct(id, sellerID uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return reqErr(http.StatusNotFound, "Product not found: %s", id)
		}
		return fmt.Errorf("database error: %w", err)
	}

	if product.SellerID != sellerID {
		return reqErr(http.StatusForbidden, "Unauthorized to delete this product")
	}

	// Soft delete keeps order snapshots' product references resolvable.
	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Seller")

	if !params.All {
		query = query.Where("is_active = ?", true)
	}

	if params.SellerID != nil {
		query = query.Where("seller_id = ?", *params.SellerID)
	}

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	if params.PriceMin != nil {
		query = query.Where("COALESCE(sale_price, base_price) >= ?", *params.PriceMin)
	}

	if params.PriceMax != nil {
		query = query.Where("COALESCE(sale_price, base_price) <= ?", *params.PriceMax)
	}

	if params.InStock != nil && *params.InStock {
		query = query.Where("stock > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "base_price"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

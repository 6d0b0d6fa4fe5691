// internal/services/cart_service.go
package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/models"
)

type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// GetCart returns the customer's cart, creating an empty one on first use.
func (s *CartService) GetCart(customerID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Preload("Items").Preload("Items.Product").
		First(&cart, "customer_id = ?", customerID).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	cart = models.Cart{CustomerID: customerID}
	if err := s.db.Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &cart, nil
}

// AddItem puts a product in the cart, merging quantity with an existing row
// for the same product.
func (s *CartService) AddItem(customerID uuid.UUID, req *AddCartItemRequest) (*models.Cart, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reqErr(http.StatusNotFound, "Product not found: %s", req.ProductID)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !product.IsActive {
		return nil, reqErr(http.StatusBadRequest, "Product %q is currently unavailable", product.Name)
	}

	cart, err := s.GetCart(customerID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = s.db.First(&item, "cart_id = ? AND product_id = ?", cart.ID, req.ProductID).Error
	switch {
	case err == nil:
		item.Quantity += req.Quantity
		if err := s.db.Save(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart item: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = models.CartItem{
			CartID:    cart.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		if err := s.db.Create(&item).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart item: %w", err)
		}
	default:
		return nil, fmt.Errorf("database error: %w", err)
	}

	return s.GetCart(customerID)
}

// UpdateItem changes the quantity of one cart line.
func (s *CartService) UpdateItem(customerID, itemID uuid.UUID, req *UpdateCartItemRequest) (*models.Cart, error) {
	cart, err := s.GetCart(customerID)
	if err != nil {
		return nil, err
	}

	res := s.db.Model(&models.CartItem{}).
		Where("id = ? AND cart_id = ?", itemID, cart.ID).
		Update("quantity", req.Quantity)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, reqErr(http.StatusNotFound, "Cart item not found")
	}

	return s.GetCart(customerID)
}

// RemoveItem deletes one cart line.
func (s *CartService) RemoveItem(customerID, itemID uuid.UUID) (*models.Cart, error) {
	cart, err := s.GetCart(customerID)
	if err != nil {
		return nil, err
	}

	res := s.db.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&models.CartItem{})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to remove cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, reqErr(http.StatusNotFound, "Cart item not found")
	}

	return s.GetCart(customerID)
}

// Clear empties the cart without deleting it.
func (s *CartService) Clear(customerID uuid.UUID) error {
	cart, err := s.GetCart(customerID)
	if err != nil {
		return err
	}

	if err := s.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/models"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/pricing"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/utils"
)

// OrderService owns order placement: authoritative pricing, atomic stock
// decrements, coupon redemption, and the immutable order record with its
// timeline. Everything inside PlaceOrder's transaction is all-or-nothing;
// the only best-effort step is clearing the cart afterwards.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

type OrderItemInput struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type ShippingAddressInput struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country,omitempty"`
	Email        string `json:"email,omitempty"`
}

type PlaceOrderRequest struct {
	Items           []OrderItemInput     `json:"items"`
	ShippingAddress ShippingAddressInput `json:"shippingAddress"`
	PaymentMethod   string               `json:"paymentMethod"`
	CouponCode      string               `json:"couponCode,omitempty"`
	TransactionID   string               `json:"transactionId,omitempty"`
	CustomerID      string               `json:"customerId,omitempty"`
}

type OrderListParams struct {
	utils.PaginationParams
	Status models.OrderStatus
}

const orderNumberAttempts = 3

// PlaceOrder validates the cart, recomputes pricing server-side, applies at
// most one coupon, and commits stock decrements plus the order record in a
// single transaction. A failure on any item leaves no inventory effect.
func (s *OrderService) PlaceOrder(customerID uuid.UUID, req *PlaceOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, reqErr(http.StatusBadRequest, "Cart is empty")
	}

	address := models.ShippingAddress(req.ShippingAddress)
	if !address.Complete() {
		return nil, reqErr(http.StatusBadRequest, "Complete shipping address is required")
	}

	method := models.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		return nil, reqErr(http.StatusBadRequest, "Valid payment method required")
	}

	var order *models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.User
		if err := tx.First(&customer, "id = ?", customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reqErr(http.StatusUnauthorized, "Unauthorized")
			}
			return fmt.Errorf("database error: %w", err)
		}

		// Phase 1: validate and price every line with no side effects.
		items, subtotal, err := s.buildLineItems(tx, req.Items)
		if err != nil {
			return err
		}

		// Coupon application is silent: any ineligibility or lookup failure
		// skips the discount and the order proceeds at full price.
		var discount float64
		var appliedCoupon *models.Coupon
		if code := strings.TrimSpace(req.CouponCode); code != "" {
			appliedCoupon, discount = s.lookupCoupon(tx, code, pricing.Round2(subtotal))
		}

		breakdown := pricing.Compute(subtotal, discount)
		if !breakdown.Valid() {
			return reqErr(http.StatusInternalServerError, "Error calculating order total")
		}

		// Phase 2: apply all inventory effects atomically. A conditional
		// update losing the race aborts the whole order.
		for i := range items {
			if err := s.decrementStock(tx, &items[i]); err != nil {
				return err
			}
		}

		// Redeem the coupon with a single guarded increment; losing the
		// race at the usage limit drops the discount, not the order.
		couponCode := ""
		if appliedCoupon != nil {
			if s.redeemCoupon(tx, appliedCoupon) {
				couponCode = appliedCoupon.Code
			} else {
				breakdown = pricing.Compute(subtotal, 0)
			}
		}

		paymentStatus := models.PaymentStatusPending
		var paidAt *time.Time
		if method != models.PaymentMethodCOD && req.TransactionID != "" {
			paymentStatus = models.PaymentStatusPaid
			now := time.Now()
			paidAt = &now
		}

		order = &models.Order{
			CustomerID: customerID,
			Items:      items,
			Subtotal:   breakdown.Subtotal,
			Tax:        breakdown.Tax,
			Shipping:   breakdown.Shipping,
			Discount:   breakdown.Discount,
			Total:      breakdown.Total,
			Address:    address,
			Status:     models.OrderStatusConfirmed,
			Payment: models.PaymentDetails{
				Method:        method,
				Status:        paymentStatus,
				TransactionID: req.TransactionID,
				PaidAt:        paidAt,
				CouponCode:    couponCode,
			},
			Timeline: []models.OrderTimelineEntry{{
				Status:      models.OrderStatusConfirmed,
				Description: "Order placed successfully",
			}},
		}

		if err := s.createWithOrderNumber(tx, order); err != nil {
			return err
		}

		event := &models.OutboxEvent{
			EventType:   models.EventOrderPlaced,
			AggregateID: order.ID,
			Payload: models.JSONB{
				"orderId":     order.ID.String(),
				"orderNumber": order.OrderNumber,
			},
			Status:        models.OutboxStatusPending,
			NextAttemptAt: time.Now(),
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to enqueue order event: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// Post-commit side effects must never fail the placed order.
	s.clearCart(customerID, order.OrderNumber)

	var populated models.Order
	if err := s.db.Preload("Items").Preload("Timeline").Preload("Customer").
		First(&populated, "id = ?", order.ID).Error; err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).
			Warn("Failed to reload order after placement")
		return order, nil
	}

	return &populated, nil
}

// buildLineItems resolves and validates every requested item, returning the
// snapshots and the raw subtotal. It performs no writes.
func (s *OrderService) buildLineItems(tx *gorm.DB, inputs []OrderItemInput) ([]models.OrderItem, float64, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	var subtotal float64

	for _, input := range inputs {
		var product models.Product
		if err := tx.First(&product, "id = ?", input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, reqErr(http.StatusNotFound, "Product not found: %s", input.ProductID)
			}
			return nil, 0, fmt.Errorf("database error: %w", err)
		}

		price := product.UnitPrice()
		if !(price > 0) {
			return nil, 0, reqErr(http.StatusBadRequest, "Invalid price for product %q", product.Name)
		}

		if !product.IsActive {
			return nil, 0, reqErr(http.StatusBadRequest, "Product %q is currently unavailable", product.Name)
		}

		if input.Quantity > product.Inventory.Stock {
			return nil, 0, reqErr(http.StatusBadRequest, "Only %d units available for %q", product.Inventory.Stock, product.Name)
		}

		if input.Quantity <= 0 {
			return nil, 0, reqErr(http.StatusBadRequest, "Invalid quantity for product %q", product.Name)
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			SellerID:  product.SellerID,
			Name:      product.Name,
			UnitPrice: price,
			Quantity:  input.Quantity,
			Images:    product.Images,
			SKU:       product.Inventory.SKU,
			Status:    models.ItemStatusConfirmed,
		})
		subtotal += price * float64(input.Quantity)
	}

	return items, subtotal, nil
}

// decrementStock applies one line's inventory effect with a stock >= qty
// guard, so two concurrent orders can never both take the last units. A
// product drained to zero is deactivated in the same transaction.
func (s *OrderService) decrementStock(tx *gorm.DB, item *models.OrderItem) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to update inventory: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		var current models.Product
		if err := tx.First(&current, "id = ?", item.ProductID).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}
		return reqErr(http.StatusBadRequest, "Only %d units available for %q", current.Inventory.Stock, item.Name)
	}

	if err := tx.Model(&models.Product{}).
		Where("id = ? AND stock <= 0", item.ProductID).
		UpdateColumn("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate product: %w", err)
	}

	return nil
}

// lookupCoupon resolves a code case-insensitively and prices its discount.
// Failures are logged and swallowed; the order never fails over a coupon.
func (s *OrderService) lookupCoupon(tx *gorm.DB, code string, subtotal float64) (*models.Coupon, float64) {
	var coupon models.Coupon
	err := tx.Where("UPPER(code) = ?", strings.ToUpper(code)).First(&coupon).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).WithField("coupon_code", code).Warn("Coupon lookup failed")
		}
		return nil, 0
	}

	discount := pricing.Discount(&coupon, subtotal, time.Now())
	if discount == 0 {
		return nil, 0
	}

	return &coupon, discount
}

// redeemCoupon burns one use with the limit check and the increment as a
// single conditional update.
func (s *OrderService) redeemCoupon(tx *gorm.DB, coupon *models.Coupon) bool {
	res := tx.Model(&models.Coupon{}).
		Where("id = ? AND is_active = ?", coupon.ID, true).
		Where("usage_limit = 0 OR used_count < usage_limit").
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		logrus.WithError(res.Error).WithField("coupon_code", coupon.Code).Warn("Coupon redemption failed")
		return false
	}

	return res.RowsAffected > 0
}

// createWithOrderNumber persists the order under a collision-resistant
// number. The unique index is the real guard; collisions roll back to a
// savepoint and retry with a fresh suffix.
func (s *OrderService) createWithOrderNumber(tx *gorm.DB, order *models.Order) error {
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		number, err := generateOrderNumber()
		if err != nil {
			return fmt.Errorf("failed to generate order number: %w", err)
		}
		order.OrderNumber = number

		tx.SavePoint("create_order")
		if err := tx.Create(order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				tx.RollbackTo("create_order")
				continue
			}
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	}

	return fmt.Errorf("failed to create order: order number collisions exhausted retries")
}

func generateOrderNumber() (string, error) {
	suffix, err := utils.RandomDigits(3)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("OP%d%s", time.Now().UnixMilli(), suffix), nil
}

// clearCart empties the customer's cart after a successful order. The cart
// row itself survives; only its items go.
func (s *OrderService) clearCart(customerID uuid.UUID, orderNumber string) {
	var cart models.Cart
	err := s.db.First(&cart, "customer_id = ?", customerID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).WithField("order_number", orderNumber).Warn("Failed to load cart for clearing")
		}
		return
	}

	if err := s.db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"order_number": orderNumber,
			"customer_id":  customerID,
		}).Warn("Failed to clear cart after order placement")
	}
}

// ListOrders returns a customer's orders newest-first with an optional
// status filter.
func (s *OrderService) ListOrders(customerID uuid.UUID, params OrderListParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("customer_id = ?", customerID)

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []models.Order
	err := utils.ApplyPagination(query.Order("created_at DESC"), params.PaginationParams).
		Preload("Items").Preload("Timeline").
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// GetOrder fetches one order scoped to its owner.
func (s *OrderService) GetOrder(orderID, customerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Timeline").Preload("Customer").
		First(&order, "id = ? AND customer_id = ?", orderID, customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reqErr(http.StatusNotFound, "Order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &order, nil
}

// CancelOrder is the compensation path: allowed only while the order is
// still confirmed, it restores stock, reactivates products it restocked,
// and appends a cancelled timeline entry. Coupon usage is not released.
func (s *OrderService) CancelOrder(orderID, customerID uuid.UUID) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").
			First(&order, "id = ? AND customer_id = ?", orderID, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reqErr(http.StatusNotFound, "Order not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if order.Status != models.OrderStatusConfirmed {
			return reqErr(http.StatusBadRequest, "Order cannot be cancelled in status %q", order.Status)
		}

		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to restore inventory: %w", err)
			}
			if err := tx.Model(&models.Product{}).
				Where("id = ? AND stock > 0", item.ProductID).
				UpdateColumn("is_active", true).Error; err != nil {
				return fmt.Errorf("failed to reactivate product: %w", err)
			}
		}

		if err := tx.Model(&order).Update("status", models.OrderStatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		if err := tx.Model(&models.OrderItem{}).
			Where("order_id = ?", order.ID).
			Update("status", models.ItemStatusCancelled).Error; err != nil {
			return fmt.Errorf("failed to update item status: %w", err)
		}

		entry := &models.OrderTimelineEntry{
			OrderID:     order.ID,
			Status:      models.OrderStatusCancelled,
			Description: "Order cancelled by customer",
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append timeline entry: %w", err)
		}

		event := &models.OutboxEvent{
			EventType:   models.EventOrderCancelled,
			AggregateID: order.ID,
			Payload: models.JSONB{
				"orderId":     order.ID.String(),
				"orderNumber": order.OrderNumber,
			},
			Status:        models.OutboxStatusPending,
			NextAttemptAt: time.Now(),
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to enqueue order event: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	var populated models.Order
	if err := s.db.Preload("Items").Preload("Timeline").
		First(&populated, "id = ?", order.ID).Error; err != nil {
		return &order, nil
	}
	return &populated, nil
}

// ListSellerOrders returns orders containing at least one of the seller's
// line items, newest-first.
func (s *OrderService) ListSellerOrders(sellerID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	sub := s.db.Model(&models.OrderItem{}).
		Select("DISTINCT order_id").
		Where("seller_id = ?", sellerID)

	query := s.db.Model(&models.Order{}).Where("id IN (?)", sub)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count seller orders: %w", err)
	}

	var orders []models.Order
	err := utils.ApplyPagination(query.Order("created_at DESC"), params).
		Preload("Items").
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch seller orders: %w", err)
	}

	return orders, total, nil
}

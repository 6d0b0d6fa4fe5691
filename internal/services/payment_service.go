// internal/services/payment_service.go
package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
	"gorm.io/gorm"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/config"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/models"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/utils"
)

// PaymentService is the thin Razorpay collaborator: it creates gateway
// payment orders for pending online orders and confirms signed payment
// callbacks. Gateway internals stay behind this request/response surface.
type PaymentService struct {
	db     *gorm.DB
	config *config.Config
	client *razorpay.Client
}

func NewPaymentService(db *gorm.DB, cfg *config.Config) *PaymentService {
	s := &PaymentService{db: db, config: cfg}
	if cfg.Payment.RazorpayKeyID != "" {
		s.client = razorpay.NewClient(cfg.Payment.RazorpayKeyID, cfg.Payment.RazorpayKeySecret)
	}
	return s
}

type CreatePaymentOrderRequest struct {
	OrderID uuid.UUID `json:"orderId" validate:"required"`
}

type PaymentOrderResponse struct {
	GatewayOrderID string  `json:"gatewayOrderId"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	KeyID          string  `json:"keyId"`
}

type ConfirmPaymentRequest struct {
	OrderID          uuid.UUID `json:"orderId" validate:"required"`
	GatewayOrderID   string    `json:"razorpayOrderId" validate:"required"`
	GatewayPaymentID string    `json:"razorpayPaymentId" validate:"required"`
	Signature        string    `json:"razorpaySignature" validate:"required"`
}

// CreatePaymentOrder registers the order total with the gateway and stores
// the gateway order id for later signature verification.
func (s *PaymentService) CreatePaymentOrder(customerID uuid.UUID, req *CreatePaymentOrderRequest) (*PaymentOrderResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if s.client == nil {
		return nil, reqErr(http.StatusServiceUnavailable, "Payment gateway is not configured")
	}

	var order models.Order
	err := s.db.First(&order, "id = ? AND customer_id = ?", req.OrderID, customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, reqErr(http.StatusNotFound, "Order not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !order.PaymentRequired() {
		return nil, reqErr(http.StatusBadRequest, "Order does not require payment")
	}

	data := map[string]interface{}{
		"amount":   int64(order.Total * 100), // paise
		"currency": s.config.Payment.Currency,
		"receipt":  order.OrderNumber,
	}

	gatewayOrder, err := s.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}

	gatewayOrderID, _ := gatewayOrder["id"].(string)
	if gatewayOrderID == "" {
		return nil, fmt.Errorf("gateway returned no order id")
	}

	if err := s.db.Model(&order).
		UpdateColumn("payment_gateway_order_id", gatewayOrderID).Error; err != nil {
		return nil, fmt.Errorf("failed to record gateway order: %w", err)
	}

	return &PaymentOrderResponse{
		GatewayOrderID: gatewayOrderID,
		Amount:         order.Total,
		Currency:       s.config.Payment.Currency,
		KeyID:          s.config.Payment.RazorpayKeyID,
	}, nil
}

// ConfirmPayment verifies the checkout callback signature and marks the
// order paid, moving it to processing with a timeline entry.
func (s *PaymentService) ConfirmPayment(customerID uuid.UUID, req *ConfirmPaymentRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ? AND customer_id = ?", req.OrderID, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reqErr(http.StatusNotFound, "Order not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if order.Payment.Status == models.PaymentStatusPaid {
			return reqErr(http.StatusBadRequest, "Order is already paid")
		}

		if order.Payment.GatewayOrderID == "" || order.Payment.GatewayOrderID != req.GatewayOrderID {
			return reqErr(http.StatusBadRequest, "Payment verification failed")
		}

		if !s.verifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.Signature) {
			return reqErr(http.StatusBadRequest, "Payment verification failed")
		}

		now := time.Now()
		updates := map[string]interface{}{
			"payment_status":         models.PaymentStatusPaid,
			"payment_transaction_id": req.GatewayPaymentID,
			"payment_paid_at":        now,
			"status":                 models.OrderStatusProcessing,
		}
		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update payment: %w", err)
		}

		entry := &models.OrderTimelineEntry{
			OrderID:     order.ID,
			Status:      models.OrderStatusProcessing,
			Description: "Payment received",
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append timeline entry: %w", err)
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

// verifySignature checks the documented Razorpay checkout signature:
// HMAC-SHA256 over "<order_id>|<payment_id>" with the key secret.
func (s *PaymentService) verifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.config.Payment.RazorpayKeySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ShippingAddress is copied onto the order at placement time; later edits to
// the customer's address book never change what an order shipped to.
type ShippingAddress struct {
	Name         string `json:"name" gorm:"column:name;size:100"`
	Phone        string `json:"phone" gorm:"column:phone;size:20"`
	AddressLine1 string `json:"addressLine1" gorm:"column:address_line1;size:255"`
	AddressLine2 string `json:"addressLine2,omitempty" gorm:"column:address_line2;size:255"`
	City         string `json:"city" gorm:"column:city;size:100"`
	State        string `json:"state" gorm:"column:state;size:100"`
	Pincode      string `json:"pincode" gorm:"column:pincode;size:10"`
	Country      string `json:"country,omitempty" gorm:"column:country;size:100"`
	Email        string `json:"email,omitempty" gorm:"column:email;size:255"`
}

// Complete reports whether the mandatory address fields are present.
func (a *ShippingAddress) Complete() bool {
	return a.Name != "" && a.Phone != "" && a.AddressLine1 != "" &&
		a.City != "" && a.State != "" && a.Pincode != ""
}

type PaymentDetails struct {
	Method         PaymentMethod `json:"method" gorm:"column:method;type:varchar(20);not null"`
	Status         PaymentStatus `json:"status" gorm:"column:status;type:varchar(20);default:'pending'"`
	TransactionID  string        `json:"transactionId,omitempty" gorm:"column:transaction_id;size:255"`
	GatewayOrderID string        `json:"gatewayOrderId,omitempty" gorm:"column:gateway_order_id;size:255"`
	PaidAt         *time.Time    `json:"paidAt,omitempty" gorm:"column:paid_at"`
	CouponCode     string        `json:"couponCode,omitempty" gorm:"column:coupon_code;size:50"`
}

// OrderItem is an immutable snapshot of a product at placement time.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID  `json:"orderId" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID  `json:"productId" gorm:"type:uuid;not null;index"`
	SellerID  uuid.UUID  `json:"sellerId" gorm:"type:uuid;not null;index"`
	Name      string     `json:"name" gorm:"size:255;not null"`
	UnitPrice float64    `json:"unitPrice" gorm:"type:decimal(10,2);not null"`
	Quantity  int        `json:"quantity" gorm:"not null"`
	Images    StringList `json:"images" gorm:"type:text"`
	SKU       string     `json:"sku" gorm:"size:64"`
	Status    ItemStatus `json:"status" gorm:"type:varchar(20);default:'confirmed'"`
}

// OrderTimelineEntry rows are append-only; nothing in the codebase updates
// or deletes them.
type OrderTimelineEntry struct {
	BaseModel
	OrderID     uuid.UUID   `json:"orderId" gorm:"type:uuid;not null;index"`
	Status      OrderStatus `json:"status" gorm:"type:varchar(20);not null"`
	Description string      `json:"description" gorm:"size:255"`
}

type Order struct {
	BaseModel
	OrderNumber string      `json:"orderNumber" gorm:"uniqueIndex;size:32;not null"`
	CustomerID  uuid.UUID   `json:"customerId" gorm:"type:uuid;not null;index"`
	Items       []OrderItem `json:"items" gorm:"foreignKey:OrderID"`

	Subtotal float64 `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	Tax      float64 `json:"tax" gorm:"type:decimal(10,2);not null"`
	Shipping float64 `json:"shipping" gorm:"type:decimal(10,2);not null"`
	Discount float64 `json:"discount" gorm:"type:decimal(10,2);default:0"`
	Total    float64 `json:"total" gorm:"type:decimal(10,2);not null"`

	Address  ShippingAddress      `json:"shippingAddress" gorm:"embedded;embeddedPrefix:ship_"`
	Status   OrderStatus          `json:"status" gorm:"type:varchar(20);default:'confirmed';index"`
	Payment  PaymentDetails       `json:"payment" gorm:"embedded;embeddedPrefix:payment_"`
	Timeline []OrderTimelineEntry `json:"timeline,omitempty" gorm:"foreignKey:OrderID"`

	// Relationships
	Customer User `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

// PaymentRequired reports whether the customer still has to pay online for
// this order. COD orders collect on delivery and never require it.
func (o *Order) PaymentRequired() bool {
	return o.Payment.Method != PaymentMethodCOD && o.Payment.Status != PaymentStatusPaid
}

// SellerIDs returns the distinct sellers represented in the line items.
func (o *Order) SellerIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(o.Items))
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.SellerID]; ok {
			continue
		}
		seen[item.SellerID] = struct{}{}
		ids = append(ids, item.SellerID)
	}
	return ids
}

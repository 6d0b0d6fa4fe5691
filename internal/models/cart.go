// internal/models/cart.go
package models

import (
	"github.com/google/uuid"
)

type Cart struct {
	BaseModel
	CustomerID uuid.UUID  `json:"customerId" gorm:"type:uuid;not null;uniqueIndex"`
	Items      []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

type CartItem struct {
	BaseModel
	CartID    uuid.UUID `json:"cartId" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`

	// Relationships
	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

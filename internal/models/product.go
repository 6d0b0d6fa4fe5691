// internal/models/product.go
package models

import (
	"github.com/google/uuid"
)

type ProductPricing struct {
	BasePrice float64  `json:"basePrice" gorm:"column:base_price;type:decimal(10,2);not null"`
	SalePrice *float64 `json:"salePrice,omitempty" gorm:"column:sale_price;type:decimal(10,2)"`
}

type ProductInventory struct {
	Stock int    `json:"stock" gorm:"column:stock;not null;default:0"`
	SKU   string `json:"sku" gorm:"column:sku;size:64"`
}

type Product struct {
	BaseModel
	SellerID    uuid.UUID        `json:"sellerId" gorm:"type:uuid;not null;index"`
	Name        string           `json:"name" gorm:"size:255;not null"`
	Description string           `json:"description" gorm:"type:text"`
	Category    string           `json:"category" gorm:"size:100;index"`
	Pricing     ProductPricing   `json:"pricing" gorm:"embedded"`
	Inventory   ProductInventory `json:"inventory" gorm:"embedded"`
	Images      StringList       `json:"images" gorm:"type:text"`
	IsActive    bool             `json:"isActive" gorm:"default:true;index"`

	// Relationships
	Seller User `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}

// UnitPrice is the authoritative selling price: the sale price when one is
// set, the base price otherwise.
func (p *Product) UnitPrice() float64 {
	if p.Pricing.SalePrice != nil {
		return *p.Pricing.SalePrice
	}
	return p.Pricing.BasePrice
}

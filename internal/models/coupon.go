// internal/models/coupon.go
package models

import (
	"time"
)

type Coupon struct {
	BaseModel
	Code              string       `json:"code" gorm:"uniqueIndex;size:50;not null"`
	Description       string       `json:"description" gorm:"type:text"`
	DiscountType      DiscountType `json:"discountType" gorm:"type:varchar(20);not null"`
	DiscountValue     float64      `json:"discountValue" gorm:"type:decimal(10,2);not null"`
	MinOrderValue     float64      `json:"minOrderValue" gorm:"type:decimal(10,2);default:0"`
	MaxDiscountAmount *float64     `json:"maxDiscountAmount,omitempty" gorm:"type:decimal(10,2)"`
	ValidFrom         time.Time    `json:"validFrom"`
	ValidUntil        time.Time    `json:"validUntil"`
	UsageLimit        int          `json:"usageLimit" gorm:"default:0"` // 0 means unlimited
	UsedCount         int          `json:"usedCount" gorm:"default:0"`
	IsActive          bool         `json:"isActive" gorm:"default:true;index"`
}

// Usable reports whether the coupon can still be redeemed at the given time
// for the given subtotal. The usage-limit check here is advisory; the
// authoritative guard is the conditional increment at redemption time.
func (c *Coupon) Usable(now time.Time, subtotal float64) bool {
	if !c.IsActive {
		return false
	}
	if now.Before(c.ValidFrom) || now.After(c.ValidUntil) {
		return false
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return false
	}
	return subtotal >= c.MinOrderValue
}

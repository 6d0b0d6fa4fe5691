// internal/pricing/pricing.go
package pricing

import (
	"math"
	"time"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/models"
)

// Business constants for the storefront. These are pricing policy, not
// deployment configuration.
const (
	TaxRate               = 0.18
	FreeShippingThreshold = 500.0
	FlatShippingCharge    = 50.0
)

// Breakdown is the authoritative pricing of an order, every term rounded to
// two decimals. Total = Subtotal + Tax + Shipping - Discount.
type Breakdown struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// Round2 rounds to two decimal places (half away from zero).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Shipping returns the flat delivery charge for a subtotal. Orders at or
// above the free-shipping threshold ship free.
func Shipping(subtotal float64) float64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return FlatShippingCharge
}

// Tax is charged on goods plus shipping at the flat GST rate.
func Tax(subtotal, shipping float64) float64 {
	return Round2((subtotal + shipping) * TaxRate)
}

// Discount computes the amount a coupon takes off a subtotal, or 0 when the
// coupon is not usable. Percentage discounts are capped at the coupon's max
// discount amount when one is set.
func Discount(c *models.Coupon, subtotal float64, now time.Time) float64 {
	if c == nil || !c.Usable(now, subtotal) {
		return 0
	}

	var discount float64
	switch c.DiscountType {
	case models.DiscountTypePercentage:
		discount = subtotal * c.DiscountValue / 100
		if c.MaxDiscountAmount != nil && discount > *c.MaxDiscountAmount {
			discount = *c.MaxDiscountAmount
		}
	case models.DiscountTypeFixed:
		discount = c.DiscountValue
	default:
		return 0
	}

	return Round2(discount)
}

// Compute assembles the full breakdown from a raw subtotal and an already
// computed discount.
func Compute(subtotal, discount float64) Breakdown {
	sub := Round2(subtotal)
	shipping := Shipping(sub)
	tax := Tax(sub, shipping)
	return Breakdown{
		Subtotal: sub,
		Shipping: shipping,
		Tax:      tax,
		Discount: Round2(discount),
		Total:    Round2(sub + tax + shipping - discount),
	}
}

// Valid reports whether every term of the breakdown is a finite number.
func (b Breakdown) Valid() bool {
	for _, v := range []float64{b.Subtotal, b.Shipping, b.Tax, b.Discount, b.Total} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order represents a completed checkout. The pricing breakdown is a
// snapshot taken at checkout time; later menu or coupon edits do not
// change a placed order.
type Order struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	OwnerKey   string          `json:"ownerKey" db:"owner_key"`
	CouponCode *string         `json:"couponCode,omitempty" db:"coupon_code"`
	Subtotal   decimal.Decimal `json:"subtotal" db:"subtotal"`
	Tax        decimal.Decimal `json:"tax" db:"tax"`
	Discount   decimal.Decimal `json:"discount" db:"discount"`
	Total      decimal.Decimal `json:"total" db:"total"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is one priced line of an order.
type OrderItem struct {
	ID           uuid.UUID       `json:"-" db:"id"`
	OrderID      uuid.UUID       `json:"-" db:"order_id"`
	ItemID       string          `json:"itemId" db:"item_id"`
	Name         string          `json:"name" db:"name"`
	Quantity     int             `json:"quantity" db:"quantity"`
	Size         string          `json:"size,omitempty" db:"size"`
	ColdFoam     bool            `json:"coldFoam" db:"cold_foam"`
	Milk         string          `json:"milk,omitempty" db:"milk"`
	Instructions string          `json:"instructions,omitempty" db:"instructions"`
	UnitPrice    decimal.Decimal `json:"unitPrice" db:"unit_price"`
	LineTotal    decimal.Decimal `json:"lineTotal" db:"line_total"`
}

// CheckoutRequest is the request payload for placing an order from the
// caller's current cart.
type CheckoutRequest struct {
	CouponCode *string `json:"couponCode,omitempty"`
}

// QuoteRequest is the request payload for previewing checkout pricing
// without placing an order.
type QuoteRequest struct {
	CouponCode *string `json:"couponCode,omitempty"`
}

// OrderResponse is the response payload for a placed or retrieved order.
type OrderResponse struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}

// QuoteResponse is the response payload for a checkout pricing preview.
type QuoteResponse struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
	CouponCode *string         `json:"couponCode,omitempty"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountKind distinguishes how a coupon's value is interpreted.
type DiscountKind string

const (
	// DiscountPercentage treats Value as a percentage of the order amount.
	DiscountPercentage DiscountKind = "percentage"

	// DiscountFixed treats Value as an absolute amount off the order.
	DiscountFixed DiscountKind = "fixed"
)

// Coupon represents a discount code. Codes are stored upper-cased and
// matched case-insensitively. A nil MaxUses means unlimited redemptions.
type Coupon struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	Code           string          `json:"code" db:"code"`
	Kind           DiscountKind    `json:"kind" db:"kind"`
	Value          decimal.Decimal `json:"value" db:"value"`
	MinOrderAmount decimal.Decimal `json:"minOrderAmount" db:"min_order_amount"`
	ExpiresAt      time.Time       `json:"expiresAt" db:"expires_at"`
	MaxUses        *int            `json:"maxUses,omitempty" db:"max_uses"`
	UsedCount      int             `json:"usedCount" db:"used_count"`
	Active         bool            `json:"active" db:"active"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`
}

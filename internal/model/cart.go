package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart status values. A cart being checked out rejects further edits
// until the checkout either completes or releases it.
const (
	CartStatusActive      = "active"
	CartStatusCheckingOut = "checking_out"
)

// Cart is one shopper's working order, keyed by their owner key. The
// stored document holds only selections; prices and totals are derived
// from the catalogue on every read and never persisted.
type Cart struct {
	OwnerKey  string          `json:"ownerKey" bson:"owner_key"`
	Items     []CartItem      `json:"items" bson:"items"`
	Status    string          `json:"status" bson:"status"`
	Version   int64           `json:"version" bson:"version"`
	Total     decimal.Decimal `json:"total" bson:"-"`
	CreatedAt time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" bson:"updated_at"`
}

// CartItem is one configured line in a cart. UnitPrice and LineTotal
// are filled in when the cart is priced.
type CartItem struct {
	LineID       string          `json:"lineId" bson:"line_id"`
	ItemID       string          `json:"itemId" bson:"item_id"`
	Quantity     int             `json:"quantity" bson:"quantity"`
	Size         string          `json:"size,omitempty" bson:"size,omitempty"`
	ColdFoam     bool            `json:"coldFoam" bson:"cold_foam"`
	Milk         string          `json:"milk,omitempty" bson:"milk,omitempty"`
	Instructions string          `json:"instructions,omitempty" bson:"instructions,omitempty"`
	UnitPrice    decimal.Decimal `json:"unitPrice" bson:"-"`
	LineTotal    decimal.Decimal `json:"lineTotal" bson:"-"`
}

// AddItemRequest is the request payload for adding a line to the cart.
type AddItemRequest struct {
	ItemID       string `json:"itemId"`
	Quantity     int    `json:"quantity"`
	Size         string `json:"size,omitempty"`
	ColdFoam     bool   `json:"coldFoam,omitempty"`
	Milk         string `json:"milk,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// UpdateItemRequest is the request payload for reconfiguring a cart
// line. The line's item never changes; remove and re-add to swap items.
type UpdateItemRequest struct {
	Quantity     int    `json:"quantity"`
	Size         string `json:"size,omitempty"`
	ColdFoam     bool   `json:"coldFoam,omitempty"`
	Milk         string `json:"milk,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

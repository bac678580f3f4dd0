package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem represents a sellable catalogue entry. Size variants carry
// their own full prices; a variant replaces the base price rather than
// adjusting it.
type MenuItem struct {
	ID            string          `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Description   string          `json:"description,omitempty" db:"description"`
	Category      string          `json:"category" db:"category"`
	BasePrice     decimal.Decimal `json:"basePrice" db:"base_price"`
	Sizes         []SizeVariant   `json:"sizes,omitempty"`
	AllowColdFoam bool            `json:"allowColdFoam" db:"allow_cold_foam"`
	AllowAltMilk  bool            `json:"allowAltMilk" db:"allow_alt_milk"`
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
}

// SizeVariant is one named size of a menu item with its absolute price.
type SizeVariant struct {
	Label string          `json:"label" db:"label"`
	Price decimal.Decimal `json:"price" db:"price"`
}

// SizePrice returns the price of the named size variant. The second
// return value reports whether the item offers that size.
func (m *MenuItem) SizePrice(label string) (decimal.Decimal, bool) {
	for _, s := range m.Sizes {
		if s.Label == label {
			return s.Price, true
		}
	}
	return decimal.Decimal{}, false
}

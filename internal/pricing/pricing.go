package pricing

import (
	"time"

	"brewcart/internal/model"

	"github.com/shopspring/decimal"
)

// Config holds the pricing parameters that vary per deployment.
// Amounts are in currency units; TaxRate is a fraction (0.08 = 8%).
type Config struct {
	TaxRate           decimal.Decimal
	ColdFoamSurcharge decimal.Decimal
	AltMilkSurcharge  decimal.Decimal
}

// DefaultConfig returns the standard café pricing parameters.
func DefaultConfig() Config {
	return Config{
		TaxRate:           decimal.NewFromFloat(0.08),
		ColdFoamSurcharge: decimal.NewFromInt(1),
		AltMilkSurcharge:  decimal.NewFromFloat(0.75),
	}
}

// Line is one resolved cart line ready for aggregation.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Quote is the pipeline's output: the full pricing breakdown for a cart.
// Total = Subtotal + Tax - Discount and is never negative.
type Quote struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Calculator computes order pricing. It is pure: every method depends
// only on its inputs and the fixed configuration, performs no I/O and
// mutates nothing.
type Calculator struct {
	cfg Config
}

// NewCalculator creates a calculator with the given pricing parameters.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// ResolveUnitPrice computes the price of a single unit of the item in
// the given configuration. A named size variant replaces the base price
// entirely; surcharges are additive on top of whichever price applies.
// A size that names no variant on the item is rejected rather than
// silently falling back to the base price.
func (c *Calculator) ResolveUnitPrice(item *model.MenuItem, sel model.CartItem) (decimal.Decimal, error) {
	price := item.BasePrice

	if sel.Size != "" {
		variantPrice, ok := item.SizePrice(sel.Size)
		if !ok {
			return decimal.Decimal{}, model.ErrSizeNotAvailable
		}
		price = variantPrice
	}

	if sel.ColdFoam {
		price = price.Add(c.cfg.ColdFoamSurcharge)
	}

	// Any non-empty milk label triggers the surcharge; the specific
	// milk does not affect the price.
	if sel.Milk != "" {
		price = price.Add(c.cfg.AltMilkSurcharge)
	}

	return price, nil
}

// Subtotal sums unit price times quantity across all lines. An empty
// cart totals zero. A non-positive quantity is a caller error and is
// rejected rather than skipped.
func (c *Calculator) Subtotal(lines []Line) (decimal.Decimal, error) {
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			return decimal.Decimal{}, model.ErrInvalidQuantity
		}
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal, nil
}

// ApplyTax computes the tax on a subtotal and the tax-inclusive total.
// The tax amount is rounded half-up to the currency's minor unit at
// this boundary; the subtotal itself is left untouched so repeated
// application never compounds rounding error.
func (c *Calculator) ApplyTax(subtotal decimal.Decimal) (tax, total decimal.Decimal) {
	tax = subtotal.Mul(c.cfg.TaxRate).Round(2)
	return tax, subtotal.Add(tax)
}

// EvaluateCoupon validates the coupon against the order amount and
// computes the discount and final payable amount. Checks run in a fixed
// order and stop at the first failure: active, unexpired, under the use
// limit, order meets the minimum. Evaluation never mutates the coupon;
// redemption is a separate step taken only once the order is committed.
func (c *Calculator) EvaluateCoupon(coupon *model.Coupon, orderAmount decimal.Decimal, now time.Time) (discount, final decimal.Decimal, err error) {
	if !coupon.Active {
		return decimal.Decimal{}, decimal.Decimal{}, model.ErrCouponInactive
	}

	if now.After(coupon.ExpiresAt) {
		return decimal.Decimal{}, decimal.Decimal{}, model.ErrCouponExpired
	}

	if coupon.MaxUses != nil && coupon.UsedCount >= *coupon.MaxUses {
		return decimal.Decimal{}, decimal.Decimal{}, model.ErrCouponUsageLimit
	}

	if orderAmount.LessThan(coupon.MinOrderAmount) {
		return decimal.Decimal{}, decimal.Decimal{}, model.NewCouponBelowMinimumError(coupon.MinOrderAmount)
	}

	switch coupon.Kind {
	case model.DiscountPercentage:
		discount = orderAmount.Mul(coupon.Value).Div(hundred)
	case model.DiscountFixed:
		discount = coupon.Value
	default:
		// A stored kind outside the known set is corrupt data, not a
		// failed lookup.
		return decimal.Decimal{}, decimal.Decimal{}, model.ErrCouponInvalidKind
	}

	// The discount never exceeds the amount it was computed against,
	// so the final amount never goes negative.
	if discount.GreaterThan(orderAmount) {
		discount = orderAmount
	}

	discount = discount.Round(2)
	final = orderAmount.Sub(discount).Round(2)
	if final.IsNegative() {
		final = decimal.Zero
	}

	return discount, final, nil
}

// QuoteLines runs the full pipeline over resolved lines: subtotal, tax,
// then the optional coupon. A nil coupon quotes the tax-inclusive total
// with a zero discount. The same now instant is used for the whole
// evaluation.
func (c *Calculator) QuoteLines(lines []Line, coupon *model.Coupon, now time.Time) (Quote, error) {
	subtotal, err := c.Subtotal(lines)
	if err != nil {
		return Quote{}, err
	}

	tax, total := c.ApplyTax(subtotal)

	quote := Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: decimal.Zero,
		Total:    total,
	}

	if coupon != nil {
		discount, final, err := c.EvaluateCoupon(coupon, total, now)
		if err != nil {
			return Quote{}, err
		}
		quote.Discount = discount
		quote.Total = final
	}

	return quote, nil
}

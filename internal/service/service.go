package service

import (
	"context"

	"brewcart/internal/model"

	"github.com/google/uuid"
)

// MenuService defines operations for menu browsing.
type MenuService interface {
	// GetMenu retrieves the full menu, served from cache when possible.
	GetMenu(ctx context.Context) ([]model.MenuItem, error)

	// GetItem retrieves a single menu item by ID.
	GetItem(ctx context.Context, id string) (*model.MenuItem, error)
}

// CartService defines operations for cart management. All totals on
// returned carts are recomputed from the catalogue on every call.
type CartService interface {
	// GetCart retrieves the caller's cart, creating an empty one on
	// first access.
	GetCart(ctx context.Context, ownerKey string) (*model.Cart, error)

	// AddItem appends a configured line to the cart.
	AddItem(ctx context.Context, ownerKey string, req *model.AddItemRequest) (*model.Cart, error)

	// UpdateItem reconfigures an existing cart line.
	UpdateItem(ctx context.Context, ownerKey, lineID string, req *model.UpdateItemRequest) (*model.Cart, error)

	// RemoveItem deletes a line from the cart.
	RemoveItem(ctx context.Context, ownerKey, lineID string) (*model.Cart, error)

	// Clear empties the caller's cart.
	Clear(ctx context.Context, ownerKey string) error
}

// CheckoutService defines operations for pricing and placing orders.
type CheckoutService interface {
	// Quote prices the caller's cart, optionally applying a coupon,
	// without mutating anything.
	Quote(ctx context.Context, ownerKey string, couponCode *string) (*model.QuoteResponse, error)

	// Checkout places an order from the caller's cart. The order
	// insert and any coupon redemption commit in one transaction;
	// the cart is cleared afterwards.
	Checkout(ctx context.Context, ownerKey string, req *model.CheckoutRequest) (*model.OrderResponse, error)

	// GetOrder retrieves a placed order by its ID.
	GetOrder(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)
}

package repository

import (
	"context"

	"brewcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MenuRepository defines the interface for menu catalogue data access.
type MenuRepository interface {
	// GetAll retrieves all menu items with their size variants,
	// with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.MenuItem, error)

	// GetByID retrieves a single menu item by its ID.
	GetByID(ctx context.Context, id string) (*model.MenuItem, error)

	// GetByIDs retrieves multiple menu items by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.MenuItem, error)

	// UpsertItem inserts a menu item or replaces an existing one,
	// size variants included. Used by the catalogue seed importer.
	UpsertItem(ctx context.Context, item *model.MenuItem) error
}

// CouponRepository defines the interface for coupon data access.
type CouponRepository interface {
	// GetByCode retrieves a coupon by its code, case-insensitively.
	// Returns nil when no coupon matches.
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)

	// Create inserts a new coupon.
	Create(ctx context.Context, coupon *model.Coupon) error

	// RedeemInTx increments the coupon's usage count within the
	// provided transaction. The increment re-checks the usage limit
	// so concurrent redemptions cannot exceed it; a coupon at its
	// limit returns model.ErrCouponUsageLimit.
	RedeemInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)
}

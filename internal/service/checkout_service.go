package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brewcart/internal/cartstore"
	"brewcart/internal/model"
	"brewcart/internal/pricing"
	"brewcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// checkoutService implements CheckoutService. Checkout claims the cart,
// commits the order and any coupon redemption in one database
// transaction, then clears the cart. A failed transaction releases the
// claim so the shopper can edit and retry.
type checkoutService struct {
	store      cartstore.Store
	menuRepo   repository.MenuRepository
	couponRepo repository.CouponRepository
	orderRepo  repository.OrderRepository
	calc       *pricing.Calculator
	logger     zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	store cartstore.Store,
	menuRepo repository.MenuRepository,
	couponRepo repository.CouponRepository,
	orderRepo repository.OrderRepository,
	calc *pricing.Calculator,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		store:      store,
		menuRepo:   menuRepo,
		couponRepo: couponRepo,
		orderRepo:  orderRepo,
		calc:       calc,
		logger:     logger.With().Str("service", "checkout").Logger(),
	}
}

// Quote prices the caller's cart with the optional coupon applied. It
// runs the same pipeline as Checkout but mutates nothing: the coupon's
// usage count is untouched and the cart stays editable.
func (s *checkoutService) Quote(ctx context.Context, ownerKey string, couponCode *string) (*model.QuoteResponse, error) {
	cart, err := s.store.Get(ctx, ownerKey)
	if err != nil {
		if errors.Is(err, cartstore.ErrNotFound) {
			return nil, model.ErrCartEmpty
		}
		return nil, err
	}

	quote, _, coupon, err := s.priceCart(ctx, cart, couponCode)
	if err != nil {
		return nil, err
	}

	resp := &model.QuoteResponse{
		Subtotal: quote.Subtotal,
		Tax:      quote.Tax,
		Discount: quote.Discount,
		Total:    quote.Total,
	}
	if coupon != nil {
		resp.CouponCode = &coupon.Code
	}

	return resp, nil
}

// Checkout places an order from the caller's cart.
func (s *checkoutService) Checkout(ctx context.Context, ownerKey string, req *model.CheckoutRequest) (*model.OrderResponse, error) {
	cart, err := s.store.Get(ctx, ownerKey)
	if err != nil {
		if errors.Is(err, cartstore.ErrNotFound) {
			return nil, model.ErrCartEmpty
		}
		return nil, err
	}

	if cart.Status == model.CartStatusCheckingOut {
		return nil, model.ErrCartConflict
	}

	quote, orderItems, coupon, err := s.priceCart(ctx, cart, req.CouponCode)
	if err != nil {
		return nil, err
	}

	// Claim the cart on the version we priced. A concurrent edit or a
	// second checkout changes the version and loses the claim.
	if err := s.store.ClaimForCheckout(ctx, ownerKey, cart.Version); err != nil {
		if errors.Is(err, cartstore.ErrVersionConflict) {
			return nil, model.ErrCartConflict
		}
		return nil, err
	}

	now := time.Now()
	order := &model.Order{
		ID:        uuid.New(),
		OwnerKey:  ownerKey,
		Subtotal:  quote.Subtotal,
		Tax:       quote.Tax,
		Discount:  quote.Discount,
		Total:     quote.Total,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if coupon != nil {
		order.CouponCode = &coupon.Code
	}
	for i := range orderItems {
		orderItems[i].ID = uuid.New()
		orderItems[i].OrderID = order.ID
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.releaseClaim(ctx, ownerKey)
		s.logger.Error().Err(err).Msg("failed to begin checkout transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, context.Canceled) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback checkout transaction")
			}
			s.releaseClaim(ctx, ownerKey)
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if coupon != nil {
		// The guarded increment re-checks the usage limit under the
		// transaction, so two racing checkouts cannot both take the
		// last use.
		if err = s.couponRepo.RedeemInTx(ctx, tx, coupon.ID); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit checkout transaction")
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// The order is committed; a failed clear leaves the cart claimed
	// and inert rather than resurrecting it as editable.
	if clearErr := s.store.Clear(ctx, ownerKey); clearErr != nil {
		s.logger.Warn().
			Err(clearErr).
			Str("owner_key", ownerKey).
			Str("order_id", order.ID.String()).
			Msg("order placed but cart clear failed")
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("owner_key", ownerKey).
		Str("total", order.Total.StringFixed(2)).
		Msg("order placed")

	return &model.OrderResponse{Order: *order, Items: orderItems}, nil
}

// GetOrder retrieves a placed order with its items.
func (s *checkoutService) GetOrder(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		return nil, nil
	}

	return &model.OrderResponse{Order: *order, Items: items}, nil
}

// priceCart resolves the cart against the catalogue and runs the full
// pricing pipeline. Returns the quote, the order lines ready for
// insertion (IDs unset) and the coupon, if one was requested and found.
func (s *checkoutService) priceCart(ctx context.Context, cart *model.Cart, couponCode *string) (pricing.Quote, []model.OrderItem, *model.Coupon, error) {
	if len(cart.Items) == 0 {
		return pricing.Quote{}, nil, nil, model.ErrCartEmpty
	}

	byID, err := s.lookupItems(ctx, cart)
	if err != nil {
		return pricing.Quote{}, nil, nil, err
	}

	lines := make([]pricing.Line, 0, len(cart.Items))
	orderItems := make([]model.OrderItem, 0, len(cart.Items))
	for _, sel := range cart.Items {
		item, ok := byID[sel.ItemID]
		if !ok {
			return pricing.Quote{}, nil, nil, model.ErrItemNotFound
		}

		unit, err := s.calc.ResolveUnitPrice(item, sel)
		if err != nil {
			return pricing.Quote{}, nil, nil, err
		}
		if sel.Quantity <= 0 {
			return pricing.Quote{}, nil, nil, model.ErrInvalidQuantity
		}

		lines = append(lines, pricing.Line{UnitPrice: unit, Quantity: sel.Quantity})
		orderItems = append(orderItems, model.OrderItem{
			ItemID:       sel.ItemID,
			Name:         item.Name,
			Quantity:     sel.Quantity,
			Size:         sel.Size,
			ColdFoam:     sel.ColdFoam,
			Milk:         sel.Milk,
			Instructions: sel.Instructions,
			UnitPrice:    unit,
			LineTotal:    unit.Mul(decimal.NewFromInt(int64(sel.Quantity))),
		})
	}

	var coupon *model.Coupon
	if couponCode != nil && *couponCode != "" {
		coupon, err = s.couponRepo.GetByCode(ctx, *couponCode)
		if err != nil {
			return pricing.Quote{}, nil, nil, fmt.Errorf("failed to look up coupon: %w", err)
		}
		if coupon == nil {
			return pricing.Quote{}, nil, nil, model.ErrCouponNotFound
		}
	}

	quote, err := s.calc.QuoteLines(lines, coupon, time.Now())
	if err != nil {
		return pricing.Quote{}, nil, nil, err
	}

	return quote, orderItems, coupon, nil
}

// lookupItems fetches the menu items referenced by the cart, keyed by ID.
func (s *checkoutService) lookupItems(ctx context.Context, cart *model.Cart) (map[string]*model.MenuItem, error) {
	ids := make([]string, 0, len(cart.Items))
	seen := make(map[string]bool, len(cart.Items))
	for _, line := range cart.Items {
		if !seen[line.ItemID] {
			seen[line.ItemID] = true
			ids = append(ids, line.ItemID)
		}
	}

	items, err := s.menuRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart menu items: %w", err)
	}

	byID := make(map[string]*model.MenuItem, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	return byID, nil
}

// releaseClaim best-effort returns a claimed cart to shoppers' control.
func (s *checkoutService) releaseClaim(ctx context.Context, ownerKey string) {
	if err := s.store.ReleaseClaim(ctx, ownerKey); err != nil {
		s.logger.Error().Err(err).Str("owner_key", ownerKey).Msg("failed to release cart after failed checkout")
	}
}

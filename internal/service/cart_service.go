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

// saveAttempts bounds the optimistic retry loop on cart writes. Carts
// are single-shopper documents, so contention beyond this means the
// caller is racing itself.
const saveAttempts = 3

// cartService implements CartService on top of the versioned cart store.
type cartService struct {
	store    cartstore.Store
	menuRepo repository.MenuRepository
	calc     *pricing.Calculator
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(store cartstore.Store, menuRepo repository.MenuRepository, calc *pricing.Calculator, logger zerolog.Logger) CartService {
	return &cartService{
		store:    store,
		menuRepo: menuRepo,
		calc:     calc,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart retrieves and prices the caller's cart. A shopper without a
// stored cart gets an empty one; nothing is persisted until they add a
// line.
func (s *cartService) GetCart(ctx context.Context, ownerKey string) (*model.Cart, error) {
	cart, err := s.load(ctx, ownerKey)
	if err != nil {
		return nil, err
	}

	if err := s.price(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// AddItem validates the selection against the catalogue and appends it
// to the cart as a new line.
func (s *cartService) AddItem(ctx context.Context, ownerKey string, req *model.AddItemRequest) (*model.Cart, error) {
	item, err := s.menuRepo.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu item: %w", err)
	}
	if item == nil {
		return nil, model.ErrItemNotFound
	}

	if err := validateSelection(item, req.Quantity, req.Size, req.ColdFoam, req.Milk); err != nil {
		return nil, err
	}

	line := model.CartItem{
		LineID:       uuid.NewString(),
		ItemID:       req.ItemID,
		Quantity:     req.Quantity,
		Size:         req.Size,
		ColdFoam:     req.ColdFoam,
		Milk:         req.Milk,
		Instructions: req.Instructions,
	}

	cart, err := s.mutate(ctx, ownerKey, func(cart *model.Cart) error {
		cart.Items = append(cart.Items, line)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("owner_key", ownerKey).
		Str("item_id", req.ItemID).
		Str("line_id", line.LineID).
		Msg("cart line added")

	if err := s.price(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// UpdateItem reconfigures an existing cart line. The line keeps its
// item; quantity, size, add-ons and instructions are replaced wholesale.
func (s *cartService) UpdateItem(ctx context.Context, ownerKey, lineID string, req *model.UpdateItemRequest) (*model.Cart, error) {
	cart, err := s.mutate(ctx, ownerKey, func(cart *model.Cart) error {
		idx := findLine(cart, lineID)
		if idx < 0 {
			return model.ErrLineNotFound
		}

		item, err := s.menuRepo.GetByID(ctx, cart.Items[idx].ItemID)
		if err != nil {
			return fmt.Errorf("failed to load menu item: %w", err)
		}
		if item == nil {
			// The line's item was removed from the menu since it was added.
			return model.ErrItemNotFound
		}

		if err := validateSelection(item, req.Quantity, req.Size, req.ColdFoam, req.Milk); err != nil {
			return err
		}

		cart.Items[idx].Quantity = req.Quantity
		cart.Items[idx].Size = req.Size
		cart.Items[idx].ColdFoam = req.ColdFoam
		cart.Items[idx].Milk = req.Milk
		cart.Items[idx].Instructions = req.Instructions
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("owner_key", ownerKey).
		Str("line_id", lineID).
		Msg("cart line updated")

	if err := s.price(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// RemoveItem deletes a line from the cart.
func (s *cartService) RemoveItem(ctx context.Context, ownerKey, lineID string) (*model.Cart, error) {
	cart, err := s.mutate(ctx, ownerKey, func(cart *model.Cart) error {
		idx := findLine(cart, lineID)
		if idx < 0 {
			return model.ErrLineNotFound
		}
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("owner_key", ownerKey).
		Str("line_id", lineID).
		Msg("cart line removed")

	if err := s.price(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// Clear empties the caller's cart. Clearing a cart that was never
// created is a no-op; a cart claimed by an in-flight checkout rejects
// the edit like any other mutation.
func (s *cartService) Clear(ctx context.Context, ownerKey string) error {
	cart, err := s.store.Get(ctx, ownerKey)
	if err != nil {
		if errors.Is(err, cartstore.ErrNotFound) {
			return nil
		}
		return err
	}

	if cart.Status == model.CartStatusCheckingOut {
		return model.ErrCartConflict
	}

	if err := s.store.Clear(ctx, ownerKey); err != nil {
		return err
	}

	s.logger.Info().Str("owner_key", ownerKey).Msg("cart cleared")

	return nil
}

// load fetches the stored cart or returns a fresh empty one.
func (s *cartService) load(ctx context.Context, ownerKey string) (*model.Cart, error) {
	cart, err := s.store.Get(ctx, ownerKey)
	if err != nil {
		if errors.Is(err, cartstore.ErrNotFound) {
			now := time.Now()
			return &model.Cart{
				OwnerKey:  ownerKey,
				Items:     []model.CartItem{},
				Status:    model.CartStatusActive,
				CreatedAt: now,
				UpdatedAt: now,
			}, nil
		}
		return nil, err
	}
	return cart, nil
}

// mutate applies fn to a freshly loaded cart and saves it, retrying on
// version conflicts. A cart claimed by an in-flight checkout rejects
// the edit outright.
func (s *cartService) mutate(ctx context.Context, ownerKey string, fn func(cart *model.Cart) error) (*model.Cart, error) {
	for attempt := 1; attempt <= saveAttempts; attempt++ {
		cart, err := s.load(ctx, ownerKey)
		if err != nil {
			return nil, err
		}

		if cart.Status == model.CartStatusCheckingOut {
			return nil, model.ErrCartConflict
		}

		if err := fn(cart); err != nil {
			return nil, err
		}

		err = s.store.Save(ctx, cart)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cartstore.ErrVersionConflict) {
			return nil, err
		}

		s.logger.Debug().
			Str("owner_key", ownerKey).
			Int("attempt", attempt).
			Msg("cart write lost a version race, retrying")
	}

	s.logger.Warn().Str("owner_key", ownerKey).Msg("cart write retries exhausted")
	return nil, model.ErrCartConflict
}

// price resolves unit prices from the catalogue and fills in the derived
// line totals and the cart's running subtotal.
func (s *cartService) price(ctx context.Context, cart *model.Cart) error {
	if len(cart.Items) == 0 {
		cart.Total = decimal.Zero
		return nil
	}

	byID, err := s.lookupItems(ctx, cart)
	if err != nil {
		return err
	}

	lines := make([]pricing.Line, 0, len(cart.Items))
	for i := range cart.Items {
		item, ok := byID[cart.Items[i].ItemID]
		if !ok {
			return model.ErrItemNotFound
		}

		unit, err := s.calc.ResolveUnitPrice(item, cart.Items[i])
		if err != nil {
			return err
		}

		cart.Items[i].UnitPrice = unit
		cart.Items[i].LineTotal = unit.Mul(decimal.NewFromInt(int64(cart.Items[i].Quantity)))
		lines = append(lines, pricing.Line{UnitPrice: unit, Quantity: cart.Items[i].Quantity})
	}

	subtotal, err := s.calc.Subtotal(lines)
	if err != nil {
		return err
	}
	cart.Total = subtotal

	return nil
}

// lookupItems fetches the menu items referenced by the cart, keyed by ID.
func (s *cartService) lookupItems(ctx context.Context, cart *model.Cart) (map[string]*model.MenuItem, error) {
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

// validateSelection checks a requested configuration against the item's
// catalogue entry before it reaches the cart.
func validateSelection(item *model.MenuItem, quantity int, size string, coldFoam bool, milk string) error {
	if quantity <= 0 {
		return model.ErrInvalidQuantity
	}

	if size != "" {
		if _, ok := item.SizePrice(size); !ok {
			return model.ErrSizeNotAvailable
		}
	}

	if coldFoam && !item.AllowColdFoam {
		return model.ErrOptionNotAvailable
	}

	if milk != "" && !item.AllowAltMilk {
		return model.ErrOptionNotAvailable
	}

	return nil
}

// findLine returns the index of the line with the given ID, or -1.
func findLine(cart *model.Cart, lineID string) int {
	for i := range cart.Items {
		if cart.Items[i].LineID == lineID {
			return i
		}
	}
	return -1
}

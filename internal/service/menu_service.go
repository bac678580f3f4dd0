package service

import (
	"context"
	"errors"
	"fmt"

	"brewcart/internal/cache"
	"brewcart/internal/model"
	"brewcart/internal/repository"

	"github.com/rs/zerolog"
)

// menuPageLimit bounds the full-menu listing; a café menu is small.
const menuPageLimit = 500

// menuService implements MenuService with a cache-aside menu listing.
type menuService struct {
	repo   repository.MenuRepository
	cache  cache.MenuCache
	logger zerolog.Logger
}

// NewMenuService creates a new menu service. The cache may be nil when
// caching is disabled; reads then always go to the repository.
func NewMenuService(repo repository.MenuRepository, menuCache cache.MenuCache, logger zerolog.Logger) MenuService {
	return &menuService{
		repo:   repo,
		cache:  menuCache,
		logger: logger.With().Str("service", "menu").Logger(),
	}
}

// GetMenu retrieves the full menu, cache first.
func (s *menuService) GetMenu(ctx context.Context) ([]model.MenuItem, error) {
	if s.cache != nil {
		items, err := s.cache.Get(ctx)
		if err == nil {
			s.logger.Debug().Int("items", len(items)).Msg("menu served from cache")
			return items, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			// A broken cache must not take the menu down.
			s.logger.Warn().Err(err).Msg("menu cache read failed")
		}
	}

	items, err := s.repo.GetAll(ctx, menuPageLimit, 0)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load menu")
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, items); err != nil {
			s.logger.Warn().Err(err).Msg("failed to update menu cache")
		}
	}

	return items, nil
}

// GetItem retrieves a single menu item by ID.
func (s *menuService) GetItem(ctx context.Context, id string) (*model.MenuItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("item_id", id).Msg("failed to get menu item")
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}

	if item == nil {
		s.logger.Debug().Str("item_id", id).Msg("menu item not found")
		return nil, nil
	}

	return item, nil
}

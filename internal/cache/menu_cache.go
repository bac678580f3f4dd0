package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"brewcart/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrCacheMiss is returned when the menu is not in the cache.
var ErrCacheMiss = errors.New("cache miss")

const menuKey = "menu"

// MenuCache caches the full menu listing so rush-hour traffic does not
// hit the catalogue database on every request.
type MenuCache interface {
	// Get retrieves the cached menu. Returns ErrCacheMiss when absent.
	Get(ctx context.Context) ([]model.MenuItem, error)

	// Set stores the menu with the configured TTL.
	Set(ctx context.Context, items []model.MenuItem) error

	// Invalidate drops the cached menu, forcing the next read through.
	Invalidate(ctx context.Context) error
}

// redisMenuCache implements MenuCache over Redis.
type redisMenuCache struct {
	client  *redis.Client
	baseTTL time.Duration
	logger  zerolog.Logger
}

// NewRedisMenuCache creates a Redis-backed menu cache.
func NewRedisMenuCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) MenuCache {
	return &redisMenuCache{
		client:  client,
		baseTTL: ttl,
		logger:  logger.With().Str("cache", "menu").Logger(),
	}
}

// Get retrieves the cached menu.
func (c *redisMenuCache) Get(ctx context.Context) ([]model.MenuItem, error) {
	data, err := c.client.Get(ctx, menuKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []model.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal menu failed: %w", err)
	}

	return items, nil
}

// Set stores the menu. The TTL carries a small jitter so cached copies
// across instances do not all expire at the same instant.
func (c *redisMenuCache) Set(ctx context.Context, items []model.MenuItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal menu failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Second
	ttl := c.baseTTL + jitter

	if err := c.client.Set(ctx, menuKey, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	c.logger.Debug().Int("items", len(items)).Dur("ttl", ttl).Msg("menu cached")

	return nil
}

// Invalidate drops the cached menu.
func (c *redisMenuCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, menuKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}

	return nil
}

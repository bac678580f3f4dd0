package repository

import (
	"context"
	"fmt"

	"brewcart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// menuRepository implements the MenuRepository interface using PostgreSQL.
type menuRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewMenuRepository creates a new PostgreSQL-backed menu repository.
func NewMenuRepository(pool *pgxpool.Pool, logger zerolog.Logger) MenuRepository {
	return &menuRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "menu").Logger(),
	}
}

// GetAll retrieves all menu items with pagination support.
func (r *menuRepository) GetAll(ctx context.Context, limit, offset int) ([]model.MenuItem, error) {
	query := `
		SELECT id, name, description, category, base_price, allow_cold_foam, allow_alt_milk, created_at
		FROM menu_items
		ORDER BY category, name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query menu items")
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	items, err := scanMenuItems(rows)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan menu item rows")
		return nil, err
	}

	if err := r.attachSizes(ctx, items); err != nil {
		return nil, err
	}

	return items, nil
}

// GetByID retrieves a single menu item by its ID.
func (r *menuRepository) GetByID(ctx context.Context, id string) (*model.MenuItem, error) {
	query := `
		SELECT id, name, description, category, base_price, allow_cold_foam, allow_alt_milk, created_at
		FROM menu_items
		WHERE id = $1
	`

	var item model.MenuItem
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Category,
		&item.BasePrice,
		&item.AllowColdFoam,
		&item.AllowAltMilk,
		&item.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("item_id", id).Msg("menu item not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("item_id", id).Msg("failed to query menu item")
		return nil, fmt.Errorf("failed to query menu item: %w", err)
	}

	items := []model.MenuItem{item}
	if err := r.attachSizes(ctx, items); err != nil {
		return nil, err
	}

	return &items[0], nil
}

// GetByIDs retrieves multiple menu items by their IDs.
func (r *menuRepository) GetByIDs(ctx context.Context, ids []string) ([]model.MenuItem, error) {
	if len(ids) == 0 {
		return []model.MenuItem{}, nil
	}

	query := `
		SELECT id, name, description, category, base_price, allow_cold_foam, allow_alt_milk, created_at
		FROM menu_items
		WHERE id = ANY($1)
		ORDER BY category, name
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query menu items by IDs")
		return nil, fmt.Errorf("failed to query menu items by IDs: %w", err)
	}
	defer rows.Close()

	items, err := scanMenuItems(rows)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to scan menu item rows")
		return nil, err
	}

	if err := r.attachSizes(ctx, items); err != nil {
		return nil, err
	}

	return items, nil
}

// UpsertItem inserts or replaces a menu item and its size variants.
func (r *menuRepository) UpsertItem(ctx context.Context, item *model.MenuItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	itemQuery := `
		INSERT INTO menu_items (id, name, description, category, base_price, allow_cold_foam, allow_alt_milk, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			base_price = EXCLUDED.base_price,
			allow_cold_foam = EXCLUDED.allow_cold_foam,
			allow_alt_milk = EXCLUDED.allow_alt_milk
	`

	_, err = tx.Exec(ctx, itemQuery,
		item.ID, item.Name, item.Description, item.Category,
		item.BasePrice, item.AllowColdFoam, item.AllowAltMilk, item.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to upsert menu item")
		return fmt.Errorf("failed to upsert menu item: %w", err)
	}

	// Size variants are replaced wholesale; their order is the order
	// the variants appear on the item.
	if _, err = tx.Exec(ctx, `DELETE FROM menu_item_sizes WHERE item_id = $1`, item.ID); err != nil {
		r.logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to delete size variants")
		return fmt.Errorf("failed to delete size variants: %w", err)
	}

	sizeQuery := `
		INSERT INTO menu_item_sizes (item_id, label, price, position)
		VALUES ($1, $2, $3, $4)
	`

	batch := &pgx.Batch{}
	for i, size := range item.Sizes {
		batch.Queue(sizeQuery, item.ID, size.Label, size.Price, i)
	}

	if batch.Len() > 0 {
		results := tx.SendBatch(ctx, batch)
		for range item.Sizes {
			if _, err := results.Exec(); err != nil {
				results.Close()
				r.logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to insert size variant")
				return fmt.Errorf("failed to insert size variant: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to close batch: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to commit upsert")
		return fmt.Errorf("failed to commit upsert: %w", err)
	}

	return nil
}

// attachSizes loads size variants for the given items and attaches them
// in stored position order.
func (r *menuRepository) attachSizes(ctx context.Context, items []model.MenuItem) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, len(items))
	index := make(map[string]int, len(items))
	for i := range items {
		ids[i] = items[i].ID
		index[items[i].ID] = i
	}

	query := `
		SELECT item_id, label, price
		FROM menu_item_sizes
		WHERE item_id = ANY($1)
		ORDER BY item_id, position
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query size variants")
		return fmt.Errorf("failed to query size variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID string
		var variant model.SizeVariant
		if err := rows.Scan(&itemID, &variant.Label, &variant.Price); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan size variant row")
			return fmt.Errorf("failed to scan size variant: %w", err)
		}
		if i, ok := index[itemID]; ok {
			items[i].Sizes = append(items[i].Sizes, variant)
		}
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating size variant rows")
		return fmt.Errorf("error iterating size variants: %w", err)
	}

	return nil
}

// scanMenuItems collects menu item rows without their size variants.
func scanMenuItems(rows pgx.Rows) ([]model.MenuItem, error) {
	var items []model.MenuItem
	for rows.Next() {
		var item model.MenuItem
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.Category,
			&item.BasePrice,
			&item.AllowColdFoam,
			&item.AllowAltMilk,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating menu items: %w", err)
	}

	return items, nil
}

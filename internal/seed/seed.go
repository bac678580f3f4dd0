package seed

import (
	"context"

	"brewcart/internal/model"
	"brewcart/internal/repository"

	"github.com/rs/zerolog"
)

// Loader defines the interface for loading catalogue seed files.
type Loader interface {
	// Load reads a gzipped JSON-lines menu file and returns its items.
	Load(ctx context.Context, filePath string) ([]model.MenuItem, error)
}

// Import loads the seed file and upserts every item into the catalogue.
// Returns the number of items imported.
func Import(ctx context.Context, loader Loader, repo repository.MenuRepository, filePath string, logger zerolog.Logger) (int, error) {
	logger = logger.With().Str("component", "menu-seed").Logger()

	items, err := loader.Load(ctx, filePath)
	if err != nil {
		return 0, err
	}

	for i := range items {
		if err := repo.UpsertItem(ctx, &items[i]); err != nil {
			logger.Error().
				Err(err).
				Str("item_id", items[i].ID).
				Msg("failed to upsert seeded menu item")
			return i, err
		}
	}

	logger.Info().Int("items", len(items)).Msg("menu seed imported")

	return len(items), nil
}

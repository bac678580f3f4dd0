package seed

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"brewcart/internal/model"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading gzipped menu seed files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based menu seed loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "seed-loader").Logger(),
	}
}

// Load reads a gzipped menu seed file and returns its items.
// The file is expected to contain one JSON-encoded menu item per line.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.MenuItem, error) {
	l.logger.Info().Str("file", filePath).Msg("loading menu seed file")

	// Open the gzipped file
	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open seed file")
		return nil, fmt.Errorf("failed to open seed file %s: %w", filePath, err)
	}
	defer file.Close()

	// Create gzip reader
	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", filePath, err)
	}
	defer gzipReader.Close()

	items, err := decodeItems(ctx, gzipReader, filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("error reading seed file")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("items_loaded", len(items)).
		Msg("menu seed file loaded successfully")

	return items, nil
}

// decodeItems reads JSON-lines menu items from the reader, skipping
// blank lines and checking for cancellation between lines.
func decodeItems(ctx context.Context, r io.Reader, source string) ([]model.MenuItem, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var items []model.MenuItem
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var item model.MenuItem
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			return nil, fmt.Errorf("invalid menu item on line %d of %s: %w", lineNo, source, err)
		}
		if item.ID == "" {
			return nil, fmt.Errorf("menu item on line %d of %s has no id", lineNo, source)
		}
		items = append(items, item)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed file %s: %w", source, err)
	}

	return items, nil
}

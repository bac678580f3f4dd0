package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"brewcart/internal/model"

	"github.com/shopspring/decimal"
)

// Generates a sample gzipped JSON-lines menu file for local development
// and testing. Run from the repository root; the API imports the file
// on startup when SEED_ENABLED=true.
func main() {
	dataDir := "data/menu"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	filePath := filepath.Join(dataDir, "menu.jsonl.gz")
	items := sampleMenu()

	if err := writeMenuFile(filePath, items); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d menu items\n", filePath, len(items))
}

func sampleMenu() []model.MenuItem {
	price := func(s string) decimal.Decimal {
		return decimal.RequireFromString(s)
	}

	return []model.MenuItem{
		{
			ID:          "espresso",
			Name:        "Espresso",
			Description: "Double shot of our house blend",
			Category:    "coffee",
			BasePrice:   price("3.00"),
			Sizes: []model.SizeVariant{
				{Label: "single", Price: price("2.50")},
				{Label: "double", Price: price("3.00")},
			},
		},
		{
			ID:          "cappuccino",
			Name:        "Cappuccino",
			Description: "Espresso with steamed milk and foam",
			Category:    "coffee",
			BasePrice:   price("4.25"),
			Sizes: []model.SizeVariant{
				{Label: "small", Price: price("4.25")},
				{Label: "medium", Price: price("4.75")},
				{Label: "large", Price: price("5.25")},
			},
			AllowColdFoam: true,
			AllowAltMilk:  true,
		},
		{
			ID:          "latte",
			Name:        "Latte",
			Description: "Espresso with steamed milk",
			Category:    "coffee",
			BasePrice:   price("4.00"),
			Sizes: []model.SizeVariant{
				{Label: "small", Price: price("4.00")},
				{Label: "medium", Price: price("4.75")},
				{Label: "large", Price: price("5.50")},
			},
			AllowColdFoam: true,
			AllowAltMilk:  true,
		},
		{
			ID:          "cold-brew",
			Name:        "Cold Brew",
			Description: "Slow-steeped overnight, served over ice",
			Category:    "coffee",
			BasePrice:   price("4.50"),
			Sizes: []model.SizeVariant{
				{Label: "medium", Price: price("4.50")},
				{Label: "large", Price: price("5.00")},
			},
			AllowColdFoam: true,
			AllowAltMilk:  true,
		},
		{
			ID:          "croissant",
			Name:        "Butter Croissant",
			Description: "Baked fresh every morning",
			Category:    "bakery",
			BasePrice:   price("3.00"),
		},
		{
			ID:          "blueberry-muffin",
			Name:        "Blueberry Muffin",
			Category:    "bakery",
			BasePrice:   price("3.50"),
		},
	}
}

func writeMenuFile(filePath string, items []model.MenuItem) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	for i := range items {
		if err := encoder.Encode(&items[i]); err != nil {
			return fmt.Errorf("failed to encode menu item %s: %w", items[i].ID, err)
		}
	}

	return nil
}

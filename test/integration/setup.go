package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"brewcart/internal/model"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}

	// Money columns are NUMERIC and must scan into decimals, same as
	// the production pool.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Create schema
	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS menu_items (
			id VARCHAR(50) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category VARCHAR(100) NOT NULL,
			base_price NUMERIC(10, 2) NOT NULL,
			allow_cold_foam BOOLEAN NOT NULL DEFAULT FALSE,
			allow_alt_milk BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS menu_item_sizes (
			item_id VARCHAR(50) NOT NULL REFERENCES menu_items(id) ON DELETE CASCADE,
			label VARCHAR(50) NOT NULL,
			price NUMERIC(10, 2) NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (item_id, label)
		);

		CREATE TABLE IF NOT EXISTS coupons (
			id UUID PRIMARY KEY,
			code VARCHAR(50) NOT NULL UNIQUE,
			kind VARCHAR(20) NOT NULL,
			value NUMERIC(10, 2) NOT NULL,
			min_order_amount NUMERIC(10, 2) NOT NULL DEFAULT 0,
			expires_at TIMESTAMP NOT NULL,
			max_uses INTEGER,
			used_count INTEGER NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			owner_key VARCHAR(100) NOT NULL,
			coupon_code VARCHAR(50),
			subtotal NUMERIC(10, 2) NOT NULL,
			tax NUMERIC(10, 2) NOT NULL,
			discount NUMERIC(10, 2) NOT NULL,
			total NUMERIC(10, 2) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id UUID PRIMARY KEY,
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			item_id VARCHAR(50) NOT NULL,
			name VARCHAR(255) NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			size VARCHAR(50) NOT NULL DEFAULT '',
			cold_foam BOOLEAN NOT NULL DEFAULT FALSE,
			milk VARCHAR(50) NOT NULL DEFAULT '',
			instructions TEXT NOT NULL DEFAULT '',
			unit_price NUMERIC(10, 2) NOT NULL,
			line_total NUMERIC(10, 2) NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
		CREATE INDEX IF NOT EXISTS idx_orders_owner_key ON orders(owner_key);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedMenu inserts test menu data into the database.
func SeedMenu(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	items := []model.MenuItem{
		{
			ID:        "latte",
			Name:      "Latte",
			Category:  "coffee",
			BasePrice: decimal.RequireFromString("4.00"),
			Sizes: []model.SizeVariant{
				{Label: "small", Price: decimal.RequireFromString("4.00")},
				{Label: "medium", Price: decimal.RequireFromString("4.75")},
				{Label: "large", Price: decimal.RequireFromString("5.50")},
			},
			AllowColdFoam: true,
			AllowAltMilk:  true,
		},
		{
			ID:        "cold-brew",
			Name:      "Cold Brew",
			Category:  "coffee",
			BasePrice: decimal.RequireFromString("4.50"),
			Sizes: []model.SizeVariant{
				{Label: "medium", Price: decimal.RequireFromString("4.50")},
				{Label: "large", Price: decimal.RequireFromString("5.00")},
			},
			AllowColdFoam: true,
			AllowAltMilk:  true,
		},
		{
			ID:        "croissant",
			Name:      "Butter Croissant",
			Category:  "bakery",
			BasePrice: decimal.RequireFromString("3.00"),
		},
	}

	for _, item := range items {
		_, err := pool.Exec(ctx,
			`INSERT INTO menu_items (id, name, description, category, base_price, allow_cold_foam, allow_alt_milk)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, item.Name, item.Description, item.Category,
			item.BasePrice, item.AllowColdFoam, item.AllowAltMilk,
		)
		if err != nil {
			t.Fatalf("failed to seed menu item %s: %v", item.ID, err)
		}

		for i, size := range item.Sizes {
			_, err := pool.Exec(ctx,
				`INSERT INTO menu_item_sizes (item_id, label, price, position) VALUES ($1, $2, $3, $4)`,
				item.ID, size.Label, size.Price, i,
			)
			if err != nil {
				t.Fatalf("failed to seed size %s/%s: %v", item.ID, size.Label, err)
			}
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"order_items", "orders", "coupons", "menu_item_sizes", "menu_items"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

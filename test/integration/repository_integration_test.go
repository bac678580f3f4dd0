package integration

import (
	"context"
	"testing"
	"time"

	"brewcart/internal/model"
	"brewcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(v int) *int {
	return &v
}

func testCoupon(code string, maxUses *int) *model.Coupon {
	now := time.Now()
	return &model.Coupon{
		ID:             uuid.New(),
		Code:           code,
		Kind:           model.DiscountPercentage,
		Value:          dec("10"),
		MinOrderAmount: decimal.Zero,
		ExpiresAt:      now.Add(24 * time.Hour),
		MaxUses:        maxUses,
		UsedCount:      0,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func testOrder(ownerKey string) *model.Order {
	now := time.Now()
	return &model.Order{
		ID:        uuid.New(),
		OwnerKey:  ownerKey,
		Subtotal:  dec("16.00"),
		Tax:       dec("1.28"),
		Discount:  decimal.Zero,
		Total:     dec("17.28"),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMenuRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewMenuRepository(testDB.Pool, logger)
	ctx := context.Background()

	t.Run("GetAll returns items with sizes in position order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedMenu(t, testDB.Pool)

		items, err := repo.GetAll(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, items, 3)

		// Ordered by category then name: bakery croissant first.
		assert.Equal(t, "croissant", items[0].ID)
		assert.Empty(t, items[0].Sizes)
		assert.True(t, items[0].BasePrice.Equal(dec("3.00")))

		assert.Equal(t, "cold-brew", items[1].ID)
		assert.Equal(t, "latte", items[2].ID)

		require.Len(t, items[2].Sizes, 3)
		assert.Equal(t, "small", items[2].Sizes[0].Label)
		assert.Equal(t, "medium", items[2].Sizes[1].Label)
		assert.Equal(t, "large", items[2].Sizes[2].Label)
		assert.True(t, items[2].Sizes[2].Price.Equal(dec("5.50")))
	})

	t.Run("GetAll respects pagination", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedMenu(t, testDB.Pool)

		page, err := repo.GetAll(ctx, 2, 0)
		require.NoError(t, err)
		assert.Len(t, page, 2)

		rest, err := repo.GetAll(ctx, 2, 2)
		require.NoError(t, err)
		assert.Len(t, rest, 1)
	})

	t.Run("GetByID returns item with sizes", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedMenu(t, testDB.Pool)

		item, err := repo.GetByID(ctx, "latte")
		require.NoError(t, err)
		require.NotNil(t, item)
		assert.Equal(t, "Latte", item.Name)
		assert.True(t, item.AllowColdFoam)
		assert.True(t, item.AllowAltMilk)
		require.Len(t, item.Sizes, 3)

		price, ok := item.SizePrice("medium")
		require.True(t, ok)
		assert.True(t, price.Equal(dec("4.75")))
	})

	t.Run("GetByID returns nil for missing item", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedMenu(t, testDB.Pool)

		item, err := repo.GetByID(ctx, "flat-white")
		require.NoError(t, err)
		assert.Nil(t, item)
	})

	t.Run("GetByIDs returns only matching items", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedMenu(t, testDB.Pool)

		items, err := repo.GetByIDs(ctx, []string{"latte", "croissant", "flat-white"})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "croissant", items[0].ID)
		assert.Equal(t, "latte", items[1].ID)
	})

	t.Run("GetByIDs with empty slice returns empty result", func(t *testing.T) {
		items, err := repo.GetByIDs(ctx, []string{})
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("UpsertItem replaces size variants", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		SeedMenu(t, testDB.Pool)

		item, err := repo.GetByID(ctx, "latte")
		require.NoError(t, err)
		require.NotNil(t, item)

		item.Name = "Caffe Latte"
		item.Sizes = []model.SizeVariant{
			{Label: "regular", Price: dec("4.25")},
			{Label: "grande", Price: dec("5.75")},
		}

		require.NoError(t, repo.UpsertItem(ctx, item))

		updated, err := repo.GetByID(ctx, "latte")
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, "Caffe Latte", updated.Name)
		require.Len(t, updated.Sizes, 2)
		assert.Equal(t, "regular", updated.Sizes[0].Label)
		assert.Equal(t, "grande", updated.Sizes[1].Label)
	})

	t.Run("UpsertItem inserts new item", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		item := &model.MenuItem{
			ID:        "mocha",
			Name:      "Mocha",
			Category:  "coffee",
			BasePrice: dec("4.50"),
			Sizes: []model.SizeVariant{
				{Label: "small", Price: dec("4.50")},
			},
			AllowColdFoam: true,
			CreatedAt:     time.Now(),
		}

		require.NoError(t, repo.UpsertItem(ctx, item))

		got, err := repo.GetByID(ctx, "mocha")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Mocha", got.Name)
		require.Len(t, got.Sizes, 1)
	})
}

func TestCouponRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewCouponRepository(testDB.Pool, logger)
	ctx := context.Background()

	t.Run("Create and GetByCode", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		coupon := testCoupon("SAVE10", nil)
		require.NoError(t, repo.Create(ctx, coupon))

		got, err := repo.GetByCode(ctx, "SAVE10")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, coupon.ID, got.ID)
		assert.Equal(t, model.DiscountPercentage, got.Kind)
		assert.True(t, got.Value.Equal(dec("10")))
		assert.Nil(t, got.MaxUses)
		assert.True(t, got.Active)
	})

	t.Run("GetByCode is case insensitive", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		require.NoError(t, repo.Create(ctx, testCoupon("WELCOME5", nil)))

		got, err := repo.GetByCode(ctx, "welcome5")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "WELCOME5", got.Code)
	})

	t.Run("GetByCode returns nil for missing coupon", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		got, err := repo.GetByCode(ctx, "NOPE")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("RedeemInTx increments used count", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		coupon := testCoupon("ONCE", nil)
		require.NoError(t, repo.Create(ctx, coupon))

		tx, err := testDB.Pool.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.RedeemInTx(ctx, tx, coupon.ID))
		require.NoError(t, tx.Commit(ctx))

		got, err := repo.GetByCode(ctx, "ONCE")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 1, got.UsedCount)
	})

	t.Run("RedeemInTx rejects redemption past the usage limit", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		coupon := testCoupon("LIMIT2", intPtr(2))
		require.NoError(t, repo.Create(ctx, coupon))

		for i := 0; i < 2; i++ {
			tx, err := testDB.Pool.Begin(ctx)
			require.NoError(t, err)
			require.NoError(t, repo.RedeemInTx(ctx, tx, coupon.ID))
			require.NoError(t, tx.Commit(ctx))
		}

		tx, err := testDB.Pool.Begin(ctx)
		require.NoError(t, err)
		err = repo.RedeemInTx(ctx, tx, coupon.ID)
		assert.ErrorIs(t, err, model.ErrCouponUsageLimit)
		require.NoError(t, tx.Rollback(ctx))

		got, err := repo.GetByCode(ctx, "LIMIT2")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 2, got.UsedCount)
	})

	t.Run("RedeemInTx rejects inactive coupon", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		coupon := testCoupon("RETIRED", nil)
		coupon.Active = false
		require.NoError(t, repo.Create(ctx, coupon))

		tx, err := testDB.Pool.Begin(ctx)
		require.NoError(t, err)
		err = repo.RedeemInTx(ctx, tx, coupon.ID)
		assert.ErrorIs(t, err, model.ErrCouponUsageLimit)
		require.NoError(t, tx.Rollback(ctx))
	})

	t.Run("RedeemInTx rolled back leaves count unchanged", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		coupon := testCoupon("UNDO", nil)
		require.NoError(t, repo.Create(ctx, coupon))

		tx, err := testDB.Pool.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.RedeemInTx(ctx, tx, coupon.ID))
		require.NoError(t, tx.Rollback(ctx))

		got, err := repo.GetByCode(ctx, "UNDO")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 0, got.UsedCount)
	})
}

func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewOrderRepository(testDB.Pool, logger)
	ctx := context.Background()

	t.Run("Create order with items and retrieve it", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		order := testOrder("owner-1")
		couponCode := "SAVE10"
		order.CouponCode = &couponCode
		order.Discount = dec("1.73")
		order.Total = dec("15.55")

		items := []model.OrderItem{
			{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ItemID:    "latte",
				Name:      "Latte",
				Quantity:  2,
				Size:      "large",
				ColdFoam:  true,
				Milk:      "oat",
				UnitPrice: dec("6.50"),
				LineTotal: dec("13.00"),
			},
			{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ItemID:    "croissant",
				Name:      "Butter Croissant",
				Quantity:  1,
				UnitPrice: dec("3.00"),
				LineTotal: dec("3.00"),
			},
		}

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.CreateOrder(ctx, tx, order))
		require.NoError(t, repo.CreateOrderItems(ctx, tx, items))
		require.NoError(t, tx.Commit(ctx))

		got, gotItems, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "owner-1", got.OwnerKey)
		require.NotNil(t, got.CouponCode)
		assert.Equal(t, "SAVE10", *got.CouponCode)
		assert.True(t, got.Subtotal.Equal(dec("16.00")))
		assert.True(t, got.Tax.Equal(dec("1.28")))
		assert.True(t, got.Discount.Equal(dec("1.73")))
		assert.True(t, got.Total.Equal(dec("15.55")))

		require.Len(t, gotItems, 2)
		for _, item := range gotItems {
			assert.Equal(t, order.ID, item.OrderID)
			switch item.ItemID {
			case "latte":
				assert.Equal(t, 2, item.Quantity)
				assert.Equal(t, "large", item.Size)
				assert.True(t, item.ColdFoam)
				assert.Equal(t, "oat", item.Milk)
				assert.True(t, item.UnitPrice.Equal(dec("6.50")))
				assert.True(t, item.LineTotal.Equal(dec("13.00")))
			case "croissant":
				assert.Equal(t, 1, item.Quantity)
				assert.True(t, item.LineTotal.Equal(dec("3.00")))
			default:
				t.Fatalf("unexpected order item %s", item.ItemID)
			}
		}
	})

	t.Run("Order without coupon stores null code", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		order := testOrder("owner-2")

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.CreateOrder(ctx, tx, order))
		require.NoError(t, tx.Commit(ctx))

		got, gotItems, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Nil(t, got.CouponCode)
		assert.Empty(t, gotItems)
	})

	t.Run("GetByID returns nil for missing order", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		got, gotItems, err := repo.GetByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Nil(t, gotItems)
	})

	t.Run("Rollback leaves no order behind", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		order := testOrder("owner-3")

		tx, err := repo.BeginTx(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.CreateOrder(ctx, tx, order))
		require.NoError(t, tx.Rollback(ctx))

		got, _, err := repo.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

package repository

import (
	"context"
	"fmt"
	"strings"

	"brewcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// couponRepository implements the CouponRepository interface using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

// GetByCode retrieves a coupon by its code. Codes are stored upper-cased,
// so the lookup upper-cases its input to stay case-insensitive.
func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `
		SELECT id, code, kind, value, min_order_amount, expires_at, max_uses, used_count, active, created_at, updated_at
		FROM coupons
		WHERE code = $1
	`

	var c model.Coupon
	err := r.pool.QueryRow(ctx, query, strings.ToUpper(code)).Scan(
		&c.ID,
		&c.Code,
		&c.Kind,
		&c.Value,
		&c.MinOrderAmount,
		&c.ExpiresAt,
		&c.MaxUses,
		&c.UsedCount,
		&c.Active,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("code", code).Msg("coupon not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return &c, nil
}

// Create inserts a new coupon, upper-casing its code.
func (r *couponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	query := `
		INSERT INTO coupons (id, code, kind, value, min_order_amount, expires_at, max_uses, used_count, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	coupon.Code = strings.ToUpper(coupon.Code)

	_, err := r.pool.Exec(ctx, query,
		coupon.ID,
		coupon.Code,
		coupon.Kind,
		coupon.Value,
		coupon.MinOrderAmount,
		coupon.ExpiresAt,
		coupon.MaxUses,
		coupon.UsedCount,
		coupon.Active,
		coupon.CreatedAt,
		coupon.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("code", coupon.Code).Msg("failed to create coupon")
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	return nil
}

// RedeemInTx increments the coupon's usage count within the provided
// transaction. The WHERE clause re-checks the limit so two concurrent
// redemptions cannot both take the last use: the second one matches
// zero rows and is rejected.
func (r *couponRepository) RedeemInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `
		UPDATE coupons
		SET used_count = used_count + 1, updated_at = NOW()
		WHERE id = $1
		  AND active
		  AND (max_uses IS NULL OR used_count < max_uses)
	`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to redeem coupon")
		return fmt.Errorf("failed to redeem coupon: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().Str("coupon_id", id.String()).Msg("coupon no longer redeemable")
		return model.ErrCouponUsageLimit
	}

	r.logger.Debug().Str("coupon_id", id.String()).Msg("coupon redeemed")

	return nil
}

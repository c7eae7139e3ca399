package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"couponhub-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const codeColumns = `id, store_id, coupon_id, code, uuid, redeemed_at, created_at, updated_at`

type couponCodeRepository struct {
	db *pgxpool.Pool
}

func NewCouponCodeRepository(db *pgxpool.Pool) domain.CouponCodeRepository {
	return &couponCodeRepository{db: db}
}

func (r *couponCodeRepository) Insert(ctx context.Context, cc *domain.CouponCode) (bool, error) {
	q := querierFromContext(ctx, r.db)

	// ON CONFLICT DO NOTHING keeps a (store_id, code) collision from
	// aborting the surrounding transaction; zero returned rows means the
	// caller should regenerate and try again.
	err := q.QueryRow(ctx, `
		INSERT INTO coupon_codes (store_id, coupon_id, code, uuid)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (store_id, code) DO NOTHING
		RETURNING id, created_at, updated_at`,
		cc.StoreID, cc.CouponID, cc.Code, cc.UUID,
	).Scan(&cc.ID, &cc.CreatedAt, &cc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("insert coupon code: %w", err)
	}
	return true, nil
}

func (r *couponCodeRepository) GetByID(ctx context.Context, id int64) (*domain.CouponCode, error) {
	q := querierFromContext(ctx, r.db)

	row := q.QueryRow(ctx, `SELECT `+codeColumns+` FROM coupon_codes WHERE id = $1`, id)
	return scanCouponCode(row)
}

func (r *couponCodeRepository) GetByUUID(ctx context.Context, codeUUID uuid.UUID) (*domain.CouponCode, error) {
	q := querierFromContext(ctx, r.db)

	row := q.QueryRow(ctx, `SELECT `+codeColumns+` FROM coupon_codes WHERE uuid = $1`, codeUUID)
	return scanCouponCode(row)
}

func (r *couponCodeRepository) GetForRedeemByUUID(ctx context.Context, storeID int64, codeUUID uuid.UUID) (*domain.CouponCode, error) {
	q := querierFromContext(ctx, r.db)

	// Scoped to the store: a foreign code must look nonexistent.
	row := q.QueryRow(ctx, `
		SELECT `+codeColumns+`
		FROM coupon_codes
		WHERE store_id = $1 AND uuid = $2
		FOR UPDATE`, storeID, codeUUID)
	return scanCouponCode(row)
}

func (r *couponCodeRepository) GetForRedeemByCode(ctx context.Context, storeID int64, code string) (*domain.CouponCode, error) {
	q := querierFromContext(ctx, r.db)

	row := q.QueryRow(ctx, `
		SELECT `+codeColumns+`
		FROM coupon_codes
		WHERE store_id = $1 AND code = $2
		FOR UPDATE`, storeID, code)
	return scanCouponCode(row)
}

func (r *couponCodeRepository) MarkRedeemed(ctx context.Context, id int64, now time.Time) error {
	q := querierFromContext(ctx, r.db)

	// Guarded by redeemed_at IS NULL so the at-most-once transition holds
	// even if a caller skips the locked read.
	tag, err := q.Exec(ctx, `
		UPDATE coupon_codes
		SET redeemed_at = $2, updated_at = now()
		WHERE id = $1 AND redeemed_at IS NULL`, id, now)
	if err != nil {
		return fmt.Errorf("mark code redeemed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyRedeemed
	}
	return nil
}

func scanCouponCode(row pgx.Row) (*domain.CouponCode, error) {
	var cc domain.CouponCode
	err := row.Scan(
		&cc.ID, &cc.StoreID, &cc.CouponID, &cc.Code, &cc.UUID,
		&cc.RedeemedAt, &cc.CreatedAt, &cc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCodeNotFound
		}
		return nil, fmt.Errorf("get coupon code: %w", err)
	}
	return &cc, nil
}

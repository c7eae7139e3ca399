package pgrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"couponhub-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const couponColumns = `id, store_id, title, discount, target_product, message,
	expiration_date, max_issuance, issued_count, redeemed_count,
	deleted_at, created_at, updated_at`

type couponRepository struct {
	db *pgxpool.Pool
}

func NewCouponRepository(db *pgxpool.Pool) domain.CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(ctx context.Context, c *domain.Coupon) error {
	q := querierFromContext(ctx, r.db)

	err := q.QueryRow(ctx, `
		INSERT INTO coupons (store_id, title, discount, target_product, message,
			expiration_date, max_issuance)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, issued_count, redeemed_count, created_at, updated_at`,
		c.StoreID, c.Title, c.Discount, c.TargetProduct, c.Message,
		c.ExpirationDate, c.MaxIssuance,
	).Scan(&c.ID, &c.IssuedCount, &c.RedeemedCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create coupon: %w", err)
	}
	return nil
}

func (r *couponRepository) GetByID(ctx context.Context, id int64) (*domain.Coupon, error) {
	q := querierFromContext(ctx, r.db)

	row := q.QueryRow(ctx, `SELECT `+couponColumns+` FROM coupons WHERE id = $1`, id)
	return scanCoupon(row)
}

func (r *couponRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Coupon, error) {
	q := querierFromContext(ctx, r.db)

	// Soft-deleted rows are excluded here so a delete that lands between
	// the caller's check and this lock surfaces as not-found.
	row := q.QueryRow(ctx, `
		SELECT `+couponColumns+`
		FROM coupons
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE`, id)
	return scanCoupon(row)
}

func (r *couponRepository) ListByStore(ctx context.Context, storeID int64) ([]domain.Coupon, error) {
	q := querierFromContext(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT `+couponColumns+`
		FROM coupons
		WHERE store_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC`, storeID)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	defer rows.Close()

	var coupons []domain.Coupon
	for rows.Next() {
		c, err := scanCouponRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	return coupons, nil
}

func (r *couponRepository) GetStoreUserID(ctx context.Context, couponID int64) (string, error) {
	q := querierFromContext(ctx, r.db)

	var userID string
	err := q.QueryRow(ctx, `
		SELECT s.user_id
		FROM coupons c
		JOIN stores s ON s.id = c.store_id
		WHERE c.id = $1`, couponID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrCouponNotFound
		}
		return "", fmt.Errorf("get store user for coupon: %w", err)
	}
	return userID, nil
}

func (r *couponRepository) IncrementIssuedCount(ctx context.Context, id int64) error {
	q := querierFromContext(ctx, r.db)

	// Single atomic update expression; never read-modify-write in memory.
	tag, err := q.Exec(ctx, `
		UPDATE coupons
		SET issued_count = issued_count + 1, updated_at = now()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment issued count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCouponNotFound
	}
	return nil
}

func (r *couponRepository) IncrementRedeemedCount(ctx context.Context, id int64) error {
	q := querierFromContext(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE coupons
		SET redeemed_count = redeemed_count + 1, updated_at = now()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment redeemed count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCouponNotFound
	}
	return nil
}

func (r *couponRepository) SoftDelete(ctx context.Context, id int64, now time.Time) error {
	q := querierFromContext(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE coupons
		SET deleted_at = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`, id, now)
	if err != nil {
		return fmt.Errorf("soft delete coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCouponNotFound
	}
	return nil
}

func scanCoupon(row pgx.Row) (*domain.Coupon, error) {
	c, err := scanCouponRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}
	return c, nil
}

func scanCouponRow(row pgx.Row) (*domain.Coupon, error) {
	var c domain.Coupon
	err := row.Scan(
		&c.ID, &c.StoreID, &c.Title, &c.Discount, &c.TargetProduct, &c.Message,
		&c.ExpirationDate, &c.MaxIssuance, &c.IssuedCount, &c.RedeemedCount,
		&c.DeletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

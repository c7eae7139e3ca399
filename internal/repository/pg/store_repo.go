package pgrepo

import (
	"context"
	"errors"
	"fmt"

	"couponhub-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type storeRepository struct {
	db *pgxpool.Pool
}

func NewStoreRepository(db *pgxpool.Pool) domain.StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(ctx context.Context, s *domain.Store) error {
	q := querierFromContext(ctx, r.db)

	err := q.QueryRow(ctx, `
		INSERT INTO stores (user_id, store_name)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`,
		s.UserID, s.StoreName,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	return nil
}

func (r *storeRepository) GetStoreIDForUser(ctx context.Context, userID string) (int64, error) {
	q := querierFromContext(ctx, r.db)

	var id int64
	err := q.QueryRow(ctx, `SELECT id FROM stores WHERE user_id = $1`, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrStoreNotFound
		}
		return 0, fmt.Errorf("get store id for user: %w", err)
	}
	return id, nil
}

func (r *storeRepository) GetStoreName(ctx context.Context, storeID int64) (string, error) {
	q := querierFromContext(ctx, r.db)

	var name string
	err := q.QueryRow(ctx, `SELECT store_name FROM stores WHERE id = $1`, storeID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrStoreNotFound
		}
		return "", fmt.Errorf("get store name: %w", err)
	}
	return name, nil
}

package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Coupon is a discount offer owned by exactly one store.
// ExpirationDate and MaxIssuance are nil when unlimited.
// Counters are mutated only by issuance and redemption.
type Coupon struct {
	ID             int64      `json:"id"`
	StoreID        int64      `json:"storeId"`
	Title          string     `json:"title"`
	Discount       string     `json:"discount"`
	TargetProduct  string     `json:"targetProduct"`
	Message        *string    `json:"message"`
	ExpirationDate *time.Time `json:"expirationDate"`
	MaxIssuance    *int       `json:"maxIssuance"`
	IssuedCount    int        `json:"issuedCount"`
	RedeemedCount  int        `json:"redeemedCount"`
	DeletedAt      *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// CouponCode is a single redeemable instance of a Coupon.
// StoreID is denormalized from the coupon at creation so that the
// (store_id, code) uniqueness scope and verify lookups need no join.
// UUID is the opaque external identifier used in QR payloads and
// customer URLs; it is globally unique and never reused.
type CouponCode struct {
	ID         int64      `json:"id"`
	StoreID    int64      `json:"storeId"`
	CouponID   int64      `json:"couponId"`
	Code       string     `json:"code"`
	UUID       uuid.UUID  `json:"uuid"`
	RedeemedAt *time.Time `json:"redeemedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (c *CouponCode) IsRedeemed() bool {
	return c.RedeemedAt != nil
}

type CouponRepository interface {
	Create(ctx context.Context, coupon *Coupon) error
	// GetByID returns the full coupon snapshot in one read, soft-deleted
	// rows included. Eligibility must always be computed from this single
	// snapshot, never from separate fetches.
	GetByID(ctx context.Context, id int64) (*Coupon, error)
	// GetByIDForUpdate is GetByID with a row lock; valid only inside a
	// transaction started by TransactionManager. Soft-deleted rows are
	// excluded so a concurrent delete cannot race an issuance.
	GetByIDForUpdate(ctx context.Context, id int64) (*Coupon, error)
	// ListByStore returns the store's coupons excluding soft-deleted ones.
	// Ranking is applied in memory by the caller.
	ListByStore(ctx context.Context, storeID int64) ([]Coupon, error)
	GetStoreUserID(ctx context.Context, couponID int64) (string, error)
	IncrementIssuedCount(ctx context.Context, id int64) error
	IncrementRedeemedCount(ctx context.Context, id int64) error
	SoftDelete(ctx context.Context, id int64, now time.Time) error
}

type CouponCodeRepository interface {
	// Insert adds a new code row. It reports (false, nil) when the
	// (store_id, code) pair is already taken so the caller can regenerate.
	Insert(ctx context.Context, code *CouponCode) (bool, error)
	GetByID(ctx context.Context, id int64) (*CouponCode, error)
	GetByUUID(ctx context.Context, codeUUID uuid.UUID) (*CouponCode, error)
	// GetForRedeemByUUID and GetForRedeemByCode lock the code row scoped to
	// the store; a foreign store's code is ErrCodeNotFound.
	GetForRedeemByUUID(ctx context.Context, storeID int64, codeUUID uuid.UUID) (*CouponCode, error)
	GetForRedeemByCode(ctx context.Context, storeID int64, code string) (*CouponCode, error)
	MarkRedeemed(ctx context.Context, id int64, now time.Time) error
}

// TransactionManager runs fn inside a single database transaction.
// Repository calls made with the context passed to fn join that
// transaction; any error rolls everything back.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

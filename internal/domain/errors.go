package domain

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrStoreNotFound  = errors.New("store not found")
	ErrCouponNotFound = errors.New("coupon not found")
	ErrCodeNotFound   = errors.New("coupon code not found")
	ErrDraftNotFound  = errors.New("coupon draft not found")

	// Policy rejections. Expected user-facing outcomes, not failures.
	ErrAlreadyRedeemed    = errors.New("coupon code already redeemed")
	ErrCouponDiscontinued = errors.New("coupon discontinued")
	ErrCouponExpired      = errors.New("coupon expired")
	ErrCapReached         = errors.New("coupon issuance cap reached")
	ErrCouponUnavailable  = errors.New("coupon not available for issuance")
	ErrDeleteBlocked      = errors.New("coupon has issued codes and cannot be deleted")
	ErrIssuanceExhausted  = errors.New("code generation exhausted retry budget")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

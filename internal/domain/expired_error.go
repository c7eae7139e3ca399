package domain

import (
	"fmt"
	"time"
)

// ExpiredError carries the expiration date so user-facing messages can
// embed it. errors.Is(err, ErrCouponExpired) matches it.
type ExpiredError struct {
	ExpirationDate time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("coupon expired on %s", e.ExpirationDate.Format("2006-01-02"))
}

func (e *ExpiredError) Is(target error) bool {
	return target == ErrCouponExpired
}

func NewExpiredError(expirationDate time.Time) error {
	return &ExpiredError{ExpirationDate: expirationDate}
}

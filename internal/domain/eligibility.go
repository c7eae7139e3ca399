package domain

import "time"

// Eligibility is the full policy decision for one coupon, computed from a
// single consistent snapshot so the list, detail, issue and delete paths
// can never disagree about the same row.
type Eligibility struct {
	IsDeleted    bool `json:"isDeleted"`
	IsExpired    bool `json:"isExpired"`
	IsCapReached bool `json:"isCapReached"`

	CanIssue bool `json:"canIssue"`
	// A coupon that can no longer be issued is also hidden from
	// prospective customers.
	CanViewCustomerPage bool `json:"canViewCustomerPage"`
	// Deletion is blocked once any code has been issued, to preserve
	// redemption history. IsDeleted guards against double soft-delete.
	CanDelete bool `json:"canDelete"`
}

// Evaluate computes the eligibility of a coupon as of today.
// Expiration is date-granular: a coupon expiring today is still usable.
func Evaluate(c *Coupon, today time.Time) Eligibility {
	e := Eligibility{
		IsDeleted:    c.DeletedAt != nil,
		IsExpired:    c.ExpirationDate != nil && DateOf(*c.ExpirationDate).Before(DateOf(today)),
		IsCapReached: c.MaxIssuance != nil && c.IssuedCount >= *c.MaxIssuance,
	}
	e.CanIssue = !e.IsDeleted && !e.IsExpired && !e.IsCapReached
	e.CanViewCustomerPage = e.CanIssue
	e.CanDelete = !e.IsDeleted && c.IssuedCount == 0
	return e
}

// DateOf strips the time-of-day and zone so that calendar dates compare
// consistently no matter how the driver scanned them.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package domain

import "time"

// CouponDraft is the coupon held between the create and confirm steps of
// the two-step wizard. It lives in the session store, so it is untrusted,
// stale-prone input: confirmation must re-run the full validation, since
// the expiration date may have passed while the draft sat idle.
type CouponDraft struct {
	Title            string     `json:"title"`
	Discount         string     `json:"discount"`
	TargetProduct    string     `json:"targetProduct"`
	Message          *string    `json:"message"`
	ExpirationDate   *time.Time `json:"expirationDate"`
	NoExpirationDate bool       `json:"noExpirationDate"`
	MaxIssuance      *int       `json:"maxIssuance"`
	NoMaxIssuance    bool       `json:"noMaxIssuance"`

	StoreID int64     `json:"storeId"`
	SavedAt time.Time `json:"savedAt"`
}

// DraftStore is the session-scoped keyvalue store for creation drafts.
// Drafts are per-user, never shared across sessions, and expire on their
// own if the wizard is abandoned.
type DraftStore interface {
	Put(userID string, draft CouponDraft)
	Get(userID string) (CouponDraft, error)
	Delete(userID string)
}

package session

import (
	"time"

	"couponhub-backend/internal/domain"
	"couponhub-backend/pkg/cache"
)

const draftKeyPrefix = "coupon_draft:"

type draftStore struct {
	cache cache.CacheService
	ttl   time.Duration
}

// NewDraftStore builds a DraftStore on top of the shared cache service.
// ttl bounds how long an abandoned wizard keeps its draft around.
func NewDraftStore(c cache.CacheService, ttl time.Duration) domain.DraftStore {
	return &draftStore{cache: c, ttl: ttl}
}

func (s *draftStore) Put(userID string, draft domain.CouponDraft) {
	s.cache.Set(draftKeyPrefix+userID, draft, s.ttl)
}

func (s *draftStore) Get(userID string) (domain.CouponDraft, error) {
	v, found := s.cache.Get(draftKeyPrefix + userID)
	if !found {
		return domain.CouponDraft{}, domain.ErrDraftNotFound
	}
	draft, ok := v.(domain.CouponDraft)
	if !ok {
		return domain.CouponDraft{}, domain.ErrDraftNotFound
	}
	return draft, nil
}

func (s *draftStore) Delete(userID string) {
	s.cache.Delete(draftKeyPrefix + userID)
}

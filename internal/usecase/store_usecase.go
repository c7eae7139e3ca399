package usecase

import (
	"context"
	"fmt"
	"time"

	"couponhub-backend/internal/domain"
	"couponhub-backend/pkg/cache"
)

type StoreUsecase struct {
	storeRepo domain.StoreRepository
	cache     cache.CacheService
	cacheTTL  time.Duration
}

func NewStoreUsecase(storeRepo domain.StoreRepository, c cache.CacheService, cacheTTL time.Duration) *StoreUsecase {
	return &StoreUsecase{
		storeRepo: storeRepo,
		cache:     c,
		cacheTTL:  cacheTTL,
	}
}

func (u *StoreUsecase) StoreIDForUser(ctx context.Context, userID string) (int64, error) {
	return u.storeRepo.GetStoreIDForUser(ctx, userID)
}

// StoreName resolves a store's display name through the cache. Store names
// are immutable after signup, so a TTL-bound entry is always safe to serve.
func (u *StoreUsecase) StoreName(ctx context.Context, storeID int64) (string, error) {
	key := fmt.Sprintf("store_name:%d", storeID)
	if v, found := u.cache.Get(key); found {
		if name, ok := v.(string); ok {
			return name, nil
		}
	}

	name, err := u.storeRepo.GetStoreName(ctx, storeID)
	if err != nil {
		return "", err
	}
	u.cache.Set(key, name, u.cacheTTL)
	return name, nil
}

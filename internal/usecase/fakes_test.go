package usecase

import (
	"context"
	"sync"
	"time"

	"couponhub-backend/internal/domain"

	"github.com/google/uuid"
)

// fakeTxManager serializes callbacks with a mutex, standing in for the
// row lock the real transaction takes.
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type fakeCouponRepo struct {
	mu      sync.Mutex
	coupons map[int64]*domain.Coupon
	owners  map[int64]string
	nextID  int64
}

func newFakeCouponRepo() *fakeCouponRepo {
	return &fakeCouponRepo{
		coupons: make(map[int64]*domain.Coupon),
		owners:  make(map[int64]string),
	}
}

func (r *fakeCouponRepo) add(ownerID string, c *domain.Coupon) *domain.Coupon {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	r.coupons[c.ID] = c
	r.owners[c.ID] = ownerID
	return c
}

func (r *fakeCouponRepo) Create(ctx context.Context, coupon *domain.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	coupon.ID = r.nextID
	coupon.CreatedAt = time.Now()
	r.coupons[coupon.ID] = coupon
	return nil
}

func (r *fakeCouponRepo) GetByID(ctx context.Context, id int64) (*domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok {
		return nil, domain.ErrCouponNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCouponRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Coupon, error) {
	c, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.DeletedAt != nil {
		return nil, domain.ErrCouponNotFound
	}
	return c, nil
}

func (r *fakeCouponRepo) ListByStore(ctx context.Context, storeID int64) ([]domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Coupon
	for id := r.nextID; id >= 1; id-- {
		c, ok := r.coupons[id]
		if ok && c.StoreID == storeID && c.DeletedAt == nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCouponRepo) GetStoreUserID(ctx context.Context, couponID int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.owners[couponID]
	if !ok {
		return "", domain.ErrCouponNotFound
	}
	return owner, nil
}

func (r *fakeCouponRepo) IncrementIssuedCount(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok {
		return domain.ErrCouponNotFound
	}
	c.IssuedCount++
	return nil
}

func (r *fakeCouponRepo) IncrementRedeemedCount(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok {
		return domain.ErrCouponNotFound
	}
	c.RedeemedCount++
	return nil
}

func (r *fakeCouponRepo) SoftDelete(ctx context.Context, id int64, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok || c.DeletedAt != nil {
		return domain.ErrCouponNotFound
	}
	c.DeletedAt = &now
	return nil
}

type fakeCodeRepo struct {
	mu         sync.Mutex
	codes      map[int64]*domain.CouponCode
	nextID     int64
	collisions int // pending Inserts to report as taken
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{codes: make(map[int64]*domain.CouponCode)}
}

func (r *fakeCodeRepo) Insert(ctx context.Context, code *domain.CouponCode) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.collisions > 0 {
		r.collisions--
		return false, nil
	}
	for _, existing := range r.codes {
		if existing.StoreID == code.StoreID && existing.Code == code.Code {
			return false, nil
		}
	}
	r.nextID++
	code.ID = r.nextID
	code.CreatedAt = time.Now()
	r.codes[code.ID] = code
	return true, nil
}

func (r *fakeCodeRepo) GetByID(ctx context.Context, id int64) (*domain.CouponCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[id]
	if !ok {
		return nil, domain.ErrCodeNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCodeRepo) GetByUUID(ctx context.Context, codeUUID uuid.UUID) (*domain.CouponCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.UUID == codeUUID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrCodeNotFound
}

func (r *fakeCodeRepo) GetForRedeemByUUID(ctx context.Context, storeID int64, codeUUID uuid.UUID) (*domain.CouponCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.UUID == codeUUID && c.StoreID == storeID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrCodeNotFound
}

func (r *fakeCodeRepo) GetForRedeemByCode(ctx context.Context, storeID int64, code string) (*domain.CouponCode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.codes {
		if c.Code == code && c.StoreID == storeID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrCodeNotFound
}

func (r *fakeCodeRepo) MarkRedeemed(ctx context.Context, id int64, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.codes[id]
	if !ok {
		return domain.ErrCodeNotFound
	}
	if c.RedeemedAt != nil {
		return domain.ErrAlreadyRedeemed
	}
	c.RedeemedAt = &now
	return nil
}

type fakeStoreRepo struct {
	mu     sync.Mutex
	stores map[int64]*domain.Store
	byUser map[string]int64
	nextID int64
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{
		stores: make(map[int64]*domain.Store),
		byUser: make(map[string]int64),
	}
}

func (r *fakeStoreRepo) Create(ctx context.Context, store *domain.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	store.ID = r.nextID
	r.stores[store.ID] = store
	r.byUser[store.UserID] = store.ID
	return nil
}

func (r *fakeStoreRepo) GetStoreIDForUser(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byUser[userID]
	if !ok {
		return 0, domain.ErrStoreNotFound
	}
	return id, nil
}

func (r *fakeStoreRepo) GetStoreName(ctx context.Context, storeID int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[storeID]
	if !ok {
		return "", domain.ErrStoreNotFound
	}
	return s.StoreName, nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*domain.User
	hashes map[string]string // email → password hash
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]*domain.User),
		hashes: make(map[string]string),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = user
	r.hashes[user.Email] = passwordHash
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, r.hashes[email], nil
		}
	}
	return nil, "", domain.ErrInvalidCredentials
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// fakeDraftStore is an unbounded map-backed DraftStore; TTL behavior is
// covered by the session package tests.
type fakeDraftStore struct {
	mu     sync.Mutex
	drafts map[string]domain.CouponDraft
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{drafts: make(map[string]domain.CouponDraft)}
}

func (s *fakeDraftStore) Put(userID string, draft domain.CouponDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[userID] = draft
}

func (s *fakeDraftStore) Get(userID string) (domain.CouponDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[userID]
	if !ok {
		return domain.CouponDraft{}, domain.ErrDraftNotFound
	}
	return d, nil
}

func (s *fakeDraftStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
}

type fakeCache struct {
	mu    sync.Mutex
	items map[string]interface{}
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: make(map[string]interface{})}
}

func (c *fakeCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *fakeCache) Set(key string, value interface{}, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func (c *fakeCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *fakeCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]interface{})
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func strPtr(s string) *string { return &s }

func dateIn(days int) time.Time {
	return time.Now().AddDate(0, 0, days)
}

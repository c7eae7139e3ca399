package usecase

import (
	"context"
	"testing"
	"time"

	"couponhub-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type codeFixture struct {
	uc         *CodeUsecase
	couponRepo *fakeCouponRepo
	codeRepo   *fakeCodeRepo
	storeRepo  *fakeStoreRepo
}

func newCodeFixture(t *testing.T) *codeFixture {
	t.Helper()
	couponRepo := newFakeCouponRepo()
	codeRepo := newFakeCodeRepo()
	storeRepo := newFakeStoreRepo()
	require.NoError(t, storeRepo.Create(context.Background(), &domain.Store{UserID: "user-1", StoreName: "Corner Cafe"}))
	storeUC := NewStoreUsecase(storeRepo, newFakeCache(), time.Minute)
	return &codeFixture{
		uc:         NewCodeUsecase(couponRepo, codeRepo, storeUC),
		couponRepo: couponRepo,
		codeRepo:   codeRepo,
		storeRepo:  storeRepo,
	}
}

func (f *codeFixture) seed(t *testing.T, coupon *domain.Coupon) *domain.CouponCode {
	t.Helper()
	f.couponRepo.add("user-1", coupon)
	code := &domain.CouponCode{
		StoreID:  coupon.StoreID,
		CouponID: coupon.ID,
		Code:     "XYZ789",
		UUID:     uuid.New(),
	}
	inserted, err := f.codeRepo.Insert(context.Background(), code)
	require.NoError(t, err)
	require.True(t, inserted)
	return code
}

func TestCodeDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the code with its coupon", func(t *testing.T) {
		f := newCodeFixture(t)
		code := f.seed(t, &domain.Coupon{StoreID: 1, Title: "10% off"})

		view, err := f.uc.Detail(ctx, "user-1", code.ID)
		require.NoError(t, err)
		assert.Equal(t, code.UUID, view.Code.UUID)
		assert.Equal(t, "10% off", view.Coupon.Title)
	})

	t.Run("hides another owner's code", func(t *testing.T) {
		f := newCodeFixture(t)
		code := f.seed(t, &domain.Coupon{StoreID: 1})

		_, err := f.uc.Detail(ctx, "intruder", code.ID)
		assert.ErrorIs(t, err, domain.ErrCodeNotFound)
	})

	t.Run("expired parent bounces the owner", func(t *testing.T) {
		f := newCodeFixture(t)
		expiry := dateIn(-1)
		code := f.seed(t, &domain.Coupon{StoreID: 1, ExpirationDate: &expiry})

		_, err := f.uc.Detail(ctx, "user-1", code.ID)
		assert.ErrorIs(t, err, domain.ErrCouponExpired)
	})
}

func TestCustomerView(t *testing.T) {
	ctx := context.Background()

	t.Run("shows an issuable coupon", func(t *testing.T) {
		f := newCodeFixture(t)
		code := f.seed(t, &domain.Coupon{StoreID: 1, Title: "10% off"})

		view, err := f.uc.CustomerView(ctx, code.UUID)
		require.NoError(t, err)
		assert.Equal(t, "Corner Cafe", view.StoreName)
		assert.Equal(t, "10% off", view.Coupon.Title)
		assert.Equal(t, code.Code, view.Code.Code)
	})

	t.Run("unknown uuid", func(t *testing.T) {
		f := newCodeFixture(t)
		_, err := f.uc.CustomerView(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrCodeNotFound)
	})

	t.Run("soft-deleted coupon hides the page", func(t *testing.T) {
		f := newCodeFixture(t)
		deleted := dateIn(0)
		code := f.seed(t, &domain.Coupon{StoreID: 1, DeletedAt: &deleted})

		_, err := f.uc.CustomerView(ctx, code.UUID)
		assert.ErrorIs(t, err, domain.ErrCodeNotFound)
	})

	t.Run("expired coupon hides the page", func(t *testing.T) {
		f := newCodeFixture(t)
		expiry := dateIn(-2)
		code := f.seed(t, &domain.Coupon{StoreID: 1, ExpirationDate: &expiry})

		_, err := f.uc.CustomerView(ctx, code.UUID)
		assert.ErrorIs(t, err, domain.ErrCodeNotFound)
	})

	t.Run("capped coupon hides the page", func(t *testing.T) {
		f := newCodeFixture(t)
		code := f.seed(t, &domain.Coupon{StoreID: 1, MaxIssuance: intPtr(1), IssuedCount: 1})

		_, err := f.uc.CustomerView(ctx, code.UUID)
		assert.ErrorIs(t, err, domain.ErrCodeNotFound)
	})
}

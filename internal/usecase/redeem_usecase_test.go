package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"couponhub-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type redeemFixture struct {
	uc         *RedeemUsecase
	couponRepo *fakeCouponRepo
	codeRepo   *fakeCodeRepo
}

func newRedeemFixture(t *testing.T) *redeemFixture {
	t.Helper()
	couponRepo := newFakeCouponRepo()
	codeRepo := newFakeCodeRepo()
	return &redeemFixture{
		uc:         NewRedeemUsecase(couponRepo, codeRepo, &fakeTxManager{}),
		couponRepo: couponRepo,
		codeRepo:   codeRepo,
	}
}

func (f *redeemFixture) seed(t *testing.T, coupon *domain.Coupon) *domain.CouponCode {
	t.Helper()
	f.couponRepo.add("owner-1", coupon)
	code := &domain.CouponCode{
		StoreID:  coupon.StoreID,
		CouponID: coupon.ID,
		Code:     "ABC123",
		UUID:     uuid.New(),
	}
	inserted, err := f.codeRepo.Insert(context.Background(), code)
	require.NoError(t, err)
	require.True(t, inserted)
	coupon.IssuedCount++
	return code
}

func TestRedeem(t *testing.T) {
	ctx := context.Background()

	t.Run("by uuid consumes the code once", func(t *testing.T) {
		f := newRedeemFixture(t)
		coupon := &domain.Coupon{StoreID: 1, TargetProduct: "Coffee", Discount: "10% off"}
		code := f.seed(t, coupon)

		result, err := f.uc.RedeemByUUID(ctx, 1, code.UUID)
		require.NoError(t, err)
		assert.Equal(t, "Coffee", result.TargetProduct)
		assert.Equal(t, "10% off", result.Discount)
		assert.Equal(t, "ABC123", result.Code)

		got, err := f.couponRepo.GetByID(ctx, coupon.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.RedeemedCount)

		_, err = f.uc.RedeemByUUID(ctx, 1, code.UUID)
		assert.ErrorIs(t, err, domain.ErrAlreadyRedeemed)
	})

	t.Run("by code normalizes user input", func(t *testing.T) {
		f := newRedeemFixture(t)
		code := f.seed(t, &domain.Coupon{StoreID: 1})

		result, err := f.uc.RedeemByCode(ctx, 1, "  abc123 ")
		require.NoError(t, err)
		assert.Equal(t, code.Code, result.Code)
	})

	t.Run("empty manual code is rejected without a lookup", func(t *testing.T) {
		f := newRedeemFixture(t)
		_, err := f.uc.RedeemByCode(ctx, 1, "   ")
		assert.ErrorIs(t, err, domain.ErrCodeNotFound)
	})

	t.Run("another store's code reads as missing", func(t *testing.T) {
		f := newRedeemFixture(t)
		code := f.seed(t, &domain.Coupon{StoreID: 1})

		_, err := f.uc.RedeemByUUID(ctx, 2, code.UUID)
		assert.ErrorIs(t, err, domain.ErrCodeNotFound)

		_, err = f.uc.RedeemByCode(ctx, 2, code.Code)
		assert.ErrorIs(t, err, domain.ErrCodeNotFound)
	})

	t.Run("discontinued coupon blocks redemption", func(t *testing.T) {
		f := newRedeemFixture(t)
		deleted := dateIn(0)
		code := f.seed(t, &domain.Coupon{StoreID: 1, DeletedAt: &deleted})

		_, err := f.uc.RedeemByUUID(ctx, 1, code.UUID)
		assert.ErrorIs(t, err, domain.ErrCouponDiscontinued)
	})

	t.Run("expired coupon reports its date", func(t *testing.T) {
		f := newRedeemFixture(t)
		expiry := dateIn(-3)
		code := f.seed(t, &domain.Coupon{StoreID: 1, ExpirationDate: &expiry})

		_, err := f.uc.RedeemByUUID(ctx, 1, code.UUID)
		assert.ErrorIs(t, err, domain.ErrCouponExpired)

		var expired *domain.ExpiredError
		require.True(t, errors.As(err, &expired))
		assert.Equal(t, expiry, expired.ExpirationDate)
	})

	t.Run("a code from an expired coupon stays unredeemed", func(t *testing.T) {
		f := newRedeemFixture(t)
		expiry := dateIn(-1)
		coupon := &domain.Coupon{StoreID: 1, ExpirationDate: &expiry}
		code := f.seed(t, coupon)

		_, err := f.uc.RedeemByUUID(ctx, 1, code.UUID)
		require.Error(t, err)

		got, err := f.codeRepo.GetByID(ctx, code.ID)
		require.NoError(t, err)
		assert.False(t, got.IsRedeemed())
	})

	t.Run("two clerks racing on one code produce exactly one redemption", func(t *testing.T) {
		f := newRedeemFixture(t)
		coupon := &domain.Coupon{StoreID: 1}
		code := f.seed(t, coupon)

		var wg sync.WaitGroup
		errs := make(chan error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.uc.RedeemByUUID(ctx, 1, code.UUID)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		won, lost := 0, 0
		for err := range errs {
			if err == nil {
				won++
			} else if errors.Is(err, domain.ErrAlreadyRedeemed) {
				lost++
			}
		}
		assert.Equal(t, 1, won)
		assert.Equal(t, 1, lost)

		got, err := f.couponRepo.GetByID(ctx, coupon.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.RedeemedCount)
	})
}

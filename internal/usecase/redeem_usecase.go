package usecase

import (
	"context"
	"strings"
	"time"

	"couponhub-backend/internal/domain"
	"couponhub-backend/pkg/logger"

	"github.com/google/uuid"
)

type RedeemUsecase struct {
	couponRepo domain.CouponRepository
	codeRepo   domain.CouponCodeRepository
	txManager  domain.TransactionManager
	now        func() time.Time
}

func NewRedeemUsecase(couponRepo domain.CouponRepository, codeRepo domain.CouponCodeRepository, txManager domain.TransactionManager) *RedeemUsecase {
	return &RedeemUsecase{
		couponRepo: couponRepo,
		codeRepo:   codeRepo,
		txManager:  txManager,
		now:        time.Now,
	}
}

// RedemptionResult is what the verify endpoints hand to the staff UI once
// a code is consumed.
type RedemptionResult struct {
	TargetProduct string    `json:"targetProduct"`
	Discount      string    `json:"discount"`
	Code          string    `json:"code"`
	UUID          uuid.UUID `json:"uuid"`
}

// RedeemByUUID consumes a code scanned from a QR payload. The lookup is
// scoped to the verifying store, so another store's code reads as missing.
func (u *RedeemUsecase) RedeemByUUID(ctx context.Context, storeID int64, codeUUID uuid.UUID) (*RedemptionResult, error) {
	return u.redeem(ctx, func(txCtx context.Context) (*domain.CouponCode, error) {
		return u.codeRepo.GetForRedeemByUUID(txCtx, storeID, codeUUID)
	})
}

// RedeemByCode consumes a manually typed short code. Input is normalized
// to the uppercase alphabet codes are minted in.
func (u *RedeemUsecase) RedeemByCode(ctx context.Context, storeID int64, code string) (*RedemptionResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.ErrCodeNotFound
	}
	return u.redeem(ctx, func(txCtx context.Context) (*domain.CouponCode, error) {
		return u.codeRepo.GetForRedeemByCode(txCtx, storeID, code)
	})
}

// redeem is the shared one-time consumption path. The code row is locked
// before any check, so two clerks racing on the same code serialize and
// exactly one wins; the loser sees already-redeemed.
func (u *RedeemUsecase) redeem(ctx context.Context, lookup func(ctx context.Context) (*domain.CouponCode, error)) (*RedemptionResult, error) {
	var result *RedemptionResult

	err := u.txManager.Do(ctx, func(txCtx context.Context) error {
		code, err := lookup(txCtx)
		if err != nil {
			return err
		}
		if code.IsRedeemed() {
			return domain.ErrAlreadyRedeemed
		}

		coupon, err := u.couponRepo.GetByID(txCtx, code.CouponID)
		if err != nil {
			return err
		}
		elig := domain.Evaluate(coupon, u.now())
		if elig.IsDeleted {
			return domain.ErrCouponDiscontinued
		}
		if elig.IsExpired {
			return domain.NewExpiredError(*coupon.ExpirationDate)
		}

		if err := u.codeRepo.MarkRedeemed(txCtx, code.ID, u.now()); err != nil {
			return err
		}
		if err := u.couponRepo.IncrementRedeemedCount(txCtx, coupon.ID); err != nil {
			return err
		}

		result = &RedemptionResult{
			TargetProduct: coupon.TargetProduct,
			Discount:      coupon.Discount,
			Code:          code.Code,
			UUID:          code.UUID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info().
		Str("code_uuid", result.UUID.String()).
		Msg("Coupon code redeemed")
	return result, nil
}

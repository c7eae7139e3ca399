package usecase

import (
	"context"
	"time"

	"couponhub-backend/internal/domain"

	"github.com/google/uuid"
)

type CodeUsecase struct {
	couponRepo domain.CouponRepository
	codeRepo   domain.CouponCodeRepository
	storeUC    *StoreUsecase
	now        func() time.Time
}

func NewCodeUsecase(couponRepo domain.CouponRepository, codeRepo domain.CouponCodeRepository, storeUC *StoreUsecase) *CodeUsecase {
	return &CodeUsecase{
		couponRepo: couponRepo,
		codeRepo:   codeRepo,
		storeUC:    storeUC,
		now:        time.Now,
	}
}

type CodeView struct {
	Code   *domain.CouponCode `json:"code"`
	Coupon *domain.Coupon     `json:"coupon"`
}

// Detail returns one issued code for its owning store. The parent coupon
// having expired is reported so the handler can bounce the owner back to
// the list, matching the coupon pages.
func (u *CodeUsecase) Detail(ctx context.Context, userID string, codeID int64) (*CodeView, error) {
	code, err := u.codeRepo.GetByID(ctx, codeID)
	if err != nil {
		return nil, err
	}

	ownerID, err := u.couponRepo.GetStoreUserID(ctx, code.CouponID)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, domain.ErrCodeNotFound
	}

	coupon, err := u.couponRepo.GetByID(ctx, code.CouponID)
	if err != nil {
		return nil, err
	}
	elig := domain.Evaluate(coupon, u.now())
	if elig.IsDeleted {
		return nil, domain.ErrCodeNotFound
	}
	if elig.IsExpired {
		return nil, domain.NewExpiredError(*coupon.ExpirationDate)
	}

	return &CodeView{Code: code, Coupon: coupon}, nil
}

type CustomerCouponView struct {
	StoreName string             `json:"storeName"`
	Coupon    *domain.Coupon     `json:"coupon"`
	Code      *domain.CouponCode `json:"code"`
}

// CustomerView resolves the public page behind a code's UUID. A coupon
// that can no longer be issued hides the page entirely rather than
// explaining why.
func (u *CodeUsecase) CustomerView(ctx context.Context, codeUUID uuid.UUID) (*CustomerCouponView, error) {
	code, err := u.codeRepo.GetByUUID(ctx, codeUUID)
	if err != nil {
		return nil, err
	}
	coupon, err := u.couponRepo.GetByID(ctx, code.CouponID)
	if err != nil {
		return nil, err
	}
	if !domain.Evaluate(coupon, u.now()).CanViewCustomerPage {
		return nil, domain.ErrCodeNotFound
	}

	storeName, err := u.storeUC.StoreName(ctx, coupon.StoreID)
	if err != nil {
		return nil, err
	}
	return &CustomerCouponView{
		StoreName: storeName,
		Coupon:    coupon,
		Code:      code,
	}, nil
}

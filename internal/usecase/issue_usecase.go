package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"couponhub-backend/internal/domain"
	"couponhub-backend/pkg/logger"

	"github.com/google/uuid"
)

// codeAlphabet is uppercase alphanumerics only, so staff can read codes
// back over the counter without case confusion.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type IssueUsecase struct {
	couponRepo  domain.CouponRepository
	codeRepo    domain.CouponCodeRepository
	txManager   domain.TransactionManager
	codeLength  int
	maxAttempts int
	now         func() time.Time
}

func NewIssueUsecase(couponRepo domain.CouponRepository, codeRepo domain.CouponCodeRepository, txManager domain.TransactionManager, codeLength, maxAttempts int) *IssueUsecase {
	return &IssueUsecase{
		couponRepo:  couponRepo,
		codeRepo:    codeRepo,
		txManager:   txManager,
		codeLength:  codeLength,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Issue mints one new code for the coupon. The whole operation runs in a
// single transaction holding the coupon row lock, so concurrent issuances
// serialize and the cap can never be overshot. A generated code that
// collides within the store is retried with a fresh value up to
// maxAttempts times.
func (u *IssueUsecase) Issue(ctx context.Context, userID string, couponID int64) (*domain.CouponCode, error) {
	ownerID, err := u.couponRepo.GetStoreUserID(ctx, couponID)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, domain.ErrCouponNotFound
	}

	var issued *domain.CouponCode
	err = u.txManager.Do(ctx, func(txCtx context.Context) error {
		coupon, err := u.couponRepo.GetByIDForUpdate(txCtx, couponID)
		if err != nil {
			return err
		}

		elig := domain.Evaluate(coupon, u.now())
		switch {
		case elig.CanIssue:
		case elig.IsCapReached:
			return domain.ErrCapReached
		case elig.IsExpired:
			return domain.NewExpiredError(*coupon.ExpirationDate)
		default:
			return domain.ErrCouponUnavailable
		}

		for attempt := 1; attempt <= u.maxAttempts; attempt++ {
			code, err := GenerateCode(u.codeLength)
			if err != nil {
				return err
			}
			candidate := &domain.CouponCode{
				StoreID:  coupon.StoreID,
				CouponID: coupon.ID,
				Code:     code,
				UUID:     uuid.New(),
			}
			inserted, err := u.codeRepo.Insert(txCtx, candidate)
			if err != nil {
				return err
			}
			if inserted {
				issued = candidate
				return u.couponRepo.IncrementIssuedCount(txCtx, coupon.ID)
			}
			logger.WithContext(txCtx).Warn().
				Int64("coupon_id", coupon.ID).
				Int("attempt", attempt).
				Msg("Coupon code collision, regenerating")
		}
		return domain.ErrIssuanceExhausted
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info().
		Int64("coupon_id", couponID).
		Str("code_uuid", issued.UUID.String()).
		Msg("Coupon code issued")
	return issued, nil
}

// GenerateCode returns a random code of length n over the code alphabet.
// Each character is an independent crypto/rand draw bounded by the
// alphabet size, so every character is equally likely; a byte-modulo
// shortcut would skew the low end of the alphabet.
func GenerateCode(n int) (string, error) {
	alphabetSize := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("generate coupon code: %w", err)
		}
		buf[i] = codeAlphabet[idx.Int64()]
	}
	return string(buf), nil
}

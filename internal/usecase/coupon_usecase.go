package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"couponhub-backend/internal/domain"
	"couponhub-backend/pkg/logger"
)

const maxFieldLength = 255

type CouponUsecase struct {
	couponRepo domain.CouponRepository
	drafts     domain.DraftStore
	storeUC    *StoreUsecase
	txManager  domain.TransactionManager
	now        func() time.Time
}

func NewCouponUsecase(couponRepo domain.CouponRepository, drafts domain.DraftStore, storeUC *StoreUsecase, txManager domain.TransactionManager) *CouponUsecase {
	return &CouponUsecase{
		couponRepo: couponRepo,
		drafts:     drafts,
		storeUC:    storeUC,
		txManager:  txManager,
		now:        time.Now,
	}
}

// CouponDraftInput is the raw wizard form. Every field is revalidated on
// both save and confirm; the expiration check is repeated at confirm time
// because the date may roll over while the draft sits in the session.
type CouponDraftInput struct {
	Title            string  `json:"title"`
	Discount         string  `json:"discount"`
	TargetProduct    string  `json:"targetProduct"`
	Message          *string `json:"message"`
	ExpirationDate   string  `json:"expirationDate"` // YYYY-MM-DD
	NoExpirationDate bool    `json:"noExpirationDate"`
	MaxIssuance      *int    `json:"maxIssuance"`
	NoMaxIssuance    bool    `json:"noMaxIssuance"`
}

func (u *CouponUsecase) validateDraft(in CouponDraftInput) (domain.CouponDraft, ValidationErrors) {
	errs := ValidationErrors{}
	draft := domain.CouponDraft{
		Title:            strings.TrimSpace(in.Title),
		Discount:         strings.TrimSpace(in.Discount),
		TargetProduct:    strings.TrimSpace(in.TargetProduct),
		NoExpirationDate: in.NoExpirationDate,
		NoMaxIssuance:    in.NoMaxIssuance,
	}

	requireText(errs, "title", draft.Title)
	requireText(errs, "discount", draft.Discount)
	requireText(errs, "targetProduct", draft.TargetProduct)

	if in.Message != nil {
		msg := strings.TrimSpace(*in.Message)
		if utf8.RuneCountInString(msg) > maxFieldLength {
			errs["message"] = "Must be 255 characters or less."
		} else if msg != "" {
			draft.Message = &msg
		}
	}

	switch {
	case in.NoExpirationDate && in.ExpirationDate != "":
		errs["expirationDate"] = "Set an expiration date or check no expiration, not both."
	case !in.NoExpirationDate && in.ExpirationDate == "":
		errs["expirationDate"] = "Set an expiration date or check no expiration."
	case !in.NoExpirationDate:
		date, err := time.Parse("2006-01-02", in.ExpirationDate)
		if err != nil {
			errs["expirationDate"] = "Enter a valid date (YYYY-MM-DD)."
		} else if date.Before(domain.DateOf(u.now())) {
			errs["expirationDate"] = "The expiration date must be today or later."
		} else {
			draft.ExpirationDate = &date
		}
	}

	switch {
	case in.NoMaxIssuance && in.MaxIssuance != nil:
		errs["maxIssuance"] = "Set a maximum issuance or check unlimited, not both."
	case !in.NoMaxIssuance && in.MaxIssuance == nil:
		errs["maxIssuance"] = "Set a maximum issuance or check unlimited."
	case !in.NoMaxIssuance:
		if *in.MaxIssuance < 1 {
			errs["maxIssuance"] = "The maximum issuance must be a positive number."
		} else {
			v := *in.MaxIssuance
			draft.MaxIssuance = &v
		}
	}

	if len(errs) > 0 {
		return domain.CouponDraft{}, errs
	}
	return draft, nil
}

// requireText enforces presence and the column width. The cap counts
// characters, not bytes, matching what VARCHAR(255) actually stores.
func requireText(errs ValidationErrors, field, value string) {
	if value == "" {
		errs[field] = "This field is required."
		return
	}
	if utf8.RuneCountInString(value) > maxFieldLength {
		errs[field] = "Must be 255 characters or less."
	}
}

// SaveDraft validates the wizard form and parks it in the session store,
// replacing any previous draft the user had.
func (u *CouponUsecase) SaveDraft(ctx context.Context, userID string, storeID int64, in CouponDraftInput) (domain.CouponDraft, error) {
	draft, errs := u.validateDraft(in)
	if errs != nil {
		return domain.CouponDraft{}, errs
	}
	draft.StoreID = storeID
	draft.SavedAt = u.now()
	u.drafts.Put(userID, draft)
	return draft, nil
}

func (u *CouponUsecase) GetDraft(ctx context.Context, userID string) (domain.CouponDraft, error) {
	return u.drafts.Get(userID)
}

func (u *CouponUsecase) DiscardDraft(ctx context.Context, userID string) {
	u.drafts.Delete(userID)
}

// ConfirmDraft turns the pending draft into a persisted coupon. The draft
// is revalidated first; a draft whose expiration date passed while it sat
// in the session is rejected the same way the original form would be.
func (u *CouponUsecase) ConfirmDraft(ctx context.Context, userID string, storeID int64) (*domain.Coupon, error) {
	draft, err := u.drafts.Get(userID)
	if err != nil {
		return nil, err
	}
	if draft.StoreID != storeID {
		// Stale draft from a different login. Drop it.
		u.drafts.Delete(userID)
		return nil, domain.ErrDraftNotFound
	}

	in := CouponDraftInput{
		Title:            draft.Title,
		Discount:         draft.Discount,
		TargetProduct:    draft.TargetProduct,
		Message:          draft.Message,
		NoExpirationDate: draft.NoExpirationDate,
		NoMaxIssuance:    draft.NoMaxIssuance,
		MaxIssuance:      draft.MaxIssuance,
	}
	if draft.ExpirationDate != nil {
		in.ExpirationDate = draft.ExpirationDate.Format("2006-01-02")
	}
	revalidated, errs := u.validateDraft(in)
	if errs != nil {
		return nil, errs
	}

	coupon := &domain.Coupon{
		StoreID:        storeID,
		Title:          revalidated.Title,
		Discount:       revalidated.Discount,
		TargetProduct:  revalidated.TargetProduct,
		Message:        revalidated.Message,
		ExpirationDate: revalidated.ExpirationDate,
		MaxIssuance:    revalidated.MaxIssuance,
	}
	if err := u.couponRepo.Create(ctx, coupon); err != nil {
		return nil, err
	}
	u.drafts.Delete(userID)

	logger.WithContext(ctx).Info().Int64("coupon_id", coupon.ID).Int64("store_id", storeID).Msg("Coupon created")
	return coupon, nil
}

type CouponListView struct {
	StoreName string                `json:"storeName"`
	Today     time.Time             `json:"today"`
	Coupons   []domain.RankedCoupon `json:"coupons"`
}

// List returns the owner's coupons ranked for display, soft-deleted ones
// excluded.
func (u *CouponUsecase) List(ctx context.Context, storeID int64) (*CouponListView, error) {
	storeName, err := u.storeUC.StoreName(ctx, storeID)
	if err != nil {
		return nil, err
	}
	coupons, err := u.couponRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	today := u.now()
	return &CouponListView{
		StoreName: storeName,
		Today:     today,
		Coupons:   domain.RankCoupons(coupons, today),
	}, nil
}

type CouponDetail struct {
	Coupon      *domain.Coupon     `json:"coupon"`
	Eligibility domain.Eligibility `json:"eligibility"`
	UsageRate   int                `json:"usageRate"`
}

// Detail returns one coupon for its owner. A foreign or soft-deleted
// coupon is indistinguishable from a missing one.
func (u *CouponUsecase) Detail(ctx context.Context, userID string, couponID int64) (*CouponDetail, error) {
	coupon, err := u.authorizedCoupon(ctx, userID, couponID)
	if err != nil {
		return nil, err
	}
	return &CouponDetail{
		Coupon:      coupon,
		Eligibility: domain.Evaluate(coupon, u.now()),
		UsageRate:   domain.UsageRate(coupon),
	}, nil
}

// Delete soft-deletes a coupon. Blocked once any code has been issued so
// redemption history stays intact. Runs under the same row lock issuance
// takes, so a concurrent first issuance cannot slip past the check.
func (u *CouponUsecase) Delete(ctx context.Context, userID string, couponID int64) error {
	if _, err := u.authorizedCoupon(ctx, userID, couponID); err != nil {
		return err
	}

	err := u.txManager.Do(ctx, func(txCtx context.Context) error {
		coupon, err := u.couponRepo.GetByIDForUpdate(txCtx, couponID)
		if err != nil {
			return err
		}
		if !domain.Evaluate(coupon, u.now()).CanDelete {
			return domain.ErrDeleteBlocked
		}
		return u.couponRepo.SoftDelete(txCtx, couponID, u.now())
	})
	if err != nil {
		return err
	}

	logger.WithContext(ctx).Info().Int64("coupon_id", couponID).Msg("Coupon discontinued")
	return nil
}

// authorizedCoupon loads a coupon after proving the user owns it.
// Ownership failures surface as not-found so the API never confirms a
// coupon exists under another tenant.
func (u *CouponUsecase) authorizedCoupon(ctx context.Context, userID string, couponID int64) (*domain.Coupon, error) {
	ownerID, err := u.couponRepo.GetStoreUserID(ctx, couponID)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, domain.ErrCouponNotFound
	}
	coupon, err := u.couponRepo.GetByID(ctx, couponID)
	if err != nil {
		return nil, err
	}
	if coupon.DeletedAt != nil {
		return nil, domain.ErrCouponNotFound
	}
	return coupon, nil
}

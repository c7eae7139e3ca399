package v1

import (
	"errors"
	"net/http"
	"strconv"

	"couponhub-backend/internal/domain"
	"couponhub-backend/internal/usecase"
	"couponhub-backend/pkg/logger"
	"couponhub-backend/pkg/utils"

	"github.com/goccy/go-json"
)

const couponListPath = "/coupons"

type CouponHandler struct {
	couponUC *usecase.CouponUsecase
	issueUC  *usecase.IssueUsecase
}

func NewCouponHandler(couponUC *usecase.CouponUsecase, issueUC *usecase.IssueUsecase) *CouponHandler {
	return &CouponHandler{couponUC: couponUC, issueUC: issueUC}
}

func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	view, err := h.couponUC.List(r.Context(), user.StoreID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list coupons")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load coupons")
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

func (h *CouponHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req usecase.CouponDraftInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	draft, err := h.couponUC.SaveDraft(r.Context(), user.ID, user.StoreID, req)
	if err != nil {
		var verrs usecase.ValidationErrors
		if errors.As(err, &verrs) {
			utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": verrs})
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Failed to save draft")
		return
	}
	utils.WriteJSON(w, http.StatusOK, draft)
}

// GetDraft backs the confirmation page. No pending draft bounces the user
// back to the creation form.
func (h *CouponHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	draft, err := h.couponUC.GetDraft(r.Context(), user.ID)
	if err != nil {
		utils.WriteRedirect(w, http.StatusNotFound, couponListPath+"/new")
		return
	}
	utils.WriteJSON(w, http.StatusOK, draft)
}

func (h *CouponHandler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	h.couponUC.DiscardDraft(r.Context(), user.ID)
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Draft discarded"})
}

func (h *CouponHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	coupon, err := h.couponUC.ConfirmDraft(r.Context(), user.ID, user.StoreID)
	if err != nil {
		var verrs usecase.ValidationErrors
		switch {
		case errors.Is(err, domain.ErrDraftNotFound):
			utils.WriteRedirect(w, http.StatusNotFound, couponListPath+"/new")
		case errors.As(err, &verrs):
			utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": verrs})
		default:
			logger.Error().Err(err).Msg("Failed to confirm coupon draft")
			utils.WriteError(w, http.StatusInternalServerError, "Failed to create coupon")
		}
		return
	}
	utils.WriteJSON(w, http.StatusCreated, coupon)
}

func (h *CouponHandler) Detail(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	couponID, err := pathID(r, "id")
	if err != nil {
		utils.WriteRedirect(w, http.StatusNotFound, couponListPath)
		return
	}

	detail, err := h.couponUC.Detail(r.Context(), user.ID, couponID)
	if err != nil {
		h.writeOwnerError(w, err, "Failed to load coupon")
		return
	}
	utils.WriteJSON(w, http.StatusOK, detail)
}

func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	couponID, err := pathID(r, "id")
	if err != nil {
		utils.WriteRedirect(w, http.StatusNotFound, couponListPath)
		return
	}

	if err := h.couponUC.Delete(r.Context(), user.ID, couponID); err != nil {
		if errors.Is(err, domain.ErrDeleteBlocked) {
			utils.WriteRedirect(w, http.StatusConflict, couponListPath)
			return
		}
		h.writeOwnerError(w, err, "Failed to delete coupon")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Coupon deleted"})
}

func (h *CouponHandler) Issue(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	couponID, err := pathID(r, "id")
	if err != nil {
		utils.WriteRedirect(w, http.StatusNotFound, couponListPath)
		return
	}

	code, err := h.issueUC.Issue(r.Context(), user.ID, couponID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCapReached),
			errors.Is(err, domain.ErrCouponExpired),
			errors.Is(err, domain.ErrCouponUnavailable):
			utils.WriteRedirect(w, http.StatusConflict, couponListPath)
		case errors.Is(err, domain.ErrIssuanceExhausted):
			logger.Error().Err(err).Int64("coupon_id", couponID).Msg("Code generation exhausted")
			utils.WriteError(w, http.StatusInternalServerError, "Could not generate a unique code, try again")
		default:
			h.writeOwnerError(w, err, "Failed to issue coupon code")
		}
		return
	}
	utils.WriteJSON(w, http.StatusCreated, code)
}

// writeOwnerError is the shared fallback for owner pages: missing or
// foreign resources bounce to the list, everything else is a 500.
func (h *CouponHandler) writeOwnerError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, domain.ErrCouponNotFound), errors.Is(err, domain.ErrCodeNotFound):
		utils.WriteRedirect(w, http.StatusNotFound, couponListPath)
	default:
		logger.Error().Err(err).Msg(logMsg)
		utils.WriteError(w, http.StatusInternalServerError, logMsg)
	}
}

func authUser(r *http.Request) (*domain.AuthUser, bool) {
	user, ok := r.Context().Value(domain.UserContextKey).(*domain.AuthUser)
	return user, ok
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

package v1

import (
	"errors"
	"fmt"
	"net/http"

	"couponhub-backend/internal/domain"
	"couponhub-backend/internal/usecase"
	"couponhub-backend/pkg/logger"
	"couponhub-backend/pkg/utils"

	"github.com/google/uuid"
)

type VerifyHandler struct {
	redeemUC *usecase.RedeemUsecase
}

func NewVerifyHandler(redeemUC *usecase.RedeemUsecase) *VerifyHandler {
	return &VerifyHandler{redeemUC: redeemUC}
}

// verifyResponse is consumed by the in-store scanner UI, which expects
// these exact keys.
type verifyResponse struct {
	Success       bool   `json:"success"`
	TargetProduct string `json:"target_product"`
	Discount      string `json:"discount"`
	CouponCode    string `json:"coupon_code"`
}

// VerifyQR redeems a code scanned from a customer's QR payload. The
// identifier in the path is the code's UUID.
func (h *VerifyHandler) VerifyQR(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if user.StoreID == 0 {
		utils.WriteError(w, http.StatusBadRequest, "No store is linked to this account.")
		return
	}

	codeUUID, err := uuid.Parse(r.PathValue("uuid"))
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "Invalid coupon code.")
		return
	}

	result, err := h.redeemUC.RedeemByUUID(r.Context(), user.StoreID, codeUUID)
	if err != nil {
		h.writeVerifyError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, verifyResponse{
		Success:       true,
		TargetProduct: result.TargetProduct,
		Discount:      result.Discount,
		CouponCode:    result.UUID.String(),
	})
}

// VerifyManual redeems a short code read back by the customer and typed
// in by staff.
func (h *VerifyHandler) VerifyManual(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if user.StoreID == 0 {
		utils.WriteError(w, http.StatusBadRequest, "No store is linked to this account.")
		return
	}

	result, err := h.redeemUC.RedeemByCode(r.Context(), user.StoreID, r.PathValue("code"))
	if err != nil {
		h.writeVerifyError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, verifyResponse{
		Success:       true,
		TargetProduct: result.TargetProduct,
		Discount:      result.Discount,
		CouponCode:    result.Code,
	})
}

func (h *VerifyHandler) writeVerifyError(w http.ResponseWriter, err error) {
	var expired *domain.ExpiredError
	switch {
	case errors.Is(err, domain.ErrCodeNotFound):
		utils.WriteError(w, http.StatusNotFound, "Invalid coupon code.")
	case errors.Is(err, domain.ErrAlreadyRedeemed):
		utils.WriteError(w, http.StatusConflict, "This coupon has already been used.")
	case errors.Is(err, domain.ErrCouponDiscontinued):
		utils.WriteError(w, http.StatusGone, "This coupon is no longer available.")
	case errors.As(err, &expired):
		msg := fmt.Sprintf("This coupon expired on %s.", expired.ExpirationDate.Format("January 2, 2006"))
		utils.WriteError(w, http.StatusGone, msg)
	default:
		logger.Error().Err(err).Msg("Coupon verification failed")
		utils.WriteError(w, http.StatusInternalServerError, "An error occurred during verification.")
	}
}

package v1

import (
	"errors"
	"net/http"

	"couponhub-backend/internal/domain"
	"couponhub-backend/internal/usecase"
	"couponhub-backend/pkg/logger"
	"couponhub-backend/pkg/utils"

	"github.com/google/uuid"
)

type CodeHandler struct {
	codeUC *usecase.CodeUsecase
}

func NewCodeHandler(codeUC *usecase.CodeUsecase) *CodeHandler {
	return &CodeHandler{codeUC: codeUC}
}

// Detail backs the owner's single-code page with the QR payload data.
func (h *CodeHandler) Detail(w http.ResponseWriter, r *http.Request) {
	user, ok := authUser(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	codeID, err := pathID(r, "id")
	if err != nil {
		utils.WriteRedirect(w, http.StatusNotFound, couponListPath)
		return
	}

	view, err := h.codeUC.Detail(r.Context(), user.ID, codeID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCodeNotFound), errors.Is(err, domain.ErrCouponNotFound):
			utils.WriteRedirect(w, http.StatusNotFound, couponListPath)
		case errors.Is(err, domain.ErrCouponExpired):
			utils.WriteRedirect(w, http.StatusConflict, couponListPath)
		default:
			logger.Error().Err(err).Msg("Failed to load coupon code")
			utils.WriteError(w, http.StatusInternalServerError, "Failed to load coupon code")
		}
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

// CustomerView is the public page behind a code's UUID. It never redirects
// and never explains: anything unavailable is a plain 404.
func (h *CodeHandler) CustomerView(w http.ResponseWriter, r *http.Request) {
	codeUUID, err := uuid.Parse(r.PathValue("uuid"))
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	view, err := h.codeUC.CustomerView(r.Context(), codeUUID)
	if err != nil {
		if errors.Is(err, domain.ErrCodeNotFound) || errors.Is(err, domain.ErrCouponNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Not found")
			return
		}
		logger.Error().Err(err).Msg("Failed to load customer coupon page")
		utils.WriteError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	utils.WriteJSON(w, http.StatusOK, view)
}

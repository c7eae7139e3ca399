package v1

import (
	"errors"
	"net/http"

	"couponhub-backend/config"
	"couponhub-backend/internal/domain"
	"couponhub-backend/internal/usecase"
	"couponhub-backend/pkg/utils"

	"github.com/goccy/go-json"
)

type AuthHandler struct {
	usecase *usecase.AuthUsecase
	cfg     *config.Config
}

func NewAuthHandler(uc *usecase.AuthUsecase, cfg *config.Config) *AuthHandler {
	return &AuthHandler{usecase: uc, cfg: cfg}
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req usecase.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	token, user, err := h.usecase.Signup(r.Context(), req)
	if err != nil {
		var verrs usecase.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			utils.WriteJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"errors": verrs})
		case errors.Is(err, domain.ErrEmailTaken):
			utils.WriteError(w, http.StatusConflict, "This email is already registered.")
		default:
			utils.WriteError(w, http.StatusInternalServerError, "Failed to create account")
		}
		return
	}

	h.setAccessTokenCookie(w, token)
	utils.WriteJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	token, user, err := h.usecase.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			utils.WriteError(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	h.setAccessTokenCookie(w, token)
	utils.WriteJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	authUser, ok := r.Context().Value(domain.UserContextKey).(*domain.AuthUser)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.usecase.GetUserByID(r.Context(), authUser.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			utils.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"storeId": authUser.StoreID,
	})
}

func (h *AuthHandler) setAccessTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cfg.AccessTokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
}

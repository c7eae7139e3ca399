package middleware

import (
	"context"
	"net/http"

	"couponhub-backend/internal/domain"
	"couponhub-backend/pkg/utils"
)

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := utils.ExtractClaims(r)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		// The token claims are enough to identify the owner and their
		// store; no DB hit per request.
		user := &domain.AuthUser{
			ID:      claims.UserID,
			Email:   claims.Email,
			StoreID: claims.StoreID,
		}

		ctx := context.WithValue(r.Context(), domain.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package middleware

import (
	"context"
	"errors"
	"net/http"

	"poke_league/internal/common"
	"poke_league/internal/common/security"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const UserIDCtxKey contextKey = "userID"

// Authenticator rejects requests whose bearer token was not verified upstream
// by jwtauth.Verify and stores the token subject in the request context.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())

		if err != nil {
			if errors.Is(err, jwtauth.ErrNoTokenFound) {
				common.RespondWithDomainError(w, security.ErrMissingToken)
			} else {
				common.RespondWithDomainError(w, security.ErrInvalidToken)
			}
			return
		}

		if token == nil {
			common.RespondWithDomainError(w, security.ErrMissingToken)
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithDomainError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext returns the user id stored by Authenticator.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jhansigoday/bookbridge/logger"
	"github.com/jhansigoday/bookbridge/utils"
)

type ctxKey string

const UserCtxKey ctxKey = "user"

// Auth checks the JWT from the Authorization header or the token cookie and
// stores the claims in the request context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string

		auth := r.Header.Get("Authorization")
		if auth != "" {
			parts := strings.SplitN(auth, " ", 2)
			if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
				token = parts[1]
			}
		}

		if token == "" {
			if cookie, err := r.Cookie("token"); err == nil {
				token = cookie.Value
			}
		}

		if token == "" {
			utils.JSONError(w, "missing Authorization header or token cookie", http.StatusUnauthorized)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			logger.Log.WithError(err).Debug("invalid token")
			utils.JSONError(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserCtxKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFrom extracts the authenticated user's claims, or nil when the
// request did not pass through Auth.
func ClaimsFrom(r *http.Request) *utils.Claims {
	claims, _ := r.Context().Value(UserCtxKey).(*utils.Claims)
	return claims
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/api-sage/wallet-service/internal/auth"
	"github.com/api-sage/wallet-service/internal/logger"
)

type contextKey string

const claimsContextKey contextKey = "authClaims"

// BearerAuth verifies the Authorization bearer token and stores the
// resolved caller identity in the request context. Handlers behind it can
// rely on CallerFromContext returning a verified account id.
func BearerAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				logger.Info("bearer auth middleware missing token", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				unauthorized(w, "Not authorized, login required.")
				return
			}

			claims, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				logger.Info("bearer auth middleware invalid token", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				unauthorized(w, "Session expired or token invalid. Please log in again.")
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerFromContext returns the verified claims placed by BearerAuth.
func CallerFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(auth.Claims)
	return claims, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

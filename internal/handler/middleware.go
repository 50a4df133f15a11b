package handler

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/neurobudget/neurobudget-api/internal/infra/observability"
	"github.com/neurobudget/neurobudget-api/internal/port"
	"github.com/neurobudget/neurobudget-api/internal/service"
)

type contextKey string

const userIDKey contextKey = "userID"

// JWTAuthMiddleware validates Bearer access tokens, resolves the token's
// subject to a live user and injects the user id into context. The email
// lookup goes through a short-lived cache so a hot token does not hit the
// store on every request; the cache TTL must not exceed the access TTL.
func JWTAuthMiddleware(tokens *service.TokenService, users port.UserStore, identities port.Cache[string], metrics *observability.Metrics, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				metrics.IncrAuthFailure()
				logger.Warn("auth: missing token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "missing authentication token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				metrics.IncrAuthFailure()
				logger.Warn("auth: invalid token format",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "invalid token format")
				return
			}

			claims, err := tokens.ValidateAccess(parts[1])
			if err != nil {
				metrics.IncrAuthFailure()
				logger.Warn("auth: invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}

			userID, ok := identities.Get(claims.Sub)
			if ok {
				metrics.IncrCacheHit("identity")
			} else {
				metrics.IncrCacheMiss("identity")
				user, err := users.GetUserByEmail(r.Context(), claims.Sub)
				if err != nil {
					logger.Error("auth: user lookup failed", zap.Error(err))
					writeError(w, http.StatusInternalServerError, "internal server error")
					return
				}
				if user == nil || !user.Enabled {
					metrics.IncrAuthFailure()
					writeError(w, http.StatusUnauthorized, "invalid or expired token")
					return
				}
				userID = user.ID
				identities.Set(claims.Sub, userID)
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext extracts the authenticated user id from context.
func UserIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

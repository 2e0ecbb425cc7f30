package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/lodgic-inc/hotels-engine/pkg/auth"
)

// RequireAuth returns middleware that admits only requests carrying a valid
// bearer token signed with the configured key. Pass nil logger to disable
// logging.
func RequireAuth(key string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			caller, err := auth.ValidateToken(key, token)
			if err != nil {
				if logger != nil {
					logger.Warn("Rejected rebuild request",
						zap.String("remote_addr", r.RemoteAddr),
						zap.Error(err))
				}
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			if logger != nil {
				logger.Info("Authorized rebuild request", zap.String("caller", caller))
			}
			next.ServeHTTP(w, r)
		})
	}
}

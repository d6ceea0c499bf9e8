package middleware

import (
	"net/http"

	"github.com/rumahkita/property-management/internal/auth"
	"github.com/rumahkita/property-management/pkg/logger"
)

// UserContext enriches the request-scoped logger with the authenticated
// user's identity. Must run after authentication has populated the
// request context.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := auth.UserFromContext(r.Context()); ok && user != nil {
			ctx := logger.With(r.Context(), "userID", user.ID)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

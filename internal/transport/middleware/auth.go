package middleware

import (
	"net/http"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/pkg/logger"
)

// UserContext tags the request logger with the authenticated user. It must
// run after the auth middleware.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if user, ok := internal.UserFromContext(ctx); ok {
			ctx = logger.With(ctx, "userID", user.ID)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

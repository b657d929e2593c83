package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/crm-management/internal/transport"
	"github.com/frahmantamala/crm-management/pkg/logger"
)

// RecoveryMiddleware turns a panic into a 500 envelope and logs it at critical level.
func RecoveryMiddleware(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Critical(r.Context(), lg, "panic recovered",
						"error", err,
						"method", r.Method,
						"url", r.URL.String(),
						"stack", string(debug.Stack()))

					transport.WriteFailure(w, http.StatusInternalServerError, fmt.Sprint(err), lg)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

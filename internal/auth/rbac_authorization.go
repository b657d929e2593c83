package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/transport"
	"github.com/frahmantamala/crm-management/internal/transport/metrics"
)

type RoleAuthorizer interface {
	HasAnyRoleCtx(ctx context.Context, userRoles []string, requiredRoles []string) (bool, error)
}

type RBACAuthorization struct {
	authorizer RoleAuthorizer
	logger     *slog.Logger
}

func NewRBACAuthorization(authorizer RoleAuthorizer, logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{
		authorizer: authorizer,
		logger:     logger,
	}
}

// Check lets the request through when the acting user holds any of roles.
func (ra *RBACAuthorization) Check(next http.HandlerFunc, roles []string) http.HandlerFunc {
	label := strings.Join(roles, "|")
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := internal.UserFromContext(r.Context())
		if !ok {
			ra.logger.WarnContext(r.Context(), "authorization check failed: user not found in context")
			transport.WriteFailure(w, http.StatusUnauthorized, internal.ErrUnauthenticated.Message, ra.logger)
			return
		}

		hasAccess, err := ra.authorizer.HasAnyRoleCtx(r.Context(), user.Roles, roles)
		if err != nil {
			ra.logger.ErrorContext(r.Context(), "authorization check failed", "error", err, "user_id", user.ID, "roles", label)
			transport.WriteFailure(w, http.StatusInternalServerError, err.Error(), ra.logger)
			return
		}

		if !hasAccess {
			metrics.AuthorizationDeniedTotal.WithLabelValues(label).Inc()
			ra.logger.WarnContext(r.Context(), "access denied: missing role",
				"user_id", user.ID,
				"required_roles", label,
				"user_roles", user.Roles,
				"user_permissions", user.Permissions)
			transport.WriteFailure(w, http.StatusForbidden, internal.ErrMissingRole.Message, ra.logger)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// RequireRoles gates a route on a role expression such as "user|admin".
func (ra *RBACAuthorization) RequireRoles(expr string) func(http.Handler) http.Handler {
	roles := ParseRoleExpression(expr)
	return func(next http.Handler) http.Handler {
		return ra.Check(next.ServeHTTP, roles)
	}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRoles("admin")
}

package auth

import (
	"context"
	"strings"
)

type DefaultRoleChecker struct{}

func NewRoleChecker() *DefaultRoleChecker {
	return &DefaultRoleChecker{}
}

// ParseRoleExpression splits "user|admin" into its role names. Blank and
// repeated names are dropped.
func ParseRoleExpression(expr string) []string {
	seen := make(map[string]bool)
	var roles []string
	for _, part := range strings.Split(expr, "|") {
		name := strings.TrimSpace(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		roles = append(roles, name)
	}
	return roles
}

func (c *DefaultRoleChecker) HasAnyRoleCtx(ctx context.Context, userRoles []string, requiredRoles []string) (bool, error) {
	return c.HasAnyRole(userRoles, requiredRoles), nil
}

func (c *DefaultRoleChecker) HasAnyRole(userRoles []string, requiredRoles []string) bool {
	for _, userRole := range userRoles {
		for _, requiredRole := range requiredRoles {
			if userRole == requiredRole {
				return true
			}
		}
	}
	return false
}

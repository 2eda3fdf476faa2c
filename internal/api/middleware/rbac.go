package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/core/domain"
)

// RequireAdmin admits only users whose stored role is admin. It must run after
// Authenticate; the token's role claim is never consulted.
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(domain.RoleAdmin)
}

// RequireRole enforces role-based access control against the current user record.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized").SetInternal(domain.ErrUnauthenticated)
			}
			if _, ok := allowed[user.Role]; !ok {
				metrics.GuardRejectionsTotal.WithLabelValues("role_denied").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "not authorized as an admin").SetInternal(domain.ErrForbidden)
			}
			return next(c)
		}
	}
}

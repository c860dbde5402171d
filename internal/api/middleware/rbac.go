package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
)

// RBAC enforces role-based access control. It must be registered after Auth:
// it has no authentication capability of its own and rejects requests that
// carry no resolved identity. An empty role list means no restriction.
func RBAC(requiredRoles ...string) echo.MiddlewareFunc {
	required := make(map[string]struct{}, len(requiredRoles))
	for _, r := range requiredRoles {
		required[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(required) == 0 {
				return next(c)
			}

			claims, ok := c.Get(IdentityKey).(domain.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
			}
			if _, ok := required[claims.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
			}

			return next(c)
		}
	}
}

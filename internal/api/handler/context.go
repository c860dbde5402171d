package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/api/middleware"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
)

// ctxIdentity extracts the claims injected by the Auth middleware and
// performs a fast-fail check before any service call: the identity must
// be complete (presence proves the middleware ran and verified the token).
func ctxIdentity(c echo.Context) (domain.Claims, error) {
	claims, ok := c.Get(middleware.IdentityKey).(domain.Claims)
	if !ok || !claims.Complete() {
		return domain.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

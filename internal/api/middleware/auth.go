package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/api/metrics"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
)

// AccessCookie is the cookie carrying the access token. Clients depend on
// this name; it is a compatibility surface.
const AccessCookie = "jwt"

// RefreshCookie is the cookie carrying the refresh token.
const RefreshCookie = "refreshToken"

// IdentityKey is the echo context key under which the verified claim-set is
// stored.
const IdentityKey = "identity"

// publicPaths bypass the guard unconditionally.
var publicPaths = map[string]struct{}{
	"/":            {},
	"/favicon.ico": {},
}

// Auth validates the access token from the jwt cookie and injects the
// resolved claims into the request context. A missing cookie and a failed
// verification both surface as 401, but are counted separately.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := publicPaths[c.Request().URL.Path]; ok {
				return next(c)
			}

			cookie, err := c.Cookie(AccessCookie)
			if err != nil || cookie.Value == "" {
				metrics.AuthRejectionsTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthorized.Error())
			}

			claims, err := tokens.VerifyAccess(cookie.Value)
			if err != nil {
				metrics.AuthRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrInvalidToken.Error())
			}

			c.Set(IdentityKey, claims)
			c.Set("user_id", claims.Sub)
			c.Set("username", claims.Username)
			c.Set("role", claims.Role)

			return next(c)
		}
	}
}

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/service"
)

func testTokens() *service.JWTTokenService {
	return service.NewJWTTokenService("access-secret", "refresh-secret", "15m", "7d", zerolog.Nop())
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func runAuth(t *testing.T, cookie *http.Cookie) (echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := Auth(testTokens())(okHandler)(c)
	return c, err
}

func TestAuth_ValidToken(t *testing.T) {
	tokens := testTokens()
	token, err := tokens.IssueAccess(domain.Claims{
		Sub:      "user_1",
		Email:    "alice@example.com",
		Username: "alice",
		Role:     domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("IssueAccess failed: %v", err)
	}

	c, err := runAuth(t, &http.Cookie{Name: AccessCookie, Value: token})
	if err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}

	claims, ok := c.Get(IdentityKey).(domain.Claims)
	if !ok {
		t.Fatalf("identity not set in context")
	}
	if claims.Sub != "user_1" || claims.Role != domain.RoleUser {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if c.Get("user_id") != "user_1" || c.Get("username") != "alice" {
		t.Fatalf("convenience keys not set")
	}
}

func TestAuth_MissingCookie(t *testing.T) {
	_, err := runAuth(t, nil)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if he.Message != domain.ErrUnauthorized.Error() {
		t.Fatalf("expected unauthorized message, got %v", he.Message)
	}
}

func TestAuth_EmptyCookie(t *testing.T) {
	_, err := runAuth(t, &http.Cookie{Name: AccessCookie, Value: ""})

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	_, err := runAuth(t, &http.Cookie{Name: AccessCookie, Value: "garbage"})

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if he.Message != domain.ErrInvalidToken.Error() {
		t.Fatalf("expected invalid token message, got %v", he.Message)
	}
}

func TestAuth_RefreshTokenRejected(t *testing.T) {
	tokens := testTokens()
	refresh, err := tokens.IssueRefresh(domain.Claims{
		Sub:      "user_1",
		Email:    "alice@example.com",
		Username: "alice",
		Role:     domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("IssueRefresh failed: %v", err)
	}

	_, err = runAuth(t, &http.Cookie{Name: AccessCookie, Value: refresh})

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
}

func TestAuth_PublicPathBypass(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Auth(testTokens())(okHandler)(c); err != nil {
		t.Fatalf("public path rejected: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

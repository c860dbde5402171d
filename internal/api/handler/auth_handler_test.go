package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/api/middleware"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
)

type stubSessionService struct {
	registerFn  func(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error)
	loginFn     func(ctx context.Context, identifier, password string) (*ports.AuthResult, error)
	refreshFn   func(ctx context.Context, refreshToken string) (*ports.AuthResult, error)
	authorizeFn func(ctx context.Context, accessToken string) (domain.Claims, error)
}

func (s *stubSessionService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, input)
}

func (s *stubSessionService) Login(ctx context.Context, identifier, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, identifier, password)
}

func (s *stubSessionService) Refresh(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubSessionService) Authorize(ctx context.Context, accessToken string) (domain.Claims, error) {
	return s.authorizeFn(ctx, accessToken)
}

func testAuthResult() *ports.AuthResult {
	return &ports.AuthResult{
		Tokens: ports.TokenPair{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			ExpiresIn:    900,
		},
		User: &domain.User{ID: "user_1", Username: "alice", Role: domain.RoleUser},
	}
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder, *http.Request) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec, req
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubSessionService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
			if input.Username != "alice" || input.Email != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return testAuthResult(), nil
		},
	}
	h := NewAuthHandler(stub, false)

	body := `{"email":"alice@example.com","username":"alice","password":"Sup3rSecret",` +
		`"confirmPassword":"Sup3rSecret","firstName":"Alice","lastName":"Doe","birthDate":"1999-04-12"}`
	c, rec, _ := newTestContext(t, http.MethodPost, "/auth/register", body)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "access-token" {
		t.Fatalf("expected token in body, got %v", resp["token"])
	}

	access := findCookie(rec, middleware.AccessCookie)
	if access == nil || access.Value != "access-token" {
		t.Fatalf("access cookie missing or wrong: %+v", access)
	}
	if !access.HttpOnly || access.MaxAge != 900 {
		t.Fatalf("unexpected access cookie attributes: %+v", access)
	}
	if access.Secure || access.SameSite != http.SameSiteLaxMode {
		t.Fatalf("development cookies must be Lax and not Secure: %+v", access)
	}

	refresh := findCookie(rec, middleware.RefreshCookie)
	if refresh == nil || refresh.Value != "refresh-token" {
		t.Fatalf("refresh cookie missing or wrong: %+v", refresh)
	}
	if refresh.MaxAge != refreshCookieMaxAge {
		t.Fatalf("refresh cookie MaxAge = %d, want %d", refresh.MaxAge, refreshCookieMaxAge)
	}
}

func TestAuthHandler_Login_ProductionCookies(t *testing.T) {
	stub := &stubSessionService{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return testAuthResult(), nil
		},
	}
	h := NewAuthHandler(stub, true)

	c, rec, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"identifier":"alice","password":"Sup3rSecret"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	access := findCookie(rec, middleware.AccessCookie)
	if access == nil || !access.Secure || access.SameSite != http.SameSiteNoneMode {
		t.Fatalf("production cookies must be Secure with SameSite=None: %+v", access)
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	stub := &stubSessionService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, _, _ := newTestContext(t, http.MethodPost, "/auth/register", `{"email":"not-an-email"}`)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Register_DomainErrorPassthrough(t *testing.T) {
	stub := &stubSessionService{
		registerFn: func(context.Context, ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrEmailExists
		},
	}
	h := NewAuthHandler(stub, false)

	body := `{"email":"alice@example.com","username":"alice","password":"Sup3rSecret",` +
		`"confirmPassword":"Sup3rSecret","firstName":"Alice","lastName":"Doe","birthDate":"1999-04-12"}`
	c, _, _ := newTestContext(t, http.MethodPost, "/auth/register", body)

	if err := h.Register(c); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists to pass through, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubSessionService{
		loginFn: func(_ context.Context, identifier, password string) (*ports.AuthResult, error) {
			if identifier != "alice" || password != "Sup3rSecret" {
				t.Fatalf("unexpected args: %s %s", identifier, password)
			}
			return testAuthResult(), nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"identifier":"alice","password":"Sup3rSecret"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if findCookie(rec, middleware.AccessCookie) == nil || findCookie(rec, middleware.RefreshCookie) == nil {
		t.Fatalf("session cookies not set")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubSessionService{
		loginFn: func(context.Context, string, string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, false)

	c, _, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"identifier":"alice","password":"bad"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	stub := &stubSessionService{
		refreshFn: func(_ context.Context, refreshToken string) (*ports.AuthResult, error) {
			if refreshToken != "old-refresh" {
				t.Fatalf("unexpected refresh token: %s", refreshToken)
			}
			return testAuthResult(), nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec, req := newTestContext(t, http.MethodPost, "/auth/refresh", "")
	req.AddCookie(&http.Cookie{Name: middleware.RefreshCookie, Value: "old-refresh"})

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	refresh := findCookie(rec, middleware.RefreshCookie)
	if refresh == nil || refresh.Value != "refresh-token" {
		t.Fatalf("refresh cookie not rotated: %+v", refresh)
	}
}

func TestAuthHandler_Refresh_MissingCookie(t *testing.T) {
	stub := &stubSessionService{
		refreshFn: func(_ context.Context, refreshToken string) (*ports.AuthResult, error) {
			if refreshToken != "" {
				t.Fatalf("expected empty token, got %s", refreshToken)
			}
			return nil, domain.ErrMissingRefreshToken
		},
	}
	h := NewAuthHandler(stub, false)

	c, _, _ := newTestContext(t, http.MethodPost, "/auth/refresh", "")

	if err := h.Refresh(c); !errors.Is(err, domain.ErrMissingRefreshToken) {
		t.Fatalf("expected ErrMissingRefreshToken, got %v", err)
	}
}

func TestAuthHandler_Authorize(t *testing.T) {
	stub := &stubSessionService{
		authorizeFn: func(_ context.Context, accessToken string) (domain.Claims, error) {
			if accessToken != "the-access-token" {
				t.Fatalf("unexpected access token: %s", accessToken)
			}
			return domain.Claims{Sub: "user_1", Email: "a@e.com", Username: "alice", Role: domain.RoleUser}, nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, rec, req := newTestContext(t, http.MethodGet, "/auth/authorize", "")
	req.AddCookie(&http.Cookie{Name: middleware.AccessCookie, Value: "the-access-token"})

	if err := h.Authorize(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["valid"] != true {
		t.Fatalf("expected valid=true, got %v", resp["valid"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["username"] != "alice" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestAuthHandler_Authorize_MissingCookie(t *testing.T) {
	stub := &stubSessionService{
		authorizeFn: func(context.Context, string) (domain.Claims, error) {
			t.Fatalf("service must not be called")
			return domain.Claims{}, nil
		},
	}
	h := NewAuthHandler(stub, false)

	c, _, _ := newTestContext(t, http.MethodGet, "/auth/authorize", "")

	if err := h.Authorize(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthHandler_Logout_ClearsCookies(t *testing.T) {
	h := NewAuthHandler(&stubSessionService{}, false)

	c, rec, _ := newTestContext(t, http.MethodPost, "/auth/logout", "")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	for _, name := range []string{middleware.AccessCookie, middleware.RefreshCookie} {
		cookie := findCookie(rec, name)
		if cookie == nil {
			t.Fatalf("cookie %s not cleared", name)
		}
		if cookie.Value != "" || cookie.MaxAge >= 0 {
			t.Fatalf("cookie %s not expired: %+v", name, cookie)
		}
	}
}

package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/api/metrics"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/api/middleware"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
)

// refreshCookieMaxAge keeps the refresh cookie alive as long as the refresh
// token itself (7 days).
const refreshCookieMaxAge = 7 * 24 * 60 * 60

type AuthHandler struct {
	sessions   ports.SessionService
	production bool
}

func NewAuthHandler(sessions ports.SessionService, production bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, production: production}
}

type registerRequest struct {
	Email           string `form:"email" json:"email" validate:"required,email"`
	Username        string `form:"username" json:"username" validate:"required,min=3,max=30"`
	Password        string `form:"password" json:"password" validate:"required"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword" validate:"required"`
	FirstName       string `form:"firstName" json:"firstName" validate:"required,max=50"`
	LastName        string `form:"lastName" json:"lastName" validate:"required,max=50"`
	BirthDate       string `form:"birthDate" json:"birthDate" validate:"required,datetime=2006-01-02"`
	Bio             string `form:"bio" json:"bio" validate:"max=500"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type authResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"`
	User      *domain.User `json:"user"`
}

type authorizeResponse struct {
	Valid bool          `json:"valid"`
	User  domain.Claims `json:"user"`
}

// Register creates a new account. The body may be JSON or multipart form
// data; the optional profileImage file is only read from multipart requests.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       mpfd
// @Produce      json
// @Param        email     formData  string  true   "Email address"
// @Param        username  formData  string  true   "Unique username"
// @Param        password  formData  string  true   "Password"
// @Param        confirmPassword  formData  string  true  "Password confirmation"
// @Param        firstName formData  string  true   "First name"
// @Param        lastName  formData  string  true   "Last name"
// @Param        birthDate formData  string  true   "Birth date (YYYY-MM-DD)"
// @Param        bio       formData  string  false  "Short biography"
// @Param        profileImage  formData  file  false  "Profile image"
// @Success      201  {object}  authResponse
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	image, err := formImage(c, "profileImage")
	if err != nil {
		return err
	}

	result, err := h.sessions.Register(c.Request().Context(), ports.RegisterInput{
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		BirthDate:       req.BirthDate,
		Bio:             req.Bio,
		ProfileImage:    image,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()

	h.setSessionCookies(c, result.Tokens)
	return c.JSON(http.StatusCreated, authResponse{
		Token:     result.Tokens.AccessToken,
		ExpiresIn: result.Tokens.ExpiresIn,
		User:      result.User,
	})
}

// Login authenticates by email or username and sets the session cookies.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.sessions.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	h.setSessionCookies(c, result.Tokens)
	return c.JSON(http.StatusOK, authResponse{
		Token:     result.Tokens.AccessToken,
		ExpiresIn: result.Tokens.ExpiresIn,
		User:      result.User,
	})
}

// Refresh rotates both tokens from the refresh cookie.
//
// @Summary      Refresh the session tokens
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var refreshToken string
	if cookie, err := c.Cookie(middleware.RefreshCookie); err == nil {
		refreshToken = cookie.Value
	}

	result, err := h.sessions.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		metrics.TokenRefreshesTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()

	h.setSessionCookies(c, result.Tokens)
	return c.JSON(http.StatusOK, authResponse{
		Token:     result.Tokens.AccessToken,
		ExpiresIn: result.Tokens.ExpiresIn,
		User:      result.User,
	})
}

// Authorize re-validates the current access token against live user state.
//
// @Summary      Check the current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  authorizeResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/authorize [get]
func (h *AuthHandler) Authorize(c echo.Context) error {
	var accessToken string
	if cookie, err := c.Cookie(middleware.AccessCookie); err == nil {
		accessToken = cookie.Value
	}
	if accessToken == "" {
		return domain.ErrUnauthorized
	}

	claims, err := h.sessions.Authorize(c.Request().Context(), accessToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authorizeResponse{Valid: true, User: claims})
}

// Logout clears both session cookies. Tokens stay stateless, so there is no
// server-side revocation.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.sessionCookie(middleware.AccessCookie, "", -1))
	c.SetCookie(h.sessionCookie(middleware.RefreshCookie, "", -1))
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) setSessionCookies(c echo.Context, tokens ports.TokenPair) {
	c.SetCookie(h.sessionCookie(middleware.AccessCookie, tokens.AccessToken, tokens.ExpiresIn))
	c.SetCookie(h.sessionCookie(middleware.RefreshCookie, tokens.RefreshToken, refreshCookieMaxAge))
}

// sessionCookie builds an httpOnly cookie. Production requires Secure with
// SameSite=None so the SPA can run on a different origin; elsewhere Lax keeps
// local development over plain HTTP working.
func (h *AuthHandler) sessionCookie(name, value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if h.production {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.production,
		SameSite: sameSite,
	}
}

// loginResult maps a login error onto its metric label.
func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserDisabled):
		return "disabled"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "rate_limited"
	default:
		return "invalid_credentials"
	}
}

// formImage reads an optional multipart file field into memory.
func formImage(c echo.Context, field string) (*ports.ImageUpload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// Absent file or non-multipart request: the image is optional.
		return nil, nil
	}

	src, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable uploaded file")
	}

	return &ports.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Data:        data,
	}, nil
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	return rec.Code, body["error"]
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrUserDisabled, http.StatusUnauthorized},
		{domain.ErrInvalidToken, http.StatusUnauthorized},
		{domain.ErrMissingRefreshToken, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrPostNotFound, http.StatusNotFound},
		{domain.ErrCommentNotFound, http.StatusNotFound},
		{domain.ErrEmailExists, http.StatusConflict},
		{domain.ErrUsernameExists, http.StatusConflict},
		{domain.ErrAlreadyLiked, http.StatusConflict},
		{domain.ErrNotLiked, http.StatusBadRequest},
		{domain.ErrPasswordMismatch, http.StatusBadRequest},
		{domain.ErrWeakPassword, http.StatusBadRequest},
		{domain.ErrInvalidDate, http.StatusBadRequest},
		{domain.ErrFutureBirthDate, http.StatusBadRequest},
		{domain.ErrInvalidAge, http.StatusBadRequest},
		{domain.ErrInvalidFileType, http.StatusBadRequest},
		{domain.ErrFileTooLarge, http.StatusBadRequest},
	}
	for _, tc := range cases {
		code, msg := renderError(t, tc.err)
		if code != tc.code {
			t.Errorf("%v rendered %d, want %d", tc.err, code, tc.code)
		}
		if msg == "" {
			t.Errorf("%v rendered an empty message", tc.err)
		}
	}
}

func TestHTTPErrorHandler_EchoError(t *testing.T) {
	code, msg := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "bad input"))
	if code != http.StatusBadRequest || msg != "bad input" {
		t.Fatalf("got %d %q", code, msg)
	}
}

func TestHTTPErrorHandler_UnknownError(t *testing.T) {
	code, msg := renderError(t, errors.New("database exploded"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	// The real cause never reaches the client.
	if msg != "internal server error" {
		t.Fatalf("internal detail leaked: %q", msg)
	}
}

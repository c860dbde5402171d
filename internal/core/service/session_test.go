package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailExists
		}
		if u.Username == user.Username {
			return nil, domain.ErrUsernameExists
		}
	}
	copy := cloneUser(user)
	r.nextID++
	copy.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmailOrUsername(ctx context.Context, identifier string) (*domain.User, error) {
	if u, err := r.FindByEmail(ctx, strings.ToLower(identifier)); err == nil {
		return u, nil
	}
	return r.FindByUsername(ctx, identifier)
}

func (r *stubUserRepo) List(_ context.Context, _, _ int) ([]*domain.User, int64, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, fields map[string]any) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if bio, ok := fields["bio"].(string); ok {
		u.Bio = bio
	}
	if firstName, ok := fields["first_name"].(string); ok {
		u.FirstName = firstName
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func (r *stubUserRepo) IncPostsCount(_ context.Context, id string, delta int) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PostsCount += int64(delta)
	return nil
}

type stubLimiter struct {
	allowed  bool
	failures int
	resets   int
}

func (l *stubLimiter) Allow(context.Context, string) (bool, error) { return l.allowed, nil }
func (l *stubLimiter) RecordFailure(context.Context, string) error {
	l.failures++
	return nil
}
func (l *stubLimiter) Reset(context.Context, string) error {
	l.resets++
	return nil
}

func adultBirthDate() string {
	return time.Now().UTC().AddDate(-25, 0, 0).Format("2006-01-02")
}

func validRegisterInput() ports.RegisterInput {
	return ports.RegisterInput{
		Email:           "Alice@Example.com",
		Username:        "alice",
		Password:        "Sup3rSecret",
		ConfirmPassword: "Sup3rSecret",
		FirstName:       "Alice",
		LastName:        "Doe",
		BirthDate:       adultBirthDate(),
	}
}

func newSessionService(repo ports.UserRepository, limiter ports.LoginRateLimiter) *SessionService {
	tokens := NewJWTTokenService("access-secret", "refresh-secret", "15m", "7d", zerolog.Nop())
	return NewSessionService(repo, NewBcryptHasher(), tokens, nil, limiter, zerolog.Nop())
}

func TestSessionService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newSessionService(repo, nil)

	result, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", result.Tokens)
	}
	if result.Tokens.ExpiresIn != 900 {
		t.Fatalf("expected 900s expiry, got %d", result.Tokens.ExpiresIn)
	}
	if result.User.Email != "alice@example.com" {
		t.Fatalf("email not lowercased: %s", result.User.Email)
	}
	if result.User.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", result.User.Role)
	}
	if !result.User.IsActive || result.User.IsVerified {
		t.Fatalf("unexpected account flags: active=%v verified=%v", result.User.IsActive, result.User.IsVerified)
	}
	if result.User.PasswordHash == "Sup3rSecret" {
		t.Fatalf("expected password to be hashed")
	}
}

func TestSessionService_Register_ValidationOrder(t *testing.T) {
	repo := newStubUserRepo()
	svc := newSessionService(repo, nil)

	// Mismatch is reported before strength even when both apply.
	input := validRegisterInput()
	input.Password = "weak"
	input.ConfirmPassword = "different"
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}

	input = validRegisterInput()
	input.Password = "weak"
	input.ConfirmPassword = "weak"
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	input = validRegisterInput()
	input.BirthDate = "not-a-date"
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	input = validRegisterInput()
	input.BirthDate = time.Now().UTC().AddDate(1, 0, 0).Format("2006-01-02")
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrFutureBirthDate) {
		t.Fatalf("expected ErrFutureBirthDate, got %v", err)
	}

	input = validRegisterInput()
	input.BirthDate = time.Now().UTC().AddDate(-12, 0, 0).Format("2006-01-02")
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrInvalidAge) {
		t.Fatalf("expected ErrInvalidAge, got %v", err)
	}

	if len(repo.users) != 0 {
		t.Fatalf("validation failures must not persist users, have %d", len(repo.users))
	}
}

func TestSessionService_Register_Duplicates(t *testing.T) {
	repo := newStubUserRepo()
	svc := newSessionService(repo, nil)

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	input := validRegisterInput()
	input.Username = "someone-else"
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	input = validRegisterInput()
	input.Email = "other@example.com"
	if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestSessionService_Login_ByEmailAndUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := newSessionService(repo, nil)

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Email lookup is case-insensitive.
	if _, err := svc.Login(context.Background(), "ALICE@example.com", "Sup3rSecret"); err != nil {
		t.Fatalf("login by email failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice", "Sup3rSecret"); err != nil {
		t.Fatalf("login by username failed: %v", err)
	}
}

func TestSessionService_Login_Failures(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{allowed: true}
	svc := newSessionService(repo, limiter)

	result, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), "ghost", "Sup3rSecret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice", "WrongPass1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if limiter.failures != 2 {
		t.Fatalf("expected 2 recorded failures, got %d", limiter.failures)
	}

	// A disabled account is reported before the password is checked.
	if err := repo.SetActive(context.Background(), result.User.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice", "WrongPass1"); !errors.Is(err, domain.ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestSessionService_Login_RateLimited(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{allowed: false}
	svc := newSessionService(repo, limiter)

	if _, err := svc.Login(context.Background(), "alice", "Sup3rSecret"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestSessionService_Login_ResetsLimiter(t *testing.T) {
	repo := newStubUserRepo()
	limiter := &stubLimiter{allowed: true}
	svc := newSessionService(repo, limiter)

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice", "Sup3rSecret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if limiter.resets != 1 {
		t.Fatalf("expected limiter reset after success, got %d", limiter.resets)
	}
}

func TestSessionService_Refresh(t *testing.T) {
	repo := newStubUserRepo()
	svc := newSessionService(repo, nil)

	result, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), result.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if refreshed.Tokens.AccessToken == "" || refreshed.Tokens.RefreshToken == "" {
		t.Fatalf("expected a rotated token pair")
	}

	// Role changes between refreshes are picked up from the live record.
	repo.users[result.User.ID].Role = domain.RoleAdmin
	refreshed, err = svc.Refresh(context.Background(), result.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if refreshed.User.Role != domain.RoleAdmin {
		t.Fatalf("expected live role, got %s", refreshed.User.Role)
	}
}

func TestSessionService_Refresh_Failures(t *testing.T) {
	repo := newStubUserRepo()
	svc := newSessionService(repo, nil)

	if _, err := svc.Refresh(context.Background(), ""); !errors.Is(err, domain.ErrMissingRefreshToken) {
		t.Fatalf("expected ErrMissingRefreshToken, got %v", err)
	}
	if _, err := svc.Refresh(context.Background(), "garbage"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	result, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// An access token must not pass refresh verification.
	if _, err := svc.Refresh(context.Background(), result.Tokens.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for access token, got %v", err)
	}

	if err := repo.SetActive(context.Background(), result.User.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), result.Tokens.RefreshToken); !errors.Is(err, domain.ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}

	delete(repo.users, result.User.ID)
	if _, err := svc.Refresh(context.Background(), result.Tokens.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for deleted user, got %v", err)
	}
}

func TestSessionService_Authorize(t *testing.T) {
	repo := newStubUserRepo()
	svc := newSessionService(repo, nil)

	result, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	claims, err := svc.Authorize(context.Background(), result.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("Authorize returned error: %v", err)
	}
	if claims.Sub != result.User.ID || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if err := repo.SetActive(context.Background(), result.User.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	if _, err := svc.Authorize(context.Background(), result.Tokens.AccessToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for disabled account, got %v", err)
	}

	// A deleted subject must be indistinguishable from a disabled one.
	delete(repo.users, result.User.ID)
	if _, err := svc.Authorize(context.Background(), result.Tokens.AccessToken); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for deleted account, got %v", err)
	}

	if _, err := svc.Authorize(context.Background(), "garbage"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

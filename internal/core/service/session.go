package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
)

const minRegistrationAge = 13

// SessionService implements the five session flows: register, login,
// refresh, authorize and (implicitly, at the transport layer) logout.
type SessionService struct {
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenService
	images  ports.ImageStore       // optional; nil disables profile images
	limiter ports.LoginRateLimiter // optional; nil disables throttling
	log     zerolog.Logger
}

func NewSessionService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	images ports.ImageStore,
	limiter ports.LoginRateLimiter,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		images:  images,
		limiter: limiter,
		log:     log,
	}
}

// Register validates the registration input, persists the new account and
// issues a token pair. All validation happens before any store mutation; the
// email/username uniqueness pre-check is an early exit only; the unique
// indexes on the collection are the correctness mechanism.
func (s *SessionService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	if input.Password != input.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}
	if !s.hasher.MeetsStrengthPolicy(input.Password) {
		return nil, domain.ErrWeakPassword
	}

	birthDate, err := validateBirthDate(input.BirthDate)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrUsernameExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	var imageURL, imagePublicID string
	if input.ProfileImage != nil && s.images != nil {
		uploaded, err := s.images.Upload(ctx, *input.ProfileImage)
		if err != nil {
			return nil, err
		}
		imageURL = uploaded.URL
		imagePublicID = uploaded.PublicID
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:                email,
		Username:             input.Username,
		PasswordHash:         hash,
		FirstName:            input.FirstName,
		LastName:             input.LastName,
		BirthDate:            birthDate,
		Bio:                  input.Bio,
		ProfileImage:         imageURL,
		ProfileImagePublicID: imagePublicID,
		Role:                 domain.RoleUser,
		MartialArts:          []domain.MartialArtInfo{},
		IsActive:             true,
		IsVerified:           false,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")

	return s.authResult(created)
}

// Login resolves the user by email or username, checks the account state and
// the password, and issues a fresh token pair.
func (s *SessionService) Login(ctx context.Context, identifier, password string) (*ports.AuthResult, error) {
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, identifier)
		if err != nil {
			s.log.Warn().Err(err).Msg("rate limiter unavailable, allowing attempt")
		} else if !allowed {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByEmailOrUsername(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.recordFailure(ctx, identifier)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserDisabled
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordFailure(ctx, identifier)
		return nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, identifier); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login attempts")
		}
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")

	return s.authResult(user)
}

// Refresh verifies the refresh token and rotates both tokens. The claim-set
// is rebuilt from the live user record rather than carried forward, so role
// changes take effect and disabled accounts stop being refreshable.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.ErrMissingRefreshToken
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.Sub)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserDisabled
	}

	return s.authResult(user)
}

// Authorize validates an access token and confirms the subject still exists
// and is active. It returns the live claim-set for introspection.
func (s *SessionService) Authorize(ctx context.Context, accessToken string) (domain.Claims, error) {
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return domain.Claims{}, err
	}

	user, err := s.users.FindByID(ctx, claims.Sub)
	if err != nil {
		// A deleted subject answers like any other rejected session so
		// introspection cannot reveal whether the account ever existed.
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.Claims{}, domain.ErrUnauthorized
		}
		return domain.Claims{}, err
	}
	if !user.IsActive {
		return domain.Claims{}, domain.ErrUnauthorized
	}

	return domain.Claims{
		Sub:       user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Role:      user.Role,
		IssuedAt:  claims.IssuedAt,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

func (s *SessionService) authResult(user *domain.User) (*ports.AuthResult, error) {
	claims := domain.Claims{
		Sub:      user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
	}

	access, err := s.tokens.IssueAccess(claims)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(claims)
	if err != nil {
		return nil, err
	}

	return &ports.AuthResult{
		Tokens: ports.TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    s.tokens.ExpirationSeconds(),
		},
		User: user,
	}, nil
}

func (s *SessionService) recordFailure(ctx context.Context, identifier string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, identifier); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login attempt")
	}
}

// validateBirthDate parses the YYYY-MM-DD birth date and enforces that it is
// a real past date belonging to someone at least 13 years old.
func validateBirthDate(raw string) (time.Time, error) {
	birthDate, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	now := time.Now().UTC()
	if birthDate.After(now) {
		return time.Time{}, domain.ErrFutureBirthDate
	}
	if domain.AgeAt(birthDate, now) < minRegistrationAge {
		return time.Time{}, domain.ErrInvalidAge
	}
	return birthDate, nil
}

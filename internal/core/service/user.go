package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// UserService implements profile reads/updates and the admin account
// operations.
type UserService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	images ports.ImageStore // optional
	log    zerolog.Logger
}

func NewUserService(users ports.UserRepository, hasher ports.PasswordHasher, images ports.ImageStore, log zerolog.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, images: images, log: log}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile applies the provided fields to the user document. A new
// profile image replaces the previous one, which is removed from the image
// store best-effort.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input ports.UpdateProfileInput) (*domain.User, error) {
	current, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	setIfPresent(fields, "first_name", input.FirstName)
	setIfPresent(fields, "last_name", input.LastName)
	setIfPresent(fields, "bio", input.Bio)
	setIfPresent(fields, "principal_martial_art", input.PrincipalMartialArt)
	setIfPresent(fields, "principal_martial_level", input.PrincipalMartialLevel)
	setIfPresent(fields, "principal_belt_level", input.PrincipalBeltLevel)
	setIfPresent(fields, "fighter_level", input.FighterLevel)
	if input.MartialArts != nil {
		fields["martial_arts"] = input.MartialArts
	}
	if input.SocialLinks != nil {
		fields["social_links"] = *input.SocialLinks
	}

	if input.ProfileImage != nil && s.images != nil {
		uploaded, err := s.images.Upload(ctx, *input.ProfileImage)
		if err != nil {
			return nil, err
		}
		fields["profile_image"] = uploaded.URL
		fields["profile_image_public_id"] = uploaded.PublicID

		if current.ProfileImagePublicID != "" {
			if err := s.images.Delete(ctx, current.ProfileImagePublicID); err != nil {
				s.log.Warn().Err(err).Str("public_id", current.ProfileImagePublicID).Msg("failed to delete replaced profile image")
			}
		}
	}

	if len(fields) == 0 {
		return current, nil
	}

	updated, err := s.users.Update(ctx, userID, fields)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Msg("profile updated")
	return updated, nil
}

// CreateUser creates an account on behalf of an admin. The same password and
// birth-date rules as self-registration apply; uniqueness is enforced by the
// store's unique indexes.
func (s *UserService) CreateUser(ctx context.Context, input ports.AdminCreateUserInput) (*domain.User, error) {
	if !domain.ValidRole(input.Role) {
		return nil, domain.ErrInvalidRole
	}
	if !s.hasher.MeetsStrengthPolicy(input.Password) {
		return nil, domain.ErrWeakPassword
	}
	birthDate, err := validateBirthDate(input.BirthDate)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Username:     input.Username,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		BirthDate:    birthDate,
		Role:         input.Role,
		MartialArts:  []domain.MartialArtInfo{},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user created by admin")
	return created, nil
}

func (s *UserService) ListUsers(ctx context.Context, page, limit int) (*ports.UserPage, error) {
	page, limit = normalizePage(page, limit)

	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &ports.UserPage{Users: users, Total: total, Page: page, Limit: limit}, nil
}

// DisableUser soft-disables the account. Outstanding access tokens keep
// working until they expire; refresh and authorize reject the subject from
// this point on.
func (s *UserService) DisableUser(ctx context.Context, userID string) error {
	if err := s.users.SetActive(ctx, userID, false); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Msg("user disabled")
	return nil
}

func (s *UserService) EnableUser(ctx context.Context, userID string) error {
	if err := s.users.SetActive(ctx, userID, true); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Msg("user enabled")
	return nil
}

func setIfPresent(fields map[string]any, key string, value *string) {
	if value != nil {
		fields[key] = *value
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

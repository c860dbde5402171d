package ports

import (
	"context"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
)

// UpdateProfileInput carries the mutable profile fields. Nil pointers mean
// "leave unchanged".
type UpdateProfileInput struct {
	FirstName             *string
	LastName              *string
	Bio                   *string
	PrincipalMartialArt   *string
	PrincipalMartialLevel *string
	PrincipalBeltLevel    *string
	FighterLevel          *string
	MartialArts           []domain.MartialArtInfo
	SocialLinks           *domain.SocialLinks
	ProfileImage          *ImageUpload
}

// AdminCreateUserInput carries the fields for an admin-created account. Unlike
// self-registration it sets the role explicitly and skips the confirm-password
// round trip.
type AdminCreateUserInput struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
	BirthDate string
	Role      string
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Users []*domain.User
	Total int64
	Page  int
	Limit int
}

// UserService covers profile reads/updates and the admin account operations.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error)
	// CreateUser is admin-only account creation with an explicit role.
	CreateUser(ctx context.Context, input AdminCreateUserInput) (*domain.User, error)
	// ListUsers is admin-only; pagination is 1-based.
	ListUsers(ctx context.Context, page, limit int) (*UserPage, error)
	// DisableUser soft-disables an account; existing tokens keep working
	// until expiry but refresh and authorize reject the subject.
	DisableUser(ctx context.Context, userID string) error
	EnableUser(ctx context.Context, userID string) error
}

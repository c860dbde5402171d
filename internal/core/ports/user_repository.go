package ports

import (
	"context"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
// Uniqueness of email and username is enforced by the store itself (unique
// indexes); Create surfaces violations as ErrEmailExists / ErrUsernameExists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByEmailOrUsername matches the identifier against the lowercased
	// email or the exact username.
	FindByEmailOrUsername(ctx context.Context, identifier string) (*domain.User, error)
	// List returns a page of users sorted by creation date descending, plus
	// the total count of active accounts.
	List(ctx context.Context, page, limit int) ([]*domain.User, int64, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.User, error)
	// SetActive flips the account-active flag (soft disable / re-enable).
	SetActive(ctx context.Context, id string, active bool) error
	// IncPostsCount atomically adjusts the denormalized posts counter.
	IncPostsCount(ctx context.Context, id string, delta int) error
}

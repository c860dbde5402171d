package ports

import (
	"context"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// Feed returns a page of active posts sorted by creation date descending,
	// plus the total count.
	Feed(ctx context.Context, page, limit int) ([]*domain.Post, int64, error)
	// SoftDelete marks the post inactive without removing the document.
	SoftDelete(ctx context.Context, id string) error
	// IncCounter atomically adjusts one of the denormalized counters
	// (likes_count, comments_count, reposts_count).
	IncCounter(ctx context.Context, id, counter string, delta int) error
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID string, page, limit int) ([]*domain.Comment, int64, error)
	Update(ctx context.Context, id, content string) (*domain.Comment, error)
	SoftDelete(ctx context.Context, id string) error
}

// LikeRepository defines persistence operations for likes. The store enforces
// a unique (user_id, post_id) pair; Create surfaces violations as
// ErrAlreadyLiked.
type LikeRepository interface {
	Create(ctx context.Context, like *domain.Like) error
	// Delete removes the like and reports ErrNotLiked when absent.
	Delete(ctx context.Context, userID, postID string) error
	Exists(ctx context.Context, userID, postID string) (bool, error)
}

package ports

import (
	"context"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
)

// CreatePostInput carries the fields for a new publication.
type CreatePostInput struct {
	AuthorID string
	Title    string
	Content  string
	Image    *ImageUpload // optional
}

// PostPage is one page of the feed.
type PostPage struct {
	Posts []*domain.Post
	Total int64
	Page  int
	Limit int
}

// CommentPage is one page of a post's comments.
type CommentPage struct {
	Comments []*domain.Comment
	Total    int64
	Page     int
	Limit    int
}

// PostService covers publications, comments and likes.
type PostService interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*domain.Post, error)
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	Feed(ctx context.Context, page, limit int) (*PostPage, error)
	// DeletePost soft-deletes; only the author or an admin may delete.
	DeletePost(ctx context.Context, id, actorID, actorRole string) error

	CreateComment(ctx context.Context, postID, authorID, content string) (*domain.Comment, error)
	ListComments(ctx context.Context, postID string, page, limit int) (*CommentPage, error)
	// UpdateComment is restricted to the comment author.
	UpdateComment(ctx context.Context, commentID, actorID, content string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, commentID, actorID, actorRole string) error

	LikePost(ctx context.Context, postID, userID string) error
	UnlikePost(ctx context.Context, postID, userID string) error
}

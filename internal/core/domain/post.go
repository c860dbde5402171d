package domain

import "time"

// PostType discriminates the content of a publication.
type PostType string

const (
	PostTypeText  PostType = "text"
	PostTypeImage PostType = "image"
)

// Post is a publication on the feed. Counters are maintained by the
// persistence layer with atomic increments.
type Post struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Image         string    `json:"image,omitempty"`
	ImagePublicID string    `json:"-"`
	Type          PostType  `json:"type"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	RepostsCount  int64     `json:"reposts_count"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorID   string    `json:"author_id"`
	Content    string    `json:"content"`
	IsModified bool      `json:"is_modified"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Like records that a user liked a post. The (UserID, PostID) pair is unique
// at the store level.
type Like struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

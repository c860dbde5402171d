package ports

import (
	"context"
	"time"
)

// PostsPerUserRow is one row of the posts-per-user aggregation.
type PostsPerUserRow struct {
	UserID    string `json:"user_id" bson:"_id"`
	Username  string `json:"username" bson:"username"`
	PostCount int64  `json:"post_count" bson:"post_count"`
}

// CommentsPerPostRow is one row of the comments-per-post aggregation.
type CommentsPerPostRow struct {
	PostID       string `json:"post_id" bson:"_id"`
	Title        string `json:"title" bson:"title"`
	CommentCount int64  `json:"comment_count" bson:"comment_count"`
}

// AnalyticsRepository exposes the admin read-models computed with aggregation
// pipelines over the document store.
type AnalyticsRepository interface {
	PostsPerUser(ctx context.Context, limit int) ([]PostsPerUserRow, error)
	CommentsPerPost(ctx context.Context, limit int) ([]CommentsPerPostRow, error)
	// CommentsInRange counts active comments created in [from, to].
	CommentsInRange(ctx context.Context, from, to time.Time) (int64, error)
}

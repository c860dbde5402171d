package domain

import "time"

// EngagementKind enumerates the feed mutations recorded for analytics.
type EngagementKind string

const (
	EngagementPostCreated    EngagementKind = "post_created"
	EngagementPostDeleted    EngagementKind = "post_deleted"
	EngagementPostLiked      EngagementKind = "post_liked"
	EngagementPostUnliked    EngagementKind = "post_unliked"
	EngagementCommentCreated EngagementKind = "comment_created"
	EngagementCommentDeleted EngagementKind = "comment_deleted"
)

// EngagementEvent is an append-only record of a single feed mutation. Events
// for the same post are processed in order.
type EngagementEvent struct {
	Kind      EngagementKind
	PostID    string
	ActorID   string
	CommentID string // set for comment events
	Timestamp time.Time
}

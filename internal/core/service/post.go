package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
)

// PostService implements publications, comments and likes. Every mutation
// emits an engagement event for the analytics audit trail.
type PostService struct {
	posts    ports.PostRepository
	comments ports.CommentRepository
	likes    ports.LikeRepository
	users    ports.UserRepository
	images   ports.ImageStore // optional
	sink     ports.EngagementSink
	log      zerolog.Logger
}

func NewPostService(
	posts ports.PostRepository,
	comments ports.CommentRepository,
	likes ports.LikeRepository,
	users ports.UserRepository,
	images ports.ImageStore,
	sink ports.EngagementSink,
	log zerolog.Logger,
) *PostService {
	return &PostService{
		posts:    posts,
		comments: comments,
		likes:    likes,
		users:    users,
		images:   images,
		sink:     sink,
		log:      log,
	}
}

func (s *PostService) CreatePost(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error) {
	now := time.Now().UTC()
	post := &domain.Post{
		AuthorID:  input.AuthorID,
		Title:     input.Title,
		Content:   input.Content,
		Type:      domain.PostTypeText,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if input.Image != nil && s.images != nil {
		uploaded, err := s.images.Upload(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		post.Image = uploaded.URL
		post.ImagePublicID = uploaded.PublicID
		post.Type = domain.PostTypeImage
	}

	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	if err := s.users.IncPostsCount(ctx, input.AuthorID, 1); err != nil {
		s.log.Warn().Err(err).Str("user_id", input.AuthorID).Msg("failed to bump posts counter")
	}

	s.emit(domain.EngagementEvent{
		Kind:      domain.EngagementPostCreated,
		PostID:    created.ID,
		ActorID:   input.AuthorID,
		Timestamp: now,
	})

	s.log.Info().Str("post_id", created.ID).Str("author_id", input.AuthorID).Msg("post created")
	return created, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.IsActive {
		return nil, domain.ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) Feed(ctx context.Context, page, limit int) (*ports.PostPage, error) {
	page, limit = normalizePage(page, limit)

	posts, total, err := s.posts.Feed(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &ports.PostPage{Posts: posts, Total: total, Page: page, Limit: limit}, nil
}

// DeletePost soft-deletes a post. Only the author or an admin may delete.
func (s *PostService) DeletePost(ctx context.Context, id, actorID, actorRole string) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID && actorRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	if err := s.posts.SoftDelete(ctx, id); err != nil {
		return err
	}
	if err := s.users.IncPostsCount(ctx, post.AuthorID, -1); err != nil {
		s.log.Warn().Err(err).Str("user_id", post.AuthorID).Msg("failed to drop posts counter")
	}

	s.emit(domain.EngagementEvent{
		Kind:      domain.EngagementPostDeleted,
		PostID:    id,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
	})

	s.log.Info().Str("post_id", id).Str("actor_id", actorID).Msg("post deleted")
	return nil
}

func (s *PostService) CreateComment(ctx context.Context, postID, authorID, content string) (*domain.Comment, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment, err := s.comments.Create(ctx, &domain.Comment{
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.posts.IncCounter(ctx, postID, "comments_count", 1); err != nil {
		s.log.Warn().Err(err).Str("post_id", postID).Msg("failed to bump comments counter")
	}

	s.emit(domain.EngagementEvent{
		Kind:      domain.EngagementCommentCreated,
		PostID:    postID,
		ActorID:   authorID,
		CommentID: comment.ID,
		Timestamp: now,
	})

	return comment, nil
}

func (s *PostService) ListComments(ctx context.Context, postID string, page, limit int) (*ports.CommentPage, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)

	comments, total, err := s.comments.ListByPost(ctx, postID, page, limit)
	if err != nil {
		return nil, err
	}
	return &ports.CommentPage{Comments: comments, Total: total, Page: page, Limit: limit}, nil
}

// UpdateComment rewrites the comment body and marks it as modified. Only the
// author may edit.
func (s *PostService) UpdateComment(ctx context.Context, commentID, actorID, content string) (*domain.Comment, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != actorID {
		return nil, domain.ErrForbidden
	}
	return s.comments.Update(ctx, commentID, content)
}

func (s *PostService) DeleteComment(ctx context.Context, commentID, actorID, actorRole string) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != actorID && actorRole != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	if err := s.comments.SoftDelete(ctx, commentID); err != nil {
		return err
	}
	if err := s.posts.IncCounter(ctx, comment.PostID, "comments_count", -1); err != nil {
		s.log.Warn().Err(err).Str("post_id", comment.PostID).Msg("failed to drop comments counter")
	}

	s.emit(domain.EngagementEvent{
		Kind:      domain.EngagementCommentDeleted,
		PostID:    comment.PostID,
		ActorID:   actorID,
		CommentID: commentID,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

// LikePost records a like. The unique (user_id, post_id) index closes the
// race between the existence check and the insert.
func (s *PostService) LikePost(ctx context.Context, postID, userID string) error {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.likes.Create(ctx, &domain.Like{UserID: userID, PostID: postID, CreatedAt: now}); err != nil {
		return err
	}
	if err := s.posts.IncCounter(ctx, postID, "likes_count", 1); err != nil {
		s.log.Warn().Err(err).Str("post_id", postID).Msg("failed to bump likes counter")
	}

	s.emit(domain.EngagementEvent{
		Kind:      domain.EngagementPostLiked,
		PostID:    postID,
		ActorID:   userID,
		Timestamp: now,
	})
	return nil
}

func (s *PostService) UnlikePost(ctx context.Context, postID, userID string) error {
	if err := s.likes.Delete(ctx, userID, postID); err != nil {
		return err
	}
	if err := s.posts.IncCounter(ctx, postID, "likes_count", -1); err != nil {
		s.log.Warn().Err(err).Str("post_id", postID).Msg("failed to drop likes counter")
	}

	s.emit(domain.EngagementEvent{
		Kind:      domain.EngagementPostUnliked,
		PostID:    postID,
		ActorID:   userID,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

func (s *PostService) emit(event domain.EngagementEvent) {
	if s.sink != nil {
		s.sink.Enqueue(event)
	}
}

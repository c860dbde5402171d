package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
)

// LikeRepository implements ports.LikeRepository using MongoDB. The unique
// (user_id, post_id) index turns concurrent duplicate likes into
// ErrAlreadyLiked.
type LikeRepository struct {
	coll *mongo.Collection
}

func NewLikeRepository(db *mongo.Database) *LikeRepository {
	return &LikeRepository{coll: db.Collection(likesCollection)}
}

type mongoLike struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	PostID    primitive.ObjectID `bson:"post_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *LikeRepository) Create(ctx context.Context, like *domain.Like) error {
	userID, postID, err := likeIDs(like.UserID, like.PostID)
	if err != nil {
		return err
	}

	_, err = r.coll.InsertOne(ctx, mongoLike{
		UserID:    userID,
		PostID:    postID,
		CreatedAt: like.CreatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyLiked
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, userID, postID string) error {
	uid, pid, err := likeIDs(userID, postID)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"user_id": uid, "post_id": pid})
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotLiked
	}
	return nil
}

func (r *LikeRepository) Exists(ctx context.Context, userID, postID string) (bool, error) {
	uid, pid, err := likeIDs(userID, postID)
	if err != nil {
		return false, err
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"user_id": uid, "post_id": pid})
	if err != nil {
		return false, fmt.Errorf("count likes: %w", err)
	}
	return n > 0, nil
}

func likeIDs(userID, postID string) (primitive.ObjectID, primitive.ObjectID, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, domain.ErrUserNotFound
	}
	pid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, domain.ErrPostNotFound
	}
	return uid, pid, nil
}

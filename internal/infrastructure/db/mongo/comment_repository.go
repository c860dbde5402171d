package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
)

// CommentRepository implements ports.CommentRepository using MongoDB.
type CommentRepository struct {
	coll *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{coll: db.Collection(commentsCollection)}
}

type mongoComment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	PostID     primitive.ObjectID `bson:"post_id"`
	AuthorID   primitive.ObjectID `bson:"author_id"`
	Content    string             `bson:"content"`
	IsModified bool               `bson:"is_modified"`
	IsActive   bool               `bson:"is_active"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	postID, err := primitive.ObjectIDFromHex(comment.PostID)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}
	authorID, err := primitive.ObjectIDFromHex(comment.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("insert comment: bad author id: %w", err)
	}

	doc := mongoComment{
		PostID:    postID,
		AuthorID:  authorID,
		Content:   comment.Content,
		IsActive:  comment.IsActive,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	created := *comment
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCommentNotFound
	}

	var mc mongoComment
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid, "is_active": true}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string, page, limit int) ([]*domain.Comment, int64, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, 0, domain.ErrPostNotFound
	}
	filter := bson.M{"post_id": oid, "is_active": true}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer cursor.Close(ctx)

	var comments []*domain.Comment
	for cursor.Next(ctx) {
		var mc mongoComment
		if err := cursor.Decode(&mc); err != nil {
			return nil, 0, fmt.Errorf("decode comment: %w", err)
		}
		comments = append(comments, mc.toDomain())
	}
	return comments, total, cursor.Err()
}

func (r *CommentRepository) Update(ctx context.Context, id, content string) (*domain.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCommentNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{
		"content":     content,
		"is_modified": true,
		"updated_at":  time.Now().UTC(),
	}}

	var mc mongoComment
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid, "is_active": true}, update, opts).Decode(&mc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *CommentRepository) SoftDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrCommentNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (mc *mongoComment) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:         mc.ID.Hex(),
		PostID:     mc.PostID.Hex(),
		AuthorID:   mc.AuthorID.Hex(),
		Content:    mc.Content,
		IsModified: mc.IsModified,
		IsActive:   mc.IsActive,
		CreatedAt:  mc.CreatedAt,
		UpdatedAt:  mc.UpdatedAt,
	}
}

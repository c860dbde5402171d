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

// PostRepository implements ports.PostRepository using MongoDB.
type PostRepository struct {
	coll *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{coll: db.Collection(postsCollection)}
}

type mongoPost struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	AuthorID      primitive.ObjectID `bson:"author_id"`
	Title         string             `bson:"title"`
	Content       string             `bson:"content"`
	Image         string             `bson:"image,omitempty"`
	ImagePublicID string             `bson:"image_public_id,omitempty"`
	Type          string             `bson:"type"`
	LikesCount    int64              `bson:"likes_count"`
	CommentsCount int64              `bson:"comments_count"`
	RepostsCount  int64              `bson:"reposts_count"`
	IsActive      bool               `bson:"is_active"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	authorID, err := primitive.ObjectIDFromHex(post.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("insert post: bad author id: %w", err)
	}

	doc := mongoPost{
		AuthorID:      authorID,
		Title:         post.Title,
		Content:       post.Content,
		Image:         post.Image,
		ImagePublicID: post.ImagePublicID,
		Type:          string(post.Type),
		IsActive:      post.IsActive,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	created := *post
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	var mp mongoPost
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PostRepository) Feed(ctx context.Context, page, limit int) ([]*domain.Post, int64, error) {
	filter := bson.M{"is_active": true}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []*domain.Post
	for cursor.Next(ctx) {
		var mp mongoPost
		if err := cursor.Decode(&mp); err != nil {
			return nil, 0, fmt.Errorf("decode post: %w", err)
		}
		posts = append(posts, mp.toDomain())
	}
	return posts, total, cursor.Err()
}

func (r *PostRepository) SoftDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"is_active": false, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) IncCounter(ctx context.Context, id, counter string, delta int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}
	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{counter: delta}})
	return err
}

func (mp *mongoPost) toDomain() *domain.Post {
	return &domain.Post{
		ID:            mp.ID.Hex(),
		AuthorID:      mp.AuthorID.Hex(),
		Title:         mp.Title,
		Content:       mp.Content,
		Image:         mp.Image,
		ImagePublicID: mp.ImagePublicID,
		Type:          domain.PostType(mp.Type),
		LikesCount:    mp.LikesCount,
		CommentsCount: mp.CommentsCount,
		RepostsCount:  mp.RepostsCount,
		IsActive:      mp.IsActive,
		CreatedAt:     mp.CreatedAt,
		UpdatedAt:     mp.UpdatedAt,
	}
}

package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
)

// AnalyticsRepository implements the admin read-models with aggregation
// pipelines.
type AnalyticsRepository struct {
	db *mongo.Database
}

func NewAnalyticsRepository(db *mongo.Database) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// PostsPerUser groups active posts by author and joins the username from the
// users collection.
func (r *AnalyticsRepository) PostsPerUser(ctx context.Context, limit int) ([]ports.PostsPerUserRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_active": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$author_id",
			"post_count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"post_count": -1}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "author",
		}}},
		{{Key: "$unwind", Value: "$author"}},
		{{Key: "$project", Value: bson.M{
			"post_count": 1,
			"username":   "$author.username",
		}}},
	}

	cursor, err := r.db.Collection(postsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("posts per user: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []ports.PostsPerUserRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("posts per user: decode: %w", err)
	}
	return rows, nil
}

// CommentsPerPost groups active comments by post and joins the post title.
func (r *AnalyticsRepository) CommentsPerPost(ctx context.Context, limit int) ([]ports.CommentsPerPostRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_active": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$post_id",
			"comment_count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"comment_count": -1}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         postsCollection,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "post",
		}}},
		{{Key: "$unwind", Value: "$post"}},
		{{Key: "$project", Value: bson.M{
			"comment_count": 1,
			"title":         "$post.title",
		}}},
	}

	cursor, err := r.db.Collection(commentsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("comments per post: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []ports.CommentsPerPostRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("comments per post: decode: %w", err)
	}
	return rows, nil
}

// CommentsInRange counts active comments created inside [from, to].
func (r *AnalyticsRepository) CommentsInRange(ctx context.Context, from, to time.Time) (int64, error) {
	n, err := r.db.Collection(commentsCollection).CountDocuments(ctx, bson.M{
		"is_active":  true,
		"created_at": bson.M{"$gte": from, "$lte": to},
	})
	if err != nil {
		return 0, fmt.Errorf("comments in range: %w", err)
	}
	return n, nil
}

package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
)

// EngagementRepository implements ports.EngagementRepository using MongoDB.
type EngagementRepository struct {
	coll *mongo.Collection
}

func NewEngagementRepository(db *mongo.Database) ports.EngagementRepository {
	return &EngagementRepository{coll: db.Collection(engagementCollection)}
}

// InsertEvent appends an engagement event to the audit collection.
func (r *EngagementRepository) InsertEvent(ctx context.Context, event *domain.EngagementEvent) error {
	doc := bson.M{
		"kind":         string(event.Kind),
		"post_id":      event.PostID,
		"actor_id":     event.ActorID,
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.CommentID != "" {
		doc["comment_id"] = event.CommentID
	}

	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

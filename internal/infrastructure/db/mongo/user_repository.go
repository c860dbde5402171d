package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
)

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoUser struct {
	ID                    primitive.ObjectID      `bson:"_id,omitempty"`
	Email                 string                  `bson:"email"`
	Username              string                  `bson:"username"`
	PasswordHash          string                  `bson:"password_hash"`
	FirstName             string                  `bson:"first_name"`
	LastName              string                  `bson:"last_name"`
	BirthDate             time.Time               `bson:"birth_date"`
	Bio                   string                  `bson:"bio"`
	ProfileImage          string                  `bson:"profile_image,omitempty"`
	ProfileImagePublicID  string                  `bson:"profile_image_public_id,omitempty"`
	Role                  string                  `bson:"role"`
	PrincipalMartialArt   string                  `bson:"principal_martial_art,omitempty"`
	PrincipalMartialLevel string                  `bson:"principal_martial_level,omitempty"`
	PrincipalBeltLevel    string                  `bson:"principal_belt_level,omitempty"`
	FighterLevel          string                  `bson:"fighter_level,omitempty"`
	MartialArts           []domain.MartialArtInfo `bson:"martial_arts"`
	SocialLinks           domain.SocialLinks      `bson:"social_links"`
	FollowersCount        int64                   `bson:"followers_count"`
	FollowingCount        int64                   `bson:"following_count"`
	PostsCount            int64                   `bson:"posts_count"`
	IsActive              bool                    `bson:"is_active"`
	IsVerified            bool                    `bson:"is_verified"`
	CreatedAt             time.Time               `bson:"created_at"`
	UpdatedAt             time.Time               `bson:"updated_at"`
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	doc := toMongoUser(user)

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateUserError(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, identifier string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": strings.ToLower(identifier)},
		bson.M{"username": identifier},
	}})
}

func (r *UserRepository) List(ctx context.Context, page, limit int) ([]*domain.User, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*domain.User
	for cursor.Next(ctx) {
		var mu mongoUser
		if err := cursor.Decode(&mu); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, mu.toDomain())
	}
	return users, total, cursor.Err()
}

func (r *UserRepository) Update(ctx context.Context, id string, fields map[string]any) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mu mongoUser
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"is_active": active, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) IncPostsCount(ctx context.Context, id string, delta int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"posts_count": delta}})
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

// duplicateUserError maps a unique-index violation to the offending field.
// Index names follow the driver convention (email_1, username_1).
func duplicateUserError(err error) error {
	if strings.Contains(err.Error(), "email") {
		return domain.ErrEmailExists
	}
	return domain.ErrUsernameExists
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		Email:                 u.Email,
		Username:              u.Username,
		PasswordHash:          u.PasswordHash,
		FirstName:             u.FirstName,
		LastName:              u.LastName,
		BirthDate:             u.BirthDate,
		Bio:                   u.Bio,
		ProfileImage:          u.ProfileImage,
		ProfileImagePublicID:  u.ProfileImagePublicID,
		Role:                  u.Role,
		PrincipalMartialArt:   u.PrincipalMartialArt,
		PrincipalMartialLevel: u.PrincipalMartialLevel,
		PrincipalBeltLevel:    u.PrincipalBeltLevel,
		FighterLevel:          u.FighterLevel,
		MartialArts:           u.MartialArts,
		SocialLinks:           u.SocialLinks,
		FollowersCount:        u.FollowersCount,
		FollowingCount:        u.FollowingCount,
		PostsCount:            u.PostsCount,
		IsActive:              u.IsActive,
		IsVerified:            u.IsVerified,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:                    mu.ID.Hex(),
		Email:                 mu.Email,
		Username:              mu.Username,
		PasswordHash:          mu.PasswordHash,
		FirstName:             mu.FirstName,
		LastName:              mu.LastName,
		BirthDate:             mu.BirthDate,
		Bio:                   mu.Bio,
		ProfileImage:          mu.ProfileImage,
		ProfileImagePublicID:  mu.ProfileImagePublicID,
		Role:                  mu.Role,
		PrincipalMartialArt:   mu.PrincipalMartialArt,
		PrincipalMartialLevel: mu.PrincipalMartialLevel,
		PrincipalBeltLevel:    mu.PrincipalBeltLevel,
		FighterLevel:          mu.FighterLevel,
		MartialArts:           mu.MartialArts,
		SocialLinks:           mu.SocialLinks,
		FollowersCount:        mu.FollowersCount,
		FollowingCount:        mu.FollowingCount,
		PostsCount:            mu.PostsCount,
		IsActive:              mu.IsActive,
		IsVerified:            mu.IsVerified,
		CreatedAt:             mu.CreatedAt,
		UpdatedAt:             mu.UpdatedAt,
	}
}

// Package mongo implements the repositories over MongoDB.
//
// UpdateMany runs in a multi-document transaction, so the server must be a
// replica set (a single-node one is enough).
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

const (
	profilesCollection = "profiles"
	postsCollection    = "posts"
	commentsCollection = "comments"
)

// Connect opens the client and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	slog.Info("✅ Connected to MongoDB")
	return client, nil
}

// EnsureIndexes creates the secondary indexes the listings rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	posts := []mongo.IndexModel{
		{Keys: bson.D{{Key: "creatorId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "share", Value: 1}}},
		{Keys: bson.D{{Key: "cateId", Value: 1}}},
		{Keys: bson.D{{Key: "mention", Value: 1}}},
	}
	if _, err := db.Collection(postsCollection).Indexes().CreateMany(ctx, posts); err != nil {
		return fmt.Errorf("mongo posts indexes: %w", err)
	}
	comments := []mongo.IndexModel{
		{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: 1}}},
	}
	if _, err := db.Collection(commentsCollection).Indexes().CreateMany(ctx, comments); err != nil {
		return fmt.Errorf("mongo comments indexes: %w", err)
	}
	return nil
}

// --- HELPERS ---

func handleError(err error, entity, id string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.NewNotFoundError(entity, id, notFoundMsg(entity))
	}
	if mongo.IsDuplicateKeyError(err) {
		return domain.NewAlreadyExistsError(entity, id, alreadyExistsMsg(entity))
	}
	return fmt.Errorf("mongo: %s %s: %w", entity, id, err)
}

func notFoundMsg(entity string) string {
	switch entity {
	case domain.EntityProfile:
		return "Profile not found"
	case domain.EntityComment:
		return "Comment not found"
	default:
		return "Post not found"
	}
}

func alreadyExistsMsg(entity string) string {
	switch entity {
	case domain.EntityProfile:
		return "Profile already exists"
	case domain.EntityComment:
		return "Comment Already Created"
	default:
		return "Post already exists"
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

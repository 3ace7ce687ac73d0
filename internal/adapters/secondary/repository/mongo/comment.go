package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

type commentDocument struct {
	ID        string    `bson:"_id"`
	Content   string    `bson:"content"`
	PostID    string    `bson:"postId"`
	AuthorID  string    `bson:"authorId"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d commentDocument) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:        d.ID,
		Content:   d.Content,
		PostID:    d.PostID,
		AuthorID:  d.AuthorID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type CommentRepo struct {
	coll *mongo.Collection
}

func NewCommentRepo(db *mongo.Database) *CommentRepo {
	return &CommentRepo{coll: db.Collection(commentsCollection)}
}

func (r *CommentRepo) CreateComment(ctx context.Context, c *domain.Comment) error {
	doc := commentDocument{
		ID:        c.ID,
		Content:   c.Content,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	_, err := r.coll.InsertOne(ctx, doc)
	return handleError(err, domain.EntityComment, c.ID)
}

func (r *CommentRepo) UpdateComment(ctx context.Context, id string, c *domain.Comment) error {
	update := bson.M{"$set": bson.M{"content": c.Content, "updatedAt": c.UpdatedAt}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return handleError(err, domain.EntityComment, id)
	}
	if res.MatchedCount == 0 {
		return domain.NewNotFoundError(domain.EntityComment, id, "Comment not found")
	}
	return nil
}

func (r *CommentRepo) DeleteComment(ctx context.Context, id string, _ *domain.Comment) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return handleError(err, domain.EntityComment, id)
	}
	if res.DeletedCount == 0 {
		return domain.NewNotFoundError(domain.EntityComment, id, "Comment not found to delete")
	}
	return nil
}

func (r *CommentRepo) GetCommentByID(ctx context.Context, id string) (*domain.Comment, error) {
	var doc commentDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, handleError(err, domain.EntityComment, id)
	}
	return doc.toDomain(), nil
}

func (r *CommentRepo) GetComments(ctx context.Context) ([]*domain.Comment, error) {
	return r.find(ctx, bson.M{})
}

func (r *CommentRepo) GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error) {
	return r.find(ctx, bson.M{"postId": postID})
}

func (r *CommentRepo) find(ctx context.Context, filter bson.M) ([]*domain.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: find comments: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []commentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode comments: %w", err)
	}
	out := make([]*domain.Comment, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

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

type postDocument struct {
	ID        string     `bson:"_id"`
	CreatorID string     `bson:"creatorId"`
	Share     []string   `bson:"share"`
	PhotoURL  []string   `bson:"photoUrl"`
	Content   string     `bson:"content"`
	Hashtag   []string   `bson:"hashtag"`
	CateID    []string   `bson:"cateId"`
	Reaction  []string   `bson:"reaction"`
	Mention   []string   `bson:"mention"`
	CreatedAt time.Time  `bson:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty"`
}

func toPostDocument(p *domain.Post) postDocument {
	return postDocument{
		ID:        p.ID,
		CreatorID: p.CreatorID,
		Share:     nonNil(p.Share.Slice()),
		PhotoURL:  nonNil(p.PhotoURL),
		Content:   p.Content,
		Hashtag:   nonNil(p.Hashtag),
		CateID:    nonNil(p.CateID.Slice()),
		Reaction:  nonNil(p.Reaction),
		Mention:   nonNil(p.Mention.Slice()),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		DeletedAt: p.DeletedAt,
	}
}

func (d postDocument) toDomain() *domain.Post {
	return &domain.Post{
		ID:        d.ID,
		CreatorID: d.CreatorID,
		Share:     domain.NewIDSet(d.Share...),
		PhotoURL:  d.PhotoURL,
		Content:   d.Content,
		Hashtag:   d.Hashtag,
		CateID:    domain.NewIDSet(d.CateID...),
		Reaction:  d.Reaction,
		Mention:   domain.NewIDSet(d.Mention...),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		DeletedAt: d.DeletedAt,
	}
}

// liveAnd narrows filter to documents that were not soft-deleted.
func liveAnd(filter bson.M) bson.M {
	f := bson.M{"deletedAt": bson.M{"$exists": false}}
	for k, v := range filter {
		f[k] = v
	}
	return f
}

type PostRepo struct {
	coll     *mongo.Collection
	comments *CommentRepo
}

func NewPostRepo(db *mongo.Database, comments *CommentRepo) *PostRepo {
	return &PostRepo{coll: db.Collection(postsCollection), comments: comments}
}

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	_, err := r.coll.InsertOne(ctx, toPostDocument(p))
	return handleError(err, domain.EntityPost, p.ID)
}

func (r *PostRepo) Update(ctx context.Context, p *domain.Post) error {
	doc := toPostDocument(p)
	update := bson.M{"$set": bson.M{
		"share":     doc.Share,
		"photoUrl":  doc.PhotoURL,
		"content":   doc.Content,
		"hashtag":   doc.Hashtag,
		"cateId":    doc.CateID,
		"reaction":  doc.Reaction,
		"mention":   doc.Mention,
		"updatedAt": doc.UpdatedAt,
	}}
	res, err := r.coll.UpdateOne(ctx, liveAnd(bson.M{"_id": p.ID}), update)
	if err != nil {
		return handleError(err, domain.EntityPost, p.ID)
	}
	if res.MatchedCount == 0 {
		return domain.NewNotFoundError(domain.EntityPost, p.ID, "Post not found")
	}
	return nil
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"deletedAt": time.Now().UTC()}}
	res, err := r.coll.UpdateOne(ctx, liveAnd(bson.M{"_id": id}), update)
	if err != nil {
		return handleError(err, domain.EntityPost, id)
	}
	if res.MatchedCount == 0 {
		return domain.NewNotFoundError(domain.EntityPost, id, "Post not found to delete")
	}
	return nil
}

func (r *PostRepo) GetPostByID(ctx context.Context, id string) (*domain.Post, error) {
	var doc postDocument
	if err := r.coll.FindOne(ctx, liveAnd(bson.M{"_id": id})).Decode(&doc); err != nil {
		return nil, handleError(err, domain.EntityPost, id)
	}
	return doc.toDomain(), nil
}

func (r *PostRepo) GetDetail(ctx context.Context, id string) (*domain.Post, error) {
	post, err := r.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := r.comments.GetCommentsByPostID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Comments = make([]domain.Comment, len(comments))
	for i, c := range comments {
		post.Comments[i] = *c
	}
	return post, nil
}

func (r *PostRepo) GetAllByUID(ctx context.Context, creatorID string, page domain.PageRequest) (*domain.PostPage, error) {
	return r.page(ctx, bson.M{"creatorId": creatorID}, page)
}

func (r *PostRepo) GetMine(ctx context.Context, id string, page domain.PageRequest) (*domain.PostPage, error) {
	return r.page(ctx, bson.M{"creatorId": id}, page)
}

// Array fields match when any element equals the key.
func (r *PostRepo) GetByCateID(ctx context.Context, cateID string, page domain.PageRequest) (*domain.PostPage, error) {
	return r.page(ctx, bson.M{"cateId": cateID}, page)
}

func (r *PostRepo) GetShare(ctx context.Context, shareID string, page domain.PageRequest) (*domain.PostPage, error) {
	return r.page(ctx, bson.M{"share": shareID}, page)
}

func (r *PostRepo) GetByMentionID(ctx context.Context, mention string, page domain.PageRequest) (*domain.PostPage, error) {
	return r.page(ctx, bson.M{"mention": mention}, page)
}

func (r *PostRepo) GetAllPost(ctx context.Context) ([]*domain.Post, error) {
	opts := options.Find().SetSort(newestFirst)
	return r.find(ctx, liveAnd(bson.M{}), opts)
}

// --- HELPERS ---

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}

func (r *PostRepo) page(ctx context.Context, filter bson.M, req domain.PageRequest) (*domain.PostPage, error) {
	filter = liveAnd(filter)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongo: count posts: %w", err)
	}

	opts := options.Find().
		SetSort(newestFirst).
		SetSkip(int64(req.Offset())).
		SetLimit(int64(req.Size))
	data, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return &domain.PostPage{Data: data, EndPage: domain.EndPage(total, req.Size)}, nil
}

func (r *PostRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Post, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: find posts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode posts: %w", err)
	}
	out := make([]*domain.Post, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

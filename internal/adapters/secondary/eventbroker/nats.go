// Package eventbroker publishes domain events on NATS JetStream.
package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

const StreamName = "IMAGO"

const (
	SubjectFollowed       = "profile.followed"
	SubjectUnfollowed     = "profile.unfollowed"
	SubjectPostCreated    = "post.created"
	SubjectPostDeleted    = "post.deleted"
	SubjectCommentCreated = "comment.created"
)

type NatsBroker struct {
	js jetstream.JetStream
}

// NewNatsBroker wraps an open connection and makes sure the stream exists.
func NewNatsBroker(ctx context.Context, nc *nats.Conn) (*NatsBroker, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{"profile.>", "post.>", "comment.>"},
		Storage:  jetstream.FileStorage,
		Replicas: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create stream: %w", err)
	}
	return &NatsBroker{js: js}, nil
}

type FollowEvent struct {
	ActorID    string    `json:"actor_id"`
	TargetID   string    `json:"target_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PostCreatedEvent struct {
	ID        string    `json:"id"`
	CreatorID string    `json:"creator_id"`
	Content   string    `json:"content"`
	CateID    []string  `json:"cate_id"`
	Mention   []string  `json:"mention"`
	CreatedAt time.Time `json:"created_at"`
}

type PostDeletedEvent struct {
	ID string `json:"id"`
}

type CommentCreatedEvent struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (n *NatsBroker) PublishFollowed(ctx context.Context, actorID, targetID string) error {
	return n.publish(ctx, SubjectFollowed, FollowEvent{ActorID: actorID, TargetID: targetID, OccurredAt: time.Now().UTC()})
}

func (n *NatsBroker) PublishUnfollowed(ctx context.Context, actorID, targetID string) error {
	return n.publish(ctx, SubjectUnfollowed, FollowEvent{ActorID: actorID, TargetID: targetID, OccurredAt: time.Now().UTC()})
}

func (n *NatsBroker) PublishPostCreated(ctx context.Context, post *domain.Post) error {
	return n.publish(ctx, SubjectPostCreated, PostCreatedEvent{
		ID:        post.ID,
		CreatorID: post.CreatorID,
		Content:   post.Content,
		CateID:    post.CateID.Slice(),
		Mention:   post.Mention.Slice(),
		CreatedAt: post.CreatedAt,
	})
}

func (n *NatsBroker) PublishPostDeleted(ctx context.Context, postID string) error {
	return n.publish(ctx, SubjectPostDeleted, PostDeletedEvent{ID: postID})
}

func (n *NatsBroker) PublishCommentCreated(ctx context.Context, c *domain.Comment) error {
	return n.publish(ctx, SubjectCommentCreated, CommentCreatedEvent{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		CreatedAt: c.CreatedAt,
	})
}

// publish waits for the JetStream ack. The trace context of ctx travels in
// the message headers.
func (n *NatsBroker) publish(ctx context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", subject, err)
	}

	msg := &nats.Msg{Subject: subject, Data: data, Header: nats.Header{}}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	ack, err := n.js.PublishMsg(ctx, msg)
	if err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	slog.DebugContext(ctx, "📢 Event published", "subject", subject, "seq", ack.Sequence)
	return nil
}

package ports

import (
	"context"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

// --- PERSISTENCE ---
// Repositories report a missing entity with an error wrapping domain.ErrNotFound
// and a duplicate create with domain.ErrAlreadyExists.

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	Update(ctx context.Context, profile *domain.Profile) error

	// UpdateMany writes every profile or none of them.
	// The follow algorithm relies on it to keep both halves of an edge together.
	UpdateMany(ctx context.Context, profiles ...*domain.Profile) error

	Get(ctx context.Context, id string) (*domain.Profile, error)
	GetAll(ctx context.Context) ([]*domain.Profile, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error // soft delete

	GetPostByID(ctx context.Context, id string) (*domain.Post, error)
	// GetDetail is GetPostByID with Comments hydrated.
	GetDetail(ctx context.Context, id string) (*domain.Post, error)

	GetAllByUID(ctx context.Context, creatorID string, page domain.PageRequest) (*domain.PostPage, error)
	GetMine(ctx context.Context, id string, page domain.PageRequest) (*domain.PostPage, error)
	GetByCateID(ctx context.Context, cateID string, page domain.PageRequest) (*domain.PostPage, error)
	GetShare(ctx context.Context, shareID string, page domain.PageRequest) (*domain.PostPage, error)
	GetByMentionID(ctx context.Context, mention string, page domain.PageRequest) (*domain.PostPage, error)

	GetAllPost(ctx context.Context) ([]*domain.Post, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *domain.Comment) error
	UpdateComment(ctx context.Context, id string, comment *domain.Comment) error
	DeleteComment(ctx context.Context, id string, comment *domain.Comment) error
	GetCommentByID(ctx context.Context, id string) (*domain.Comment, error)
	GetComments(ctx context.Context) ([]*domain.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error)
}

// --- SECURITY ---

// TokenVerifier decodes a bearer credential. Failures wrap domain.ErrAuth.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*domain.Identity, error)
}

// --- MESSAGING ---

// EventPublisher notifies other services. Calls are best effort from the core's view.
type EventPublisher interface {
	PublishFollowed(ctx context.Context, actorID, targetID string) error
	PublishUnfollowed(ctx context.Context, actorID, targetID string) error
	PublishPostCreated(ctx context.Context, post *domain.Post) error
	PublishPostDeleted(ctx context.Context, postID string) error
	PublishCommentCreated(ctx context.Context, comment *domain.Comment) error
}

// --- GRAPH ---

// FollowGraph mirrors follow edges into a graph store for traversal queries.
type FollowGraph interface {
	Link(ctx context.Context, actorID, targetID string) error
	Unlink(ctx context.Context, actorID, targetID string) error
}

package ports

import (
	"context"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

// --- USE-CASES ---
// Business rules only: no token, no identity. Validation fails fast before
// any repository call.

type ProfileUseCase interface {
	Create(ctx context.Context, profile *domain.Profile) error
	Update(ctx context.Context, profile *domain.Profile) error
	// UpdatePair persists both ends of a follow edge atomically.
	UpdatePair(ctx context.Context, a, b *domain.Profile) error
	Get(ctx context.Context, id string) (*domain.Profile, error)
	GetAll(ctx context.Context) ([]*domain.Profile, error)
}

type PostUseCase interface {
	Create(ctx context.Context, post *domain.Post) error
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error

	GetDetail(ctx context.Context, id string) (*domain.Post, error)
	GetPostByID(ctx context.Context, id string) (*domain.Post, error)

	GetAllByUID(ctx context.Context, creatorID string, q domain.PageQuery) (*domain.PostPage, error)
	GetMine(ctx context.Context, id string, q domain.PageQuery) (*domain.PostPage, error)
	GetByCateID(ctx context.Context, cateID string, q domain.PageQuery) (*domain.PostPage, error)
	GetShare(ctx context.Context, shareID string, q domain.PageQuery) (*domain.PostPage, error)
	GetByMentionID(ctx context.Context, mention string, q domain.PageQuery) (*domain.PostPage, error)

	GetAllPost(ctx context.Context) ([]*domain.Post, error)
}

type CommentUseCase interface {
	CreateComment(ctx context.Context, comment *domain.Comment) error
	UpdateComment(ctx context.Context, id string, comment *domain.Comment) error
	DeleteComment(ctx context.Context, id string, comment *domain.Comment) error
	GetCommentByID(ctx context.Context, id string) (*domain.Comment, error)
	GetComments(ctx context.Context) ([]*domain.Comment, error)
	GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error)
}

// --- INTEROP (Driving) ---
// What the HTTP boundary calls. Every method verifies the token first.

type ProfileInterop interface {
	Create(ctx context.Context, token string, profile *domain.Profile) (*domain.Profile, error)
	Update(ctx context.Context, token string, patch domain.ProfilePatch) (*domain.Profile, error)
	Get(ctx context.Context, token, id string) (*domain.Profile, error)
	GetAll(ctx context.Context, token string) ([]*domain.Profile, error)
	GetMine(ctx context.Context, token string) (*domain.Profile, error)

	// Follow and Unfollow report whether the graph changed.
	Follow(ctx context.Context, token, profileID, otherProfileID string) (bool, error)
	Unfollow(ctx context.Context, token, profileID, otherProfileID string) (bool, error)
	Relation(ctx context.Context, token, otherProfileID string) (*domain.RelationStatus, error)
}

type PostInterop interface {
	Create(ctx context.Context, token string, post *domain.Post) (*domain.Post, error)
	Update(ctx context.Context, token string, post *domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, token, id string) error

	GetDetail(ctx context.Context, token, id string) (*domain.Post, error)
	GetPostByID(ctx context.Context, token, id string) (*domain.Post, error)

	GetAllByUID(ctx context.Context, token, creatorID string, q domain.PageQuery) (*domain.PostPage, error)
	GetMine(ctx context.Context, token string, q domain.PageQuery) (*domain.PostPage, error)
	GetByCateID(ctx context.Context, token, cateID string, q domain.PageQuery) (*domain.PostPage, error)
	GetShare(ctx context.Context, token string, q domain.PageQuery) (*domain.PostPage, error)
	GetByMentionID(ctx context.Context, token, mention string, q domain.PageQuery) (*domain.PostPage, error)

	GetAllPost(ctx context.Context, token string) ([]*domain.Post, error)
}

type CommentInterop interface {
	CreateComment(ctx context.Context, token string, comment *domain.Comment) (*domain.Comment, error)
	UpdateComment(ctx context.Context, token, id string, comment *domain.Comment) (*domain.Comment, error)
	DeleteComment(ctx context.Context, token, id string, comment *domain.Comment) error
	GetCommentByID(ctx context.Context, token, id string) (*domain.Comment, error)
	GetComments(ctx context.Context, token string) ([]*domain.Comment, error)
	GetCommentsByPostID(ctx context.Context, token, postID string) ([]*domain.Comment, error)
}

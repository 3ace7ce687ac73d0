package interop

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
	"github.com/DangKhoi2208/imago-core/internal/core/ports"
)

type PostInterop struct {
	posts     ports.PostUseCase
	verifier  ports.TokenVerifier
	publisher ports.EventPublisher // optional
}

func NewPostInterop(posts ports.PostUseCase, verifier ports.TokenVerifier, publisher ports.EventPublisher) *PostInterop {
	return &PostInterop{posts: posts, verifier: verifier, publisher: publisher}
}

// Create stamps the post with the caller as creator and a fresh id.
func (i *PostInterop) Create(ctx context.Context, token string, post *domain.Post) (*domain.Post, error) {
	identity, err := i.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}

	post.ID = uuid.NewString()
	post.CreatorID = identity.SubjectID
	post.CreatedAt = time.Time{}
	post.DeletedAt = nil
	post.Comments = nil

	if err := i.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	if i.publisher != nil {
		if err := i.publisher.PublishPostCreated(ctx, post); err != nil {
			slog.ErrorContext(ctx, "Publishing post created failed", "error", err, "post_id", post.ID)
		}
	}
	return post, nil
}

// Update is restricted to the creator; creator and creation date come from storage.
func (i *PostInterop) Update(ctx context.Context, token string, post *domain.Post) (*domain.Post, error) {
	identity, err := i.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}
	stored, err := i.ownedPost(ctx, identity, post.ID)
	if err != nil {
		return nil, err
	}

	post.CreatorID = stored.CreatorID
	post.CreatedAt = stored.CreatedAt
	post.DeletedAt = nil
	post.Comments = nil

	if err := i.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (i *PostInterop) Delete(ctx context.Context, token, id string) error {
	identity, err := i.verifier.VerifyToken(ctx, token)
	if err != nil {
		return err
	}
	if _, err := i.ownedPost(ctx, identity, id); err != nil {
		return err
	}
	if err := i.posts.Delete(ctx, id); err != nil {
		return err
	}

	if i.publisher != nil {
		if err := i.publisher.PublishPostDeleted(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Publishing post deleted failed", "error", err, "post_id", id)
		}
	}
	return nil
}

func (i *PostInterop) GetDetail(ctx context.Context, token, id string) (*domain.Post, error) {
	if _, err := i.verifier.VerifyToken(ctx, token); err != nil {
		return nil, err
	}
	return i.posts.GetDetail(ctx, id)
}

func (i *PostInterop) GetPostByID(ctx context.Context, token, id string) (*domain.Post, error) {
	if _, err := i.verifier.VerifyToken(ctx, token); err != nil {
		return nil, err
	}
	return i.posts.GetPostByID(ctx, id)
}

func (i *PostInterop) GetAllByUID(ctx context.Context, token, creatorID string, q domain.PageQuery) (*domain.PostPage, error) {
	if _, err := i.verifier.VerifyToken(ctx, token); err != nil {
		return nil, err
	}
	return i.posts.GetAllByUID(ctx, creatorID, q)
}

func (i *PostInterop) GetMine(ctx context.Context, token string, q domain.PageQuery) (*domain.PostPage, error) {
	identity, err := i.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return i.posts.GetMine(ctx, identity.SubjectID, q)
}

func (i *PostInterop) GetByCateID(ctx context.Context, token, cateID string, q domain.PageQuery) (*domain.PostPage, error) {
	if _, err := i.verifier.VerifyToken(ctx, token); err != nil {
		return nil, err
	}
	return i.posts.GetByCateID(ctx, cateID, q)
}

// GetShare lists the posts shared to the caller.
func (i *PostInterop) GetShare(ctx context.Context, token string, q domain.PageQuery) (*domain.PostPage, error) {
	identity, err := i.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return i.posts.GetShare(ctx, identity.SubjectID, q)
}

func (i *PostInterop) GetByMentionID(ctx context.Context, token, mention string, q domain.PageQuery) (*domain.PostPage, error) {
	if _, err := i.verifier.VerifyToken(ctx, token); err != nil {
		return nil, err
	}
	return i.posts.GetByMentionID(ctx, mention, q)
}

func (i *PostInterop) GetAllPost(ctx context.Context, token string) ([]*domain.Post, error) {
	if _, err := i.verifier.VerifyToken(ctx, token); err != nil {
		return nil, err
	}
	return i.posts.GetAllPost(ctx)
}

func (i *PostInterop) ownedPost(ctx context.Context, identity *domain.Identity, id string) (*domain.Post, error) {
	stored, err := i.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored.CreatorID != identity.SubjectID {
		return nil, domain.NewAuthError("Post does not belong to the caller", nil)
	}
	return stored, nil
}

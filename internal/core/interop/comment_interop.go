package interop

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
	"github.com/DangKhoi2208/imago-core/internal/core/ports"
)

type CommentInterop struct {
	comments  ports.CommentUseCase
	verifier  ports.TokenVerifier
	publisher ports.EventPublisher // optional
}

func NewCommentInterop(comments ports.CommentUseCase, verifier ports.TokenVerifier, publisher ports.EventPublisher) *CommentInterop {
	return &CommentInterop{comments: comments, verifier: verifier, publisher: publisher}
}

func (i *CommentInterop) CreateComment(ctx context.Context, token string, comment *domain.Comment) (*domain.Comment, error) {
	identity, err := i.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}
	comment.ID = uuid.NewString()
	comment.AuthorID = identity.SubjectID

	if err := i.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if i.publisher != nil {
		if err := i.publisher.PublishCommentCreated(ctx, comment); err != nil {
			slog.ErrorContext(ctx, "Publishing comment created failed", "error", err, "comment_id", comment.ID)
		}
	}
	return comment, nil
}

// UpdateComment keeps the id mismatch check ahead of the authorship check,
// so a mismatched payload never triggers a lookup.
func (i *CommentInterop) UpdateComment(ctx context.Context, token, id string, comment *domain.Comment) (*domain.Comment, error) {
	identity, err := i.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := comment.MatchesID(id); err != nil {
		return nil, err
	}
	stored, err := i.authoredComment(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	comment.AuthorID = stored.AuthorID
	comment.PostID = stored.PostID

	if err := i.comments.UpdateComment(ctx, id, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (i *CommentInterop) DeleteComment(ctx context.Context, token, id string, comment *domain.Comment) error {
	identity, err := i.verifier.VerifyToken(ctx, token)
	if err != nil {
		return err
	}
	if err := comment.MatchesID(id); err != nil {
		return err
	}
	if _, err := i.authoredComment(ctx, identity, id); err != nil {
		return err
	}
	return i.comments.DeleteComment(ctx, id, comment)
}

func (i *CommentInterop) GetCommentByID(ctx context.Context, token, id string) (*domain.Comment, error) {
	if _, err := i.verifier.VerifyToken(ctx, token); err != nil {
		return nil, err
	}
	return i.comments.GetCommentByID(ctx, id)
}

func (i *CommentInterop) GetComments(ctx context.Context, token string) ([]*domain.Comment, error) {
	if _, err := i.verifier.VerifyToken(ctx, token); err != nil {
		return nil, err
	}
	return i.comments.GetComments(ctx)
}

func (i *CommentInterop) GetCommentsByPostID(ctx context.Context, token, postID string) ([]*domain.Comment, error) {
	if _, err := i.verifier.VerifyToken(ctx, token); err != nil {
		return nil, err
	}
	return i.comments.GetCommentsByPostID(ctx, postID)
}

func (i *CommentInterop) authoredComment(ctx context.Context, identity *domain.Identity, id string) (*domain.Comment, error) {
	stored, err := i.comments.GetCommentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored.AuthorID != identity.SubjectID {
		return nil, domain.NewAuthError("Comment does not belong to the caller", nil)
	}
	return stored, nil
}

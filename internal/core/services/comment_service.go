package services

import (
	"context"
	"strings"
	"time"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
	"github.com/DangKhoi2208/imago-core/internal/core/ports"
)

type CommentService struct {
	repo  ports.CommentRepository
	posts ports.PostRepository
	now   func() time.Time
}

func NewCommentService(repo ports.CommentRepository, posts ports.PostRepository) *CommentService {
	return &CommentService{repo: repo, posts: posts, now: func() time.Time { return time.Now().UTC() }}
}

func (s *CommentService) CreateComment(ctx context.Context, comment *domain.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}
	// A comment never points to a missing (or soft-deleted) post.
	if _, err := s.posts.GetPostByID(ctx, comment.PostID); err != nil {
		return err
	}
	now := s.now()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	return s.repo.CreateComment(ctx, comment)
}

func (s *CommentService) UpdateComment(ctx context.Context, id string, comment *domain.Comment) error {
	if err := comment.MatchesID(id); err != nil {
		return err
	}
	if err := comment.Validate(); err != nil {
		return err
	}
	stored, err := s.repo.GetCommentByID(ctx, id)
	if err != nil {
		return err
	}
	comment.CreatedAt = stored.CreatedAt
	comment.UpdatedAt = s.now()
	return s.repo.UpdateComment(ctx, id, comment)
}

func (s *CommentService) DeleteComment(ctx context.Context, id string, comment *domain.Comment) error {
	if err := comment.MatchesID(id); err != nil {
		return err
	}
	if _, err := s.repo.GetCommentByID(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteComment(ctx, id, comment)
}

func (s *CommentService) GetCommentByID(ctx context.Context, id string) (*domain.Comment, error) {
	if err := requireID(domain.EntityComment, id); err != nil {
		return nil, err
	}
	return s.repo.GetCommentByID(ctx, id)
}

func (s *CommentService) GetComments(ctx context.Context) ([]*domain.Comment, error) {
	return s.repo.GetComments(ctx)
}

func (s *CommentService) GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error) {
	if strings.TrimSpace(postID) == "" {
		return nil, domain.NewValidationError(domain.EntityComment, "postId", "", "Comment postId cannot be empty")
	}
	return s.repo.GetCommentsByPostID(ctx, postID)
}

package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

type CommentRepo struct {
	mu       sync.RWMutex
	comments map[string]*domain.Comment
}

func NewCommentRepo() *CommentRepo {
	return &CommentRepo{comments: make(map[string]*domain.Comment)}
}

func (r *CommentRepo) CreateComment(ctx context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[comment.ID]; ok {
		return domain.NewAlreadyExistsError(domain.EntityComment, comment.ID, "Comment Already Created")
	}
	c := *comment
	r.comments[comment.ID] = &c
	return nil
}

func (r *CommentRepo) UpdateComment(ctx context.Context, id string, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return commentNotFound(id)
	}
	c := *comment
	r.comments[id] = &c
	return nil
}

func (r *CommentRepo) DeleteComment(ctx context.Context, id string, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return domain.NewNotFoundError(domain.EntityComment, id, "Comment not found to delete")
	}
	delete(r.comments, id)
	return nil
}

func (r *CommentRepo) GetCommentByID(ctx context.Context, id string) (*domain.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.comments[id]
	if !ok {
		return nil, commentNotFound(id)
	}
	out := *c
	return &out, nil
}

func (r *CommentRepo) GetComments(ctx context.Context) ([]*domain.Comment, error) {
	return r.list(func(*domain.Comment) bool { return true }), nil
}

func (r *CommentRepo) GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error) {
	return r.list(func(c *domain.Comment) bool { return c.PostID == postID }), nil
}

// Len is the number of stored comments (tests).
func (r *CommentRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.comments)
}

func (r *CommentRepo) list(keep func(*domain.Comment) bool) []*domain.Comment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Comment, 0)
	for _, c := range r.comments {
		if keep(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func commentNotFound(id string) error {
	return domain.NewNotFoundError(domain.EntityComment, id, "Comment not found")
}

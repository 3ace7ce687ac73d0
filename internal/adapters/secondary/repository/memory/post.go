package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

type PostRepo struct {
	mu       sync.RWMutex
	posts    map[string]*domain.Post
	comments *CommentRepo // for GetDetail, may be nil
	calls    int
}

func NewPostRepo(comments *CommentRepo) *PostRepo {
	return &PostRepo{posts: make(map[string]*domain.Post), comments: comments}
}

// Calls counts every repository call; tests use it to prove fail-fast validation.
func (r *PostRepo) Calls() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.calls
}

func (r *PostRepo) Create(ctx context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	if _, ok := r.posts[post.ID]; ok {
		return domain.NewAlreadyExistsError(domain.EntityPost, post.ID, "Post already exists")
	}
	r.posts[post.ID] = post.Clone()
	return nil
}

func (r *PostRepo) Update(ctx context.Context, post *domain.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	if _, err := r.live(post.ID); err != nil {
		return err
	}
	r.posts[post.ID] = post.Clone()
	return nil
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	p, err := r.live(id)
	if err != nil {
		return domain.NewNotFoundError(domain.EntityPost, id, "Post not found to delete")
	}
	now := time.Now().UTC()
	p.DeletedAt = &now
	return nil
}

func (r *PostRepo) GetPostByID(ctx context.Context, id string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	p, err := r.live(id)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

func (r *PostRepo) GetDetail(ctx context.Context, id string) (*domain.Post, error) {
	post, err := r.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.comments != nil {
		comments, err := r.comments.GetCommentsByPostID(ctx, id)
		if err != nil {
			return nil, err
		}
		post.Comments = make([]domain.Comment, len(comments))
		for i, c := range comments {
			post.Comments[i] = *c
		}
	}
	return post, nil
}

func (r *PostRepo) GetAllByUID(ctx context.Context, creatorID string, page domain.PageRequest) (*domain.PostPage, error) {
	return r.page(page, func(p *domain.Post) bool { return p.CreatorID == creatorID }), nil
}

func (r *PostRepo) GetMine(ctx context.Context, id string, page domain.PageRequest) (*domain.PostPage, error) {
	return r.page(page, func(p *domain.Post) bool { return p.CreatorID == id }), nil
}

func (r *PostRepo) GetByCateID(ctx context.Context, cateID string, page domain.PageRequest) (*domain.PostPage, error) {
	return r.page(page, func(p *domain.Post) bool { return p.CateID.Has(cateID) }), nil
}

func (r *PostRepo) GetShare(ctx context.Context, shareID string, page domain.PageRequest) (*domain.PostPage, error) {
	return r.page(page, func(p *domain.Post) bool { return p.Share.Has(shareID) }), nil
}

func (r *PostRepo) GetByMentionID(ctx context.Context, mention string, page domain.PageRequest) (*domain.PostPage, error) {
	return r.page(page, func(p *domain.Post) bool { return p.Mention.Has(mention) }), nil
}

func (r *PostRepo) GetAllPost(ctx context.Context) ([]*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.filter(func(*domain.Post) bool { return true }), nil
}

// --- HELPERS ---

func (r *PostRepo) live(id string) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok || p.IsDeleted() {
		return nil, domain.NewNotFoundError(domain.EntityPost, id, "Post not found")
	}
	return p, nil
}

// filter returns live posts matching keep, newest first. Caller holds the lock.
func (r *PostRepo) filter(keep func(*domain.Post) bool) []*domain.Post {
	out := make([]*domain.Post, 0)
	for _, p := range r.posts {
		if !p.IsDeleted() && keep(p) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *PostRepo) page(req domain.PageRequest, keep func(*domain.Post) bool) *domain.PostPage {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++

	all := r.filter(keep)
	start := req.Offset()
	if start < 0 || start > len(all) {
		start = len(all)
	}
	end := start + req.Size
	if end < start || end > len(all) {
		end = len(all)
	}
	return &domain.PostPage{
		Data:    all[start:end],
		EndPage: domain.EndPage(int64(len(all)), req.Size),
	}
}

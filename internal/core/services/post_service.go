package services

import (
	"context"
	"strings"
	"time"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
	"github.com/DangKhoi2208/imago-core/internal/core/ports"
)

type PostService struct {
	repo ports.PostRepository
	now  func() time.Time
}

func NewPostService(repo ports.PostRepository) *PostService {
	return &PostService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// --- COMMANDS (Write) ---

func (s *PostService) Create(ctx context.Context, post *domain.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	now := s.now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now
	return s.repo.Create(ctx, post)
}

func (s *PostService) Update(ctx context.Context, post *domain.Post) error {
	if err := requireID(domain.EntityPost, post.ID); err != nil {
		return err
	}
	if err := post.Validate(); err != nil {
		return err
	}
	if _, err := s.repo.GetPostByID(ctx, post.ID); err != nil {
		return err
	}
	post.UpdatedAt = s.now()
	return s.repo.Update(ctx, post)
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	if err := requireID(domain.EntityPost, id); err != nil {
		return err
	}
	if _, err := s.repo.GetPostByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// --- QUERIES (Read) ---

func (s *PostService) GetDetail(ctx context.Context, id string) (*domain.Post, error) {
	if err := requireID(domain.EntityPost, id); err != nil {
		return nil, err
	}
	return s.repo.GetDetail(ctx, id)
}

func (s *PostService) GetPostByID(ctx context.Context, id string) (*domain.Post, error) {
	if err := requireID(domain.EntityPost, id); err != nil {
		return nil, err
	}
	return s.repo.GetPostByID(ctx, id)
}

func (s *PostService) GetAllByUID(ctx context.Context, creatorID string, q domain.PageQuery) (*domain.PostPage, error) {
	return s.list(ctx, "creatorId", creatorID, q, s.repo.GetAllByUID)
}

func (s *PostService) GetMine(ctx context.Context, id string, q domain.PageQuery) (*domain.PostPage, error) {
	return s.list(ctx, "id", id, q, s.repo.GetMine)
}

func (s *PostService) GetByCateID(ctx context.Context, cateID string, q domain.PageQuery) (*domain.PostPage, error) {
	return s.list(ctx, "cateId", cateID, q, s.repo.GetByCateID)
}

func (s *PostService) GetShare(ctx context.Context, shareID string, q domain.PageQuery) (*domain.PostPage, error) {
	return s.list(ctx, "shareId", shareID, q, s.repo.GetShare)
}

func (s *PostService) GetByMentionID(ctx context.Context, mention string, q domain.PageQuery) (*domain.PostPage, error) {
	return s.list(ctx, "mention", mention, q, s.repo.GetByMentionID)
}

func (s *PostService) GetAllPost(ctx context.Context) ([]*domain.Post, error) {
	return s.repo.GetAllPost(ctx)
}

// --- HELPERS ---

type listFunc func(ctx context.Context, key string, page domain.PageRequest) (*domain.PostPage, error)

// list validates the filter and the page before the repository is touched.
func (s *PostService) list(ctx context.Context, field, key string, q domain.PageQuery, fetch listFunc) (*domain.PostPage, error) {
	if strings.TrimSpace(key) == "" {
		return nil, domain.NewValidationError(domain.EntityPost, field, "", "id is invalid")
	}
	page, err := q.Parse()
	if err != nil {
		return nil, err
	}
	return fetch(ctx, key, page)
}

func requireID(entity, id string) error {
	if strings.TrimSpace(id) == "" {
		return domain.NewValidationError(entity, "id", "", "id is invalid")
	}
	return nil
}

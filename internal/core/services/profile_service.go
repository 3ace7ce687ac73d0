package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
	"github.com/DangKhoi2208/imago-core/internal/core/ports"
)

// ProfileService implements ports.ProfileUseCase.
type ProfileService struct {
	repo ports.ProfileRepository
	now  func() time.Time
}

func NewProfileService(repo ports.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Create refuses duplicates before it looks at the payload.
func (s *ProfileService) Create(ctx context.Context, profile *domain.Profile) error {
	if profile.ID != "" {
		existing, err := s.repo.Get(ctx, profile.ID)
		switch {
		case err == nil && existing != nil:
			return domain.NewAlreadyExistsError(domain.EntityProfile, profile.ID, "Profile already exists")
		case err != nil && !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("profile existence check: %w", err)
		}
	}

	if err := profile.Validate(); err != nil {
		return err
	}

	now := s.now()
	profile.CreatedAt = now
	profile.UpdatedAt = now
	return s.repo.Create(ctx, profile)
}

// Update requires the profile to exist; the lookup error is returned as is.
func (s *ProfileService) Update(ctx context.Context, profile *domain.Profile) error {
	if _, err := s.repo.Get(ctx, profile.ID); err != nil {
		return err
	}
	if err := profile.Validate(); err != nil {
		return err
	}
	profile.UpdatedAt = s.now()
	return s.repo.Update(ctx, profile)
}

func (s *ProfileService) UpdatePair(ctx context.Context, a, b *domain.Profile) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := b.Validate(); err != nil {
		return err
	}
	now := s.now()
	a.UpdatedAt = now
	b.UpdatedAt = now
	return s.repo.UpdateMany(ctx, a, b)
}

func (s *ProfileService) Get(ctx context.Context, id string) (*domain.Profile, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError(domain.EntityProfile, "id", "", "Id cannot be empty")
	}
	return s.repo.Get(ctx, id)
}

func (s *ProfileService) GetAll(ctx context.Context) ([]*domain.Profile, error) {
	return s.repo.GetAll(ctx)
}

// Package memory keeps every entity in process memory. It backs
// STORAGE_DRIVER=memory and serves as the substitutable fake in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

type ProfileRepo struct {
	mu       sync.RWMutex
	profiles map[string]*domain.Profile

	// FailUpdateMany makes the next UpdateMany fail without writing (tests).
	FailUpdateMany error
}

func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func (r *ProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[profile.ID]; ok {
		return domain.NewAlreadyExistsError(domain.EntityProfile, profile.ID, "Profile already exists")
	}
	r.profiles[profile.ID] = profile.Clone()
	return nil
}

func (r *ProfileRepo) Update(ctx context.Context, profile *domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkVersion(profile); err != nil {
		return err
	}
	r.store(profile)
	return nil
}

// UpdateMany checks every id and version before writing any of them.
func (r *ProfileRepo) UpdateMany(ctx context.Context, profiles ...*domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.FailUpdateMany; err != nil {
		r.FailUpdateMany = nil
		return err
	}
	for _, p := range profiles {
		if err := r.checkVersion(p); err != nil {
			return err
		}
	}
	for _, p := range profiles {
		r.store(p)
	}
	return nil
}

func (r *ProfileRepo) Get(ctx context.Context, id string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, profileNotFound(id)
	}
	return p.Clone(), nil
}

func (r *ProfileRepo) GetAll(ctx context.Context) ([]*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Put stores p as is, bypassing every check. Test seeding only.
func (r *ProfileRepo) Put(p *domain.Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = p.Clone()
}

func (r *ProfileRepo) checkVersion(p *domain.Profile) error {
	stored, ok := r.profiles[p.ID]
	if !ok {
		return profileNotFound(p.ID)
	}
	if stored.Version != p.Version {
		return domain.NewStaleWriteError(domain.EntityProfile, p.ID)
	}
	return nil
}

func (r *ProfileRepo) store(p *domain.Profile) {
	p.Version++
	r.profiles[p.ID] = p.Clone()
}

func profileNotFound(id string) error {
	return domain.NewNotFoundError(domain.EntityProfile, id, "Profile not found")
}

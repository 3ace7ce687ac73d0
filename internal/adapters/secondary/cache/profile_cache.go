// Package cache puts Redis in front of the profile repository.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
	"github.com/DangKhoi2208/imago-core/internal/core/ports"
)

// ProfileCache is a read-through decorator. A successful write caches the
// written profiles; a failed one drops their keys. Every cache fill goes
// through storeNewer, so an entry is never replaced by a lower version.
type ProfileCache struct {
	next   ports.ProfileRepository
	client *redis.Client
	ttl    time.Duration
}

func NewProfileCache(next ports.ProfileRepository, client *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{next: next, client: client, ttl: ttl}
}

type cachedProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	PhotoURL  string    `json:"photoUrl"`
	Phone     string    `json:"phone"`
	UserName  string    `json:"userName"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Category  []string  `json:"category"`
	Followers []string  `json:"followers"`
	Following []string  `json:"following"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int64     `json:"version"`
}

func profileKey(id string) string {
	return fmt.Sprintf("profile:%s", id)
}

// storeNewer sets KEYS[1] to ARGV[1] with a PX of ARGV[3], unless the cached
// entry already carries a version above ARGV[2].
var storeNewer = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur then
	local ok, doc = pcall(cjson.decode, cur)
	if ok and type(doc) == 'table' then
		local v = tonumber(doc['version'])
		if v and v > tonumber(ARGV[2]) then
			return 0
		end
	end
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

func (c *ProfileCache) Create(ctx context.Context, p *domain.Profile) error {
	if err := c.next.Create(ctx, p); err != nil {
		c.invalidate(ctx, p.ID)
		return err
	}
	c.store(ctx, p)
	return nil
}

func (c *ProfileCache) Update(ctx context.Context, p *domain.Profile) error {
	if err := c.next.Update(ctx, p); err != nil {
		c.invalidate(ctx, p.ID)
		return err
	}
	c.store(ctx, p)
	return nil
}

func (c *ProfileCache) UpdateMany(ctx context.Context, profiles ...*domain.Profile) error {
	if err := c.next.UpdateMany(ctx, profiles...); err != nil {
		ids := make([]string, len(profiles))
		for i, p := range profiles {
			ids[i] = p.ID
		}
		c.invalidate(ctx, ids...)
		return err
	}
	for _, p := range profiles {
		c.store(ctx, p)
	}
	return nil
}

func (c *ProfileCache) Get(ctx context.Context, id string) (*domain.Profile, error) {
	raw, err := c.client.Get(ctx, profileKey(id)).Bytes()
	switch {
	case err == nil:
		var cp cachedProfile
		if jsonErr := json.Unmarshal(raw, &cp); jsonErr == nil {
			return cp.toDomain(), nil
		}
		slog.WarnContext(ctx, "Dropping undecodable cached profile", "profile_id", id)
	case !errors.Is(err, redis.Nil):
		// Redis down: serve from the repository.
		slog.WarnContext(ctx, "Profile cache read failed", "error", err, "profile_id", id)
	}

	p, err := c.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, p)
	return p, nil
}

// GetAll is not cached.
func (c *ProfileCache) GetAll(ctx context.Context) ([]*domain.Profile, error) {
	return c.next.GetAll(ctx)
}

func (c *ProfileCache) store(ctx context.Context, p *domain.Profile) {
	raw, err := json.Marshal(fromDomain(p))
	if err != nil {
		return
	}
	keys := []string{profileKey(p.ID)}
	if err := storeNewer.Run(ctx, c.client, keys, raw, p.Version, c.ttl.Milliseconds()).Err(); err != nil {
		slog.WarnContext(ctx, "Profile cache write failed", "error", err, "profile_id", p.ID)
	}
}

func (c *ProfileCache) invalidate(ctx context.Context, ids ...string) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = profileKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.WarnContext(ctx, "Profile cache invalidation failed", "error", err, "keys", keys)
	}
}

func fromDomain(p *domain.Profile) cachedProfile {
	return cachedProfile{
		ID:        p.ID,
		Email:     p.Email,
		Bio:       p.Bio,
		PhotoURL:  p.PhotoURL,
		Phone:     p.Phone,
		UserName:  p.UserName,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Category:  p.Category.Slice(),
		Followers: p.Followers.Slice(),
		Following: p.Following.Slice(),
		Gender:    p.Gender,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Version:   p.Version,
	}
}

func (cp cachedProfile) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:        cp.ID,
		Email:     cp.Email,
		Bio:       cp.Bio,
		PhotoURL:  cp.PhotoURL,
		Phone:     cp.Phone,
		UserName:  cp.UserName,
		FirstName: cp.FirstName,
		LastName:  cp.LastName,
		Category:  domain.NewIDSet(cp.Category...),
		Followers: domain.NewIDSet(cp.Followers...),
		Following: domain.NewIDSet(cp.Following...),
		Gender:    cp.Gender,
		CreatedAt: cp.CreatedAt,
		UpdatedAt: cp.UpdatedAt,
		Version:   cp.Version,
	}
}

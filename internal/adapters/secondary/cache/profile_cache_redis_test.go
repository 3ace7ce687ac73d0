package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DangKhoi2208/imago-core/internal/adapters/secondary/repository/memory"
	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

// liveRedis connects to REDIS_ADDR, or skips when no server is reachable.
func liveRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis at %s unreachable: %v", addr, err)
	}
	return client
}

func newCachedProfile(t *testing.T, client *redis.Client) (*ProfileCache, string) {
	t.Helper()
	id := "cache-test-" + uuid.NewString()
	t.Cleanup(func() { client.Del(context.Background(), profileKey(id)) })

	c := NewProfileCache(memory.NewProfileRepo(), client, time.Minute)
	p := &domain.Profile{ID: id, Email: id + "@x.io", UserName: "u", FirstName: "F", LastName: "L"}
	require.NoError(t, c.Create(context.Background(), p))
	return c, id
}

func TestProfileCache_LateFillKeepsNewerVersion(t *testing.T) {
	ctx := context.Background()
	client := liveRedis(t)
	c, id := newCachedProfile(t, client)

	// A reader fetched version 0 and is about to fill the cache...
	stale, err := c.next.Get(ctx, id)
	require.NoError(t, err)

	// ...while a writer commits version 1.
	fresh := stale.Clone()
	fresh.Followers.Add("p3")
	require.NoError(t, c.UpdateMany(ctx, fresh))
	require.Equal(t, int64(1), fresh.Version)

	c.store(ctx, stale)

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, []string{"p3"}, got.Followers.Slice())
}

func TestProfileCache_FailedWriteDropsEntry(t *testing.T) {
	ctx := context.Background()
	client := liveRedis(t)
	c, id := newCachedProfile(t, client)

	loser, err := c.Get(ctx, id)
	require.NoError(t, err)
	winner := loser.Clone()
	winner.Bio = "winner"
	require.NoError(t, c.Update(ctx, winner))

	loser.Bio = "loser"
	require.ErrorIs(t, c.Update(ctx, loser), domain.ErrStaleWrite)

	n, err := client.Exists(ctx, profileKey(id)).Result()
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "winner", got.Bio)
	assert.Equal(t, int64(1), got.Version)
}

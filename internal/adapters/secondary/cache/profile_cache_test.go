package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DangKhoi2208/imago-core/internal/adapters/secondary/cache"
	"github.com/DangKhoi2208/imago-core/internal/adapters/secondary/repository/memory"
	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

// unreachableRedis fails every command quickly.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestProfileCache_FallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepo()
	c := cache.NewProfileCache(repo, unreachableRedis(t), time.Minute)

	p := &domain.Profile{ID: "u1", Email: "u1@x.io", UserName: "u1", FirstName: "F", LastName: "L"}
	require.NoError(t, c.Create(ctx, p))

	got, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserName)

	got.Bio = "updated"
	require.NoError(t, c.Update(ctx, got))
	assert.Equal(t, int64(1), got.Version)

	_, err = c.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileCache_WriteErrorsPassThrough(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepo()
	c := cache.NewProfileCache(repo, unreachableRedis(t), time.Minute)

	err := c.UpdateMany(ctx, &domain.Profile{ID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DangKhoi2208/imago-core/internal/adapters/secondary/repository/memory"
	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

func profile(id string) *domain.Profile {
	return &domain.Profile{ID: id, Email: id + "@x.io", UserName: id, FirstName: "F", LastName: "L"}
}

func TestProfileRepo_UpdateBumpsVersion(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepo()
	require.NoError(t, repo.Create(ctx, profile("a")))

	p, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	p.Bio = "one"
	require.NoError(t, repo.Update(ctx, p))
	assert.Equal(t, int64(1), p.Version)

	stored, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Version)
	assert.Equal(t, "one", stored.Bio)
}

func TestProfileRepo_StaleUpdateRejected(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepo()
	require.NoError(t, repo.Create(ctx, profile("a")))

	first, _ := repo.Get(ctx, "a")
	second, _ := repo.Get(ctx, "a")
	require.NoError(t, repo.Update(ctx, first))

	err := repo.Update(ctx, second)
	assert.ErrorIs(t, err, domain.ErrStaleWrite)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProfileRepo_UpdateMissing(t *testing.T) {
	repo := memory.NewProfileRepo()
	err := repo.Update(context.Background(), profile("ghost"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileRepo_UpdateManyAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepo()
	require.NoError(t, repo.Create(ctx, profile("a")))

	a, _ := repo.Get(ctx, "a")
	a.Bio = "changed"
	err := repo.UpdateMany(ctx, a, profile("ghost"))
	require.ErrorIs(t, err, domain.ErrNotFound)

	stored, _ := repo.Get(ctx, "a")
	assert.Empty(t, stored.Bio)
	assert.Zero(t, stored.Version)
}

func TestProfileRepo_FailUpdateManyIsOneShot(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepo()
	require.NoError(t, repo.Create(ctx, profile("a")))
	boom := errors.New("boom")
	repo.FailUpdateMany = boom

	a, _ := repo.Get(ctx, "a")
	require.ErrorIs(t, repo.UpdateMany(ctx, a), boom)
	require.NoError(t, repo.UpdateMany(ctx, a))
}

func TestProfileRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepo()
	require.NoError(t, repo.Create(ctx, profile("a")))

	p, _ := repo.Get(ctx, "a")
	p.Followers.Add("intruder")

	again, _ := repo.Get(ctx, "a")
	assert.False(t, again.Followers.Has("intruder"))
}

func TestProfileRepo_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepo()
	require.NoError(t, repo.Create(ctx, profile("a")))
	assert.ErrorIs(t, repo.Create(ctx, profile("a")), domain.ErrAlreadyExists)
}

package memory_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DangKhoi2208/imago-core/internal/adapters/secondary/repository/memory"
	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

func TestPostRepo_PageNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPostRepo(nil)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &domain.Post{
			ID:        fmt.Sprintf("p%d", i),
			CreatorID: "u1",
			Content:   "c",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	page, err := repo.GetAllByUID(ctx, "u1", domain.PageRequest{Page: 0, Size: 2})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "p4", page.Data[0].ID)
	assert.Equal(t, "p3", page.Data[1].ID)
	assert.Equal(t, 2, page.EndPage)

	last, err := repo.GetAllByUID(ctx, "u1", domain.PageRequest{Page: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, last.Data, 1)
	assert.Equal(t, "p0", last.Data[0].ID)

	beyond, err := repo.GetAllByUID(ctx, "u1", domain.PageRequest{Page: 9, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond.Data)
	assert.Equal(t, 2, beyond.EndPage)
}

func TestPostRepo_SoftDeleteHidesPost(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPostRepo(nil)
	require.NoError(t, repo.Create(ctx, &domain.Post{ID: "p1", CreatorID: "u1", Content: "c", Mention: domain.NewIDSet("u2")}))

	require.NoError(t, repo.Delete(ctx, "p1"))

	_, err := repo.GetPostByID(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "p1"), domain.ErrNotFound)

	page, err := repo.GetByMentionID(ctx, "u2", domain.PageRequest{Size: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.EndPage)

	all, err := repo.GetAllPost(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPostRepo_DetailHydratesComments(t *testing.T) {
	ctx := context.Background()
	comments := memory.NewCommentRepo()
	repo := memory.NewPostRepo(comments)
	require.NoError(t, repo.Create(ctx, &domain.Post{ID: "p1", CreatorID: "u1", Content: "c"}))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, comments.CreateComment(ctx, &domain.Comment{ID: "c2", PostID: "p1", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, comments.CreateComment(ctx, &domain.Comment{ID: "c1", PostID: "p1", CreatedAt: base}))
	require.NoError(t, comments.CreateComment(ctx, &domain.Comment{ID: "c3", PostID: "other", CreatedAt: base}))

	detail, err := repo.GetDetail(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "c1", detail.Comments[0].ID)
	assert.Equal(t, "c2", detail.Comments[1].ID)
}

func TestPostRepo_PageWithOverflowingOffsetIsEmpty(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewPostRepo(nil)
	require.NoError(t, repo.Create(ctx, &domain.Post{ID: "p1", CreatorID: "u1", Content: "c"}))

	page, err := repo.GetAllByUID(ctx, "u1", domain.PageRequest{Page: 922337203685477580, Size: 100})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	assert.Equal(t, 0, page.EndPage)
}

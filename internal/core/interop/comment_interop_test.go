package interop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

func (f *postFixture) seedComment(t *testing.T, author string) (*domain.Post, *domain.Comment) {
	t.Helper()
	ctx := context.Background()
	p, err := f.post.Create(ctx, "owner", &domain.Post{Content: "hello"})
	require.NoError(t, err)
	c, err := f.comment.CreateComment(ctx, author, &domain.Comment{Content: "nice", PostID: p.ID})
	require.NoError(t, err)
	return p, c
}

func TestCommentInterop_CreateStampsAuthor(t *testing.T) {
	f := newPostFixture()
	p, c := f.seedComment(t, "u2")

	assert.Equal(t, "u2", c.AuthorID)
	assert.NotEmpty(t, c.ID)
	assert.Contains(t, f.events.Calls(), "comment.created "+c.ID)

	detail, err := f.post.GetDetail(context.Background(), "u2", p.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, c.ID, detail.Comments[0].ID)
}

func TestCommentInterop_CreateOnMissingPost(t *testing.T) {
	f := newPostFixture()

	_, err := f.comment.CreateComment(context.Background(), "u2", &domain.Comment{Content: "nice", PostID: "ghost"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, f.comments.Len())
}

func TestCommentInterop_IDMismatchLeavesRecord(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()
	_, c := f.seedComment(t, "u2")

	err := f.comment.DeleteComment(ctx, "u2", "other-id", &domain.Comment{ID: c.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, f.comments.Len())

	_, err = f.comment.UpdateComment(ctx, "u2", "other-id", &domain.Comment{ID: c.ID, Content: "edit"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCommentInterop_OnlyAuthorMayWrite(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()
	_, c := f.seedComment(t, "u2")

	_, err := f.comment.UpdateComment(ctx, "u3", c.ID, &domain.Comment{ID: c.ID, Content: "edit"})
	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.ErrorIs(t, f.comment.DeleteComment(ctx, "u3", c.ID, &domain.Comment{ID: c.ID}), domain.ErrAuth)
	assert.Equal(t, 1, f.comments.Len())
}

func TestCommentInterop_UpdateKeepsPostAndAuthor(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()
	p, c := f.seedComment(t, "u2")

	updated, err := f.comment.UpdateComment(ctx, "u2", c.ID, &domain.Comment{ID: c.ID, Content: "edited", PostID: "elsewhere"})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.PostID)
	assert.Equal(t, "u2", updated.AuthorID)

	byPost, err := f.comment.GetCommentsByPostID(ctx, "u2", p.ID)
	require.NoError(t, err)
	require.Len(t, byPost, 1)
	assert.Equal(t, "edited", byPost[0].Content)
}

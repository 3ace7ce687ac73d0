package interop_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DangKhoi2208/imago-core/internal/adapters/secondary/repository/memory"
	"github.com/DangKhoi2208/imago-core/internal/core/domain"
	"github.com/DangKhoi2208/imago-core/internal/core/interop"
	"github.com/DangKhoi2208/imago-core/internal/core/services"
)

type postFixture struct {
	posts    *memory.PostRepo
	comments *memory.CommentRepo
	events   *recorder
	post     *interop.PostInterop
	comment  *interop.CommentInterop
}

func newPostFixture() *postFixture {
	comments := memory.NewCommentRepo()
	posts := memory.NewPostRepo(comments)
	events := &recorder{}
	return &postFixture{
		posts:    posts,
		comments: comments,
		events:   events,
		post:     interop.NewPostInterop(services.NewPostService(posts), tokenVerifier{}, events),
		comment:  interop.NewCommentInterop(services.NewCommentService(comments, posts), tokenVerifier{}, events),
	}
}

func TestPostInterop_CreateStampsCreatorAndID(t *testing.T) {
	f := newPostFixture()

	p, err := f.post.Create(context.Background(), "u1", &domain.Post{ID: "mine", CreatorID: "someone", Content: "hello"})
	require.NoError(t, err)

	assert.Equal(t, "u1", p.CreatorID)
	_, err = uuid.Parse(p.ID)
	assert.NoError(t, err, "id is a fresh uuid")
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, []string{"post.created " + p.ID}, f.events.Calls())
}

func TestPostInterop_RejectsBadToken(t *testing.T) {
	f := newPostFixture()

	_, err := f.post.Create(context.Background(), "bad", &domain.Post{Content: "hello"})
	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.Zero(t, f.posts.Calls())
}

func TestPostInterop_OnlyCreatorMayWrite(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()
	p, err := f.post.Create(ctx, "u1", &domain.Post{Content: "hello"})
	require.NoError(t, err)

	_, err = f.post.Update(ctx, "u2", &domain.Post{ID: p.ID, Content: "hijacked"})
	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.ErrorIs(t, f.post.Delete(ctx, "u2", p.ID), domain.ErrAuth)

	stored, err := f.post.GetPostByID(ctx, "u2", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", stored.Content)
}

func TestPostInterop_UpdateKeepsCreator(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()
	p, err := f.post.Create(ctx, "u1", &domain.Post{Content: "hello"})
	require.NoError(t, err)

	updated, err := f.post.Update(ctx, "u1", &domain.Post{ID: p.ID, CreatorID: "u9", Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "u1", updated.CreatorID)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "edited", updated.Content)
}

func TestPostInterop_DeletePublishes(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()
	p, err := f.post.Create(ctx, "u1", &domain.Post{Content: "hello"})
	require.NoError(t, err)

	require.NoError(t, f.post.Delete(ctx, "u1", p.ID))
	assert.Contains(t, f.events.Calls(), "post.deleted "+p.ID)

	_, err = f.post.GetPostByID(ctx, "u1", p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostInterop_BadPageFailsBeforeStorage(t *testing.T) {
	f := newPostFixture()

	_, err := f.post.GetMine(context.Background(), "u1", domain.PageQuery{Page: "-1", Size: "10"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.post.GetByCateID(context.Background(), "u1", "c1", domain.PageQuery{Page: "0", Size: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, f.posts.Calls())
}

func TestPostInterop_GetShareUsesCaller(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture()
	_, err := f.post.Create(ctx, "u1", &domain.Post{Content: "for u2", Share: domain.NewIDSet("u2")})
	require.NoError(t, err)
	_, err = f.post.Create(ctx, "u1", &domain.Post{Content: "for u3", Share: domain.NewIDSet("u3")})
	require.NoError(t, err)

	page, err := f.post.GetShare(ctx, "u2", domain.NewPageQuery(0, 10))
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "for u2", page.Data[0].Content)
	assert.Equal(t, 0, page.EndPage)
}

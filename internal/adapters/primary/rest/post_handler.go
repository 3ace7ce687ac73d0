package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

// getPost serves both the detail (?id=) and the bare lookup (?postId=).
func (h *Handler) getPost(c *gin.Context) {
	var (
		p   *domain.Post
		err error
	)
	if postID, ok := c.GetQuery("postId"); ok {
		p, err = h.posts.GetPostByID(c.Request.Context(), token(c), postID)
	} else {
		p, err = h.posts.GetDetail(c.Request.Context(), token(c), c.Query("id"))
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostResponse(p))
}

func (h *Handler) getPostByID(c *gin.Context) {
	p, err := h.posts.GetPostByID(c.Request.Context(), token(c), c.Query("postId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostResponse(p))
}

func (h *Handler) getAllPosts(c *gin.Context) {
	posts, err := h.posts.GetAllPost(c.Request.Context(), token(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostResponses(posts))
}

func (h *Handler) getMentioned(c *gin.Context) {
	h.listPosts(c, func(ctx context.Context, tok string, q domain.PageQuery) (*domain.PostPage, error) {
		return h.posts.GetByMentionID(ctx, tok, c.Query("mention"), q)
	})
}

func (h *Handler) getMyPosts(c *gin.Context) {
	h.listPosts(c, h.posts.GetMine)
}

func (h *Handler) getUserPosts(c *gin.Context) {
	h.listPosts(c, func(ctx context.Context, tok string, q domain.PageQuery) (*domain.PostPage, error) {
		return h.posts.GetAllByUID(ctx, tok, c.Query("creatorId"), q)
	})
}

func (h *Handler) getNewFeeds(c *gin.Context) {
	h.listPosts(c, func(ctx context.Context, tok string, q domain.PageQuery) (*domain.PostPage, error) {
		return h.posts.GetByCateID(ctx, tok, c.Query("cateId"), q)
	})
}

func (h *Handler) getShared(c *gin.Context) {
	h.listPosts(c, h.posts.GetShare)
}

func (h *Handler) createPost(c *gin.Context) {
	var req PostRequest
	if err := bindNonEmpty(c, &req); err != nil {
		writeError(c, err)
		return
	}
	p, err := h.posts.Create(c.Request.Context(), token(c), req.toDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPostResponse(p))
}

func (h *Handler) updatePost(c *gin.Context) {
	var req PostRequest
	if err := bindNonEmpty(c, &req); err != nil {
		writeError(c, err)
		return
	}
	p, err := h.posts.Update(c.Request.Context(), token(c), req.toDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostResponse(p))
}

func (h *Handler) deletePost(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), token(c), c.Query("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type pageFetcher func(ctx context.Context, token string, q domain.PageQuery) (*domain.PostPage, error)

func (h *Handler) listPosts(c *gin.Context, fetch pageFetcher) {
	page, err := fetch(c.Request.Context(), token(c), pageQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPostPageResponse(page))
}

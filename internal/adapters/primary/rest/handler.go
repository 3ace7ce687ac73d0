// Package rest is the HTTP boundary: gin routes onto the interop layer.
package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
	"github.com/DangKhoi2208/imago-core/internal/core/ports"
)

type Handler struct {
	profiles ports.ProfileInterop
	posts    ports.PostInterop
	comments ports.CommentInterop
}

func NewHandler(profiles ports.ProfileInterop, posts ports.PostInterop, comments ports.CommentInterop) *Handler {
	return &Handler{profiles: profiles, posts: posts, comments: comments}
}

// token hands the raw Authorization header to the verifier, which accepts
// it with or without the "Bearer " prefix.
func token(c *gin.Context) string {
	return c.GetHeader("Authorization")
}

func pageQuery(c *gin.Context) domain.PageQuery {
	return domain.PageQuery{Page: c.Query("page"), Size: c.Query("size")}
}

// bindJSON decodes the body into dst, or fails with a validation error.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return errInvalidBody
	}
	return nil
}

// bindNonEmpty is bindJSON that also rejects a missing or empty object.
func bindNonEmpty(c *gin.Context, dst any) error {
	raw, err := c.GetRawData()
	if err != nil {
		return errInvalidBody
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil || len(probe) == 0 {
		return errInvalidBody
	}
	if err := binding.JSON.BindBody(raw, dst); err != nil {
		return errInvalidBody
	}
	return nil
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

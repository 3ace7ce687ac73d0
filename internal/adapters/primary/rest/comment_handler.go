package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createComment(c *gin.Context) {
	var req CommentRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	comment, err := h.comments.CreateComment(c.Request.Context(), token(c), req.toDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

func (h *Handler) updateComment(c *gin.Context) {
	var req CommentRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	comment, err := h.comments.UpdateComment(c.Request.Context(), token(c), c.Param("id"), req.toDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCommentResponse(comment))
}

// deleteComment expects the comment in the body; its id must match the path.
func (h *Handler) deleteComment(c *gin.Context) {
	var req CommentRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	if err := h.comments.DeleteComment(c.Request.Context(), token(c), c.Param("id"), req.toDomain()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) getComment(c *gin.Context) {
	comment, err := h.comments.GetCommentByID(c.Request.Context(), token(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCommentResponse(comment))
}

func (h *Handler) getComments(c *gin.Context) {
	comments, err := h.comments.GetComments(c.Request.Context(), token(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCommentResponses(comments))
}

func (h *Handler) getPostComments(c *gin.Context) {
	comments, err := h.comments.GetCommentsByPostID(c.Request.Context(), token(c), c.Param("postId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCommentResponses(comments))
}

package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

func (h *Handler) createProfile(c *gin.Context) {
	var req ProfileRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	p, err := h.profiles.Create(c.Request.Context(), token(c), req.toDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProfileResponse(p))
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req ProfilePatchRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	p, err := h.profiles.Update(c.Request.Context(), token(c), req.toDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(p))
}

func (h *Handler) getProfile(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), token(c), c.Query("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(p))
}

func (h *Handler) getAllProfiles(c *gin.Context) {
	profiles, err := h.profiles.GetAll(c.Request.Context(), token(c))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		out[i] = toProfileResponse(p)
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) getMyProfile(c *gin.Context) {
	p, err := h.profiles.GetMine(c.Request.Context(), token(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(p))
}

func (h *Handler) follow(c *gin.Context) {
	changed, err := h.profiles.Follow(c.Request.Context(), token(c), c.Query("id"), c.Query("otherId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, FollowResponse{Changed: changed})
}

func (h *Handler) unfollow(c *gin.Context) {
	changed, err := h.profiles.Unfollow(c.Request.Context(), token(c), c.Query("id"), c.Query("otherId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, FollowResponse{Changed: changed})
}

func (h *Handler) relation(c *gin.Context) {
	otherID := c.Query("otherId")
	if otherID == "" {
		writeError(c, domain.NewValidationError(domain.EntityProfile, "otherId", "", "Id cannot be empty"))
		return
	}
	status, err := h.profiles.Relation(c.Request.Context(), token(c), otherID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, RelationResponse{IsFollowing: status.IsFollowing, IsFollowedBy: status.IsFollowedBy})
}

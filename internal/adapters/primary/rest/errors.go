package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

var errInvalidBody = domain.NewValidationError("", "body", "", "Body is invalid")

// statusOf maps the domain kind of err to an HTTP status.
func statusOf(err error) int {
	switch domain.KindOf(err) {
	case domain.ErrValidation:
		return http.StatusBadRequest
	case domain.ErrAuth:
		return http.StatusUnauthorized
	case domain.ErrNotFound:
		return http.StatusNotFound
	case domain.ErrAlreadyExists, domain.ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the domain message; anything foreign is a 500
// whose details stay in the logs.
func writeError(c *gin.Context, err error) {
	status := statusOf(err)
	msg, ok := domain.PublicMessage(err)
	if !ok || status == http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "Request failed",
			"error", err, "method", c.Request.Method, "path", c.FullPath())
		msg = "Internal server error"
	} else if errors.Is(err, domain.ErrAuth) {
		slog.DebugContext(c.Request.Context(), "Rejected credential", "error", err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{StatusCode: status, Message: msg})
}

package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

func TestError_KindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", domain.NewNotFoundError(domain.EntityPost, "42", "Post not found"))

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, domain.ErrNotFound, domain.KindOf(err))

	msg, ok := domain.PublicMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Post not found", msg)
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := errors.New("signature is invalid")
	err := domain.NewAuthError("Invalid token", cause)

	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "signature is invalid")
}

func TestError_StaleWriteIsAConflict(t *testing.T) {
	err := domain.NewStaleWriteError(domain.EntityProfile, "p1")

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrStaleWrite)
	assert.NotErrorIs(t, domain.NewConflictError(domain.EntityProfile, "x"), domain.ErrStaleWrite)
}

func TestKindOf_ForeignError(t *testing.T) {
	assert.Nil(t, domain.KindOf(errors.New("boom")))
	_, ok := domain.PublicMessage(errors.New("boom"))
	assert.False(t, ok)
}

func TestComment_MatchesID(t *testing.T) {
	c := &domain.Comment{ID: "c1"}

	assert.NoError(t, c.MatchesID("c1"))

	for _, id := range []string{"", "c2"} {
		err := c.MatchesID(id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		msg, _ := domain.PublicMessage(err)
		assert.Equal(t, "Comment not updated by Id not the same", msg)
	}
}

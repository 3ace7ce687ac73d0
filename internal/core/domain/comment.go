package domain

import (
	"strings"
	"time"
)

const EntityComment = "comment"

type Comment struct {
	ID        string
	Content   string
	PostID    string
	AuthorID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Comment) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return NewValidationError(EntityComment, "content", "", "Comment content cannot be empty")
	}
	if strings.TrimSpace(c.PostID) == "" {
		return NewValidationError(EntityComment, "postId", "", "Comment postId cannot be empty")
	}
	if strings.TrimSpace(c.AuthorID) == "" {
		return NewValidationError(EntityComment, "authorId", "", "Comment authorId cannot be empty")
	}
	return nil
}

// MatchesID rejects an update/delete whose path id disagrees with the payload.
func (c *Comment) MatchesID(id string) error {
	if id == "" || c.ID != id {
		return &Error{
			Kind:   ErrNotFound,
			Entity: EntityComment,
			Field:  "id",
			Value:  id,
			Msg:    "Comment not updated by Id not the same",
		}
	}
	return nil
}

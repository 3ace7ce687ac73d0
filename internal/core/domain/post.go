package domain

import (
	"strings"
	"time"
)

const EntityPost = "post"

type Post struct {
	ID        string
	CreatorID string
	Share     IDSet // profiles the post is shared to
	PhotoURL  []string
	Content   string
	Hashtag   []string
	CateID    IDSet
	Reaction  []string
	Comments  []Comment // read-only view, owned by the comment repository
	Mention   IDSet
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // soft delete
}

// PostPage is one page of a filtered listing. EndPage is the last valid
// zero-based page index for the same filter.
type PostPage struct {
	Data    []*Post
	EndPage int
}

// Validate checks what must hold before a create/update reaches storage.
func (p *Post) Validate() error {
	if strings.TrimSpace(p.Content) == "" {
		return NewValidationError(EntityPost, "content", "", "Content is invalid")
	}
	if strings.TrimSpace(p.CreatorID) == "" {
		return NewValidationError(EntityPost, "creatorId", "", "Post creator cannot be empty")
	}
	return nil
}

func (p *Post) IsDeleted() bool { return p.DeletedAt != nil }

func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	c := *p
	c.Share = p.Share.Clone()
	c.CateID = p.CateID.Clone()
	c.Mention = p.Mention.Clone()
	c.PhotoURL = append([]string(nil), p.PhotoURL...)
	c.Hashtag = append([]string(nil), p.Hashtag...)
	c.Reaction = append([]string(nil), p.Reaction...)
	c.Comments = append([]Comment(nil), p.Comments...)
	if p.DeletedAt != nil {
		t := *p.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

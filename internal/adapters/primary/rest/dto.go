package rest

import (
	"time"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

// --- PROFILE ---

// ProfileRequest is the creation payload. id, email and the adjacency sets
// come from the token and the follow algorithm, never from the client.
type ProfileRequest struct {
	Bio       string   `json:"bio"`
	PhotoURL  string   `json:"photoUrl"`
	Phone     string   `json:"phone"`
	UserName  string   `json:"userName"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Category  []string `json:"category"`
	Gender    string   `json:"gender"`
}

// ProfilePatchRequest: absent fields keep their stored value.
type ProfilePatchRequest struct {
	Email     *string  `json:"email"`
	Bio       *string  `json:"bio"`
	PhotoURL  *string  `json:"photoUrl"`
	Phone     *string  `json:"phone"`
	UserName  *string  `json:"userName"`
	FirstName *string  `json:"firstName"`
	LastName  *string  `json:"lastName"`
	Gender    *string  `json:"gender"`
	Category  []string `json:"category"`
}

type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	PhotoURL  string    `json:"photoUrl"`
	Phone     string    `json:"phone"`
	UserName  string    `json:"userName"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Category  []string  `json:"category"`
	Followers []string  `json:"followers"`
	Following []string  `json:"following"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type RelationResponse struct {
	IsFollowing  bool `json:"isFollowing"`
	IsFollowedBy bool `json:"isFollowedBy"`
}

type FollowResponse struct {
	Changed bool `json:"changed"`
}

func (r ProfileRequest) toDomain() *domain.Profile {
	return &domain.Profile{
		Bio:       r.Bio,
		PhotoURL:  r.PhotoURL,
		Phone:     r.Phone,
		UserName:  r.UserName,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Category:  domain.NewIDSet(r.Category...),
		Gender:    r.Gender,
	}
}

func (r ProfilePatchRequest) toDomain() domain.ProfilePatch {
	return domain.ProfilePatch{
		Email:     r.Email,
		Bio:       r.Bio,
		PhotoURL:  r.PhotoURL,
		Phone:     r.Phone,
		UserName:  r.UserName,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Gender:    r.Gender,
		Category:  r.Category,
	}
}

func toProfileResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		Bio:       p.Bio,
		PhotoURL:  p.PhotoURL,
		Phone:     p.Phone,
		UserName:  p.UserName,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Category:  p.Category.Slice(),
		Followers: p.Followers.Slice(),
		Following: p.Following.Slice(),
		Gender:    p.Gender,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// --- POST ---

type PostRequest struct {
	ID       string   `json:"id"`
	Share    []string `json:"share"`
	PhotoURL []string `json:"photoUrl"`
	Content  string   `json:"content"`
	Hashtag  []string `json:"hashtag"`
	CateID   []string `json:"cateId"`
	Reaction []string `json:"reaction"`
	Mention  []string `json:"mention"`
}

type PostResponse struct {
	ID        string            `json:"id"`
	CreatorID string            `json:"creatorId"`
	Share     []string          `json:"share"`
	PhotoURL  []string          `json:"photoUrl"`
	Content   string            `json:"content"`
	Hashtag   []string          `json:"hashtag"`
	CateID    []string          `json:"cateId"`
	Reaction  []string          `json:"reaction"`
	Comments  []CommentResponse `json:"comments"`
	Mention   []string          `json:"mention"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	DeletedAt *time.Time        `json:"deletedAt,omitempty"`
}

type PostPageResponse struct {
	Data    []PostResponse `json:"data"`
	EndPage int            `json:"endpage"`
}

func (r PostRequest) toDomain() *domain.Post {
	return &domain.Post{
		ID:       r.ID,
		Share:    domain.NewIDSet(r.Share...),
		PhotoURL: r.PhotoURL,
		Content:  r.Content,
		Hashtag:  r.Hashtag,
		CateID:   domain.NewIDSet(r.CateID...),
		Reaction: r.Reaction,
		Mention:  domain.NewIDSet(r.Mention...),
	}
}

func toPostResponse(p *domain.Post) PostResponse {
	comments := make([]CommentResponse, len(p.Comments))
	for i := range p.Comments {
		comments[i] = toCommentResponse(&p.Comments[i])
	}
	return PostResponse{
		ID:        p.ID,
		CreatorID: p.CreatorID,
		Share:     p.Share.Slice(),
		PhotoURL:  orEmpty(p.PhotoURL),
		Content:   p.Content,
		Hashtag:   orEmpty(p.Hashtag),
		CateID:    p.CateID.Slice(),
		Reaction:  orEmpty(p.Reaction),
		Comments:  comments,
		Mention:   p.Mention.Slice(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		DeletedAt: p.DeletedAt,
	}
}

func toPostResponses(posts []*domain.Post) []PostResponse {
	out := make([]PostResponse, len(posts))
	for i, p := range posts {
		out[i] = toPostResponse(p)
	}
	return out
}

func toPostPageResponse(page *domain.PostPage) PostPageResponse {
	return PostPageResponse{Data: toPostResponses(page.Data), EndPage: page.EndPage}
}

// --- COMMENT ---

type CommentRequest struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	PostID  string `json:"postId"`
}

type CommentResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r CommentRequest) toDomain() *domain.Comment {
	return &domain.Comment{ID: r.ID, Content: r.Content, PostID: r.PostID}
}

func toCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toCommentResponses(comments []*domain.Comment) []CommentResponse {
	out := make([]CommentResponse, len(comments))
	for i, c := range comments {
		out[i] = toCommentResponse(c)
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

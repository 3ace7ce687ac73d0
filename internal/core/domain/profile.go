package domain

import (
	"strings"
	"time"
)

const EntityProfile = "profile"

// --- ENTITY ---

// Profile is identified by the subject id of the token that created it.
// Followers and Following are the two halves of every follow edge:
// B ∈ A.Following iff A ∈ B.Followers.
type Profile struct {
	ID        string
	Email     string
	Bio       string
	PhotoURL  string
	Phone     string
	UserName  string
	FirstName string
	LastName  string
	Category  IDSet
	Followers IDSet
	Following IDSet
	Gender    string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Version guards concurrent writes: a repository only accepts an update
	// carrying the stored version, then bumps it.
	Version int64
}

// ProfilePatch is a partial update. nil = keep the stored value.
// Identity and adjacency sets are absent: only the follow algorithm
// mutates Followers/Following.
type ProfilePatch struct {
	Email     *string
	Bio       *string
	PhotoURL  *string
	Phone     *string
	UserName  *string
	FirstName *string
	LastName  *string
	Gender    *string
	Category  []string // nil = keep
}

// RelationStatus describes both directions between the caller and another profile.
type RelationStatus struct {
	IsFollowing  bool
	IsFollowedBy bool
}

// Validate checks the required fields, in a fixed order.
func (p *Profile) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"id", p.ID},
		{"email", p.Email},
		{"userName", p.UserName},
		{"firstName", p.FirstName},
		{"lastName", p.LastName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return NewValidationError(EntityProfile, r.field, "", "Profile fields cannot be empty")
		}
	}
	return nil
}

// Apply overlays the non-nil fields of patch onto p.
func (p *Profile) Apply(patch ProfilePatch) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Email, patch.Email)
	set(&p.Bio, patch.Bio)
	set(&p.PhotoURL, patch.PhotoURL)
	set(&p.Phone, patch.Phone)
	set(&p.UserName, patch.UserName)
	set(&p.FirstName, patch.FirstName)
	set(&p.LastName, patch.LastName)
	set(&p.Gender, patch.Gender)
	if patch.Category != nil {
		p.Category = NewIDSet(patch.Category...)
	}
}

// Relation computes the status of p towards other.
func (p *Profile) Relation(other *Profile) RelationStatus {
	return RelationStatus{
		IsFollowing:  p.Following.Has(other.ID) || other.Followers.Has(p.ID),
		IsFollowedBy: p.Followers.Has(other.ID) || other.Following.Has(p.ID),
	}
}

// Clone returns a deep copy; repositories hand out copies, never shared sets.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.Category = p.Category.Clone()
	c.Followers = p.Followers.Clone()
	c.Following = p.Following.Clone()
	return &c
}

package interop_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DangKhoi2208/imago-core/internal/adapters/secondary/repository/memory"
	"github.com/DangKhoi2208/imago-core/internal/core/domain"
	"github.com/DangKhoi2208/imago-core/internal/core/interop"
	"github.com/DangKhoi2208/imago-core/internal/core/services"
)

// tokenVerifier maps a token to the subject of the same name.
type tokenVerifier struct {
	err error
}

func (v tokenVerifier) VerifyToken(_ context.Context, token string) (*domain.Identity, error) {
	if v.err != nil {
		return nil, v.err
	}
	if token == "" || token == "bad" {
		return nil, domain.NewAuthError("Invalid token", nil)
	}
	return &domain.Identity{SubjectID: token, Email: token + "@example.com"}, nil
}

// recorder implements both ports.FollowGraph and ports.EventPublisher.
type recorder struct {
	mu     sync.Mutex
	calls  []string
	failAt error
}

func (r *recorder) record(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
	return r.failAt
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) Link(_ context.Context, a, b string) error { return r.record("link " + a + "->" + b) }
func (r *recorder) Unlink(_ context.Context, a, b string) error { return r.record("unlink " + a + "->" + b) }

func (r *recorder) PublishFollowed(_ context.Context, a, b string) error {
	return r.record("followed " + a + "->" + b)
}

func (r *recorder) PublishUnfollowed(_ context.Context, a, b string) error {
	return r.record("unfollowed " + a + "->" + b)
}

func (r *recorder) PublishPostCreated(_ context.Context, p *domain.Post) error {
	return r.record("post.created " + p.ID)
}

func (r *recorder) PublishPostDeleted(_ context.Context, id string) error {
	return r.record("post.deleted " + id)
}

func (r *recorder) PublishCommentCreated(_ context.Context, c *domain.Comment) error {
	return r.record("comment.created " + c.ID)
}

var errBroker = errors.New("broker down")

func seedProfile(id string) *domain.Profile {
	return &domain.Profile{
		ID:        id,
		Email:     id + "@example.com",
		UserName:  id,
		FirstName: "First",
		LastName:  "Last",
	}
}

type profileFixture struct {
	repo    *memory.ProfileRepo
	events  *recorder
	interop *interop.ProfileInterop
}

func newProfileFixture(t *testing.T, ids ...string) *profileFixture {
	t.Helper()
	repo := memory.NewProfileRepo()
	for _, id := range ids {
		repo.Put(seedProfile(id))
	}
	events := &recorder{}
	return &profileFixture{
		repo:    repo,
		events:  events,
		interop: interop.NewProfileInterop(services.NewProfileService(repo), tokenVerifier{}, events, events),
	}
}

func (f *profileFixture) get(t *testing.T, id string) *domain.Profile {
	t.Helper()
	p, err := f.repo.Get(context.Background(), id)
	require.NoError(t, err)
	return p
}

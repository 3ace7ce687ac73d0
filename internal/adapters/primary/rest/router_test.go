package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DangKhoi2208/imago-core/internal/adapters/primary/rest"
	"github.com/DangKhoi2208/imago-core/internal/adapters/secondary/repository/memory"
	"github.com/DangKhoi2208/imago-core/internal/core/domain"
	"github.com/DangKhoi2208/imago-core/internal/core/interop"
	"github.com/DangKhoi2208/imago-core/internal/core/services"
)

// subjectVerifier accepts "Bearer <subject>" and rejects everything else.
type subjectVerifier struct{}

func (subjectVerifier) VerifyToken(_ context.Context, token string) (*domain.Identity, error) {
	const prefix = "Bearer "
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return nil, domain.NewAuthError("Invalid token", nil)
	}
	sub := token[len(prefix):]
	return &domain.Identity{SubjectID: sub, Email: sub + "@example.com"}, nil
}

type testServer struct {
	engine   *gin.Engine
	profiles *memory.ProfileRepo
}

func newTestServer() *testServer {
	gin.SetMode(gin.TestMode)
	profiles := memory.NewProfileRepo()
	comments := memory.NewCommentRepo()
	posts := memory.NewPostRepo(comments)
	h := rest.NewHandler(
		interop.NewProfileInterop(services.NewProfileService(profiles), subjectVerifier{}, nil, nil),
		interop.NewPostInterop(services.NewPostService(posts), subjectVerifier{}, nil),
		interop.NewCommentInterop(services.NewCommentService(comments, posts), subjectVerifier{}, nil),
	)
	return &testServer{engine: rest.NewRouter(h), profiles: profiles}
}

func (s *testServer) do(t *testing.T, method, target, subject string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if subject != "" {
		req.Header.Set("Authorization", "Bearer "+subject)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (s *testServer) createProfile(t *testing.T, subject string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/v1/profile", subject, rest.ProfileRequest{
		UserName: subject, FirstName: "First", LastName: "Last",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	s := newTestServer()
	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer()
	s.createProfile(t, "p1")

	tests := []struct {
		name    string
		method  string
		target  string
		subject string
		body    any
		status  int
		message string
	}{
		{"no token", http.MethodGet, "/v1/profile/mine", "", nil, http.StatusUnauthorized, "Invalid token"},
		{"missing profile", http.MethodGet, "/v1/profile?id=ghost", "p1", nil, http.StatusNotFound, "Profile not found"},
		{"duplicate profile", http.MethodPost, "/v1/profile", "p1",
			rest.ProfileRequest{UserName: "x", FirstName: "F", LastName: "L"}, http.StatusConflict, "Profile already exists"},
		{"invalid profile", http.MethodPost, "/v1/profile", "p2",
			rest.ProfileRequest{UserName: "x"}, http.StatusBadRequest, "Profile fields cannot be empty"},
		{"self follow", http.MethodPut, "/v1/profile/follow?id=p1&otherId=p1", "p1", nil, http.StatusConflict, "Cannot follow yourself"},
		{"empty post body", http.MethodPost, "/v1/post", "p1", "{}", http.StatusBadRequest, "Body is invalid"},
		{"malformed json", http.MethodPost, "/v1/comment", "p1", "{", http.StatusBadRequest, "Body is invalid"},
		{"bad page", http.MethodGet, "/v1/post/mine?page=-1&size=10", "p1", nil, http.StatusBadRequest, "Page cannot be negative"},
		{"missing size", http.MethodGet, "/v1/post/mine?page=0", "p1", nil, http.StatusBadRequest, "Post size must be a number"},
		{"huge size", http.MethodGet, "/v1/post/mine?page=0&size=1000000000000", "p1", nil, http.StatusBadRequest, "Size is too large"},
		{"huge page", http.MethodGet, "/v1/post/user?creatorId=p1&page=922337203685477580&size=100", "p1", nil, http.StatusBadRequest, "Page is too large"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.target, tt.subject, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decode[rest.ErrorResponse](t, rec)
			assert.Equal(t, tt.status, body.StatusCode)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestFollowFlow(t *testing.T) {
	s := newTestServer()
	s.createProfile(t, "p1")
	s.createProfile(t, "p2")

	rec := s.do(t, http.MethodPut, "/v1/profile/follow?id=p1&otherId=p2", "p1", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[rest.FollowResponse](t, rec).Changed)

	rec = s.do(t, http.MethodPut, "/v1/profile/follow?id=p1&otherId=p2", "p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[rest.FollowResponse](t, rec).Changed)

	rec = s.do(t, http.MethodGet, "/v1/profile/relation?otherId=p1", "p2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, rest.RelationResponse{IsFollowing: false, IsFollowedBy: true}, decode[rest.RelationResponse](t, rec))

	rec = s.do(t, http.MethodGet, "/v1/profile?id=p2", "p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"p1"}, decode[rest.ProfileResponse](t, rec).Followers)

	rec = s.do(t, http.MethodPut, "/v1/profile/follow?id=p2&otherId=p1", "p1", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "acting as someone else")
}

func TestProfilePatchKeepsAbsentFields(t *testing.T) {
	s := newTestServer()
	s.createProfile(t, "p1")

	rec := s.do(t, http.MethodPut, "/v1/profile", "p1", `{"bio":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p := decode[rest.ProfileResponse](t, rec)
	assert.Equal(t, "hello", p.Bio)
	assert.Equal(t, "p1", p.UserName)
	assert.Equal(t, "p1@example.com", p.Email)
}

func TestPostAndCommentFlow(t *testing.T) {
	s := newTestServer()

	rec := s.do(t, http.MethodPost, "/v1/post", "u1", rest.PostRequest{Content: "hello", CateID: []string{"art"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decode[rest.PostResponse](t, rec)
	assert.Equal(t, "u1", post.CreatorID)
	assert.Equal(t, []string{}, post.Hashtag)

	rec = s.do(t, http.MethodGet, "/v1/post/newfeeds?cateId=art&page=0&size=10", "u2", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decode[rest.PostPageResponse](t, rec)
	require.Len(t, page.Data, 1)
	assert.Equal(t, 0, page.EndPage)

	rec = s.do(t, http.MethodPost, "/v1/comment", "u2", rest.CommentRequest{Content: "nice", PostID: post.ID})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	comment := decode[rest.CommentResponse](t, rec)

	rec = s.do(t, http.MethodGet, "/v1/comment/post/"+post.ID, "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]rest.CommentResponse](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/v1/post?id="+post.ID, "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[rest.PostResponse](t, rec).Comments, 1)

	rec = s.do(t, http.MethodDelete, "/v1/comment/"+comment.ID, "u2", rest.CommentRequest{ID: "other"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/v1/comment/"+comment.ID, "u2", rest.CommentRequest{ID: comment.ID})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, "/v1/post?id="+post.ID, "u2", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodDelete, "/v1/post?id="+post.ID, "u1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/post?postId="+post.ID, "u1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

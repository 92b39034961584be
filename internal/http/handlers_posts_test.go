package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"github.com/reddyt-app/reddyt/internal/domain/model"
	apperrors "github.com/reddyt-app/reddyt/internal/errors"
)

func authedRequest(method, path, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-1"})
	return req
}

func TestPosts_List(t *testing.T) {
	f := newRouterFixture(t)
	f.seedAuthenticatedSession(t, "sess-1")

	now := time.Now()
	f.posts.EXPECT().List(gomock.Any(), 50, 0).Return([]*model.Post{
		{ID: 2, Title: "newer", Author: "sub-1", CreatedAt: now},
		{ID: 1, Title: "older", Author: "sub-1", CreatedAt: now.Add(-time.Hour)},
	}, nil)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/posts", ""))

	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0].Title)
}

func TestPosts_List_Pagination(t *testing.T) {
	f := newRouterFixture(t)
	f.seedAuthenticatedSession(t, "sess-1")

	f.posts.EXPECT().List(gomock.Any(), 10, 20).Return(nil, nil)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/posts?limit=10&offset=20", ""))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPosts_Create(t *testing.T) {
	f := newRouterFixture(t)
	f.seedAuthenticatedSession(t, "sess-1")

	f.posts.EXPECT().
		Create(gomock.Any(), &model.CreatePostRequest{Title: "hello", Content: "world", Author: "sub-1"}).
		Return(&model.Post{ID: 1, Title: "hello", Content: "world", Author: "sub-1"}, nil)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/posts",
		`{"title":"hello","content":"world"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":1`)
}

func TestPosts_Create_AuthorComesFromSession(t *testing.T) {
	f := newRouterFixture(t)
	f.seedAuthenticatedSession(t, "sess-1")

	// The author field is not part of the request body; a client cannot
	// post as somebody else.
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/posts",
		`{"title":"hello","content":"world","author":"somebody-else"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPosts_Create_ValidationError(t *testing.T) {
	f := newRouterFixture(t)
	f.seedAuthenticatedSession(t, "sess-1")

	f.posts.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.Validation("title is required"))

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/posts",
		`{"title":"","content":"world"}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")
}

func TestPosts_Get_WithComments(t *testing.T) {
	f := newRouterFixture(t)
	f.seedAuthenticatedSession(t, "sess-1")

	f.posts.EXPECT().GetByID(gomock.Any(), int64(7)).
		Return(&model.Post{ID: 7, Title: "t", Author: "sub-1"}, nil)
	f.comments.EXPECT().ListByPost(gomock.Any(), int64(7)).
		Return([]*model.Comment{{ID: 1, PostID: 7, Content: "first"}}, nil)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/posts/7", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"post"`)
	assert.Contains(t, rec.Body.String(), "first")
}

func TestPosts_Get_NotFound(t *testing.T) {
	f := newRouterFixture(t)
	f.seedAuthenticatedSession(t, "sess-1")

	f.posts.EXPECT().GetByID(gomock.Any(), int64(99)).
		Return(nil, apperrors.NotFoundf("post %d not found", 99))

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/posts/99", ""))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPosts_Get_BadID(t *testing.T) {
	f := newRouterFixture(t)
	f.seedAuthenticatedSession(t, "sess-1")

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/posts/banana", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPosts_AddComment(t *testing.T) {
	f := newRouterFixture(t)
	f.seedAuthenticatedSession(t, "sess-1")

	f.comments.EXPECT().
		Create(gomock.Any(), &model.CreateCommentRequest{PostID: 7, Content: "nice"}).
		Return(&model.Comment{ID: 3, PostID: 7, Content: "nice"}, nil)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/posts/7/comments",
		`{"content":"nice"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":3`)
}

func TestPosts_AddComment_MissingPost(t *testing.T) {
	f := newRouterFixture(t)
	f.seedAuthenticatedSession(t, "sess-1")

	f.comments.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, &apperrors.AppError{Code: apperrors.ErrCodeForeignKey, Message: "comments_post_id_fkey"})

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/posts/404/comments",
		`{"content":"orphan"}`))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIndex_ShowsUserAndPosts(t *testing.T) {
	f := newRouterFixture(t)
	f.seedAuthenticatedSession(t, "sess-1")

	f.posts.EXPECT().List(gomock.Any(), 50, 0).Return([]*model.Post{
		{ID: 1, Title: "welcome", Author: "sub-1"},
	}, nil)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ada@example.com")
	assert.Contains(t, rec.Body.String(), "welcome")
}

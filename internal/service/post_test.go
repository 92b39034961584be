package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"github.com/reddyt-app/reddyt/internal/domain/model"
	apperrors "github.com/reddyt-app/reddyt/internal/errors"
	"github.com/reddyt-app/reddyt/internal/mocks"
)

func newTestPostService(t *testing.T) (*PostService, *mocks.MockPostRepository, *mocks.MockCommentRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	posts := mocks.NewMockPostRepository(ctrl)
	comments := mocks.NewMockCommentRepository(ctrl)
	svc := NewPostService(PostServiceOptions{Posts: posts, Comments: comments})
	return svc, posts, comments
}

func TestPostService_CreatePost(t *testing.T) {
	svc, posts, _ := newTestPostService(t)

	req := &model.CreatePostRequest{Title: "hello", Content: "first post", Author: "u1"}
	created := &model.Post{ID: 1, Title: "hello", Content: "first post", Author: "u1", CreatedAt: time.Now()}

	posts.EXPECT().Create(gomock.Any(), req).Return(created, nil)

	post, err := svc.CreatePost(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, created, post)
}

func TestPostService_ListPosts(t *testing.T) {
	svc, posts, _ := newTestPostService(t)

	expected := []*model.Post{
		{ID: 2, Title: "newer"},
		{ID: 1, Title: "older"},
	}
	posts.EXPECT().List(gomock.Any(), 50, 0).Return(expected, nil)

	got, err := svc.ListPosts(context.Background(), 50, 0)
	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func TestPostService_GetPost_WithComments(t *testing.T) {
	svc, posts, comments := newTestPostService(t)

	post := &model.Post{ID: 7, Title: "t", Content: "c", Author: "u1"}
	thread := []*model.Comment{
		{ID: 1, PostID: 7, Content: "first"},
		{ID: 2, PostID: 7, Content: "second"},
	}
	posts.EXPECT().GetByID(gomock.Any(), int64(7)).Return(post, nil)
	comments.EXPECT().ListByPost(gomock.Any(), int64(7)).Return(thread, nil)

	got, err := svc.GetPost(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, post, got.Post)
	assert.Len(t, got.Comments, 2)
}

func TestPostService_GetPost_NotFound(t *testing.T) {
	svc, posts, _ := newTestPostService(t)

	posts.EXPECT().GetByID(gomock.Any(), int64(99)).
		Return(nil, apperrors.NotFoundf("post %d not found", 99))

	_, err := svc.GetPost(context.Background(), 99)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPostService_AddComment(t *testing.T) {
	svc, _, comments := newTestPostService(t)

	req := &model.CreateCommentRequest{PostID: 7, Content: "nice"}
	created := &model.Comment{ID: 3, PostID: 7, Content: "nice"}
	comments.EXPECT().Create(gomock.Any(), req).Return(created, nil)

	got, err := svc.AddComment(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestPostService_AddComment_MissingPost(t *testing.T) {
	svc, _, comments := newTestPostService(t)

	req := &model.CreateCommentRequest{PostID: 404, Content: "orphan"}
	comments.EXPECT().Create(gomock.Any(), req).
		Return(nil, &apperrors.AppError{Code: apperrors.ErrCodeForeignKey, Message: "comments_post_id_fkey"})

	_, err := svc.AddComment(context.Background(), req)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "post 404 not found")
}

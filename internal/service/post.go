package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reddyt-app/reddyt/internal/domain/model"
	apperrors "github.com/reddyt-app/reddyt/internal/errors"
	"github.com/reddyt-app/reddyt/internal/ports"
)

// PostServiceOptions groups dependencies for PostService.
type PostServiceOptions struct {
	Posts    ports.PostRepository
	Comments ports.CommentRepository
	Logger   *slog.Logger
}

// PostService handles forum posts and their comments.
type PostService struct {
	posts    ports.PostRepository
	comments ports.CommentRepository
	logger   *slog.Logger
}

// NewPostService constructs a new PostService.
func NewPostService(opts PostServiceOptions) *PostService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PostService{posts: opts.Posts, comments: opts.Comments, logger: logger}
}

// PostWithComments is a post together with its comment thread.
type PostWithComments struct {
	Post     *model.Post      `json:"post"`
	Comments []*model.Comment `json:"comments"`
}

// ListPosts returns posts newest first.
func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*model.Post, error) {
	return s.posts.List(ctx, limit, offset)
}

// CreatePost creates a post authored by the given subject.
func (s *PostService) CreatePost(ctx context.Context, req *model.CreatePostRequest) (*model.Post, error) {
	post, err := s.posts.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "post created", "post_id", post.ID, "author", post.Author)
	return post, nil
}

// GetPost returns a post with its comments.
func (s *PostService) GetPost(ctx context.Context, id int64) (*PostWithComments, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list comments for post %d: %w", id, err)
	}
	return &PostWithComments{Post: post, Comments: comments}, nil
}

// AddComment adds a comment to a post. A foreign-key failure on the post id
// is reported as NotFound so callers see a missing post, not a 5xx.
func (s *PostService) AddComment(ctx context.Context, req *model.CreateCommentRequest) (*model.Comment, error) {
	comment, err := s.comments.Create(ctx, req)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeForeignKey) {
			return nil, apperrors.NotFoundf("post %d not found", req.PostID)
		}
		return nil, err
	}
	return comment, nil
}

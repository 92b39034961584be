package ports

import (
	"context"

	"github.com/reddyt-app/reddyt/internal/domain/model"
)

// UserRepository persists local user records keyed by provider subject id.
type UserRepository interface {
	// CreateIfAbsent inserts the user unless a row with the same username
	// exists, and returns the stored row either way. Concurrent first logins
	// for the same subject are resolved by the primary key; the losing writer
	// receives the existing row, not an error.
	CreateIfAbsent(ctx context.Context, user *model.User) (*model.User, error)

	// GetByUsername returns the user or a NotFound AppError.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// PostRepository persists forum posts.
type PostRepository interface {
	Create(ctx context.Context, req *model.CreatePostRequest) (*model.Post, error)
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	List(ctx context.Context, limit, offset int) ([]*model.Post, error)
}

// CommentRepository persists comments on posts.
type CommentRepository interface {
	Create(ctx context.Context, req *model.CreateCommentRequest) (*model.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]*model.Comment, error)
}

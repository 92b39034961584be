package data

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/reddyt-app/reddyt/internal/data/pgxutil"
	"github.com/reddyt-app/reddyt/internal/domain/model"
	apperrors "github.com/reddyt-app/reddyt/internal/errors"
)

// CommentRepo provides database operations for comments.
type CommentRepo struct {
	DB *sql.DB
}

// NewCommentRepo creates a new CommentRepo.
func NewCommentRepo(db *sql.DB) *CommentRepo {
	return &CommentRepo{DB: db}
}

// Create inserts a new comment. A missing post surfaces as a ForeignKey
// AppError via MapDBError.
func (r *CommentRepo) Create(ctx context.Context, req *model.CreateCommentRequest) (*model.Comment, error) {
	if req == nil {
		return nil, apperrors.Validation("create comment request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out model.Comment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO comments (post_id, content)
			VALUES ($1, $2)
			RETURNING id, post_id, content, created_at
		`, req.PostID, req.Content)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Comment])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListByPost retrieves all comments on a post, oldest first.
func (r *CommentRepo) ListByPost(ctx context.Context, postID int64) ([]*model.Comment, error) {
	var rowsOut []model.Comment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, post_id, content, created_at
			FROM comments
			WHERE post_id = $1
			ORDER BY created_at ASC, id ASC
		`, postID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Comment])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}

	out := make([]*model.Comment, len(rowsOut))
	for i := range rowsOut {
		out[i] = &rowsOut[i]
	}
	return out, nil
}

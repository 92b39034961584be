package data

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/reddyt-app/reddyt/internal/data/pgxutil"
	"github.com/reddyt-app/reddyt/internal/domain/model"
	apperrors "github.com/reddyt-app/reddyt/internal/errors"
)

const defaultPostListLimit = 50

// PostRepo provides database operations for posts.
type PostRepo struct {
	DB *sql.DB
}

// NewPostRepo creates a new PostRepo.
func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{DB: db}
}

// Create inserts a new post. A missing author row surfaces as a ForeignKey
// AppError via MapDBError.
func (r *PostRepo) Create(ctx context.Context, req *model.CreatePostRequest) (*model.Post, error) {
	if req == nil {
		return nil, apperrors.Validation("create post request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	var out model.Post
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO posts (title, content, author)
			VALUES ($1, $2, $3)
			RETURNING id, title, content, author, created_at
		`, req.Title, req.Content, req.Author)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Post])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a post by ID.
func (r *PostRepo) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var out model.Post
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, title, content, author, created_at
			FROM posts
			WHERE id = $1
		`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Post])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves posts newest first with pagination.
func (r *PostRepo) List(ctx context.Context, limit, offset int) ([]*model.Post, error) {
	if limit <= 0 {
		limit = defaultPostListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.Post
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, title, content, author, created_at
			FROM posts
			ORDER BY created_at DESC, id DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Post])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}

	out := make([]*model.Post, len(rowsOut))
	for i := range rowsOut {
		out[i] = &rowsOut[i]
	}
	return out, nil
}
